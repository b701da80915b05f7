package game

import (
	"fmt"
	"strings"
)

// Difficulty selects whether a match has an AI opponent and how it plays.
type Difficulty string

const (
	DifficultyLocal  Difficulty = "local"
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// AIMark is the mark played by the AI opponent.
const AIMark = PlayerO

// ParseDifficulty maps a user supplied name to a Difficulty. "medium" is accepted for normal.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local":
		return DifficultyLocal, nil
	case "easy":
		return DifficultyEasy, nil
	case "normal", "medium":
		return DifficultyNormal, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyLocal, DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return false
}

// HasAI reports whether matches at this difficulty are played against the AI.
func (d Difficulty) HasAI() bool {
	return d.Valid() && d != DifficultyLocal
}
