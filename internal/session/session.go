package session

import (
	"log/slog"
	"sync"

	"ctchen222/tictactoe-engine/internal/game"

	"github.com/google/uuid"
)

// Tally holds the cumulative win counts of a session.
type Tally struct {
	XWins int `json:"x_wins"`
	OWins int `json:"o_wins"`
}

// Session owns the tally for the lifetime of the process. It is never reset.
type Session struct {
	id     string
	mu     sync.RWMutex
	tally  Tally
	logger *slog.Logger
}

// New creates a session with an empty tally.
func New(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New().String()
	return &Session{
		id:     id,
		logger: logger.With("session.id", id),
	}
}

func (s *Session) ID() string {
	return s.id
}

// RecordResult credits the winner of outcome. Draws leave the tally unchanged.
func (s *Session) RecordResult(outcome game.Outcome) {
	if outcome.Draw {
		s.logger.Info("Match drawn, tally unchanged")
		return
	}

	s.mu.Lock()
	switch outcome.Winner {
	case game.PlayerX:
		s.tally.XWins++
	case game.PlayerO:
		s.tally.OWins++
	default:
		s.mu.Unlock()
		s.logger.Warn("Ignoring result without a winner", "outcome", outcome)
		return
	}
	tally := s.tally
	s.mu.Unlock()

	s.logger.Info("Result recorded",
		"match.winner", outcome.Winner,
		"tally.x_wins", tally.XWins,
		"tally.o_wins", tally.OWins,
	)
}

// Tally returns a copy of the current counts.
func (s *Session) Tally() Tally {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tally
}
