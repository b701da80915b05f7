package bot

import (
	"fmt"

	"ctchen222/tictactoe-engine/internal/game"
)

// CalculateNextMove determines the bot's next move based on the specified difficulty.
// Ties between equally good cells go to the lowest index.
func CalculateNextMove(rng Randomizer, board game.Board, botMark game.PlayerMark, difficulty game.Difficulty) (int, error) {
	if !botMark.IsPlayer() {
		return -1, fmt.Errorf("%w: bot mark %q", game.ErrInvalidState, botMark)
	}
	if board.IsFull() {
		return -1, fmt.Errorf("%w: no empty cell left", game.ErrInvalidState)
	}

	switch difficulty {
	case game.DifficultyEasy:
		return easyMove(rng, board, botMark), nil
	case game.DifficultyNormal:
		return normalMove(rng, board, botMark), nil
	case game.DifficultyHard:
		return hardMove(rng, board, botMark), nil
	default:
		return -1, fmt.Errorf("%w: no bot plays difficulty %q", game.ErrInvalidState, difficulty)
	}
}

// easyMove takes a win when one is on the board, otherwise moves randomly.
func easyMove(rng Randomizer, board game.Board, botMark game.PlayerMark) int {
	if board.IsEmpty() {
		// Half the openings go to the center, the rest anywhere
		if rng.IntN(2) == 0 {
			return game.CenterCell
		}
		return rng.IntN(game.BoardSize)
	}

	if index, ok := findWinningMove(board, botMark); ok {
		return index
	}
	return randomMove(rng, board)
}

// normalMove blocks the opponent's win but never attacks.
func normalMove(rng Randomizer, board game.Board, botMark game.PlayerMark) int {
	if board.IsEmpty() {
		return game.CenterCell
	}

	if index, ok := findWinningMove(board, botMark.Opponent()); ok {
		return index
	}
	return randomMove(rng, board)
}

// hardMove wins if it can, blocks if it must, otherwise moves randomly.
// It does not look for forks.
func hardMove(rng Randomizer, board game.Board, botMark game.PlayerMark) int {
	if board.IsEmpty() {
		return game.CenterCell
	}

	// 1. Win
	if index, ok := findWinningMove(board, botMark); ok {
		return index
	}

	// 2. Block
	if index, ok := findWinningMove(board, botMark.Opponent()); ok {
		return index
	}

	// 3. Random
	return randomMove(rng, board)
}

// findWinningMove returns the first empty cell, in index order, that completes a line for mark.
func findWinningMove(board game.Board, mark game.PlayerMark) (int, bool) {
	for index := range game.BoardSize {
		if board[index] != game.None {
			continue
		}
		probe := board
		probe[index] = mark
		if game.CheckWin(probe, mark) {
			return index, true
		}
	}
	return -1, false
}

func randomMove(rng Randomizer, board game.Board) int {
	cells := board.EmptyCells()
	return cells[rng.IntN(len(cells))]
}
