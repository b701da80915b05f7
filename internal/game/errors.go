package game

import "errors"

var (
	// ErrInvalidMove is returned for every rejected move. It wraps the specific reason below.
	ErrInvalidMove = errors.New("invalid move")
	// ErrInvalidState marks a request the engine can never satisfy, such as asking the AI to move on a full board.
	ErrInvalidState = errors.New("invalid state")

	ErrOutOfRange      = errors.New("cell index out of range")
	ErrCellOccupied    = errors.New("cell already occupied")
	ErrNotAwaitingMove = errors.New("match is not awaiting a move")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrEmptyMark       = errors.New("mark must be X or O")

	ErrUnknownDifficulty = errors.New("unknown difficulty")
)
