package models

import (
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/match"
	"ctchen222/tictactoe-engine/internal/session"
)

// MoveRequest defines the structure for a move request. Without a mark the
// move is played for whoever's turn it is.
type MoveRequest struct {
	Index *int   `json:"index" binding:"required"`
	Mark  string `json:"mark" binding:"omitempty,oneof=X O"`
}

// StartMatchRequest defines the structure for a new match request.
type StartMatchRequest struct {
	Difficulty string `json:"difficulty" binding:"required,oneof=local easy normal medium hard"`
}

// StateResponse is the rendered state of the room.
type StateResponse struct {
	SessionID   string              `json:"session_id"`
	Board       game.Board          `json:"board"`
	Rows        [][]game.PlayerMark `json:"rows"`
	Turn        game.PlayerMark     `json:"turn"`
	State       match.State         `json:"state"`
	Difficulty  game.Difficulty     `json:"difficulty"`
	Tally       session.Tally       `json:"tally"`
	MatchNumber int                 `json:"match"`
	Outcome     *game.Outcome       `json:"outcome,omitempty"`
}

// MoveResponse reports the result of a move along with the new state.
type MoveResponse struct {
	Result match.MoveResult `json:"result"`
	State  StateResponse    `json:"state"`
}

// NewStateResponse builds a StateResponse from a snapshot.
func NewStateResponse(sessionID string, snap match.Snapshot) StateResponse {
	return StateResponse{
		SessionID:   sessionID,
		Board:       snap.Board,
		Rows:        snap.Board.Rows(),
		Turn:        snap.Turn,
		State:       snap.State,
		Difficulty:  snap.Difficulty,
		Tally:       snap.Tally,
		MatchNumber: snap.MatchNumber,
		Outcome:     snap.Outcome,
	}
}
