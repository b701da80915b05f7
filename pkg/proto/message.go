package proto

import (
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/match"
	"ctchen222/tictactoe-engine/internal/session"
)

// Client message types
const (
	TypeMove    = "move"
	TypeRestart = "restart"
	TypeState   = "state"
)

// TypeRejected is sent back to a client whose request was refused.
const TypeRejected = "rejected"

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type       string          `json:"type" validate:"required,oneof=move restart state"`
	Index      *int            `json:"index,omitempty" validate:"required_if=Type move"`
	Mark       game.PlayerMark `json:"mark,omitempty" validate:"omitempty,oneof=X O"`
	Difficulty string          `json:"difficulty,omitempty" validate:"omitempty,oneof=local easy normal medium hard"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type       string              `json:"type" validate:"required"`
	Reason     string              `json:"reason,omitempty"`
	SessionID  string              `json:"session_id,omitempty"`
	Board      [][]game.PlayerMark `json:"board,omitempty"`
	Next       game.PlayerMark     `json:"next,omitempty"`
	State      match.State         `json:"state,omitempty"`
	Difficulty game.Difficulty     `json:"difficulty,omitempty"`
	Tally      *session.Tally      `json:"tally,omitempty"`
	Outcome    *game.Outcome       `json:"outcome,omitempty"`
	Match      int                 `json:"match,omitempty"`
}

// NewStateMessage renders a snapshot for the client.
func NewStateMessage(sessionID string, snap match.Snapshot) *ServerToClientMessage {
	tally := snap.Tally
	return &ServerToClientMessage{
		Type:       TypeState,
		SessionID:  sessionID,
		Board:      snap.Board.Rows(),
		Next:       snap.Turn,
		State:      snap.State,
		Difficulty: snap.Difficulty,
		Tally:      &tally,
		Outcome:    snap.Outcome,
		Match:      snap.MatchNumber,
	}
}

// NewRejectedMessage tells a client why its request was refused.
func NewRejectedMessage(reason error) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeRejected, Reason: reason.Error()}
}
