package events

import (
	"encoding/json"
	"fmt"

	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/session"
)

// Event types
const (
	TypeState        = "state"
	TypeMatchStarted = "match_started"
	TypeMoveApplied  = "move_applied"
	TypeMatchEnded   = "match_ended"
	TypeRejected     = "rejected"
)

// Event represents a message fanned out to every connected client.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// New marshals payload into an event of the given type.
func New(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: data}, nil
}

// MatchStartedPayload is the payload for the "match_started" event.
type MatchStartedPayload struct {
	MatchNumber int             `json:"match"`
	Difficulty  game.Difficulty `json:"difficulty"`
	Starter     game.PlayerMark `json:"starter"`
}

// MoveAppliedPayload is the payload for the "move_applied" event.
type MoveAppliedPayload struct {
	MatchNumber int             `json:"match"`
	Index       int             `json:"index"`
	Mark        game.PlayerMark `json:"mark"`
	AIMove      int             `json:"ai_move"`
}

// MatchEndedPayload is the payload for the "match_ended" event.
type MatchEndedPayload struct {
	MatchNumber int           `json:"match"`
	Outcome     game.Outcome  `json:"outcome"`
	Tally       session.Tally `json:"tally"`
}
