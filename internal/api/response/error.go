package response

import (
	"errors"
	"net/http"

	"ctchen222/tictactoe-engine/internal/game"
)

// StatusFor maps an engine error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidMove):
		return http.StatusConflict
	case errors.Is(err, game.ErrUnknownDifficulty):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrInvalidState):
		return http.StatusInternalServerError
	default:
		return http.StatusServiceUnavailable
	}
}
