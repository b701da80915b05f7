package controller

import (
	"context"
	"net/http"

	"ctchen222/tictactoe-engine/internal/api/models"
	"ctchen222/tictactoe-engine/internal/api/response"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/room"

	"github.com/gin-gonic/gin"
)

// Room is the part of room.Room the HTTP API drives.
type Room interface {
	Move(ctx context.Context, mark game.PlayerMark, index int) (room.Reply, error)
	Restart(ctx context.Context, difficulty game.Difficulty) (room.Reply, error)
	State(ctx context.Context) (room.Reply, error)
}

// GameController handles match-related HTTP requests.
type GameController struct {
	room      Room
	sessionID string
}

// NewGameController creates a new GameController.
func NewGameController(r Room, sessionID string) *GameController {
	return &GameController{
		room:      r,
		sessionID: sessionID,
	}
}

// State handles GET /api/state.
func (gc *GameController) State(c *gin.Context) {
	reply, err := gc.room.State(c.Request.Context())
	if err != nil {
		response.ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
		return
	}

	response.SuccessResponse(c, models.NewStateResponse(gc.sessionID, reply.Snapshot))
}

// StartMatch handles POST /api/match.
func (gc *GameController) StartMatch(c *gin.Context) {
	var req models.StartMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	difficulty, err := game.ParseDifficulty(req.Difficulty)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := gc.room.Restart(c.Request.Context(), difficulty)
	if err != nil {
		response.ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	if reply.Err != nil {
		response.RejectedResponse(c, reply.Err, models.NewStateResponse(gc.sessionID, reply.Snapshot))
		return
	}

	response.SuccessResponse(c, models.NewStateResponse(gc.sessionID, reply.Snapshot))
}

// Move handles POST /api/move. Rejected moves answer 409 with the unchanged state.
func (gc *GameController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := gc.room.Move(c.Request.Context(), game.PlayerMark(req.Mark), *req.Index)
	if err != nil {
		response.ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
		return
	}

	state := models.NewStateResponse(gc.sessionID, reply.Snapshot)
	if reply.Err != nil {
		response.RejectedResponse(c, reply.Err, state)
		return
	}

	response.SuccessResponse(c, models.MoveResponse{Result: *reply.Result, State: state})
}
