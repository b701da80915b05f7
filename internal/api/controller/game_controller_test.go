package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/match"
	"ctchen222/tictactoe-engine/internal/room"
	"ctchen222/tictactoe-engine/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Extras  json.RawMessage `json:"extras"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	s := session.New(nil)
	r := room.NewRoom(s.ID(), match.NewController(s, nil, nil), nil, nil)
	go r.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-r.Done
	})

	gc := NewGameController(r, s.ID())
	router := gin.New()
	api := router.Group("/api")
	api.GET("/state", gc.State)
	api.POST("/match", gc.StartMatch)
	api.POST("/move", gc.Move)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestGameController_State(t *testing.T) {
	router := setupRouter(t)

	w, env := doRequest(t, router, http.MethodGet, "/api/state", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	var state struct {
		Board []game.PlayerMark `json:"board"`
		Turn  game.PlayerMark   `json:"turn"`
		State match.State       `json:"state"`
		Match int               `json:"match"`
	}
	require.NoError(t, json.Unmarshal(env.Extras, &state))
	assert.Len(t, state.Board, game.BoardSize)
	assert.Equal(t, game.PlayerX, state.Turn)
	assert.Equal(t, match.AwaitingMove, state.State)
	assert.Equal(t, 1, state.Match)
}

func TestGameController_Move(t *testing.T) {
	tests := []struct {
		name     string
		setup    []string
		body     string
		wantCode int
	}{
		{name: "Accepted", body: `{"index":4}`, wantCode: http.StatusOK},
		{name: "Accepted with mark", body: `{"index":0,"mark":"X"}`, wantCode: http.StatusOK},
		{name: "Occupied cell", setup: []string{`{"index":4}`}, body: `{"index":4}`, wantCode: http.StatusConflict},
		{name: "Out of range", body: `{"index":9}`, wantCode: http.StatusConflict},
		{name: "Wrong mark", body: `{"index":0,"mark":"O"}`, wantCode: http.StatusConflict},
		{name: "Missing index", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "Unknown mark", body: `{"index":0,"mark":"Z"}`, wantCode: http.StatusBadRequest},
		{name: "Malformed body", body: `{"index":`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			router := setupRouter(t)
			for _, body := range tt.setup {
				w, _ := doRequest(t, router, http.MethodPost, "/api/move", body)
				require.Equal(t, http.StatusOK, w.Code)
			}

			// When
			w, env := doRequest(t, router, http.MethodPost, "/api/move", tt.body)

			// Then
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantCode, env.Code)
			assert.Equal(t, tt.wantCode == http.StatusOK, env.Success)
		})
	}
}

func TestGameController_MoveEndsMatch(t *testing.T) {
	router := setupRouter(t)
	for _, index := range []string{"0", "3", "1", "4"} {
		w, _ := doRequest(t, router, http.MethodPost, "/api/move", `{"index":`+index+`}`)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, env := doRequest(t, router, http.MethodPost, "/api/move", `{"index":2}`)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Result match.MoveResult `json:"result"`
		State  struct {
			Tally session.Tally   `json:"tally"`
			Turn  game.PlayerMark `json:"turn"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal(env.Extras, &body))
	assert.Equal(t, match.ResultMatchEnded, body.Result.Kind)
	require.NotNil(t, body.Result.Outcome)
	assert.Equal(t, game.PlayerX, body.Result.Outcome.Winner)
	assert.Equal(t, session.Tally{XWins: 1}, body.State.Tally)
	assert.Equal(t, game.PlayerO, body.State.Turn)
}

func TestGameController_StartMatch(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		want     game.Difficulty
	}{
		{name: "Hard", body: `{"difficulty":"hard"}`, wantCode: http.StatusOK, want: game.DifficultyHard},
		{name: "Medium is normal", body: `{"difficulty":"medium"}`, wantCode: http.StatusOK, want: game.DifficultyNormal},
		{name: "Local", body: `{"difficulty":"local"}`, wantCode: http.StatusOK, want: game.DifficultyLocal},
		{name: "Unknown", body: `{"difficulty":"impossible"}`, wantCode: http.StatusBadRequest},
		{name: "Missing", body: `{}`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(t)

			w, env := doRequest(t, router, http.MethodPost, "/api/match", tt.body)

			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusOK {
				return
			}
			var state struct {
				Difficulty game.Difficulty `json:"difficulty"`
			}
			require.NoError(t, json.Unmarshal(env.Extras, &state))
			assert.Equal(t, tt.want, state.Difficulty)
		})
	}
}
