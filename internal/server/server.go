package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"ctchen222/tictactoe-engine/internal/api/controller"
	"ctchen222/tictactoe-engine/internal/events"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/hub"
	"ctchen222/tictactoe-engine/internal/player"
	"ctchen222/tictactoe-engine/internal/room"
	"ctchen222/tictactoe-engine/internal/validator"
	"ctchen222/tictactoe-engine/pkg/proto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

type Server struct {
	engine   *gin.Engine
	hub      *hub.Hub
	room     *room.Room
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewServer wires the HTTP API, the websocket endpoint and, when webDir is
// set, the static client onto a gin engine.
func NewServer(h *hub.Hub, r *room.Room, gc *controller.GameController, webDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine: gin.New(),
		hub:    h,
		room:   r,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())

	api := s.engine.Group("/api")
	api.GET("/state", gc.State)
	api.POST("/match", gc.StartMatch)
	api.POST("/move", gc.Move)

	s.engine.GET("/ws", s.handleWebSocket)

	if webDir != "" {
		s.engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(webDir))))
	}
	return s
}

// Engine returns the gin engine serving every route.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.DebugContext(c.Request.Context(), "HTTP request",
			"http.method", c.Request.Method,
			"http.path", c.Request.URL.Path,
			"http.status", c.Writer.Status(),
			"http.duration", time.Since(start),
		)
	}
}

// handleWebSocket upgrades the connection, sends the current state and then
// reads client messages until the connection drops.
func (s *Server) handleWebSocket(c *gin.Context) {
	// The request context ends with the handler, the connection outlives it
	ctx, span := tracer.Start(context.WithoutCancel(c.Request.Context()), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	// Get playerID from URL, or generate a new one.
	playerID := c.Query("playerId")
	if playerID == "" {
		playerID = uuid.New().String()
	}
	span.SetAttributes(attribute.String("player.id", playerID))
	p := player.NewPlayer(playerID, conn)

	// The hub owns writes once the client is registered, so the first state goes out before that
	if err := s.writeState(ctx, p); err != nil {
		s.logger.WarnContext(ctx, "Failed to send initial state", "player.id", playerID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send initial state")
		conn.Close()
		return
	}
	if err := s.hub.Register(ctx, p); err != nil {
		s.logger.WarnContext(ctx, "Failed to register client", "player.id", playerID, "error", err)
		conn.Close()
		return
	}

	s.readPump(ctx, p)
}

func (s *Server) writeState(ctx context.Context, p *player.Player) error {
	reply, err := s.room.State(ctx)
	if err != nil {
		return err
	}
	event, err := s.room.StateEvent(reply.Snapshot)
	if err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Conn.WriteMessage(websocket.TextMessage, data)
}

// readPump pumps messages from the websocket connection into the room.
func (s *Server) readPump(ctx context.Context, p *player.Player) {
	defer func() {
		if err := s.hub.Unregister(ctx, p); err != nil {
			p.Conn.Close()
		}
		s.logger.InfoContext(ctx, "Player disconnected", "player.id", p.ID)
	}()

	for {
		_, data, err := p.Conn.ReadMessage()
		if err != nil {
			s.logger.DebugContext(ctx, "Player connection closed", "player.id", p.ID, "error", err)
			return
		}

		var msg proto.ClientToServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.reject(ctx, p, err)
			continue
		}
		if err := validator.Validate(msg); err != nil {
			s.reject(ctx, p, err)
			continue
		}

		if err := s.handleMessage(ctx, p, msg); err != nil {
			s.logger.WarnContext(ctx, "Room unavailable, closing connection", "player.id", p.ID, "error", err)
			return
		}
	}
}

// handleMessage forwards one client message to the room. Rejections go back to
// the sender only. The returned error means the room is gone.
func (s *Server) handleMessage(ctx context.Context, p *player.Player, msg proto.ClientToServerMessage) error {
	ctx, span := tracer.Start(ctx, "server.handleMessage", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("message.type", msg.Type),
	))
	defer span.End()

	var (
		reply room.Reply
		err   error
	)
	switch msg.Type {
	case proto.TypeMove:
		reply, err = s.room.Move(ctx, msg.Mark, *msg.Index)

	case proto.TypeRestart:
		var difficulty game.Difficulty
		if msg.Difficulty == "" {
			reply, err = s.room.State(ctx)
			if err != nil {
				break
			}
			difficulty = reply.Snapshot.Difficulty
		} else if difficulty, err = game.ParseDifficulty(msg.Difficulty); err != nil {
			s.reject(ctx, p, err)
			return nil
		}
		reply, err = s.room.Restart(ctx, difficulty)

	case proto.TypeState:
		reply, err = s.room.State(ctx)
		if err != nil {
			break
		}
		event, eventErr := s.room.StateEvent(reply.Snapshot)
		if eventErr != nil {
			s.logger.ErrorContext(ctx, "Failed to build state event", "error", eventErr)
			return nil
		}
		return s.hub.Send(ctx, p.ID, event)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Room request failed")
		return err
	}
	if reply.Err != nil {
		span.RecordError(reply.Err)
		s.reject(ctx, p, reply.Err)
	}
	return nil
}

func (s *Server) reject(ctx context.Context, p *player.Player, reason error) {
	event, err := events.New(events.TypeRejected, proto.NewRejectedMessage(reason))
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build rejection", "error", err)
		return
	}
	if err := s.hub.Send(ctx, p.ID, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to send rejection", "player.id", p.ID, "error", err)
	}
}
