package hub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"ctchen222/tictactoe-engine/internal/events"
	"ctchen222/tictactoe-engine/internal/player"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const broadcastBuffer = 64

var tracer = otel.Tracer("hub")

// ErrHubStopped is returned when the hub's run loop has exited.
var ErrHubStopped = errors.New("hub stopped")

type directMessage struct {
	ctx      context.Context
	playerID string
	event    events.Event
}

// Hub manages all connected clients and owns every write to their connections.
type Hub struct {
	clients    map[string]*player.Player
	register   chan *player.Player
	unregister chan *player.Player
	broadcast  chan events.Event
	direct     chan directMessage
	done       chan struct{}
	logger     *slog.Logger
}

// NewHub creates a new hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[string]*player.Player),
		register:   make(chan *player.Player),
		unregister: make(chan *player.Player),
		broadcast:  make(chan events.Event, broadcastBuffer),
		direct:     make(chan directMessage),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub. It returns when ctx is cancelled, closing every client connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	h.logger.InfoContext(ctx, "Hub started")

	for {
		select {
		case <-ctx.Done():
			for id := range h.clients {
				h.drop(ctx, id)
			}
			h.logger.InfoContext(ctx, "Hub stopped")
			return

		case p := <-h.register:
			if old, ok := h.clients[p.ID]; ok && old != p {
				h.drop(ctx, p.ID)
			}
			h.clients[p.ID] = p
			h.logger.InfoContext(ctx, "Client registered", "player.id", p.ID, "clients.count", len(h.clients))

		case p := <-h.unregister:
			// A replaced connection must not evict the one that took its ID
			if current, ok := h.clients[p.ID]; ok && current == p {
				h.drop(ctx, p.ID)
				h.logger.InfoContext(ctx, "Client unregistered", "player.id", p.ID, "clients.count", len(h.clients))
			}

		case event := <-h.broadcast:
			h.broadcastEvent(ctx, event)

		case msg := <-h.direct:
			h.sendEvent(msg.ctx, msg.playerID, msg.event)
		}
	}
}

// Register adds p to the set of clients receiving events.
func (h *Hub) Register(ctx context.Context, p *player.Player) error {
	select {
	case h.register <- p:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unregister removes p and closes its connection. It does nothing once p has
// been replaced by a newer connection registered under the same ID.
func (h *Hub) Unregister(ctx context.Context, p *player.Player) error {
	select {
	case h.unregister <- p:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Publish queues event for every client. It never blocks: when the queue is
// full the event is dropped and a warning logged.
func (h *Hub) Publish(ctx context.Context, event events.Event) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.WarnContext(ctx, "Broadcast queue full, dropping event", "event.type", event.Type)
	}
}

// Send delivers event to a single client.
func (h *Hub) Send(ctx context.Context, playerID string, event events.Event) error {
	select {
	case h.direct <- directMessage{ctx: ctx, playerID: playerID, event: event}:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) broadcastEvent(ctx context.Context, event events.Event) {
	ctx, span := tracer.Start(ctx, "hub.broadcast", trace.WithAttributes(
		attribute.String("event.type", event.Type),
		attribute.Int("clients.count", len(h.clients)),
	))
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshalling event", "event.type", event.Type, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling event")
		return
	}

	for id, p := range h.clients {
		if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.WarnContext(ctx, "Error writing to client, dropping it", "player.id", id, "error", err)
			span.RecordError(err)
			h.drop(ctx, id)
		}
	}
}

func (h *Hub) sendEvent(ctx context.Context, playerID string, event events.Event) {
	ctx, span := tracer.Start(ctx, "hub.send", trace.WithAttributes(
		attribute.String("event.type", event.Type),
		attribute.String("player.id", playerID),
	))
	defer span.End()

	p, ok := h.clients[playerID]
	if !ok {
		h.logger.DebugContext(ctx, "Send to unknown client", "player.id", playerID)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshalling event", "event.type", event.Type, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling event")
		return
	}

	if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.WarnContext(ctx, "Error writing to client, dropping it", "player.id", playerID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error writing to client")
		h.drop(ctx, playerID)
	}
}

// drop removes a client and closes its connection. Deleting during a range over clients is safe.
func (h *Hub) drop(ctx context.Context, playerID string) {
	p, ok := h.clients[playerID]
	if !ok {
		return
	}
	delete(h.clients, playerID)
	if err := p.Conn.Close(); err != nil {
		h.logger.DebugContext(ctx, "Error closing client connection", "player.id", playerID, "error", err)
	}
}
