package room

import (
	"context"
	"errors"
	"log/slog"

	"ctchen222/tictactoe-engine/internal/events"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/match"
	"ctchen222/tictactoe-engine/pkg/proto"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("room")

// ErrRoomClosed is returned for requests made after the room stopped.
var ErrRoomClosed = errors.New("room closed")

// Publisher fans events out to connected clients.
type Publisher interface {
	Publish(ctx context.Context, event events.Event)
}

type requestKind string

const (
	requestMove    requestKind = "move"
	requestRestart requestKind = "restart"
	requestState   requestKind = "state"
)

type request struct {
	ctx        context.Context
	kind       requestKind
	mark       game.PlayerMark
	index      int
	difficulty game.Difficulty
	reply      chan Reply
}

// Reply is the answer to a room request.
type Reply struct {
	Snapshot match.Snapshot
	// Result is set for move requests only.
	Result *match.MoveResult
	Err    error
}

// Room serializes every trigger for one match controller: each request runs
// to completion before the next one is read.
type Room struct {
	ID         string
	controller *match.Controller
	publisher  Publisher
	requests   chan request
	pendingEnd *game.Outcome
	Done       chan struct{}
	logger     *slog.Logger
}

// NewRoom creates a new game room around controller.
func NewRoom(id string, controller *match.Controller, publisher Publisher, logger *slog.Logger) *Room {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Room{
		ID:         id,
		controller: controller,
		publisher:  publisher,
		requests:   make(chan request),
		Done:       make(chan struct{}),
		logger:     logger.With("room.id", id),
	}
	controller.OnMatchEnded(func(outcome game.Outcome) {
		r.pendingEnd = &outcome
	})
	return r
}

// Run is the room's request loop. It returns when ctx is cancelled.
func (r *Room) Run(ctx context.Context) {
	defer close(r.Done)
	r.logger.InfoContext(ctx, "Room started")

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "Room run goroutine stopping.")
			return
		case req := <-r.requests:
			req.reply <- r.handle(req)
		}
	}
}

// Move applies a move for mark at index. An empty mark plays whoever's turn it is.
func (r *Room) Move(ctx context.Context, mark game.PlayerMark, index int) (Reply, error) {
	return r.do(ctx, request{kind: requestMove, mark: mark, index: index})
}

// Restart begins a new match at difficulty.
func (r *Room) Restart(ctx context.Context, difficulty game.Difficulty) (Reply, error) {
	return r.do(ctx, request{kind: requestRestart, difficulty: difficulty})
}

// State returns the current snapshot.
func (r *Room) State(ctx context.Context) (Reply, error) {
	return r.do(ctx, request{kind: requestState})
}

func (r *Room) do(ctx context.Context, req request) (Reply, error) {
	req.ctx = ctx
	req.reply = make(chan Reply, 1)

	select {
	case r.requests <- req:
	case <-r.Done:
		return Reply{}, ErrRoomClosed
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}

	select {
	case reply := <-req.reply:
		return reply, nil
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
}

func (r *Room) handle(req request) Reply {
	ctx, span := tracer.Start(req.ctx, "room.handle", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.String("room.request", string(req.kind)),
	))
	defer span.End()

	switch req.kind {
	case requestMove:
		return r.handleMove(ctx, span, req)
	case requestRestart:
		return r.handleRestart(ctx, span, req)
	default:
		return Reply{Snapshot: r.controller.Snapshot()}
	}
}

func (r *Room) handleMove(ctx context.Context, span trace.Span, req request) Reply {
	var result match.MoveResult
	if req.mark == game.None {
		result = r.controller.ApplyMove(ctx, req.index)
	} else {
		result = r.controller.ApplyMoveAs(ctx, req.mark, req.index)
	}

	snap := r.controller.Snapshot()
	if result.Kind == match.ResultRejected {
		span.RecordError(result.Reason)
		span.SetStatus(codes.Error, "Move rejected")
		return Reply{Snapshot: snap, Result: &result, Err: result.Reason}
	}

	r.publish(ctx, events.TypeMoveApplied, events.MoveAppliedPayload{
		MatchNumber: snap.MatchNumber,
		Index:       result.Index,
		Mark:        result.Mark,
		AIMove:      result.AIMove,
	})
	r.flushMatchEnded(ctx, snap)
	r.publishState(ctx, snap)
	return Reply{Snapshot: snap, Result: &result}
}

func (r *Room) handleRestart(ctx context.Context, span trace.Span, req request) Reply {
	if err := r.controller.StartMatch(ctx, req.difficulty); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to start match")
		return Reply{Snapshot: r.controller.Snapshot(), Err: err}
	}

	snap := r.controller.Snapshot()
	starter := snap.Turn
	if !snap.Board.IsEmpty() {
		// The AI already opened
		starter = game.AIMark
	}
	r.publish(ctx, events.TypeMatchStarted, events.MatchStartedPayload{
		MatchNumber: snap.MatchNumber,
		Difficulty:  snap.Difficulty,
		Starter:     starter,
	})
	r.publishState(ctx, snap)
	return Reply{Snapshot: snap}
}

func (r *Room) flushMatchEnded(ctx context.Context, snap match.Snapshot) {
	if r.pendingEnd == nil {
		return
	}
	outcome := *r.pendingEnd
	r.pendingEnd = nil
	r.publish(ctx, events.TypeMatchEnded, events.MatchEndedPayload{
		MatchNumber: snap.MatchNumber,
		Outcome:     outcome,
		Tally:       snap.Tally,
	})
}

// StateEvent renders snap as the "state" event sent to clients.
func (r *Room) StateEvent(snap match.Snapshot) (events.Event, error) {
	return events.New(events.TypeState, proto.NewStateMessage(r.ID, snap))
}

func (r *Room) publishState(ctx context.Context, snap match.Snapshot) {
	r.publish(ctx, events.TypeState, proto.NewStateMessage(r.ID, snap))
}

func (r *Room) publish(ctx context.Context, eventType string, payload any) {
	if r.publisher == nil {
		return
	}
	event, err := events.New(eventType, payload)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to build event", "event.type", eventType, "error", err)
		return
	}
	r.publisher.Publish(ctx, event)
}
