package match

import (
	"context"
	"fmt"
	"log/slog"

	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/session"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("match")
	meter  = otel.Meter("match")
)

//go:generate mockgen -source=match.go -destination=mock_match_test.go -package=match

// MoveCalculator defines an interface for an agent that can calculate a game move.
type MoveCalculator interface {
	CalculateNextMove(board game.Board, mark game.PlayerMark, difficulty game.Difficulty) (int, error)
}

// ResultRecorder keeps the tally of finished matches.
type ResultRecorder interface {
	RecordResult(outcome game.Outcome)
	Tally() session.Tally
}

// State is the phase of the current match.
type State string

const (
	AwaitingMove State = "awaiting_move"
	Evaluating   State = "evaluating"
	MatchOver    State = "match_over"
)

// ResultKind classifies the answer to a move request.
type ResultKind string

const (
	ResultAccepted   ResultKind = "accepted"
	ResultRejected   ResultKind = "rejected"
	ResultMatchEnded ResultKind = "match_ended"
)

// MoveResult describes what a move request did. When the move handed the turn
// to the AI, AIMove holds the cell the AI claimed in the same step.
type MoveResult struct {
	Kind    ResultKind      `json:"kind"`
	Index   int             `json:"index"`
	Mark    game.PlayerMark `json:"mark"`
	AIMove  int             `json:"ai_move"`
	Outcome *game.Outcome   `json:"outcome,omitempty"`
	Reason  error           `json:"-"`
}

// Snapshot is a read-only copy of everything needed to render the match.
type Snapshot struct {
	Board       game.Board      `json:"board"`
	Turn        game.PlayerMark `json:"turn"`
	State       State           `json:"state"`
	Difficulty  game.Difficulty `json:"difficulty"`
	Tally       session.Tally   `json:"tally"`
	MatchNumber int             `json:"match"`
	Outcome     *game.Outcome   `json:"outcome,omitempty"`
}

// Controller owns the board and the turn and drives one match after another.
// It is not safe for concurrent use; room.Room serializes every call.
type Controller struct {
	board       game.Board
	turn        game.PlayerMark
	state       State
	difficulty  game.Difficulty
	matchNumber int
	moves       int
	lastOutcome *game.Outcome

	recorder   ResultRecorder
	calculator MoveCalculator
	listeners  []func(game.Outcome)
	logger     *slog.Logger

	movesCounter    metric.Int64Counter
	rejectedCounter metric.Int64Counter
	matchesCounter  metric.Int64Counter
}

// NewController creates the controller for the first match of a session. X moves first.
func NewController(recorder ResultRecorder, calculator MoveCalculator, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		turn:            game.PlayerX,
		state:           AwaitingMove,
		difficulty:      game.DifficultyLocal,
		matchNumber:     1,
		recorder:        recorder,
		calculator:      calculator,
		logger:          logger,
		movesCounter:    newCounter("match.moves", "Moves applied to the board"),
		rejectedCounter: newCounter("match.moves.rejected", "Move requests rejected"),
		matchesCounter:  newCounter("match.finished", "Matches that ended in a win or a draw"),
	}
}

func newCounter(name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		otel.Handle(err)
		counter, _ = noop.Meter{}.Int64Counter(name)
	}
	return counter
}

// OnMatchEnded registers fn to be called once for every match that finishes.
func (c *Controller) OnMatchEnded(fn func(game.Outcome)) {
	c.listeners = append(c.listeners, fn)
}

// ApplyMove claims index for the mark whose turn it is.
func (c *Controller) ApplyMove(ctx context.Context, index int) MoveResult {
	return c.ApplyMoveAs(ctx, c.turn, index)
}

// ApplyMoveAs claims index for mark. The request is rejected without touching
// any state unless it is mark's turn, the match is awaiting a move and the cell is free.
// If the move hands the turn to the AI, the AI answers before ApplyMoveAs returns.
func (c *Controller) ApplyMoveAs(ctx context.Context, mark game.PlayerMark, index int) MoveResult {
	ctx, span := tracer.Start(ctx, "match.ApplyMove", trace.WithAttributes(
		attribute.Int("match.number", c.matchNumber),
		attribute.String("match.mark", string(mark)),
		attribute.Int("match.index", index),
	))
	defer span.End()

	if err := c.validateHuman(mark, index); err != nil {
		c.rejectedCounter.Add(ctx, 1)
		c.logger.WarnContext(ctx, "Move rejected",
			"match.number", c.matchNumber,
			"match.mark", mark,
			"match.index", index,
			"error", err,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Move rejected")
		return MoveResult{Kind: ResultRejected, Index: index, Mark: mark, AIMove: -1, Reason: err}
	}

	result := c.play(ctx, index)
	if result.Kind == ResultMatchEnded || !c.aiToMove() {
		return result
	}

	aiIndex, ok := c.playAI(ctx)
	if !ok {
		return result
	}
	result.AIMove = aiIndex
	if c.state == MatchOver {
		result.Kind = ResultMatchEnded
		result.Outcome = c.lastOutcome
	}
	return result
}

// StartMatch clears the board and begins a new match at difficulty. The tally
// and the turn carry over, so the mark that did not move last opens. An
// unfinished match is abandoned without a result.
func (c *Controller) StartMatch(ctx context.Context, difficulty game.Difficulty) error {
	ctx, span := tracer.Start(ctx, "match.StartMatch", trace.WithAttributes(
		attribute.String("match.difficulty", string(difficulty)),
	))
	defer span.End()

	if !difficulty.Valid() {
		err := fmt.Errorf("%w: %q", game.ErrUnknownDifficulty, difficulty)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unknown difficulty")
		return err
	}

	if c.moves > 0 || c.state == MatchOver {
		if c.state != MatchOver {
			c.logger.InfoContext(ctx, "Abandoning unfinished match", "match.number", c.matchNumber, "match.moves", c.moves)
		}
		c.matchNumber++
	}

	c.board = game.Board{}
	c.moves = 0
	c.state = AwaitingMove
	c.difficulty = difficulty
	c.lastOutcome = nil

	span.SetAttributes(attribute.Int("match.number", c.matchNumber))
	c.logger.InfoContext(ctx, "Match started",
		"match.number", c.matchNumber,
		"match.difficulty", difficulty,
		"match.starter", c.turn,
	)

	if c.aiToMove() {
		c.playAI(ctx)
	}
	return nil
}

func (c *Controller) validateHuman(mark game.PlayerMark, index int) error {
	if c.state != AwaitingMove {
		return fmt.Errorf("%w: %w", game.ErrInvalidMove, game.ErrNotAwaitingMove)
	}
	if mark.IsPlayer() && mark != c.turn {
		return fmt.Errorf("%w: %w: %s to move", game.ErrInvalidMove, game.ErrNotYourTurn, c.turn)
	}
	if c.difficulty.HasAI() && mark == game.AIMark {
		return fmt.Errorf("%w: %w: %s is played by the AI", game.ErrInvalidMove, game.ErrNotYourTurn, mark)
	}
	return c.board.Validate(index, mark)
}

func (c *Controller) aiToMove() bool {
	return c.state == AwaitingMove &&
		c.calculator != nil &&
		c.difficulty.HasAI() &&
		c.turn == game.AIMark
}

// play writes the current turn's mark at a validated index and evaluates the board.
func (c *Controller) play(ctx context.Context, index int) MoveResult {
	mark := c.turn
	c.board[index] = mark
	c.moves++
	c.state = Evaluating
	c.movesCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("match.mark", string(mark))))

	var (
		outcome game.Outcome
		over    bool
	)
	switch {
	case game.CheckWin(c.board, mark):
		outcome, over = game.WinOutcome(mark), true
	case game.CheckDraw(c.board):
		outcome, over = game.DrawOutcome, true
	}

	// The turn flips even when the match ends, so the other mark opens the next one.
	c.turn = mark.Opponent()

	if over {
		c.finish(ctx, outcome)
		return MoveResult{Kind: ResultMatchEnded, Index: index, Mark: mark, AIMove: -1, Outcome: c.lastOutcome}
	}

	c.state = AwaitingMove
	return MoveResult{Kind: ResultAccepted, Index: index, Mark: mark, AIMove: -1}
}

func (c *Controller) playAI(ctx context.Context) (int, bool) {
	ctx, span := tracer.Start(ctx, "match.playAI", trace.WithAttributes(
		attribute.String("match.difficulty", string(c.difficulty)),
	))
	defer span.End()

	index, err := c.calculator.CalculateNextMove(c.board, c.turn, c.difficulty)
	if err == nil {
		err = c.board.Validate(index, c.turn)
	}
	if err != nil {
		c.logger.ErrorContext(ctx, "AI failed to move",
			"match.number", c.matchNumber,
			"match.difficulty", c.difficulty,
			"error", err,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "AI failed to move")
		return -1, false
	}

	span.SetAttributes(attribute.Int("match.index", index))
	c.play(ctx, index)
	return index, true
}

func (c *Controller) finish(ctx context.Context, outcome game.Outcome) {
	c.state = MatchOver
	c.lastOutcome = &outcome
	if c.recorder != nil {
		c.recorder.RecordResult(outcome)
	}
	c.matchesCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("match.outcome", outcome.String())))

	c.logger.InfoContext(ctx, "Match ended",
		"match.number", c.matchNumber,
		"match.outcome", outcome.String(),
		"match.moves", c.moves,
	)

	for _, fn := range c.listeners {
		fn(outcome)
	}
}

// CurrentBoard returns a copy of the board.
func (c *Controller) CurrentBoard() game.Board {
	return c.board
}

func (c *Controller) CurrentTurn() game.PlayerMark {
	return c.turn
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Difficulty() game.Difficulty {
	return c.difficulty
}

func (c *Controller) MatchNumber() int {
	return c.matchNumber
}

// Tally returns the session tally, or zero counts when no recorder is set.
func (c *Controller) Tally() session.Tally {
	if c.recorder == nil {
		return session.Tally{}
	}
	return c.recorder.Tally()
}

// Snapshot returns a copy of the whole match state.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		Board:       c.board,
		Turn:        c.turn,
		State:       c.state,
		Difficulty:  c.difficulty,
		Tally:       c.Tally(),
		MatchNumber: c.matchNumber,
	}
	if c.lastOutcome != nil {
		outcome := *c.lastOutcome
		snap.Outcome = &outcome
	}
	return snap
}
