package bot

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"ctchen222/tictactoe-engine/internal/game"
)

//go:generate mockgen -source=bot.go -destination=mock_randomizer_test.go -package=bot

// Randomizer is the random source used for openings and fallback moves.
// Tests inject a fake to force a specific branch.
type Randomizer interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// NewRandomizer returns a PCG-backed Randomizer. A zero seed picks a random one.
func NewRandomizer(seed uint64) Randomizer {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// BotMoveCalculator implements the match.MoveCalculator interface.
type BotMoveCalculator struct {
	rng    Randomizer
	logger *slog.Logger
}

// NewBotMoveCalculator creates a calculator. Nil arguments fall back to a
// randomly seeded source and the default logger.
func NewBotMoveCalculator(rng Randomizer, logger *slog.Logger) *BotMoveCalculator {
	if rng == nil {
		rng = NewRandomizer(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BotMoveCalculator{rng: rng, logger: logger}
}

// CalculateNextMove picks the cell the bot claims next on board.
func (c *BotMoveCalculator) CalculateNextMove(board game.Board, mark game.PlayerMark, difficulty game.Difficulty) (int, error) {
	index, err := CalculateNextMove(c.rng, board, mark, difficulty)
	if err != nil {
		c.logger.ErrorContext(context.Background(), "Bot could not choose a move",
			"bot.mark", mark,
			"bot.difficulty", difficulty,
			"error", err,
		)
		return -1, err
	}

	c.logger.Debug("Bot chose a move",
		"bot.mark", mark,
		"bot.difficulty", difficulty,
		"bot.index", index,
	)
	return index, nil
}
