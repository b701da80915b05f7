package game

import "fmt"

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"
)

// Board boundaries
const (
	BoardSize  = 9
	BorderMin  = 0             // First index of the board
	BorderMax  = BoardSize - 1 // Last index of the board
	CenterCell = 4
)

// Opponent returns the mark of the other player. None has no opponent.
func (m PlayerMark) Opponent() PlayerMark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return None
	}
}

// IsPlayer reports whether m is X or O.
func (m PlayerMark) IsPlayer() bool {
	return m == PlayerX || m == PlayerO
}

// Board is the 3x3 grid stored row-major: index 0 is top-left, 8 is bottom-right.
type Board [BoardSize]PlayerMark

// Validate checks that mark may be written to index without changing the board.
func (b Board) Validate(index int, mark PlayerMark) error {
	if !mark.IsPlayer() {
		return fmt.Errorf("%w: %w", ErrInvalidMove, ErrEmptyMark)
	}
	if index < BorderMin || index > BorderMax {
		return fmt.Errorf("%w: %w: cell %d", ErrInvalidMove, ErrOutOfRange, index)
	}
	if b[index] != None {
		return fmt.Errorf("%w: %w: cell %d", ErrInvalidMove, ErrCellOccupied, index)
	}
	return nil
}

// Set claims the cell at index for mark. A claimed cell is never overwritten.
func (b *Board) Set(index int, mark PlayerMark) error {
	if err := b.Validate(index, mark); err != nil {
		return err
	}
	b[index] = mark
	return nil
}

// Get returns the mark at index, or None when index is off the board.
func (b Board) Get(index int) PlayerMark {
	if index < BorderMin || index > BorderMax {
		return None
	}
	return b[index]
}

// IsFull reports whether no cell is empty.
func (b Board) IsFull() bool {
	for _, cell := range b {
		if cell == None {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no cell has been claimed.
func (b Board) IsEmpty() bool {
	for _, cell := range b {
		if cell != None {
			return false
		}
	}
	return true
}

// EmptyCells returns the indices of unclaimed cells in ascending order.
func (b Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range b {
		if cell == None {
			cells = append(cells, i)
		}
	}
	return cells
}

// Rows converts the board to three rows of three marks for rendering.
func (b Board) Rows() [][]PlayerMark {
	rows := make([][]PlayerMark, 3)
	for r := range [3]int{} {
		rows[r] = make([]PlayerMark, 3)
		for c := range [3]int{} {
			rows[r][c] = b[r*3+c]
		}
	}
	return rows
}
