package game

// WinLines lists every index triple that wins the game.
var WinLines = [8][3]int{
	// rows
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	// columns
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	// diagonals
	{0, 4, 8},
	{2, 4, 6},
}

// Outcome is the result of a finished match: a winning mark or a draw.
type Outcome struct {
	Winner PlayerMark `json:"winner,omitempty"`
	Draw   bool       `json:"draw"`
}

// WinOutcome returns the outcome of a match won by mark.
func WinOutcome(mark PlayerMark) Outcome {
	return Outcome{Winner: mark}
}

// DrawOutcome is the outcome of a match that filled the board without a winner.
var DrawOutcome = Outcome{Draw: true}

func (o Outcome) String() string {
	if o.Draw {
		return "draw"
	}
	return string(o.Winner)
}

// CheckWin reports whether any win line is fully held by mark.
func CheckWin(board Board, mark PlayerMark) bool {
	if !mark.IsPlayer() {
		return false
	}
	for _, line := range WinLines {
		if board[line[0]] == mark && board[line[1]] == mark && board[line[2]] == mark {
			return true
		}
	}
	return false
}

// CheckDraw reports whether the board is full and neither player holds a line.
func CheckDraw(board Board) bool {
	// A full board that completes a line is a win, not a draw
	if CheckWin(board, PlayerX) || CheckWin(board, PlayerO) {
		return false
	}
	return board.IsFull()
}

// Evaluate returns the outcome of board if the match it describes is over.
func Evaluate(board Board) (Outcome, bool) {
	switch {
	case CheckWin(board, PlayerX):
		return WinOutcome(PlayerX), true
	case CheckWin(board, PlayerO):
		return WinOutcome(PlayerO), true
	case CheckDraw(board):
		return DrawOutcome, true
	default:
		return Outcome{}, false
	}
}
