package game

import "testing"

func TestCheckWin(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		mark  PlayerMark
		want  bool
	}{
		{
			name:  "Empty board has no winner",
			board: Board{},
			mark:  PlayerX,
			want:  false,
		},
		{
			name:  "Empty board is not a win for None",
			board: Board{},
			mark:  None,
			want:  false,
		},
		{
			name: "Partial board has no winner",
			board: Board{
				PlayerX, None, None,
				None, PlayerO, None,
				None, None, None,
			},
			mark: PlayerX,
			want: false,
		},
		{
			name: "X wins - first row",
			board: Board{
				PlayerX, PlayerX, PlayerX,
				None, PlayerO, None,
				None, None, PlayerO,
			},
			mark: PlayerX,
			want: true,
		},
		{
			name: "First row is not a win for O",
			board: Board{
				PlayerX, PlayerX, PlayerX,
				None, PlayerO, None,
				None, None, PlayerO,
			},
			mark: PlayerO,
			want: false,
		},
		{
			name: "O wins - second column",
			board: Board{
				PlayerX, PlayerO, None,
				PlayerX, PlayerO, None,
				None, PlayerO, None,
			},
			mark: PlayerO,
			want: true,
		},
		{
			name: "X wins - main diagonal",
			board: Board{
				PlayerX, None, None,
				None, PlayerX, None,
				None, None, PlayerX,
			},
			mark: PlayerX,
			want: true,
		},
		{
			name: "O wins - anti-diagonal",
			board: Board{
				None, None, PlayerO,
				None, PlayerO, None,
				PlayerO, None, None,
			},
			mark: PlayerO,
			want: true,
		},
		{
			name: "Mixed line is not a win",
			board: Board{
				PlayerX, PlayerO, PlayerX,
				None, None, None,
				None, None, None,
			},
			mark: PlayerX,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckWin(tt.board, tt.mark); got != tt.want {
				t.Errorf("CheckWin() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckWinEveryLine(t *testing.T) {
	for _, mark := range []PlayerMark{PlayerX, PlayerO} {
		for _, line := range WinLines {
			var board Board
			for _, index := range line {
				board[index] = mark
			}
			if !CheckWin(board, mark) {
				t.Errorf("CheckWin(%v) missed line %v", mark, line)
			}
			if CheckWin(board, mark.Opponent()) {
				t.Errorf("CheckWin(%v) reported a win on %v's line %v", mark.Opponent(), mark, line)
			}
		}
	}
}

func TestCheckDraw(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  bool
	}{
		{
			name:  "Empty board",
			board: Board{},
			want:  false,
		},
		{
			name: "Full board without a line",
			board: Board{
				PlayerX, PlayerO, PlayerX,
				PlayerO, PlayerX, PlayerO,
				PlayerO, PlayerX, PlayerO,
			},
			want: true,
		},
		{
			name: "Full board completing a line is a win",
			board: Board{
				PlayerX, PlayerX, PlayerX,
				PlayerO, PlayerO, PlayerX,
				PlayerO, PlayerX, PlayerO,
			},
			want: false,
		},
		{
			name: "One cell left",
			board: Board{
				PlayerX, PlayerO, PlayerX,
				PlayerO, PlayerX, PlayerO,
				PlayerO, PlayerX, None,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckDraw(tt.board); got != tt.want {
				t.Errorf("CheckDraw() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDrawBoardHasNoWinner(t *testing.T) {
	board := Board{
		PlayerX, PlayerO, PlayerX,
		PlayerO, PlayerX, PlayerO,
		PlayerO, PlayerX, PlayerO,
	}

	if !CheckDraw(board) {
		t.Errorf("CheckDraw() got = false, want true")
	}
	if CheckWin(board, PlayerX) || CheckWin(board, PlayerO) {
		t.Errorf("CheckWin() reported a winner on a drawn board")
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		board    Board
		want     Outcome
		wantOver bool
	}{
		{
			name:  "Ongoing",
			board: Board{PlayerX},
		},
		{
			name:     "X wins on a full board",
			board:    Board{PlayerX, PlayerX, PlayerX, PlayerO, PlayerO, PlayerX, PlayerO, PlayerX, PlayerO},
			want:     WinOutcome(PlayerX),
			wantOver: true,
		},
		{
			name:     "O wins",
			board:    Board{PlayerO, PlayerX, PlayerX, PlayerO, PlayerX, None, PlayerO, None, None},
			want:     WinOutcome(PlayerO),
			wantOver: true,
		},
		{
			name:     "Draw",
			board:    Board{PlayerX, PlayerO, PlayerX, PlayerO, PlayerX, PlayerO, PlayerO, PlayerX, PlayerO},
			want:     DrawOutcome,
			wantOver: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, over := Evaluate(tt.board)
			if over != tt.wantOver || got != tt.want {
				t.Errorf("Evaluate() got = (%v, %v), want (%v, %v)", got, over, tt.want, tt.wantOver)
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	if got := DrawOutcome.String(); got != "draw" {
		t.Errorf("String() got = %q, want %q", got, "draw")
	}
	if got := WinOutcome(PlayerO).String(); got != "O" {
		t.Errorf("String() got = %q, want %q", got, "O")
	}
}
