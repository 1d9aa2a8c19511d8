package tictactoe

// Symbols. An empty cell holds "".
const (
	X = "X"
	O = "O"
)

// Modes.
const (
	ModeFriend   = "friend"
	ModeComputer = "computer"
)

// Draw is the winner value of a full board with no line.
const Draw = "draw"

// Scores counts finished rounds since the mode was chosen.
type Scores struct {
	X    int `json:"x"`
	O    int `json:"o"`
	Draw int `json:"draw"`
}

var winLines = [][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // cols
	{0, 4, 8}, {2, 4, 6}, // diags
}

func other(symbol string) string {
	if symbol == X {
		return O
	}
	return X
}

// winner returns the symbol owning a full line, Draw for a full board
// without one, or "".
func winner(b [9]string) string {
	for _, line := range winLines {
		if b[line[0]] != "" && b[line[0]] == b[line[1]] && b[line[0]] == b[line[2]] {
			return b[line[0]]
		}
	}
	for _, v := range b {
		if v == "" {
			return ""
		}
	}
	return Draw
}

// MakeMove places the current symbol on cell. It reports false when the
// round is over, the cell is out of range or already taken.
func (m *Match) MakeMove(cell int) bool {
	if m.Done || cell < 0 || cell > 8 || m.Board[cell] != "" {
		return false
	}
	m.Board[cell] = m.Current
	m.Winner = winner(m.Board)
	m.Done = m.Winner != ""
	switch m.Winner {
	case X:
		m.Scores.X++
	case O:
		m.Scores.O++
	case Draw:
		m.Scores.Draw++
	default:
		m.Current = other(m.Current)
	}
	return true
}

// Reset clears the board for a new round. Scores are kept.
func (m *Match) Reset() {
	m.Board = [9]string{}
	m.Current = X
	m.Winner = ""
	m.Done = false
	m.Epoch++
}

// SetMode switches between friend and computer play, clearing the board
// and the scores.
func (m *Match) SetMode(mode string) bool {
	if mode != ModeFriend && mode != ModeComputer {
		return false
	}
	m.Mode = mode
	m.Scores = Scores{}
	m.Reset()
	return true
}

// SetSymbol chooses the human's symbol and restarts the round. X always
// moves first.
func (m *Match) SetSymbol(symbol string) bool {
	if symbol != X && symbol != O {
		return false
	}
	m.Symbol = symbol
	m.Reset()
	return true
}

// ComputerTurn reports whether the computer should move next.
func (m *Match) ComputerTurn() bool {
	return m.Mode == ModeComputer && !m.Done && m.Current != m.Symbol
}

// ComputerMove plays BestMove for the computer. It reports false when it
// is not the computer's turn.
func (m *Match) ComputerMove() bool {
	if !m.ComputerTurn() {
		return false
	}
	cell, ok := BestMove(m.Board, m.Current)
	if !ok {
		return false
	}
	return m.MakeMove(cell)
}
