package dots

import "slices"

// Sizes lists the supported grid sizes (boxes per side).
var Sizes = []int{3, 4, 5, 6, 9}

// Draw is the winner of a tied game.
const Draw = -1

// EdgeType says which edge grid a move refers to.
type EdgeType string

const (
	Horizontal EdgeType = "horizontal"
	Vertical   EdgeType = "vertical"
)

// Move is one edge. Horizontal edges are (N+1) x N, vertical N x (N+1).
type Move struct {
	Edge EdgeType `json:"edge"`
	Row  int      `json:"row"`
	Col  int      `json:"col"`
}

// Scores counts boxes per player.
type Scores struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
}

func (s Scores) total() int { return s.Player1 + s.Player2 }

// Lines is the drawn state of both edge grids.
type Lines struct {
	Horizontal [][]bool `json:"horizontalLines"`
	Vertical   [][]bool `json:"verticalLines"`
}

func newLines(n int) Lines {
	l := Lines{Horizontal: make([][]bool, n+1), Vertical: make([][]bool, n)}
	for i := range l.Horizontal {
		l.Horizontal[i] = make([]bool, n)
	}
	for i := range l.Vertical {
		l.Vertical[i] = make([]bool, n+1)
	}
	return l
}

func (l Lines) size() int { return len(l.Vertical) }

// drawn reports whether mv is on the board and already drawn. ok is false
// for an edge outside the grid.
func (l Lines) drawn(mv Move) (drawn, ok bool) {
	var g [][]bool
	switch mv.Edge {
	case Horizontal:
		g = l.Horizontal
	case Vertical:
		g = l.Vertical
	default:
		return false, false
	}
	if mv.Row < 0 || mv.Row >= len(g) || mv.Col < 0 || mv.Col >= len(g[mv.Row]) {
		return false, false
	}
	return g[mv.Row][mv.Col], true
}

// sides counts the drawn edges of box r, c.
func (l Lines) sides(r, c int) int {
	n := 0
	for _, d := range []bool{l.Horizontal[r][c], l.Horizontal[r+1][c], l.Vertical[r][c], l.Vertical[r][c+1]} {
		if d {
			n++
		}
	}
	return n
}

// touching returns the boxes bounded by mv.
func (l Lines) touching(mv Move) [][2]int {
	n := l.size()
	var cand [][2]int
	if mv.Edge == Horizontal {
		cand = [][2]int{{mv.Row - 1, mv.Col}, {mv.Row, mv.Col}}
	} else {
		cand = [][2]int{{mv.Row, mv.Col - 1}, {mv.Row, mv.Col}}
	}
	out := cand[:0]
	for _, b := range cand {
		if b[0] >= 0 && b[0] < n && b[1] >= 0 && b[1] < n {
			out = append(out, b)
		}
	}
	return out
}

// Open lists the undrawn edges, horizontal first, in row-major order.
func (l Lines) Open() []Move {
	var moves []Move
	for r, row := range l.Horizontal {
		for c, d := range row {
			if !d {
				moves = append(moves, Move{Horizontal, r, c})
			}
		}
	}
	for r, row := range l.Vertical {
		for c, d := range row {
			if !d {
				moves = append(moves, Move{Vertical, r, c})
			}
		}
	}
	return moves
}

// ValidSize reports whether n is a supported grid size.
func ValidSize(n int) bool { return slices.Contains(Sizes, n) }

// Start lays out an empty board of the current size and gives player 1
// the first move.
func (m *Match) Start() {
	n := m.Size
	m.Lines = newLines(n)
	m.Boxes = make([][]int, n)
	for i := range m.Boxes {
		m.Boxes[i] = make([]int, n)
	}
	m.Scores = Scores{}
	m.Current = 1
	m.Started = true
	m.Over = false
	m.Winner = 0
	m.Epoch++
}

// NewGame goes back to the options screen.
func (m *Match) NewGame() {
	m.Lines = Lines{}
	m.Boxes = nil
	m.Scores = Scores{}
	m.Current = 1
	m.Started = false
	m.Over = false
	m.Winner = 0
	m.Epoch++
}

// SetSize changes the grid size and returns to the options screen.
func (m *Match) SetSize(n int) bool {
	if !ValidSize(n) {
		return false
	}
	m.Size = n
	m.NewGame()
	return true
}

// SetMode switches between friend and computer play and returns to the
// options screen.
func (m *Match) SetMode(mode string) bool {
	if mode != ModeFriend && mode != ModeComputer {
		return false
	}
	m.Mode = mode
	m.NewGame()
	return true
}

// MakeMove draws mv for the current player and claims every box it
// closes. The player keeps the turn after closing a box. It returns the
// number of boxes claimed, and false when the move is not allowed.
func (m *Match) MakeMove(mv Move) (int, bool) {
	if !m.Started || m.Over {
		return 0, false
	}
	if drawn, ok := m.Lines.drawn(mv); !ok || drawn {
		return 0, false
	}
	if mv.Edge == Horizontal {
		m.Lines.Horizontal[mv.Row][mv.Col] = true
	} else {
		m.Lines.Vertical[mv.Row][mv.Col] = true
	}

	claimed := 0
	for r := range m.Boxes {
		for c := range m.Boxes[r] {
			if m.Boxes[r][c] == 0 && m.Lines.sides(r, c) == 4 {
				m.Boxes[r][c] = m.Current
				if m.Current == 1 {
					m.Scores.Player1++
				} else {
					m.Scores.Player2++
				}
				claimed++
			}
		}
	}

	switch {
	case m.Scores.total() == m.Size*m.Size:
		m.Over = true
		switch {
		case m.Scores.Player1 > m.Scores.Player2:
			m.Winner = 1
		case m.Scores.Player2 > m.Scores.Player1:
			m.Winner = 2
		default:
			m.Winner = Draw
		}
	case claimed == 0:
		m.Current = 3 - m.Current
	}
	return claimed, true
}

// ComputerTurn reports whether the computer (player 2) should move.
func (m *Match) ComputerTurn() bool {
	return m.Mode == ModeComputer && m.Current == 2 && m.Started && !m.Over
}
