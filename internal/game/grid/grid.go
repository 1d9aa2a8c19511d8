// Package grid holds the board primitives shared by the grid games.
package grid

// Pos is a cell on a board.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Delta is a one-step offset.
type Delta struct {
	DRow int `json:"dRow"`
	DCol int `json:"dCol"`
}

var (
	Up        = Delta{-1, 0}
	Down      = Delta{1, 0}
	Left      = Delta{0, -1}
	Right     = Delta{0, 1}
	UpLeft    = Delta{-1, -1}
	UpRight   = Delta{-1, 1}
	DownLeft  = Delta{1, -1}
	DownRight = Delta{1, 1}
)

// Orthogonal lists the four axis directions.
var Orthogonal = []Delta{Right, Left, Down, Up}

// All lists the axis directions followed by the diagonals.
var All = []Delta{Right, Left, Down, Up, DownRight, DownLeft, UpRight, UpLeft}

func (p Pos) Add(d Delta) Pos {
	return Pos{p.Row + d.DRow, p.Col + d.DCol}
}

// In reports whether p lies on a rows x cols board.
func (p Pos) In(rows, cols int) bool {
	return p.Row >= 0 && p.Row < rows && p.Col >= 0 && p.Col < cols
}

// Index returns the row-major index of p.
func (p Pos) Index(cols int) int {
	return p.Row*cols + p.Col
}

// FromIndex is the inverse of Pos.Index.
func FromIndex(i, cols int) Pos {
	return Pos{i / cols, i % cols}
}

// Adjacent reports whether a and b share an edge.
func Adjacent(a, b Pos) bool {
	dr, dc := abs(a.Row-b.Row), abs(a.Col-b.Col)
	return dr+dc == 1
}

// Line returns the cells from a to b inclusive when they lie on one row,
// column or exact diagonal.
func Line(a, b Pos) ([]Pos, bool) {
	dr, dc := b.Row-a.Row, b.Col-a.Col
	if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
		return nil, false
	}
	step := Delta{sign(dr), sign(dc)}
	n := max(abs(dr), abs(dc))
	path := make([]Pos, 0, n+1)
	p := a
	for i := 0; i <= n; i++ {
		path = append(path, p)
		p = p.Add(step)
	}
	return path, true
}

// Equal reports whether a and b list the same cells in the same order.
func Equal(a, b []Pos) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Reverse returns a reversed copy of path.
func Reverse(path []Pos) []Pos {
	out := make([]Pos, len(path))
	for i, p := range path {
		out[len(path)-1-i] = p
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
