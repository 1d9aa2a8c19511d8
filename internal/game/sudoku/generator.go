package sudoku

import "casualgames/internal/rng"

// Size is the board side; Box is the side of a 3x3 box.
const (
	Size = 9
	Box  = 3
)

// Grid is a 9x9 digit grid; 0 is empty.
type Grid [Size][Size]int

// Difficulty controls how many cells are carved out of the solution.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var removed = map[Difficulty]int{
	Easy:   40,
	Medium: 50,
	Hard:   55,
}

// Removed returns the number of empty cells for d, and false for an
// unknown difficulty.
func (d Difficulty) Removed() (int, bool) {
	n, ok := removed[d]
	return n, ok
}

// fits reports whether num can go at row, col without repeating in the
// row, the column or the box.
func fits(g *Grid, row, col, num int) bool {
	for i := 0; i < Size; i++ {
		if g[row][i] == num || g[i][col] == num {
			return false
		}
	}
	br, bc := row/Box*Box, col/Box*Box
	for i := 0; i < Box; i++ {
		for j := 0; j < Box; j++ {
			if g[br+i][bc+j] == num {
				return false
			}
		}
	}
	return true
}

// Generate returns a random solved grid. Cells are filled in row-major
// order, trying the digits of each cell in a fresh random order and
// backtracking on dead ends.
func Generate(src rng.Source) Grid {
	var g Grid
	var solve func(row, col int) bool
	solve = func(row, col int) bool {
		if row == Size {
			return true
		}
		if col == Size {
			return solve(row+1, 0)
		}
		nums := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
		rng.Shuffle(src, nums)
		for _, n := range nums {
			if fits(&g, row, col, n) {
				g[row][col] = n
				if solve(row, col+1) {
					return true
				}
				g[row][col] = 0
			}
		}
		return false
	}
	solve(0, 0)
	return g
}

// Solved reports whether every row, column and box of g is a permutation
// of 1-9.
func Solved(g Grid) bool {
	for i := 0; i < Size; i++ {
		var row, col, box [Size + 1]bool
		for j := 0; j < Size; j++ {
			r := g[i][j]
			c := g[j][i]
			b := g[i/Box*Box+j/Box][i%Box*Box+j%Box]
			for _, v := range []int{r, c, b} {
				if v < 1 || v > Size {
					return false
				}
			}
			if row[r] || col[c] || box[b] {
				return false
			}
			row[r], col[c], box[b] = true, true, true
		}
	}
	return true
}

// Carve clears removed cells of solution at random positions and returns
// the starting board.
func Carve(solution Grid, d Difficulty, src rng.Source) [Size][Size]Cell {
	var board [Size][Size]Cell
	for r := range solution {
		for c, v := range solution[r] {
			board[r][c] = Cell{Value: v, Given: true}
		}
	}
	n, ok := d.Removed()
	if !ok {
		n = removed[Medium]
	}
	cells := make([]int, Size*Size)
	for i := range cells {
		cells[i] = i
	}
	rng.Shuffle(src, cells)
	for _, idx := range cells[:n] {
		board[idx/Size][idx%Size] = Cell{}
	}
	return board
}
