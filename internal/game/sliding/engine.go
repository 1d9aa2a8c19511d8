package sliding

import (
	"slices"

	"casualgames/internal/game/grid"
	"casualgames/internal/rng"
)

// ShuffleMoves is the number of random blank moves in a shuffle.
const ShuffleMoves = 1000

// Kind is the puzzle face. Image tiles are still numbered positions.
type Kind string

const (
	Number Kind = "number"
	Image  Kind = "image"
)

// Sizes lists the supported board sides.
var Sizes = []int{3, 4}

// Solved returns the finished board: 1..n²-1 followed by the blank.
func Solved(size int) []int {
	tiles := make([]int, size*size)
	for i := range tiles[:len(tiles)-1] {
		tiles[i] = i + 1
	}
	return tiles
}

// IsSolved reports whether every tile sits at its 1-indexed position
// with the blank last.
func IsSolved(tiles []int) bool {
	last := len(tiles) - 1
	for i := 0; i < last; i++ {
		if tiles[i] != i+1 {
			return false
		}
	}
	return tiles[last] == 0
}

func inversions(tiles []int) int {
	var rest []int
	for _, t := range tiles {
		if t != 0 {
			rest = append(rest, t)
		}
	}
	n := 0
	for i := range rest {
		for j := i + 1; j < len(rest); j++ {
			if rest[i] > rest[j] {
				n++
			}
		}
	}
	return n
}

// Solvable applies the inversion parity rule. On odd boards the count must
// be even; on even boards its parity must differ from the parity of the
// blank's row counted from the bottom.
func Solvable(tiles []int, size int) bool {
	inv := inversions(tiles)
	if size%2 == 1 {
		return inv%2 == 0
	}
	fromBottom := size - slices.Index(tiles, 0)/size
	if fromBottom%2 == 0 {
		return inv%2 == 1
	}
	return inv%2 == 0
}

// blankMoves returns the cells the blank at index can swap with.
func blankMoves(index, size int) []int {
	blank := grid.FromIndex(index, size)
	var out []int
	for _, d := range []grid.Delta{grid.Up, grid.Down, grid.Left, grid.Right} {
		if p := blank.Add(d); p.In(size, size) {
			out = append(out, p.Index(size))
		}
	}
	return out
}

// Shuffle walks the blank ShuffleMoves random steps from its current
// cell. Number puzzles that fail the parity check get one corrective swap
// of the first adjacent pair of non-blank tiles.
func Shuffle(tiles []int, size int, kind Kind, src rng.Source) []int {
	out := slices.Clone(tiles)
	blank := slices.Index(out, 0)
	for i := 0; i < ShuffleMoves; i++ {
		next := rng.Pick(src, blankMoves(blank, size))
		out[blank], out[next] = out[next], out[blank]
		blank = next
	}
	if kind == Number && !Solvable(out, size) {
		correct(out)
	}
	return out
}

func correct(tiles []int) {
	for i := 0; i < len(tiles)-1; i++ {
		if tiles[i] != 0 && tiles[i+1] != 0 {
			tiles[i], tiles[i+1] = tiles[i+1], tiles[i]
			return
		}
	}
}

// Click slides the tile at index into the blank when they share an edge.
func (m *Match) Click(index int) bool {
	if !m.Started || m.Won || m.Complete || index < 0 || index >= len(m.Tiles) {
		return false
	}
	blank := slices.Index(m.Tiles, 0)
	if !grid.Adjacent(grid.FromIndex(index, m.Size), grid.FromIndex(blank, m.Size)) {
		return false
	}
	m.Tiles[index], m.Tiles[blank] = m.Tiles[blank], m.Tiles[index]
	m.Moves++
	if IsSolved(m.Tiles) {
		if m.Kind == Image {
			m.Complete = true
		} else {
			m.Won = true
		}
	}
	return true
}

// Reset deals a fresh board and returns to the options screen.
func (m *Match) Reset() {
	m.Tiles = Shuffle(Solved(m.Size), m.Size, m.Kind, m.rng)
	m.Moves = 0
	m.Started = false
	m.Won = false
	m.Complete = false
	m.Epoch++
}

// Start deals a fresh board and begins play.
func (m *Match) Start() {
	m.Reset()
	m.Started = true
}

// Reshuffle mixes the current board again.
func (m *Match) Reshuffle() bool {
	if !m.Started || m.Won || m.Complete {
		return false
	}
	m.Tiles = Shuffle(m.Tiles, m.Size, m.Kind, m.rng)
	m.Moves = 0
	return true
}

// SetSize changes the board side and resets.
func (m *Match) SetSize(size int) bool {
	if !slices.Contains(Sizes, size) {
		return false
	}
	m.Size = size
	m.Reset()
	return true
}

// SetKind changes the puzzle face and resets.
func (m *Match) SetKind(k Kind) bool {
	if k != Number && k != Image {
		return false
	}
	m.Kind = k
	m.Reset()
	return true
}

// Reveal ends an image puzzle once the finished picture has been shown.
func (m *Match) Reveal() bool {
	if !m.Complete || m.Won {
		return false
	}
	m.Won = true
	return true
}
