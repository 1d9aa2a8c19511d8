package game2048

import (
	"github.com/google/uuid"

	"casualgames/internal/rng"
)

// Size is the board side.
const Size = 4

// WinValue is the tile that wins the game.
const WinValue = 2048

// Direction is a move direction.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every direction.
var Directions = []Direction{Up, Down, Left, Right}

func (d Direction) valid() bool {
	return d == Up || d == Down || d == Left || d == Right
}

func (d Direction) step() (int, int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	}
	return 0, 1
}

// Tile is a numbered tile. Merged is set on the surviving tile of a merge
// for the rest of the move; New marks the tile spawned after the last move.
type Tile struct {
	ID     string `json:"id"`
	Value  int    `json:"value"`
	Merged bool   `json:"merged,omitempty"`
	New    bool   `json:"isNew,omitempty"`
}

// Board is the grid; nil cells are empty.
type Board [Size][Size]*Tile

func (b *Board) clone() Board {
	var out Board
	for r := range b {
		for c, t := range b[r] {
			if t != nil {
				cp := *t
				out[r][c] = &cp
			}
		}
	}
	return out
}

// MoveResult reports what a move did.
type MoveResult struct {
	Moved      bool `json:"moved"`
	ScoreDelta int  `json:"scoreDelta"`
	Won        bool `json:"won"`
	GameOver   bool `json:"gameOver"`
}

// slide applies d to b in place. It reports whether any tile moved, the
// points gained and whether a tile reached WinValue. Tiles are processed from the edge they move
// towards, each advancing one cell at a time; a tile merges into an equal
// neighbour unless either merged already during this move.
func slide(b *Board, d Direction) (moved bool, gained int, won bool) {
	for r := range b {
		for _, t := range b[r] {
			if t != nil {
				t.Merged = false
				t.New = false
			}
		}
	}
	dr, dc := d.step()
	move := func(row, col int) {
		if b[row][col] == nil {
			return
		}
		cr, cc := row, col
		for {
			nr, nc := cr+dr, cc+dc
			if nr < 0 || nr >= Size || nc < 0 || nc >= Size {
				return
			}
			cur, target := b[cr][cc], b[nr][nc]
			switch {
			case target == nil:
				b[nr][nc], b[cr][cc] = cur, nil
				cr, cc = nr, nc
				moved = true
			case target.Value == cur.Value && !target.Merged && !cur.Merged:
				target.Value *= 2
				target.Merged = true
				b[cr][cc] = nil
				gained += target.Value
				moved = true
				if target.Value == WinValue {
					won = true
				}
				return
			default:
				return
			}
		}
	}
	if d == Up || d == Left {
		for i := 0; i < Size; i++ {
			for j := 0; j < Size; j++ {
				if (d == Up && i > 0) || (d == Left && j > 0) {
					move(i, j)
				}
			}
		}
	} else {
		for i := Size - 1; i >= 0; i-- {
			for j := Size - 1; j >= 0; j-- {
				if (d == Down && i < Size-1) || (d == Right && j < Size-1) {
					move(i, j)
				}
			}
		}
	}
	return moved, gained, won
}

// HasValidMoves reports whether the board has an empty cell or two equal
// neighbours.
func HasValidMoves(b Board) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			t := b[r][c]
			if t == nil {
				return true
			}
			if c+1 < Size && (b[r][c+1] == nil || b[r][c+1].Value == t.Value) {
				return true
			}
			if r+1 < Size && (b[r+1][c] == nil || b[r+1][c].Value == t.Value) {
				return true
			}
		}
	}
	return false
}

// spawn puts a 2 (90%) or a 4 in a random empty cell.
func spawn(b *Board, src rng.Source) {
	var empty [][2]int
	for r := range b {
		for c, t := range b[r] {
			if t == nil {
				empty = append(empty, [2]int{r, c})
			}
		}
	}
	if len(empty) == 0 {
		return
	}
	cell := rng.Pick(src, empty)
	value := 4
	if src.Float64() < 0.9 {
		value = 2
	}
	id := uuid.Must(uuid.NewRandomFromReader(rng.Reader(src)))
	b[cell[0]][cell[1]] = &Tile{ID: id.String(), Value: value, New: true}
}

// NewGame clears the board and spawns two tiles.
func (m *Match) NewGame() {
	m.Board = Board{}
	m.Score = 0
	m.GameOver = false
	m.Won = false
	m.KeepPlaying = false
	m.Moved = false
	spawn(&m.Board, m.rng)
	spawn(&m.Board, m.rng)
}

// Blocked reports whether moves are currently refused.
func (m *Match) Blocked() bool {
	return m.GameOver || (m.Won && !m.KeepPlaying)
}

// Move slides the tiles towards d. A move that shifts nothing changes
// nothing and spawns no tile.
func (m *Match) Move(d Direction) MoveResult {
	if !d.valid() || m.Blocked() {
		return MoveResult{}
	}
	next := m.Board.clone()
	moved, gained, won := slide(&next, d)
	if !moved {
		return MoveResult{}
	}
	m.Board = next
	m.Moved = true
	m.Score += gained
	if won && !m.KeepPlaying {
		m.Won = true
	}
	if m.Score > m.BestScore {
		m.BestScore = m.Score
		m.keeper.Record(m.Score)
	}
	spawn(&m.Board, m.rng)
	if !HasValidMoves(m.Board) {
		m.GameOver = true
	}
	return MoveResult{Moved: true, ScoreDelta: gained, Won: won, GameOver: m.GameOver}
}

// CanMove reports whether d would shift at least one tile.
func (m *Match) CanMove(d Direction) bool {
	if !d.valid() || m.Blocked() {
		return false
	}
	b := m.Board.clone()
	moved, _, _ := slide(&b, d)
	return moved
}

// Continue lets play go on after reaching WinValue.
func (m *Match) Continue() bool {
	if !m.Won || m.KeepPlaying || m.GameOver {
		return false
	}
	m.KeepPlaying = true
	return true
}
