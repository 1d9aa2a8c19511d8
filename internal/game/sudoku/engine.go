package sudoku

import (
	"casualgames/internal/game/grid"
	"casualgames/internal/rng"
)

// MaxMistakes ends the game.
const MaxMistakes = 3

// Cell is one square of the board. Given cells never change.
type Cell struct {
	Value   int  `json:"value"`
	Given   bool `json:"isGiven"`
	Invalid bool `json:"isInvalid"`
}

// NewGame generates a puzzle at difficulty d and starts the clock.
func (m *Match) NewGame(d Difficulty) bool {
	if _, ok := d.Removed(); !ok {
		return false
	}
	m.Solution = Generate(m.rng)
	m.Board = Carve(m.Solution, d, m.rng)
	m.Difficulty = d
	m.Started = true
	m.Won = false
	m.Over = false
	m.Paused = false
	m.Mistakes = 0
	m.Timer = 0
	m.Selected = nil
	m.Epoch++
	return true
}

// Reset returns to the not-started state, keeping the difficulty.
func (m *Match) Reset() {
	m.Board = [Size][Size]Cell{}
	m.Solution = Grid{}
	m.Started = false
	m.Won = false
	m.Over = false
	m.Paused = false
	m.Mistakes = 0
	m.Timer = 0
	m.Selected = nil
	m.Epoch++
}

// Select marks the cell the next entry goes to.
func (m *Match) Select(row, col int) bool {
	p := grid.Pos{Row: row, Col: col}
	if !m.Started || !p.In(Size, Size) {
		return false
	}
	m.Selected = &p
	return true
}

// MoveSelection steps the selection by d, staying on the board. With no
// selection it selects the top-left cell.
func (m *Match) MoveSelection(d grid.Delta) bool {
	if !m.Started {
		return false
	}
	if m.Selected == nil {
		return m.Select(0, 0)
	}
	next := m.Selected.Add(d)
	next.Row = min(max(next.Row, 0), Size-1)
	next.Col = min(max(next.Col, 0), Size-1)
	return m.Select(next.Row, next.Col)
}

func (m *Match) playable() bool {
	return m.Started && !m.Won && !m.Over && !m.Paused
}

// SetCellValue writes value into the selected cell; 0 clears it. A wrong
// digit is flagged and counts as a mistake. The third mistake ends the
// game.
func (m *Match) SetCellValue(value int) bool {
	if m.Selected == nil || !m.playable() || value < 0 || value > Size {
		return false
	}
	r, c := m.Selected.Row, m.Selected.Col
	cell := &m.Board[r][c]
	if cell.Given {
		return false
	}
	if value == 0 {
		cell.Value = 0
		cell.Invalid = false
		return true
	}
	correct := m.Solution[r][c] == value
	cell.Value = value
	cell.Invalid = !correct
	if !correct {
		m.Mistakes++
		if m.Mistakes >= MaxMistakes {
			m.Over = true
			return true
		}
	}
	if m.complete() {
		m.Won = true
	}
	return true
}

func (m *Match) complete() bool {
	for r := range m.Board {
		for c, cell := range m.Board[r] {
			if !cell.Given && cell.Value != m.Solution[r][c] {
				return false
			}
		}
	}
	return true
}

// TogglePause pauses or resumes a running game.
func (m *Match) TogglePause() bool {
	if !m.Started || m.Over || m.Won {
		return false
	}
	m.Paused = !m.Paused
	return true
}

// Tick advances the clock by one second while the game runs.
func (m *Match) Tick() bool {
	if !m.playable() {
		return false
	}
	m.Timer++
	return true
}

// Used counts the correctly placed cells of each digit; index 0 is unused.
func (m *Match) Used() [Size + 1]int {
	var used [Size + 1]int
	if !m.Started {
		return used
	}
	for r := range m.Board {
		for c, cell := range m.Board[r] {
			if cell.Value != 0 && cell.Value == m.Solution[r][c] {
				used[cell.Value]++
			}
		}
	}
	return used
}

func newMatch(player string, src rng.Source) *Match {
	return &Match{Player: player, Difficulty: Medium, rng: src}
}
