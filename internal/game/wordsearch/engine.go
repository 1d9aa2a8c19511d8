package wordsearch

import (
	"slices"

	"casualgames/internal/game/grid"
)

// MaxHints is the number of hints per game.
const MaxHints = 3

// NewGame builds a fresh board for d.
func (m *Match) NewGame(d Difficulty) bool {
	level, ok := d.Level()
	if !ok {
		return false
	}
	words := PickWords(m.rng, level.Size, level.MaxWordLen)
	m.Grid, m.Placements = Place(words, level.Size, level.Directions, m.rng)
	m.Difficulty = d
	m.Found = nil
	m.Selecting = false
	m.Selection = nil
	m.Hint = nil
	m.HintsUsed = 0
	m.Paused = false
	m.Won = false
	m.Time = 0
	m.Epoch++
	return true
}

func (m *Match) active() bool {
	return !m.Paused && !m.Won
}

func (m *Match) size() int { return len(m.Grid) }

// Press starts a selection at p.
func (m *Match) Press(p grid.Pos) bool {
	if !m.active() || !p.In(m.size(), m.size()) {
		return false
	}
	m.Selecting = true
	m.Selection = []grid.Pos{p}
	return true
}

// Extend stretches the selection from its start to p. A target that is
// not on a straight line from the start is ignored.
func (m *Match) Extend(p grid.Pos) bool {
	if !m.Selecting || !m.active() || !p.In(m.size(), m.size()) {
		return false
	}
	path, ok := grid.Line(m.Selection[0], p)
	if !ok {
		return false
	}
	m.Selection = path
	return true
}

// Release ends the selection and checks it against the placed words.
func (m *Match) Release() (string, bool) {
	if !m.Selecting {
		return "", false
	}
	path := m.Selection
	m.Selecting = false
	m.Selection = nil
	return m.Resolve(path)
}

// Resolve marks the word whose placement is exactly path, read either
// way. Matching letters elsewhere on the board do not count.
func (m *Match) Resolve(path []grid.Pos) (string, bool) {
	if !m.active() || len(path) == 0 {
		return "", false
	}
	rev := grid.Reverse(path)
	for _, pl := range m.Placements {
		if !grid.Equal(path, pl.Positions) && !grid.Equal(rev, pl.Positions) {
			continue
		}
		if slices.Contains(m.Found, pl.Word) {
			return pl.Word, false
		}
		m.Found = append(m.Found, pl.Word)
		if len(m.Found) == len(m.Placements) {
			m.Won = true
			m.Hint = nil
		}
		return pl.Word, true
	}
	return "", false
}

// ShowHint reveals the cells of a random unfound word.
func (m *Match) ShowHint() bool {
	if !m.active() || m.Hint != nil || m.HintsUsed >= MaxHints {
		return false
	}
	var unfound []Placement
	for _, pl := range m.Placements {
		if !slices.Contains(m.Found, pl.Word) {
			unfound = append(unfound, pl)
		}
	}
	if len(unfound) == 0 {
		return false
	}
	pl := unfound[m.rng.IntN(len(unfound))]
	m.Hint = pl.Positions
	m.HintsUsed++
	return true
}

// HideHint clears the revealed cells.
func (m *Match) HideHint() bool {
	if m.Hint == nil {
		return false
	}
	m.Hint = nil
	return true
}

// TogglePause pauses or resumes the clock. Pausing drops any selection.
func (m *Match) TogglePause() bool {
	if m.Won {
		return false
	}
	m.Paused = !m.Paused
	m.Selecting = false
	m.Selection = nil
	return true
}

// Tick advances the clock by one second.
func (m *Match) Tick() bool {
	if !m.active() {
		return false
	}
	m.Time++
	return true
}
