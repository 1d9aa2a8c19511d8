package wordsearch

import (
	"casualgames/internal/game/grid"
	"casualgames/internal/rng"
)

// PlacementTries bounds the random attempts per word.
const PlacementTries = 200

// Difficulty selects the board size, word length and directions.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Level holds the parameters of a difficulty. The number of words equals
// the grid size.
type Level struct {
	Size       int
	MaxWordLen int
	Directions []grid.Delta
}

var levels = map[Difficulty]Level{
	Easy:   {Size: 9, MaxWordLen: 7, Directions: grid.Orthogonal},
	Medium: {Size: 12, MaxWordLen: 9, Directions: grid.All},
	Hard:   {Size: 15, MaxWordLen: 12, Directions: grid.All},
}

// Level returns the parameters of d.
func (d Difficulty) Level() (Level, bool) {
	l, ok := levels[d]
	return l, ok
}

// Placement is the cells a word was written into, first letter first.
type Placement struct {
	Word      string     `json:"word"`
	Positions []grid.Pos `json:"positions"`
}

// Place writes words into a size x size grid in random order, each at a
// random start and direction. A word may cross another only on a shared
// letter. Words that do not fit after PlacementTries attempts are left
// out. Empty cells are filled with random letters.
func Place(words []string, size int, dirs []grid.Delta, src rng.Source) ([][]string, []Placement) {
	letters := make([][]string, size)
	for i := range letters {
		letters[i] = make([]string, size)
	}
	order := append([]string(nil), words...)
	rng.Shuffle(src, order)

	var placements []Placement
	for _, word := range order {
		for try := 0; try < PlacementTries; try++ {
			dir := rng.Pick(src, dirs)
			p := grid.Pos{Row: src.IntN(size), Col: src.IntN(size)}
			positions, ok := fit(letters, word, p, dir)
			if !ok {
				continue
			}
			for i, pos := range positions {
				letters[pos.Row][pos.Col] = word[i : i+1]
			}
			placements = append(placements, Placement{Word: word, Positions: positions})
			break
		}
	}

	for r := range letters {
		for c := range letters[r] {
			if letters[r][c] == "" {
				letters[r][c] = string(rune('A' + src.IntN(26)))
			}
		}
	}
	return letters, placements
}

func fit(letters [][]string, word string, p grid.Pos, dir grid.Delta) ([]grid.Pos, bool) {
	size := len(letters)
	positions := make([]grid.Pos, 0, len(word))
	for i := 0; i < len(word); i++ {
		if !p.In(size, size) {
			return nil, false
		}
		if cur := letters[p.Row][p.Col]; cur != "" && cur != word[i:i+1] {
			return nil, false
		}
		positions = append(positions, p)
		p = p.Add(dir)
	}
	return positions, true
}
