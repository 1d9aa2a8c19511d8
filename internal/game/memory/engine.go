package memory

import (
	"fmt"
	"slices"
	"time"

	"casualgames/internal/rng"
)

// Card is one card of the deck. ID is its position.
type Card struct {
	ID      int    `json:"id"`
	Value   string `json:"value"`
	Flipped bool   `json:"isFlipped"`
	Matched bool   `json:"isMatched"`
}

// Player is a seat at the table.
type Player struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func seats(n int) []Player {
	players := make([]Player, n)
	for i := range players {
		players[i] = Player{ID: i + 1, Name: fmt.Sprintf("Player %d", i+1)}
	}
	return players
}

// Deal builds size*size cards from the first pairs of the theme's symbols,
// each twice, in random order.
func Deal(size int, theme Theme, src rng.Source) []Card {
	syms := theme.Symbols()
	pairs := size * size / 2
	values := make([]string, 0, 2*pairs)
	for i := 0; i < pairs; i++ {
		s := syms[i%len(syms)]
		values = append(values, s, s)
	}
	rng.Shuffle(src, values)
	cards := make([]Card, len(values))
	for i, v := range values {
		cards[i] = Card{ID: i, Value: v}
	}
	return cards
}

// PreviewDuration is how long the deck is shown face up after the start.
func PreviewDuration(size int) time.Duration {
	if size == 4 {
		return 2 * time.Second
	}
	return 3 * time.Second
}

// SetGridSize picks a 4x4 or 6x6 deck and returns to the options screen.
func (m *Match) SetGridSize(n int) bool {
	if n != 4 && n != 6 {
		return false
	}
	m.GridSize = n
	m.Reset()
	return true
}

// SetTheme picks the symbol set and returns to the options screen.
func (m *Match) SetTheme(t Theme) bool {
	if t.Symbols() == nil {
		return false
	}
	m.Theme = t
	m.Reset()
	return true
}

// SetPlayers seats 2 or 3 players and returns to the options screen.
func (m *Match) SetPlayers(n int) bool {
	if n != 2 && n != 3 {
		return false
	}
	m.Players = seats(n)
	m.Reset()
	return true
}

// Start deals a fresh deck, zeroes the scores and shows the preview.
func (m *Match) Start() {
	m.Cards = Deal(m.GridSize, m.Theme, m.rng)
	for i := range m.Players {
		m.Players[i].Score = 0
	}
	m.Current = 0
	m.Flipped = nil
	m.Started = true
	m.Over = false
	m.Moves = 0
	m.Preview = true
	m.Epoch++
}

// Reset goes back to the options screen, keeping the options.
func (m *Match) Reset() {
	m.Cards = nil
	for i := range m.Players {
		m.Players[i].Score = 0
	}
	m.Current = 0
	m.Flipped = nil
	m.Started = false
	m.Over = false
	m.Moves = 0
	m.Preview = false
	m.Epoch++
}

// EndPreview turns the deck face down.
func (m *Match) EndPreview() bool {
	if !m.Preview {
		return false
	}
	m.Preview = false
	return true
}

// FlipCard turns card id face up. Nothing happens for a matched or
// face-up card, or while two cards wait to be resolved. The second card
// of a pair counts as a move.
func (m *Match) FlipCard(id int) bool {
	if !m.Started || m.Over || m.Preview || id < 0 || id >= len(m.Cards) {
		return false
	}
	card := &m.Cards[id]
	if card.Matched || card.Flipped || len(m.Flipped) >= 2 {
		return false
	}
	card.Flipped = true
	m.Flipped = append(m.Flipped, id)
	if len(m.Flipped) == 2 {
		m.Moves++
	}
	return true
}

// Resolve settles two face-up cards: a pair stays matched and scores for
// the current player, who goes again; otherwise both turn back and the
// next player takes over.
func (m *Match) Resolve() bool {
	if len(m.Flipped) != 2 {
		return false
	}
	a, b := &m.Cards[m.Flipped[0]], &m.Cards[m.Flipped[1]]
	if a.Value == b.Value {
		a.Matched, b.Matched = true, true
		m.Players[m.Current].Score++
		m.Over = !slices.ContainsFunc(m.Cards, func(c Card) bool { return !c.Matched })
	} else {
		a.Flipped, b.Flipped = false, false
		m.Current = (m.Current + 1) % len(m.Players)
	}
	m.Flipped = nil
	return true
}

// Winners returns the indices of the players with the top score. More than
// one means a tie.
func (m *Match) Winners() []int {
	best := -1
	var out []int
	for i, p := range m.Players {
		switch {
		case p.Score > best:
			best = p.Score
			out = []int{i}
		case p.Score == best:
			out = append(out, i)
		}
	}
	return out
}
