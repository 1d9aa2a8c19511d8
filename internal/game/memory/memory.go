package memory

import (
	"encoding/json"
	"fmt"
	"time"

	"casualgames/internal/game"
	"casualgames/internal/rng"
)

// CheckDelay is how long a pair stays visible before it is resolved.
const CheckDelay = 750 * time.Millisecond

// Action types.
const (
	ActionStart      = "start"
	ActionReset      = "reset"
	ActionGridSize   = "gridSize"
	ActionTheme      = "theme"
	ActionPlayers    = "players"
	ActionFlip       = "flip"
	ActionCheck      = "check"
	ActionEndPreview = "endPreview"
)

// MemoryMatch implements game.Game.
type MemoryMatch struct{}

func (g MemoryMatch) Info() game.GameInfo {
	return game.GameInfo{
		Name:       "memory",
		Title:      "Memory Match",
		MinPlayers: 1,
		MaxPlayers: 1,
	}
}

// Options are the creation options.
type Options struct {
	GridSize int   `json:"gridSize"`
	Theme    Theme `json:"theme"`
	Players  int   `json:"players"`
}

// NewMatch returns a match on the options screen.
func (g MemoryMatch) NewMatch(config game.MatchConfig) game.Match {
	opts := Options{GridSize: 4, Theme: Numbers, Players: 2}
	_ = config.DecodeOptions(&opts)
	m := &Match{
		Player:   config.Player(),
		GridSize: 4,
		Theme:    Numbers,
		Players:  seats(2),
		rng:      config.Rand(),
	}
	m.SetGridSize(opts.GridSize)
	m.SetTheme(opts.Theme)
	m.SetPlayers(opts.Players)
	return m
}

// Match implements game.Match for memory match.
type Match struct {
	Player   string   `json:"player"`
	GridSize int      `json:"gridSize"`
	Theme    Theme    `json:"theme"`
	Players  []Player `json:"players"`
	Current  int      `json:"currentPlayerIndex"`
	Cards    []Card   `json:"cards"`
	Flipped  []int    `json:"flippedCards"`
	Started  bool     `json:"isGameStarted"`
	Over     bool     `json:"isGameOver"`
	Moves    int      `json:"moves"`
	Preview  bool     `json:"showPreview"`
	Epoch    int      `json:"epoch"`

	rng rng.Source
}

type stateView struct {
	GridSize int      `json:"gridSize"`
	Theme    Theme    `json:"theme"`
	Players  []Player `json:"players"`
	Current  int      `json:"currentPlayerIndex"`
	Cards    []Card   `json:"cards"`
	Flipped  []int    `json:"flippedCards"`
	Started  bool     `json:"isGameStarted"`
	Over     bool     `json:"isGameOver"`
	Moves    int      `json:"moves"`
	Preview  bool     `json:"showPreview"`
	Winners  []int    `json:"winners,omitempty"`
	Tie      bool     `json:"tie,omitempty"`
}

// State hides the value of every face-down card unless the preview is on.
func (m *Match) State(playerID string) any {
	cards := make([]Card, len(m.Cards))
	for i, c := range m.Cards {
		cards[i] = c
		if !c.Flipped && !c.Matched && !m.Preview {
			cards[i].Value = ""
		}
	}
	v := stateView{
		GridSize: m.GridSize,
		Theme:    m.Theme,
		Players:  m.Players,
		Current:  m.Current,
		Cards:    cards,
		Flipped:  m.Flipped,
		Started:  m.Started,
		Over:     m.Over,
		Moves:    m.Moves,
		Preview:  m.Preview,
	}
	if m.Over {
		v.Winners = m.Winners()
		v.Tie = len(v.Winners) > 1
	}
	return v
}

type flipPayload struct {
	ID int `json:"id"`
}

type sizePayload struct {
	GridSize int `json:"gridSize"`
}

type themePayload struct {
	Theme Theme `json:"theme"`
}

type playersPayload struct {
	Players int `json:"players"`
}

func (m *Match) ValidActions(playerID string) []game.Action {
	actions := []game.Action{{Type: game.ActionNewGame}, {Type: ActionStart}, {Type: ActionReset}}
	if !m.Started || m.Over {
		for _, n := range []int{4, 6} {
			actions = append(actions, game.NewAction(ActionGridSize, sizePayload{GridSize: n}))
		}
		for _, t := range []Theme{Numbers, Animals, Fruits} {
			actions = append(actions, game.NewAction(ActionTheme, themePayload{Theme: t}))
		}
		for _, n := range []int{2, 3} {
			actions = append(actions, game.NewAction(ActionPlayers, playersPayload{Players: n}))
		}
		return actions
	}
	if m.Preview || len(m.Flipped) >= 2 {
		return actions
	}
	for _, c := range m.Cards {
		if !c.Flipped && !c.Matched {
			actions = append(actions, game.NewAction(ActionFlip, flipPayload{ID: c.ID}))
		}
	}
	return actions
}

func (m *Match) ApplyAction(playerID string, action game.Action) error {
	ok := true
	switch action.Type {
	case game.ActionNewGame, ActionStart:
		m.Start()
	case ActionReset:
		m.Reset()
	case ActionGridSize:
		var p sizePayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		if !m.SetGridSize(p.GridSize) {
			return fmt.Errorf("unsupported grid size: %d", p.GridSize)
		}
	case ActionTheme:
		var p themePayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		if !m.SetTheme(p.Theme) {
			return fmt.Errorf("unknown theme: %s", p.Theme)
		}
	case ActionPlayers:
		var p playersPayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		if !m.SetPlayers(p.Players) {
			return fmt.Errorf("unsupported player count: %d", p.Players)
		}
	case ActionFlip:
		var p flipPayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		ok = m.FlipCard(p.ID)
	case ActionCheck, ActionEndPreview:
		var e game.Epoch
		if err := action.Decode(&e); err != nil {
			return err
		}
		ok = e.Epoch == m.Epoch
		if ok && action.Type == ActionCheck {
			ok = m.Resolve()
		} else if ok {
			ok = m.EndPreview()
		}
	default:
		return fmt.Errorf("unknown action type: %s", action.Type)
	}
	if !ok {
		return game.Rejectf("%s not allowed now", action.Type)
	}
	return nil
}

func (m *Match) FollowUps() []game.FollowUp {
	var out []game.FollowUp
	if m.Preview {
		out = append(out, game.FollowUpAction(ActionEndPreview, PreviewDuration(m.GridSize), m.Epoch))
	}
	if len(m.Flipped) == 2 {
		out = append(out, game.FollowUpAction(ActionCheck, CheckDelay, m.Epoch))
	}
	return out
}

func (m *Match) Internal(actionType string) bool {
	return actionType == ActionCheck || actionType == ActionEndPreview
}

func (m *Match) IsOver() bool {
	return m.Over
}

// Results ranks the seats by score; equal scores share a rank.
func (m *Match) Results() []game.PlayerResult {
	if !m.Over {
		return nil
	}
	results := make([]game.PlayerResult, len(m.Players))
	for i, p := range m.Players {
		rank := 1
		for _, other := range m.Players {
			if other.Score > p.Score {
				rank++
			}
		}
		results[i] = game.PlayerResult{PlayerID: fmt.Sprintf("player%d", p.ID), Rank: rank, Score: p.Score}
	}
	return results
}

func (m *Match) MarshalJSON() ([]byte, error) {
	type alias Match
	return json.Marshal((*alias)(m))
}

func (m *Match) UnmarshalJSON(data []byte) error {
	type alias Match
	return json.Unmarshal(data, (*alias)(m))
}
