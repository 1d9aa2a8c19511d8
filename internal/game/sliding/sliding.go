package sliding

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"casualgames/internal/game"
	"casualgames/internal/rng"
)

// RevealDelay is how long a finished image is shown before the win.
const RevealDelay = 1500 * time.Millisecond

// Category is the picture set used by image puzzles.
const Category = "nature"

// Action types.
const (
	ActionStart   = "start"
	ActionShuffle = "shuffle"
	ActionClick   = "click"
	ActionSize    = "size"
	ActionType    = "type"
	ActionReveal  = "reveal"
)

// SlidingPuzzle implements game.Game.
type SlidingPuzzle struct{}

func (s SlidingPuzzle) Info() game.GameInfo {
	return game.GameInfo{
		Name:       "sliding",
		Title:      "Sliding Puzzle",
		MinPlayers: 1,
		MaxPlayers: 1,
	}
}

// Options are the creation options.
type Options struct {
	Size int  `json:"gridSize"`
	Kind Kind `json:"puzzleType"`
}

func (s SlidingPuzzle) NewMatch(config game.MatchConfig) game.Match {
	opts := Options{Size: 3, Kind: Number}
	_ = config.DecodeOptions(&opts)
	if !slices.Contains(Sizes, opts.Size) {
		opts.Size = 3
	}
	if opts.Kind != Image {
		opts.Kind = Number
	}
	m := &Match{Player: config.Player(), Size: opts.Size, Kind: opts.Kind, rng: config.Rand()}
	m.Reset()
	return m
}

// Match implements game.Match for the sliding puzzle.
type Match struct {
	Player   string `json:"player"`
	Size     int    `json:"gridSize"`
	Kind     Kind   `json:"puzzleType"`
	Tiles    []int  `json:"tiles"`
	Moves    int    `json:"moves"`
	Started  bool   `json:"isGameStarted"`
	Won      bool   `json:"isGameWon"`
	Complete bool   `json:"showCompleteImage"`
	Epoch    int    `json:"epoch"`

	rng rng.Source
}

type stateView struct {
	Size      int    `json:"gridSize"`
	Kind      Kind   `json:"puzzleType"`
	Category  string `json:"imageCategory,omitempty"`
	Tiles     []int  `json:"tiles"`
	Clickable []int  `json:"clickable"`
	Moves     int    `json:"moves"`
	Started   bool   `json:"isGameStarted"`
	Won       bool   `json:"isGameWon"`
	Complete  bool   `json:"showCompleteImage"`
}

func (m *Match) State(playerID string) any {
	v := stateView{
		Size:      m.Size,
		Kind:      m.Kind,
		Tiles:     m.Tiles,
		Clickable: m.clickable(),
		Moves:     m.Moves,
		Started:   m.Started,
		Won:       m.Won,
		Complete:  m.Complete,
	}
	if m.Kind == Image {
		v.Category = Category
	}
	return v
}

func (m *Match) clickable() []int {
	if !m.Started || m.Won || m.Complete {
		return nil
	}
	return blankMoves(slices.Index(m.Tiles, 0), m.Size)
}

type indexPayload struct {
	Index int `json:"index"`
}

type sizePayload struct {
	Size int `json:"size"`
}

type typePayload struct {
	Type Kind `json:"type"`
}

func (m *Match) ValidActions(playerID string) []game.Action {
	actions := []game.Action{{Type: game.ActionNewGame}}
	for _, s := range Sizes {
		actions = append(actions, game.NewAction(ActionSize, sizePayload{Size: s}))
	}
	for _, k := range []Kind{Number, Image} {
		actions = append(actions, game.NewAction(ActionType, typePayload{Type: k}))
	}
	if !m.Started || m.Won {
		return append(actions, game.Action{Type: ActionStart})
	}
	if m.Complete {
		return actions
	}
	actions = append(actions, game.Action{Type: ActionShuffle})
	for _, i := range m.clickable() {
		actions = append(actions, game.NewAction(ActionClick, indexPayload{Index: i}))
	}
	return actions
}

func (m *Match) ApplyAction(playerID string, action game.Action) error {
	ok := true
	switch action.Type {
	case game.ActionNewGame:
		m.Reset()
	case ActionStart:
		m.Start()
	case ActionShuffle:
		ok = m.Reshuffle()
	case ActionClick:
		var p indexPayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		ok = m.Click(p.Index)
	case ActionSize:
		var p sizePayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		if !m.SetSize(p.Size) {
			return fmt.Errorf("unsupported size: %d", p.Size)
		}
	case ActionType:
		var p typePayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		if !m.SetKind(p.Type) {
			return fmt.Errorf("unknown puzzle type: %s", p.Type)
		}
	case ActionReveal:
		var e game.Epoch
		if err := action.Decode(&e); err != nil {
			return err
		}
		ok = e.Epoch == m.Epoch && m.Reveal()
	default:
		return fmt.Errorf("unknown action type: %s", action.Type)
	}
	if !ok {
		return game.Rejectf("%s not allowed now", action.Type)
	}
	return nil
}

func (m *Match) FollowUps() []game.FollowUp {
	if m.Complete && !m.Won {
		return []game.FollowUp{game.FollowUpAction(ActionReveal, RevealDelay, m.Epoch)}
	}
	return nil
}

func (m *Match) Internal(actionType string) bool {
	return actionType == ActionReveal
}

func (m *Match) IsOver() bool {
	return m.Won
}

// Results ranks the player with the move count as score.
func (m *Match) Results() []game.PlayerResult {
	if !m.Won {
		return nil
	}
	return []game.PlayerResult{{PlayerID: m.Player, Rank: 1, Score: m.Moves}}
}

func (m *Match) MarshalJSON() ([]byte, error) {
	type alias Match
	return json.Marshal((*alias)(m))
}

func (m *Match) UnmarshalJSON(data []byte) error {
	type alias Match
	return json.Unmarshal(data, (*alias)(m))
}
