package wordsearch

import (
	"encoding/json"
	"fmt"
	"time"

	"casualgames/internal/game"
	"casualgames/internal/game/grid"
	"casualgames/internal/rng"
)

// Timings.
const (
	HintDuration = 2 * time.Second
	TickInterval = time.Second
)

// Action types.
const (
	ActionDifficulty = "difficulty"
	ActionPress      = "press"
	ActionExtend     = "extend"
	ActionRelease    = "release"
	ActionSelect     = "select"
	ActionHint       = "hint"
	ActionHideHint   = "hideHint"
	ActionPause      = "pause"
	ActionTick       = "tick"
)

// WordSearch implements game.Game.
type WordSearch struct{}

func (w WordSearch) Info() game.GameInfo {
	return game.GameInfo{
		Name:       "wordsearch",
		Title:      "Word Search",
		MinPlayers: 1,
		MaxPlayers: 1,
	}
}

// Options are the creation options.
type Options struct {
	Difficulty Difficulty `json:"difficulty"`
}

func (w WordSearch) NewMatch(config game.MatchConfig) game.Match {
	opts := Options{Difficulty: Medium}
	_ = config.DecodeOptions(&opts)
	m := &Match{Player: config.Player(), rng: config.Rand()}
	if !m.NewGame(opts.Difficulty) {
		m.NewGame(Medium)
	}
	return m
}

// Match implements game.Match for word search.
type Match struct {
	Player     string      `json:"player"`
	Difficulty Difficulty  `json:"difficulty"`
	Grid       [][]string  `json:"grid"`
	Placements []Placement `json:"placements"`
	Found      []string    `json:"foundWords"`
	Selecting  bool        `json:"isSelecting"`
	Selection  []grid.Pos  `json:"selectedCells"`
	Hint       []grid.Pos  `json:"hintCells"`
	HintsUsed  int         `json:"hintCount"`
	Paused     bool        `json:"isPaused"`
	Won        bool        `json:"win"`
	Time       int         `json:"timeTaken"`
	Epoch      int         `json:"epoch"`

	rng rng.Source
}

type stateView struct {
	Difficulty Difficulty `json:"difficulty"`
	Grid       [][]string `json:"grid"`
	Words      []string   `json:"words"`
	Found      []string   `json:"foundWords"`
	FoundCells []grid.Pos `json:"foundCells"`
	Selection  []grid.Pos `json:"selectedCells"`
	Hint       []grid.Pos `json:"hintCells"`
	HintsLeft  int        `json:"hintsLeft"`
	Paused     bool       `json:"isPaused"`
	Won        bool       `json:"win"`
	Time       int        `json:"timeTaken"`
}

// State lists the words to find without their positions.
func (m *Match) State(playerID string) any {
	v := stateView{
		Difficulty: m.Difficulty,
		Grid:       m.Grid,
		Found:      m.Found,
		Selection:  m.Selection,
		Hint:       m.Hint,
		HintsLeft:  MaxHints - m.HintsUsed,
		Paused:     m.Paused,
		Won:        m.Won,
		Time:       m.Time,
	}
	for _, pl := range m.Placements {
		v.Words = append(v.Words, pl.Word)
		for _, f := range m.Found {
			if f == pl.Word {
				v.FoundCells = append(v.FoundCells, pl.Positions...)
			}
		}
	}
	return v
}

type difficultyPayload struct {
	Difficulty Difficulty `json:"difficulty"`
}

type selectPayload struct {
	Cells []grid.Pos `json:"cells"`
}

func (m *Match) ValidActions(playerID string) []game.Action {
	actions := []game.Action{{Type: game.ActionNewGame}}
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		actions = append(actions, game.NewAction(ActionDifficulty, difficultyPayload{Difficulty: d}))
	}
	if m.Won {
		return actions
	}
	actions = append(actions, game.Action{Type: ActionPause})
	if m.Paused {
		return actions
	}
	if m.Hint == nil && m.HintsUsed < MaxHints {
		actions = append(actions, game.Action{Type: ActionHint})
	}
	if m.Selecting {
		actions = append(actions, game.Action{Type: ActionRelease})
	}
	return actions
}

func (m *Match) ApplyAction(playerID string, action game.Action) error {
	ok := false
	switch action.Type {
	case game.ActionNewGame:
		ok = m.NewGame(m.Difficulty)
	case ActionDifficulty:
		var p difficultyPayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		if _, known := p.Difficulty.Level(); !known {
			return fmt.Errorf("unknown difficulty: %s", p.Difficulty)
		}
		ok = m.NewGame(p.Difficulty)
	case ActionPress, ActionExtend:
		var p grid.Pos
		if err := action.Decode(&p); err != nil {
			return err
		}
		if action.Type == ActionPress {
			ok = m.Press(p)
		} else {
			ok = m.Extend(p)
		}
	case ActionRelease:
		ok = m.Selecting
		m.Release()
	case ActionSelect:
		var p selectPayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		if len(p.Cells) == 0 {
			return fmt.Errorf("select: no cells")
		}
		path, straight := grid.Line(p.Cells[0], p.Cells[len(p.Cells)-1])
		if !straight || !grid.Equal(path, p.Cells) {
			return game.Rejectf("selection is not a straight line")
		}
		_, ok = m.Resolve(p.Cells)
	case ActionHint:
		ok = m.ShowHint()
	case ActionPause:
		ok = m.TogglePause()
	case ActionHideHint, ActionTick:
		var e game.Epoch
		if err := action.Decode(&e); err != nil {
			return err
		}
		if e.Epoch == m.Epoch {
			if action.Type == ActionTick {
				ok = m.Tick()
			} else {
				ok = m.HideHint()
			}
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
	if m.active() {
		out = append(out, game.FollowUpAction(ActionTick, TickInterval, m.Epoch))
	}
	if m.Hint != nil {
		out = append(out, game.FollowUpAction(ActionHideHint, HintDuration, m.Epoch))
	}
	return out
}

func (m *Match) Internal(actionType string) bool {
	return actionType == ActionTick || actionType == ActionHideHint
}

func (m *Match) IsOver() bool {
	return m.Won
}

func (m *Match) Results() []game.PlayerResult {
	if !m.Won {
		return nil
	}
	return []game.PlayerResult{{PlayerID: m.Player, Rank: 1, Score: len(m.Found)}}
}

func (m *Match) MarshalJSON() ([]byte, error) {
	type alias Match
	return json.Marshal((*alias)(m))
}

func (m *Match) UnmarshalJSON(data []byte) error {
	type alias Match
	return json.Unmarshal(data, (*alias)(m))
}
