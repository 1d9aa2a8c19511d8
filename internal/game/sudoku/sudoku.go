package sudoku

import (
	"encoding/json"
	"fmt"
	"time"

	"casualgames/internal/game"
	"casualgames/internal/game/grid"
	"casualgames/internal/rng"
)

// TickInterval is the clock resolution.
const TickInterval = time.Second

// Action types.
const (
	ActionDifficulty    = "difficulty"
	ActionSelect        = "select"
	ActionMoveSelection = "moveSelection"
	ActionSet           = "set"
	ActionEnter         = "enter"
	ActionPause         = "pause"
	ActionTick          = "tick"
	ActionReset         = "reset"
)

var moves = map[string]grid.Delta{
	"up":    grid.Up,
	"down":  grid.Down,
	"left":  grid.Left,
	"right": grid.Right,
}

// Sudoku implements game.Game.
type Sudoku struct{}

func (s Sudoku) Info() game.GameInfo {
	return game.GameInfo{
		Name:       "sudoku",
		Title:      "Sudoku",
		MinPlayers: 1,
		MaxPlayers: 1,
	}
}

// Options are the creation options.
type Options struct {
	Difficulty Difficulty `json:"difficulty"`
}

func (s Sudoku) NewMatch(config game.MatchConfig) game.Match {
	opts := Options{Difficulty: Medium}
	_ = config.DecodeOptions(&opts)
	m := newMatch(config.Player(), config.Rand())
	if !m.NewGame(opts.Difficulty) {
		m.NewGame(Medium)
	}
	return m
}

// Match implements game.Match for sudoku.
type Match struct {
	Player     string           `json:"player"`
	Board      [Size][Size]Cell `json:"board"`
	Solution   Grid             `json:"solution"`
	Selected   *grid.Pos        `json:"selectedCell"`
	Difficulty Difficulty       `json:"difficulty"`
	Started    bool             `json:"isGameStarted"`
	Won        bool             `json:"isGameWon"`
	Over       bool             `json:"isGameOver"`
	Paused     bool             `json:"isPaused"`
	Mistakes   int              `json:"mistakes"`
	Timer      int              `json:"timer"`
	Epoch      int              `json:"epoch"`

	rng rng.Source
}

type stateView struct {
	Board      [Size][Size]Cell `json:"board"`
	Selected   *grid.Pos        `json:"selectedCell"`
	Difficulty Difficulty       `json:"difficulty"`
	Started    bool             `json:"isGameStarted"`
	Won        bool             `json:"isGameWon"`
	Over       bool             `json:"isGameOver"`
	Paused     bool             `json:"isPaused"`
	Mistakes   int              `json:"mistakes"`
	Timer      int              `json:"timer"`
	Used       [Size + 1]int    `json:"usedNumbers"`
	Solution   *Grid            `json:"solution,omitempty"`
}

// State hides the solution until the game has ended.
func (m *Match) State(playerID string) any {
	v := stateView{
		Board:      m.Board,
		Selected:   m.Selected,
		Difficulty: m.Difficulty,
		Started:    m.Started,
		Won:        m.Won,
		Over:       m.Over,
		Paused:     m.Paused,
		Mistakes:   m.Mistakes,
		Timer:      m.Timer,
		Used:       m.Used(),
	}
	if m.Won || m.Over {
		sol := m.Solution
		v.Solution = &sol
	}
	if m.Paused {
		// the board stays hidden while paused
		v.Board = [Size][Size]Cell{}
	}
	return v
}

type difficultyPayload struct {
	Difficulty Difficulty `json:"difficulty"`
}

type cellPayload struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

type directionPayload struct {
	Direction string `json:"direction"`
}

type valuePayload struct {
	Value int `json:"value"`
}

func (m *Match) ValidActions(playerID string) []game.Action {
	actions := []game.Action{{Type: game.ActionNewGame}, {Type: ActionReset}}
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		actions = append(actions, game.NewAction(ActionDifficulty, difficultyPayload{Difficulty: d}))
	}
	if m.Started && !m.Over && !m.Won {
		actions = append(actions, game.Action{Type: ActionPause})
	}
	if !m.playable() {
		return actions
	}
	if m.Selected == nil || m.Board[m.Selected.Row][m.Selected.Col].Given {
		return actions
	}
	for v := 0; v <= Size; v++ {
		actions = append(actions, game.NewAction(ActionEnter, valuePayload{Value: v}))
	}
	return actions
}

func (m *Match) ApplyAction(playerID string, action game.Action) error {
	ok := false
	switch action.Type {
	case game.ActionNewGame:
		ok = m.NewGame(m.Difficulty)
	case ActionReset:
		m.Reset()
		ok = true
	case ActionDifficulty:
		var p difficultyPayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		if _, known := p.Difficulty.Removed(); !known {
			return fmt.Errorf("unknown difficulty: %s", p.Difficulty)
		}
		ok = m.NewGame(p.Difficulty)
	case ActionSelect:
		var p cellPayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		ok = m.Select(p.Row, p.Col)
	case ActionMoveSelection:
		var p directionPayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		d, known := moves[p.Direction]
		if !known {
			return fmt.Errorf("unknown direction: %s", p.Direction)
		}
		ok = m.MoveSelection(d)
	case ActionSet:
		var p cellPayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		prev := m.Selected
		ok = m.Select(p.Row, p.Col) && m.SetCellValue(p.Value)
		if !ok {
			m.Selected = prev
		}
	case ActionEnter:
		var p valuePayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		ok = m.SetCellValue(p.Value)
	case ActionPause:
		ok = m.TogglePause()
	case ActionTick:
		var e game.Epoch
		if err := action.Decode(&e); err != nil {
			return err
		}
		ok = e.Epoch == m.Epoch && m.Tick()
	default:
		return fmt.Errorf("unknown action type: %s", action.Type)
	}
	if !ok {
		return game.Rejectf("%s not allowed now", action.Type)
	}
	return nil
}

func (m *Match) FollowUps() []game.FollowUp {
	if !m.playable() {
		return nil
	}
	return []game.FollowUp{game.FollowUpAction(ActionTick, TickInterval, m.Epoch)}
}

func (m *Match) Internal(actionType string) bool {
	return actionType == ActionTick
}

func (m *Match) IsOver() bool {
	return m.Won || m.Over
}

func (m *Match) Results() []game.PlayerResult {
	if !m.IsOver() {
		return nil
	}
	score := 0
	rank := 2
	if m.Won {
		score, rank = 1, 1
	}
	return []game.PlayerResult{{PlayerID: m.Player, Rank: rank, Score: score}}
}

func (m *Match) MarshalJSON() ([]byte, error) {
	type alias Match
	return json.Marshal((*alias)(m))
}

func (m *Match) UnmarshalJSON(data []byte) error {
	type alias Match
	return json.Unmarshal(data, (*alias)(m))
}
