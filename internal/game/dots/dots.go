package dots

import (
	"encoding/json"
	"fmt"
	"time"

	"casualgames/internal/game"
	"casualgames/internal/rng"
)

// ComputerDelay is the computer's thinking pause.
const ComputerDelay = 500 * time.Millisecond

// Modes.
const (
	ModeFriend   = "friend"
	ModeComputer = "computer"
)

// Action types.
const (
	ActionStart    = "start"
	ActionSize     = "size"
	ActionMode     = "mode"
	ActionMove     = "move"
	ActionComputer = "computer"
)

// DotsAndBoxes implements game.Game.
type DotsAndBoxes struct{}

func (d DotsAndBoxes) Info() game.GameInfo {
	return game.GameInfo{
		Name:       "dots",
		Title:      "Dots and Boxes",
		MinPlayers: 1,
		MaxPlayers: 1,
	}
}

// Options are the creation options.
type Options struct {
	Size int    `json:"size"`
	Mode string `json:"mode"`
}

func (d DotsAndBoxes) NewMatch(config game.MatchConfig) game.Match {
	opts := Options{Size: 3, Mode: ModeFriend}
	_ = config.DecodeOptions(&opts)
	m := &Match{Player: config.Player(), Size: 3, Mode: ModeFriend, Current: 1, rng: config.Rand()}
	m.SetSize(opts.Size)
	m.SetMode(opts.Mode)
	m.clearOwners()
	return m
}

// Match implements game.Match for dots and boxes. The edge owner maps
// record who drew each edge, keyed "row-col".
type Match struct {
	Player  string  `json:"player"`
	Size    int     `json:"gridSize"`
	Mode    string  `json:"gameMode"`
	Current int     `json:"currentPlayer"`
	Scores  Scores  `json:"scores"`
	Lines   Lines   `json:"lines"`
	Boxes   [][]int `json:"boxes"` // 0 = unclaimed, else the player
	Started bool    `json:"gameStarted"`
	Over    bool    `json:"gameOver"`
	Winner  int     `json:"winner"` // 0 while playing, 1, 2 or Draw

	HorizontalOwners map[string]int `json:"horizontalOwners"`
	VerticalOwners   map[string]int `json:"verticalOwners"`
	Epoch            int            `json:"epoch"`

	rng rng.Source
}

type stateView struct {
	GridSize         int            `json:"gridSize"`
	GameMode         string         `json:"gameMode"`
	CurrentPlayer    int            `json:"currentPlayer"`
	Scores           Scores         `json:"scores"`
	HorizontalLines  [][]bool       `json:"horizontalLines"`
	VerticalLines    [][]bool       `json:"verticalLines"`
	Boxes            [][]int        `json:"boxes"`
	GameStarted      bool           `json:"gameStarted"`
	GameOver         bool           `json:"gameOver"`
	Winner           any            `json:"winner"`
	HorizontalOwners map[string]int `json:"horizontalOwners"`
	VerticalOwners   map[string]int `json:"verticalOwners"`
}

func (m *Match) State(playerID string) any {
	v := stateView{
		GridSize:         m.Size,
		GameMode:         m.Mode,
		CurrentPlayer:    m.Current,
		Scores:           m.Scores,
		HorizontalLines:  m.Lines.Horizontal,
		VerticalLines:    m.Lines.Vertical,
		Boxes:            m.Boxes,
		GameStarted:      m.Started,
		GameOver:         m.Over,
		HorizontalOwners: m.HorizontalOwners,
		VerticalOwners:   m.VerticalOwners,
	}
	switch m.Winner {
	case 1, 2:
		v.Winner = m.Winner
	case Draw:
		v.Winner = "draw"
	}
	return v
}

type sizePayload struct {
	Size int `json:"size"`
}

type modePayload struct {
	Mode string `json:"mode"`
}

func (m *Match) ValidActions(playerID string) []game.Action {
	actions := []game.Action{{Type: game.ActionNewGame}, {Type: ActionStart}}
	for _, n := range Sizes {
		actions = append(actions, game.NewAction(ActionSize, sizePayload{Size: n}))
	}
	actions = append(actions,
		game.NewAction(ActionMode, modePayload{Mode: ModeFriend}),
		game.NewAction(ActionMode, modePayload{Mode: ModeComputer}),
	)
	if !m.Started || m.Over || m.ComputerTurn() {
		return actions
	}
	for _, mv := range m.Lines.Open() {
		actions = append(actions, game.NewAction(ActionMove, mv))
	}
	return actions
}

func (m *Match) ApplyAction(playerID string, action game.Action) error {
	switch action.Type {
	case game.ActionNewGame:
		m.NewGame()
		m.clearOwners()
		return nil
	case ActionStart:
		m.Start()
		m.clearOwners()
		return nil
	case ActionSize:
		var p sizePayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		if !m.SetSize(p.Size) {
			return fmt.Errorf("unsupported grid size: %d", p.Size)
		}
		m.clearOwners()
		return nil
	case ActionMode:
		var p modePayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		if !m.SetMode(p.Mode) {
			return fmt.Errorf("unknown mode: %s", p.Mode)
		}
		m.clearOwners()
		return nil
	case ActionMove:
		var mv Move
		if err := action.Decode(&mv); err != nil {
			return err
		}
		if m.ComputerTurn() {
			return game.Rejectf("not your turn")
		}
		if !m.draw(mv) {
			return game.Rejectf("edge %s %d-%d not playable", mv.Edge, mv.Row, mv.Col)
		}
		return nil
	case ActionComputer:
		var e game.Epoch
		if err := action.Decode(&e); err != nil {
			return err
		}
		if e.Epoch != m.Epoch || !m.ComputerTurn() {
			return game.Rejectf("computer move is stale")
		}
		mv, ok := ChooseMove(m.Lines, m.rng)
		if !ok || !m.draw(mv) {
			return game.Rejectf("no edge left")
		}
		return nil
	}
	return fmt.Errorf("unknown action type: %s", action.Type)
}

// draw applies mv and records its owner.
func (m *Match) draw(mv Move) bool {
	player := m.Current
	if _, ok := m.MakeMove(mv); !ok {
		return false
	}
	if m.HorizontalOwners == nil || m.VerticalOwners == nil {
		m.clearOwners()
	}
	key := fmt.Sprintf("%d-%d", mv.Row, mv.Col)
	if mv.Edge == Horizontal {
		m.HorizontalOwners[key] = player
	} else {
		m.VerticalOwners[key] = player
	}
	return true
}

func (m *Match) clearOwners() {
	m.HorizontalOwners = map[string]int{}
	m.VerticalOwners = map[string]int{}
}

func (m *Match) FollowUps() []game.FollowUp {
	if !m.ComputerTurn() {
		return nil
	}
	return []game.FollowUp{game.FollowUpAction(ActionComputer, ComputerDelay, m.Epoch)}
}

func (m *Match) Internal(actionType string) bool {
	return actionType == ActionComputer
}

func (m *Match) IsOver() bool {
	return m.Over
}

func (m *Match) Results() []game.PlayerResult {
	if !m.Over {
		return nil
	}
	ids := [2]string{"player1", "player2"}
	if m.Mode == ModeComputer {
		ids = [2]string{m.Player, "computer"}
	}
	r1, r2 := 1, 1
	switch m.Winner {
	case 1:
		r2 = 2
	case 2:
		r1 = 2
	}
	return []game.PlayerResult{
		{PlayerID: ids[0], Rank: r1, Score: m.Scores.Player1},
		{PlayerID: ids[1], Rank: r2, Score: m.Scores.Player2},
	}
}

func (m *Match) MarshalJSON() ([]byte, error) {
	type alias Match
	return json.Marshal((*alias)(m))
}

func (m *Match) UnmarshalJSON(data []byte) error {
	type alias Match
	return json.Unmarshal(data, (*alias)(m))
}
