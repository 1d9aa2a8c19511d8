package tictactoe

import (
	"encoding/json"
	"fmt"
	"time"

	"casualgames/internal/game"
)

// ComputerDelay is the computer's thinking pause.
const ComputerDelay = 750 * time.Millisecond

// Action types.
const (
	ActionMove     = "move"
	ActionMode     = "mode"
	ActionSymbol   = "symbol"
	ActionComputer = "computer"
)

// TicTacToe implements game.Game.
type TicTacToe struct{}

func (t TicTacToe) Info() game.GameInfo {
	return game.GameInfo{
		Name:       "tictactoe",
		Title:      "Tic-Tac-Toe",
		MinPlayers: 1,
		MaxPlayers: 1,
	}
}

// Options are the creation options.
type Options struct {
	Mode   string `json:"mode"`
	Symbol string `json:"symbol"`
}

func (t TicTacToe) NewMatch(config game.MatchConfig) game.Match {
	opts := Options{Mode: ModeFriend, Symbol: X}
	_ = config.DecodeOptions(&opts)
	m := &Match{Player: config.Player(), Mode: ModeFriend, Symbol: X, Current: X}
	m.SetMode(opts.Mode)
	m.SetSymbol(opts.Symbol)
	return m
}

// Match implements game.Match for tic-tac-toe.
type Match struct {
	Player  string    `json:"player"`
	Board   [9]string `json:"board"`
	Current string    `json:"currentPlayer"`
	Symbol  string    `json:"playerSymbol"` // the human's symbol in computer mode
	Mode    string    `json:"gameMode"`
	Winner  string    `json:"winner"` // X, O, draw or empty
	Done    bool      `json:"gameOver"`
	Scores  Scores    `json:"scores"`
	Epoch   int       `json:"epoch"`
}

type stateView struct {
	Board          [9]string `json:"board"`
	CurrentPlayer  string    `json:"currentPlayer"`
	PlayerSymbol   string    `json:"playerSymbol"`
	GameMode       string    `json:"gameMode"`
	Winner         string    `json:"winner,omitempty"`
	GameOver       bool      `json:"gameOver"`
	Scores         Scores    `json:"scores"`
	ComputerToMove bool      `json:"computerToMove"`
}

func (m *Match) State(playerID string) any {
	return stateView{
		Board:          m.Board,
		CurrentPlayer:  m.Current,
		PlayerSymbol:   m.Symbol,
		GameMode:       m.Mode,
		Winner:         m.Winner,
		GameOver:       m.Done,
		Scores:         m.Scores,
		ComputerToMove: m.ComputerTurn(),
	}
}

type movePayload struct {
	Cell int `json:"cell"`
}

type modePayload struct {
	Mode   string `json:"mode"`
	Symbol string `json:"symbol,omitempty"`
}

type symbolPayload struct {
	Symbol string `json:"symbol"`
}

func (m *Match) ValidActions(playerID string) []game.Action {
	actions := []game.Action{
		{Type: game.ActionNewGame},
		game.NewAction(ActionMode, modePayload{Mode: ModeFriend}),
		game.NewAction(ActionMode, modePayload{Mode: ModeComputer}),
		game.NewAction(ActionSymbol, symbolPayload{Symbol: X}),
		game.NewAction(ActionSymbol, symbolPayload{Symbol: O}),
	}
	if m.Done || m.ComputerTurn() {
		return actions
	}
	for i, v := range m.Board {
		if v == "" {
			actions = append(actions, game.NewAction(ActionMove, movePayload{Cell: i}))
		}
	}
	return actions
}

func (m *Match) ApplyAction(playerID string, action game.Action) error {
	switch action.Type {
	case game.ActionNewGame:
		m.Reset()
		return nil
	case ActionMove:
		var move movePayload
		if err := action.Decode(&move); err != nil {
			return err
		}
		if m.ComputerTurn() {
			return game.Rejectf("not your turn")
		}
		if !m.MakeMove(move.Cell) {
			return game.Rejectf("cell %d not playable", move.Cell)
		}
		return nil
	case ActionMode:
		var p modePayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		if !m.SetMode(p.Mode) {
			return fmt.Errorf("unknown mode: %s", p.Mode)
		}
		if p.Symbol != "" && !m.SetSymbol(p.Symbol) {
			return fmt.Errorf("unknown symbol: %s", p.Symbol)
		}
		return nil
	case ActionSymbol:
		var p symbolPayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		if !m.SetSymbol(p.Symbol) {
			return fmt.Errorf("unknown symbol: %s", p.Symbol)
		}
		return nil
	case ActionComputer:
		var e game.Epoch
		if err := action.Decode(&e); err != nil {
			return err
		}
		if e.Epoch != m.Epoch || !m.ComputerMove() {
			return game.Rejectf("computer move is stale")
		}
		return nil
	}
	return fmt.Errorf("unknown action type: %s", action.Type)
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
	return m.Done
}

func (m *Match) Results() []game.PlayerResult {
	if !m.Done {
		return nil
	}
	if m.Mode == ModeComputer {
		switch m.Winner {
		case Draw:
			return []game.PlayerResult{
				{PlayerID: m.Player, Rank: 1, Score: 0},
				{PlayerID: "computer", Rank: 1, Score: 0},
			}
		case m.Symbol:
			return []game.PlayerResult{
				{PlayerID: m.Player, Rank: 1, Score: 1},
				{PlayerID: "computer", Rank: 2, Score: 0},
			}
		}
		return []game.PlayerResult{
			{PlayerID: "computer", Rank: 1, Score: 1},
			{PlayerID: m.Player, Rank: 2, Score: 0},
		}
	}
	if m.Winner == Draw {
		return []game.PlayerResult{
			{PlayerID: X, Rank: 1, Score: 0},
			{PlayerID: O, Rank: 1, Score: 0},
		}
	}
	return []game.PlayerResult{
		{PlayerID: m.Winner, Rank: 1, Score: 1},
		{PlayerID: other(m.Winner), Rank: 2, Score: 0},
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
