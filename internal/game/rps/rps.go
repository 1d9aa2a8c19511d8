// Package rps is rock-paper-scissors against the computer.
package rps

import (
	"encoding/json"
	"fmt"
	"slices"

	"casualgames/internal/game"
	"casualgames/internal/rng"
)

// Choice is a hand.
type Choice string

const (
	Rock     Choice = "rock"
	Paper    Choice = "paper"
	Scissors Choice = "scissors"
)

// Choices lists the hands in draw order.
var Choices = []Choice{Rock, Paper, Scissors}

// Round outcomes.
const (
	ResultDraw     = "Draw!"
	ResultWin      = "You Win!"
	ResultComputer = "Computer Wins!"
)

// Action types.
const (
	ActionChoose = "choose"
	ActionNext   = "next"
)

var beats = map[Choice]Choice{Rock: Scissors, Paper: Rock, Scissors: Paper}

// Outcome resolves one round from the player's side.
func Outcome(player, computer Choice) string {
	switch {
	case player == computer:
		return ResultDraw
	case beats[player] == computer:
		return ResultWin
	}
	return ResultComputer
}

// RockPaperScissors implements game.Game.
type RockPaperScissors struct{}

func (r RockPaperScissors) Info() game.GameInfo {
	return game.GameInfo{
		Name:       "rps",
		Title:      "Rock Paper Scissors",
		MinPlayers: 1,
		MaxPlayers: 1,
	}
}

func (r RockPaperScissors) NewMatch(config game.MatchConfig) game.Match {
	return &Match{Player: config.Player(), rng: config.Rand()}
}

// Match implements game.Match. It never ends; scores run until "new".
type Match struct {
	Player         string `json:"player"`
	PlayerChoice   Choice `json:"playerChoice,omitempty"`
	ComputerChoice Choice `json:"computerChoice,omitempty"`
	PlayerScore    int    `json:"playerScore"`
	ComputerScore  int    `json:"computerScore"`
	Result         string `json:"result,omitempty"`
	Revealed       bool   `json:"revealed"`

	rng rng.Source
}

// Choose plays a round. It is refused while the last round is on show.
func (m *Match) Choose(c Choice) bool {
	if m.Revealed || !slices.Contains(Choices, c) {
		return false
	}
	m.PlayerChoice = c
	m.ComputerChoice = rng.Pick(m.rng, Choices)
	m.Result = Outcome(c, m.ComputerChoice)
	m.Revealed = true
	switch m.Result {
	case ResultWin:
		m.PlayerScore++
	case ResultComputer:
		m.ComputerScore++
	}
	return true
}

// Next clears the shown round, keeping the scores.
func (m *Match) Next() bool {
	if !m.Revealed {
		return false
	}
	m.PlayerChoice = ""
	m.ComputerChoice = ""
	m.Result = ""
	m.Revealed = false
	return true
}

func (m *Match) State(playerID string) any {
	return *m
}

type choosePayload struct {
	Choice Choice `json:"choice"`
}

func (m *Match) ValidActions(playerID string) []game.Action {
	actions := []game.Action{{Type: game.ActionNewGame}}
	if m.Revealed {
		return append(actions, game.Action{Type: ActionNext})
	}
	for _, c := range Choices {
		actions = append(actions, game.NewAction(ActionChoose, choosePayload{Choice: c}))
	}
	return actions
}

func (m *Match) ApplyAction(playerID string, action game.Action) error {
	ok := true
	switch action.Type {
	case game.ActionNewGame:
		*m = Match{Player: m.Player, rng: m.rng}
	case ActionChoose:
		var p choosePayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		if !slices.Contains(Choices, p.Choice) {
			return fmt.Errorf("unknown choice: %s", p.Choice)
		}
		ok = m.Choose(p.Choice)
	case ActionNext:
		ok = m.Next()
	default:
		return fmt.Errorf("unknown action type: %s", action.Type)
	}
	if !ok {
		return game.Rejectf("%s not allowed now", action.Type)
	}
	return nil
}

func (m *Match) IsOver() bool {
	return false
}

func (m *Match) Results() []game.PlayerResult {
	return nil
}

func (m *Match) MarshalJSON() ([]byte, error) {
	type alias Match
	return json.Marshal((*alias)(m))
}

func (m *Match) UnmarshalJSON(data []byte) error {
	type alias Match
	return json.Unmarshal(data, (*alias)(m))
}
