package game2048

import (
	"encoding/json"
	"fmt"
	"sync"

	"casualgames/internal/game"
	"casualgames/internal/rng"
)

// Action types.
const (
	ActionMove     = "move"
	ActionContinue = "continue"
)

// ScoreKeeper persists the best score across games.
type ScoreKeeper interface {
	Best() int
	Record(score int)
}

// MemoryKeeper is an in-process ScoreKeeper.
type MemoryKeeper struct {
	mu   sync.Mutex
	best int
}

func (k *MemoryKeeper) Best() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.best
}

func (k *MemoryKeeper) Record(score int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if score > k.best {
		k.best = score
	}
}

// Game2048 implements game.Game. A nil Keeper keeps the best score in memory.
type Game2048 struct {
	Keeper ScoreKeeper
}

func (g Game2048) Info() game.GameInfo {
	return game.GameInfo{
		Name:       "2048",
		Title:      "2048",
		MinPlayers: 1,
		MaxPlayers: 1,
	}
}

func (g Game2048) NewMatch(config game.MatchConfig) game.Match {
	keeper := g.Keeper
	if keeper == nil {
		keeper = &MemoryKeeper{}
	}
	m := &Match{Player: config.Player(), rng: config.Rand(), keeper: keeper}
	m.BestScore = keeper.Best()
	m.NewGame()
	return m
}

// Match implements game.Match for 2048.
type Match struct {
	Player      string `json:"player"`
	Board       Board  `json:"board"`
	Score       int    `json:"score"`
	BestScore   int    `json:"bestScore"`
	GameOver    bool   `json:"gameOver"`
	Won         bool   `json:"won"`
	KeepPlaying bool   `json:"keepPlaying"`
	Moved       bool   `json:"moved"`

	rng    rng.Source
	keeper ScoreKeeper
}

type stateView struct {
	Board       Board `json:"board"`
	Score       int   `json:"score"`
	BestScore   int   `json:"bestScore"`
	GameOver    bool  `json:"gameOver"`
	Won         bool  `json:"won"`
	KeepPlaying bool  `json:"keepPlaying"`
	Moved       bool  `json:"moved"`
}

func (m *Match) State(playerID string) any {
	return stateView{
		Board:       m.Board,
		Score:       m.Score,
		BestScore:   m.BestScore,
		GameOver:    m.GameOver,
		Won:         m.Won,
		KeepPlaying: m.KeepPlaying,
		Moved:       m.Moved,
	}
}

type movePayload struct {
	Direction Direction `json:"direction"`
}

func (m *Match) ValidActions(playerID string) []game.Action {
	actions := []game.Action{{Type: game.ActionNewGame}}
	if m.Won && !m.KeepPlaying && !m.GameOver {
		actions = append(actions, game.Action{Type: ActionContinue})
	}
	for _, d := range Directions {
		if m.CanMove(d) {
			actions = append(actions, game.NewAction(ActionMove, movePayload{Direction: d}))
		}
	}
	return actions
}

func (m *Match) ApplyAction(playerID string, action game.Action) error {
	switch action.Type {
	case game.ActionNewGame:
		m.NewGame()
		return nil
	case ActionContinue:
		if !m.Continue() {
			return game.Rejectf("nothing to continue")
		}
		return nil
	case ActionMove:
		var p movePayload
		if err := action.Decode(&p); err != nil {
			return err
		}
		if !p.Direction.valid() {
			return fmt.Errorf("unknown direction: %s", p.Direction)
		}
		if !m.Move(p.Direction).Moved {
			return game.Rejectf("nothing moves %s", p.Direction)
		}
		return nil
	}
	return fmt.Errorf("unknown action type: %s", action.Type)
}

func (m *Match) IsOver() bool {
	return m.Blocked()
}

func (m *Match) Results() []game.PlayerResult {
	if !m.IsOver() {
		return nil
	}
	return []game.PlayerResult{{PlayerID: m.Player, Rank: 1, Score: m.Score}}
}

func (m *Match) MarshalJSON() ([]byte, error) {
	type alias Match
	return json.Marshal((*alias)(m))
}

func (m *Match) UnmarshalJSON(data []byte) error {
	type alias Match
	return json.Unmarshal(data, (*alias)(m))
}
