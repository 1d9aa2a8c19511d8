package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"casualgames/internal/rng"
)

// ActionNewGame restarts a match with fresh randomness. Every game accepts it.
const ActionNewGame = "new"

// ErrRejected marks a well-formed action the rules do not allow right now.
// Callers treat it as a no-op rather than a failure.
var ErrRejected = errors.New("action rejected")

// Rejectf returns an error wrapping ErrRejected.
func Rejectf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRejected, fmt.Sprintf(format, args...))
}

// GameInfo describes a game type for the dashboard.
type GameInfo struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	MinPlayers int    `json:"minPlayers"`
	MaxPlayers int    `json:"maxPlayers"`
}

// MatchConfig holds settings for creating a new match.
type MatchConfig struct {
	PlayerIDs []string
	// Options is the game specific JSON object sent by the client. May be empty.
	Options json.RawMessage
	// Source is the randomness for the match. Nil means rng.Default().
	Source rng.Source
}

// Rand returns the configured source or the process-wide default.
func (c MatchConfig) Rand() rng.Source {
	if c.Source == nil {
		return rng.Default()
	}
	return c.Source
}

// Player returns the first player id, or "player" when none was given.
func (c MatchConfig) Player() string {
	if len(c.PlayerIDs) == 0 {
		return "player"
	}
	return c.PlayerIDs[0]
}

// DecodeOptions unmarshals the options into v, leaving v untouched when
// no options were sent.
func (c MatchConfig) DecodeOptions(v any) error {
	if len(c.Options) == 0 || string(c.Options) == "null" {
		return nil
	}
	if err := json.Unmarshal(c.Options, v); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// Action represents a move a player can make.
type Action struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewAction builds an action, marshalling payload when it is not nil.
func NewAction(typ string, payload any) Action {
	a := Action{Type: typ}
	if payload != nil {
		a.Payload, _ = json.Marshal(payload)
	}
	return a
}

// Decode unmarshals the action payload into v.
func (a Action) Decode(v any) error {
	if len(a.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", a.Type)
	}
	if err := json.Unmarshal(a.Payload, v); err != nil {
		return fmt.Errorf("invalid %s payload: %w", a.Type, err)
	}
	return nil
}

// PlayerResult holds the outcome for one player.
type PlayerResult struct {
	PlayerID string `json:"playerId"`
	Rank     int    `json:"rank"` // 1 = first place
	Score    int    `json:"score"`
}

// Game describes a game type (2048, sudoku, etc.)
type Game interface {
	Info() GameInfo
	NewMatch(config MatchConfig) Match
}

// Match is one in-progress game session.
type Match interface {
	State(playerID string) any
	ValidActions(playerID string) []Action
	ApplyAction(playerID string, action Action) error
	IsOver() bool
	Results() []PlayerResult
	// MarshalJSON / UnmarshalJSON support for persistence
	MarshalJSON() ([]byte, error)
	UnmarshalJSON(data []byte) error
}

// FollowUp is an action the match wants applied after a delay.
type FollowUp struct {
	Delay  time.Duration
	Action Action
}

// Deferred is implemented by matches with timed behaviour. After every
// applied action the session asks for the follow-ups that should be
// pending and schedules them, keyed by action type.
type Deferred interface {
	FollowUps() []FollowUp
	// Internal reports whether actions of this type may only come from a
	// follow-up.
	Internal(actionType string) bool
}

// Epoch is the payload of follow-up actions. A follow-up whose epoch no
// longer matches the match is stale and ignored.
type Epoch struct {
	Epoch int `json:"epoch"`
}

// FollowUpAction builds a follow-up for the given epoch.
func FollowUpAction(typ string, delay time.Duration, epoch int) FollowUp {
	return FollowUp{Delay: delay, Action: NewAction(typ, Epoch{Epoch: epoch})}
}
