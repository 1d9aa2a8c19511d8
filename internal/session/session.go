package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gammazero/deque"

	"casualgames/internal/game"
	"casualgames/internal/rng"
	"casualgames/internal/sched"
)

// HistoryLimit is the number of events a session remembers.
const HistoryLimit = 64

var (
	ErrNotStarted     = errors.New("game not started")
	ErrInternalAction = errors.New("action is internal")
	ErrUnknownGame    = errors.New("unknown game type")
)

// Status represents the session lifecycle.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Player represents a connected player.
type Player struct {
	ID   string
	Send chan []byte // outbound messages
}

// Event is one entry of the action history. Player is empty for follow-ups.
type Event struct {
	Player   string    `json:"player,omitempty"`
	Action   string    `json:"action"`
	Accepted bool      `json:"accepted"`
	Error    string    `json:"error,omitempty"`
	Time     time.Time `json:"time"`
}

// Session is one game session: a single match and the tabs watching it.
type Session struct {
	mu        sync.RWMutex
	Code      string
	GameType  string
	Options   json.RawMessage
	Seed      string
	Status    Status
	HostID    string
	Players   map[string]*Player
	Match     game.Match
	CreatedAt time.Time
	Active    time.Time
	game      game.Game
	timers    *sched.Group
	pending   map[string]json.RawMessage // payload of each scheduled follow-up
	history   deque.Deque[Event]
}

// NewSession creates a session in the waiting state.
func NewSession(code, gameType string, g game.Game, clock sched.Clock) *Session {
	now := clock.Now()
	return &Session{
		Code:      code,
		GameType:  gameType,
		Status:    StatusWaiting,
		Players:   make(map[string]*Player),
		CreatedAt: now,
		Active:    now,
		game:      g,
		timers:    sched.NewGroup(clock),
		pending:   make(map[string]json.RawMessage),
	}
}

// AddPlayer adds a player to the session. Returns error if full or already
// playing. A restored session has no host and is adopted by the first
// player to join.
func (s *Session) AddPlayer(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status != StatusWaiting && s.HostID != "" {
		return fmt.Errorf("session is not accepting players")
	}
	if len(s.Players) >= s.game.Info().MaxPlayers {
		return fmt.Errorf("session is full")
	}
	if _, exists := s.Players[playerID]; exists {
		return fmt.Errorf("player %s already in session", playerID)
	}
	s.Players[playerID] = &Player{
		ID:   playerID,
		Send: make(chan []byte, 64),
	}
	if s.HostID == "" {
		s.HostID = playerID
	}
	return nil
}

// ConnectPlayer replaces the Send channel for a reconnecting player.
func (s *Session) ConnectPlayer(playerID string, send chan []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.Players[playerID]
	if !ok {
		return false
	}
	p.Send = send
	return true
}

// start builds the match. The caller holds the lock.
func (s *Session) start() error {
	if s.Status != StatusWaiting {
		return fmt.Errorf("session is not in waiting state")
	}
	info := s.game.Info()
	if len(s.Players) < info.MinPlayers {
		return fmt.Errorf("need at least %d players, have %d", info.MinPlayers, len(s.Players))
	}
	s.Match = s.game.NewMatch(s.matchConfig(0))
	s.Status = StatusPlaying
	return nil
}

// matchConfig seeds the match from the session seed. Restored sessions
// continue on a later nonce so they do not replay the opening.
func (s *Session) matchConfig(nonce uint64) game.MatchConfig {
	cfg := game.MatchConfig{PlayerIDs: s.playerIDsLocked(), Options: s.Options}
	if s.Seed != "" {
		cfg.Source = rng.FromSeedNonce(s.Seed, nonce)
	}
	return cfg
}

func (s *Session) playerIDsLocked() []string {
	ids := make([]string, 0, len(s.Players))
	for id := range s.Players {
		if id != s.HostID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if s.HostID != "" {
		ids = append([]string{s.HostID}, ids...)
	}
	return ids
}

// settle updates the status after the match changed.
func (s *Session) settle() {
	switch {
	case s.Match.IsOver():
		s.Status = StatusFinished
	case s.Status == StatusFinished:
		s.Status = StatusPlaying
	}
}

func (s *Session) record(e Event) {
	if s.history.Len() == HistoryLimit {
		s.history.PopFront()
	}
	s.history.PushBack(e)
}

// History returns the remembered events, oldest first.
func (s *Session) History() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, s.history.Len())
	for i := range out {
		out[i] = s.history.At(i)
	}
	return out
}

// Pending lists the follow-ups waiting to fire.
func (s *Session) Pending() []string {
	return s.timers.Pending()
}

// Broadcast sends a message to all connected players.
func (s *Session) Broadcast(msg []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.Players {
		select {
		case p.Send <- msg:
		default:
			// drop message if buffer full
		}
	}
}

// GetPlayer returns a player's send channel, or nil if not found.
func (s *Session) GetPlayer(playerID string) *Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Players[playerID]
}

// Info returns session info for the API.
type Info struct {
	Code     string    `json:"code"`
	GameType string    `json:"gameType"`
	Status   Status    `json:"status"`
	Players  []string  `json:"players"`
	HostID   string    `json:"hostId"`
	Seeded   bool      `json:"seeded"`
	Created  time.Time `json:"createdAt"`
}

func (s *Session) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.InfoLocked()
}

// InfoLocked returns info without acquiring the lock (caller must hold it).
func (s *Session) InfoLocked() Info {
	return Info{
		Code:     s.Code,
		GameType: s.GameType,
		Status:   s.Status,
		Players:  s.playerIDsLocked(),
		HostID:   s.HostID,
		Seeded:   s.Seed != "",
		Created:  s.CreatedAt,
	}
}

// RLock and RUnlock let readers inspect Match and Status consistently.
func (s *Session) RLock()   { s.mu.RLock() }
func (s *Session) RUnlock() { s.mu.RUnlock() }
