package session

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"casualgames/internal/game"
	"casualgames/internal/sched"
	"casualgames/internal/storage"
)

// Listener is told about state changes that no request is waiting on,
// such as a follow-up firing.
type Listener func(s *Session)

// Manager manages all active sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	registry *game.Registry
	store    *storage.Store
	clock    sched.Clock
	listener Listener
}

// NewManager creates a session manager. A nil clock means the system clock.
func NewManager(registry *game.Registry, store *storage.Store, clock sched.Clock) *Manager {
	if clock == nil {
		clock = sched.System()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		registry: registry,
		store:    store,
		clock:    clock,
	}
}

// OnUpdate sets the listener for follow-up results.
func (m *Manager) OnUpdate(l Listener) {
	m.mu.Lock()
	m.listener = l
	m.mu.Unlock()
}

// Create makes a new session and persists it. An empty seed gives the
// match the process-wide random source.
func (m *Manager) Create(gameType string, options json.RawMessage, seed string) (*Session, error) {
	g, ok := m.registry.Get(gameType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, gameType)
	}
	if len(options) > 0 && !json.Valid(options) {
		return nil, fmt.Errorf("invalid options")
	}
	code := m.generateCode()
	if err := m.store.CreateSession(code, gameType, string(options), seed); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	s := NewSession(code, gameType, g, m.clock)
	s.Options = options
	s.Seed = seed
	m.mu.Lock()
	m.sessions[code] = s
	m.mu.Unlock()
	log.Debug().Str("session", code).Str("game", gameType).Bool("seeded", seed != "").Msg("session created")
	return s, nil
}

// Get returns a session by code.
func (m *Manager) Get(code string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[code]
	return s, ok
}

// List returns info for all active sessions.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]Info, 0, len(m.sessions))
	for _, s := range m.sessions {
		infos = append(infos, s.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Code < infos[j].Code })
	return infos
}

// Start builds the match, schedules its opening follow-ups and persists it.
func (m *Manager) Start(s *Session) error {
	s.mu.Lock()
	if err := s.start(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.Active = m.clock.Now()
	m.reconcile(s, false)
	s.mu.Unlock()
	m.save(s)
	return nil
}

// Apply applies a client action. A rule rejection is returned as an error
// wrapping game.ErrRejected and leaves the match unchanged.
func (m *Manager) Apply(s *Session, playerID string, action game.Action) error {
	s.mu.Lock()
	if s.Match == nil {
		s.mu.Unlock()
		return ErrNotStarted
	}
	if d, ok := s.Match.(game.Deferred); ok && d.Internal(action.Type) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInternalAction, action.Type)
	}
	err := m.applyLocked(s, playerID, action)
	s.Active = m.clock.Now()
	s.mu.Unlock()
	if err == nil {
		m.save(s)
	}
	return err
}

// applyLocked runs an action and brings the timers in line with the
// result. The caller holds the lock.
func (m *Manager) applyLocked(s *Session, playerID string, action game.Action) error {
	err := s.Match.ApplyAction(playerID, action)
	e := Event{Player: playerID, Action: action.Type, Accepted: err == nil, Time: m.clock.Now()}
	if err != nil {
		e.Error = err.Error()
	}
	s.record(e)
	if err != nil {
		return err
	}
	s.settle()
	m.reconcile(s, action.Type == game.ActionNewGame)
	return nil
}

// reconcile schedules the follow-ups the match wants and cancels the ones
// it no longer lists. A follow-up whose payload changed is restarted.
func (m *Manager) reconcile(s *Session, reset bool) {
	if reset {
		s.timers.Reset()
		clear(s.pending)
	}
	d, ok := s.Match.(game.Deferred)
	if !ok {
		return
	}
	want := make(map[string]game.FollowUp)
	for _, f := range d.FollowUps() {
		want[f.Action.Type] = f
	}
	for _, key := range s.timers.Pending() {
		f, ok := want[key]
		if !ok || !bytes.Equal(f.Action.Payload, s.pending[key]) {
			s.timers.Cancel(key)
			delete(s.pending, key)
		}
	}
	keys := make([]string, 0, len(want))
	for key := range want {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		f := want[key]
		if s.timers.Schedule(key, f.Delay, func() { m.fire(s, f.Action) }) {
			s.pending[key] = f.Action.Payload
		}
	}
}

// fire applies a follow-up on behalf of the host.
func (m *Manager) fire(s *Session, action game.Action) {
	s.mu.Lock()
	if s.Match == nil {
		s.mu.Unlock()
		return
	}
	err := m.applyLocked(s, "", action)
	s.mu.Unlock()
	if err != nil {
		if !errors.Is(err, game.ErrRejected) {
			log.Warn().Err(err).Str("session", s.Code).Str("action", action.Type).Msg("follow-up failed")
		}
		return
	}
	m.save(s)
	m.mu.RLock()
	l := m.listener
	m.mu.RUnlock()
	if l != nil {
		l(s)
	}
}

func (m *Manager) save(s *Session) {
	if err := m.SaveMatchState(s); err != nil {
		log.Error().Err(err).Str("session", s.Code).Msg("save match state")
	}
}

// SaveMatchState persists the current match state for a session.
func (m *Manager) SaveMatchState(s *Session) error {
	s.mu.RLock()
	match := s.Match
	status := s.Status
	var data []byte
	var err error
	if match != nil {
		data, err = match.MarshalJSON()
	}
	s.mu.RUnlock()

	if err := m.store.UpdateSessionStatus(s.Code, string(status)); err != nil {
		return err
	}
	if match == nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("marshal match state: %w", err)
	}
	return m.store.SaveMatchState(s.Code, string(data))
}

// Restore loads unfinished sessions from the database on startup and
// resumes their follow-ups.
func (m *Manager) Restore() error {
	rows, err := m.store.ListSessions("")
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	for _, row := range rows {
		if row.Status == string(StatusFinished) {
			continue
		}
		g, ok := m.registry.Get(row.GameType)
		if !ok {
			log.Warn().Str("session", row.Code).Str("game", row.GameType).Msg("skipping session: unknown game type")
			continue
		}
		s := NewSession(row.Code, row.GameType, g, m.clock)
		s.Status = Status(row.Status)
		s.Seed = row.Seed
		s.CreatedAt = row.CreatedAt
		if row.Options != "" {
			s.Options = json.RawMessage(row.Options)
		}

		if s.Status == StatusPlaying {
			stateJSON, err := m.store.GetMatchState(row.Code)
			if err != nil {
				log.Warn().Err(err).Str("session", row.Code).Msg("skipping session: no match state")
				continue
			}
			match := g.NewMatch(s.matchConfig(1))
			if err := match.UnmarshalJSON([]byte(stateJSON)); err != nil {
				log.Warn().Err(err).Str("session", row.Code).Msg("skipping session: unmarshal error")
				continue
			}
			s.Match = match
			s.mu.Lock()
			m.reconcile(s, false)
			s.mu.Unlock()
		}
		m.mu.Lock()
		m.sessions[row.Code] = s
		m.mu.Unlock()
	}
	return nil
}

// Remove deletes a session from memory and storage.
func (m *Manager) Remove(code string) {
	m.mu.Lock()
	s, ok := m.sessions[code]
	delete(m.sessions, code)
	m.mu.Unlock()
	if ok {
		s.timers.Reset()
	}
	if err := m.store.DeleteSession(code); err != nil {
		log.Error().Err(err).Str("session", code).Msg("delete session")
	}
}

// CleanupLoop removes idle sessions every interval until ctx is done.
func (m *Manager) CleanupLoop(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Cleanup(maxAge)
		}
	}
}

// Cleanup removes sessions untouched for longer than maxAge and returns
// how many went.
func (m *Manager) Cleanup(maxAge time.Duration) int {
	now := m.clock.Now()
	m.mu.RLock()
	var stale []string
	for code, s := range m.sessions {
		s.mu.RLock()
		idle := now.Sub(s.Active)
		s.mu.RUnlock()
		if idle > maxAge {
			stale = append(stale, code)
		}
	}
	m.mu.RUnlock()
	for _, code := range stale {
		log.Info().Str("session", code).Msg("cleaning up session")
		m.Remove(code)
	}
	return len(stale)
}

func (m *Manager) generateCode() string {
	for {
		b := make([]byte, 3) // 6 hex chars
		rand.Read(b)
		code := hex.EncodeToString(b)
		if _, taken := m.Get(code); !taken {
			return code
		}
	}
}
