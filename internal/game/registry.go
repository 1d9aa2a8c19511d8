package game

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry maps a game name to its factory. Matches are never shared
// between sessions; the registry only constructs them.
type Registry struct {
	mu    sync.RWMutex
	games map[string]Game
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{games: make(map[string]Game)}
}

// Register adds game types. A name registered twice panics.
func (r *Registry) Register(games ...Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range games {
		name := g.Info().Name
		if _, dup := r.games[name]; dup {
			panic(fmt.Sprintf("game %q already registered", name))
		}
		r.games[name] = g
	}
}

// Get looks a game up by name.
func (r *Registry) Get(name string) (Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[name]
	return g, ok
}

// List describes every registered game, ordered by name.
func (r *Registry) List() []GameInfo {
	r.mu.RLock()
	infos := make([]GameInfo, 0, len(r.games))
	for _, g := range r.games {
		infos = append(infos, g.Info())
	}
	r.mu.RUnlock()
	slices.SortFunc(infos, func(a, b GameInfo) int { return strings.Compare(a.Name, b.Name) })
	return infos
}

// Names lists the registered game names in order.
func (r *Registry) Names() []string {
	var names []string
	for _, info := range r.List() {
		names = append(names, info.Name)
	}
	return names
}
