package sched

import (
	"sort"
	"sync"
	"time"
)

// Group is a set of keyed tasks that can be cancelled together. A task
// whose key was cancelled, or that was scheduled before the last Reset,
// never runs even if its timer has already fired.
type Group struct {
	mu    sync.Mutex
	clock Clock
	epoch uint64
	tasks map[string]*task
}

type task struct {
	timer Timer
}

// NewGroup creates a group scheduling on clock.
func NewGroup(clock Clock) *Group {
	return &Group{clock: clock, tasks: make(map[string]*task)}
}

// Schedule runs f after d unless key is cancelled first. It returns false
// without scheduling if key is already pending.
func (g *Group) Schedule(key string, d time.Duration, f func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, pending := g.tasks[key]; pending {
		return false
	}
	t := &task{}
	g.tasks[key] = t
	t.timer = g.clock.AfterFunc(d, func() {
		g.mu.Lock()
		if g.tasks[key] != t {
			g.mu.Unlock()
			return
		}
		delete(g.tasks, key)
		g.mu.Unlock()
		f()
	})
	return true
}

// Cancel stops the task for key. It reports whether a task was pending.
func (g *Group) Cancel(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.tasks[key]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(g.tasks, key)
	return true
}

// Reset cancels every pending task and starts a new epoch.
func (g *Group) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for key, t := range g.tasks {
		t.timer.Stop()
		delete(g.tasks, key)
	}
	g.epoch++
}

// Pending returns the keys of tasks that have not run yet, sorted.
func (g *Group) Pending() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	keys := make([]string, 0, len(g.tasks))
	for key := range g.tasks {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Epoch returns the number of resets so far.
func (g *Group) Epoch() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.epoch
}
