package sched

import (
	"sync/atomic"
	"testing"
	"time"
)

var epoch0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualFiresInDeadlineOrder(t *testing.T) {
	c := NewManual(epoch0)
	var order []int
	c.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	c.AfterFunc(1*time.Second, func() { order = append(order, 1) })
	c.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	c.Advance(2 * time.Second)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected [1 2], got %v", order)
	}
	c.Advance(time.Second)
	if len(order) != 3 || order[2] != 3 {
		t.Fatalf("expected third timer, got %v", order)
	}
	if got := c.Now(); !got.Equal(epoch0.Add(3 * time.Second)) {
		t.Fatalf("unexpected now %v", got)
	}
}

func TestManualStop(t *testing.T) {
	c := NewManual(epoch0)
	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })
	if !tm.Stop() {
		t.Fatal("expected Stop to report true")
	}
	if tm.Stop() {
		t.Fatal("second Stop should report false")
	}
	c.Advance(time.Minute)
	if fired {
		t.Fatal("stopped timer fired")
	}
}

func TestManualChainedTimers(t *testing.T) {
	c := NewManual(epoch0)
	count := 0
	var tick func()
	tick = func() {
		count++
		c.AfterFunc(time.Second, tick)
	}
	c.AfterFunc(time.Second, tick)
	c.Advance(5 * time.Second)
	if count != 5 {
		t.Fatalf("expected 5 ticks, got %d", count)
	}
	if c.Pending() != 1 {
		t.Fatalf("expected 1 pending timer, got %d", c.Pending())
	}
}

func TestGroupScheduleOncePerKey(t *testing.T) {
	c := NewManual(epoch0)
	g := NewGroup(c)
	var n int32
	if !g.Schedule("check", time.Second, func() { atomic.AddInt32(&n, 1) }) {
		t.Fatal("first schedule should succeed")
	}
	if g.Schedule("check", time.Second, func() { atomic.AddInt32(&n, 1) }) {
		t.Fatal("duplicate key should be refused")
	}
	c.Advance(time.Second)
	if n != 1 {
		t.Fatalf("expected 1 run, got %d", n)
	}
	if len(g.Pending()) != 0 {
		t.Fatalf("expected nothing pending, got %v", g.Pending())
	}
	if !g.Schedule("check", time.Second, func() {}) {
		t.Fatal("key should be free after running")
	}
}

func TestGroupCancel(t *testing.T) {
	c := NewManual(epoch0)
	g := NewGroup(c)
	ran := false
	g.Schedule("hint", time.Second, func() { ran = true })
	if !g.Cancel("hint") {
		t.Fatal("expected cancel to find the task")
	}
	c.Advance(time.Second)
	if ran {
		t.Fatal("cancelled task ran")
	}
	if g.Cancel("hint") {
		t.Fatal("second cancel should report false")
	}
}

func TestGroupReset(t *testing.T) {
	c := NewManual(epoch0)
	g := NewGroup(c)
	ran := 0
	g.Schedule("a", time.Second, func() { ran++ })
	g.Schedule("b", 2*time.Second, func() { ran++ })
	if got := g.Pending(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected pending %v", got)
	}
	g.Reset()
	if g.Epoch() != 1 {
		t.Fatalf("expected epoch 1, got %d", g.Epoch())
	}
	c.Advance(time.Minute)
	if ran != 0 {
		t.Fatalf("expected no runs after reset, got %d", ran)
	}
}

func TestSystemClock(t *testing.T) {
	g := NewGroup(System())
	done := make(chan struct{})
	g.Schedule("x", time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("system timer did not fire")
	}
}
