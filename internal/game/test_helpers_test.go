package game

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// stubCatalog is a LocationCatalog with a fixed spy count
type stubCatalog struct {
	categories map[string][]string
	spies      int
}

func (c *stubCatalog) LocationsForCategories(ids []string) []string {
	var out []string
	for _, id := range ids {
		out = append(out, c.categories[id]...)
	}
	return out
}

func (c *stubCatalog) SpyCount(playerCount int) int {
	if c.spies > 0 {
		return c.spies
	}
	switch {
	case playerCount <= 8:
		return 1
	case playerCount <= 15:
		return 2
	default:
		return 3
	}
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		categories: map[string][]string{
			"outdoors": {"Beach", "Park"},
			"city":     {"Bank", "Museum", "Park"},
		},
	}
}

// fakeClock hands out manually driven tickers and timers
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
	timers  []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{c: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, f: f, delay: d}
	c.timers = append(c.timers, t)
	return t
}

// latestTicker returns the most recently created ticker
func (c *fakeClock) latestTicker(t *testing.T) *fakeTicker {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.tickers, "no ticker was created")
	return c.tickers[len(c.tickers)-1]
}

func (c *fakeClock) tickerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

// fireTimers runs every pending timer callback synchronously
func (c *fakeClock) fireTimers() int {
	c.mu.Lock()
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

func (c *fakeClock) pendingTimers() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

type fakeTicker struct {
	c chan time.Time
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }
func (t *fakeTicker) Stop()               {}

// tick delivers n ticks, failing if the engine stops listening
func (t *fakeTicker) tick(tb testing.TB, n int) {
	tb.Helper()
	for i := 0; i < n; i++ {
		select {
		case t.c <- time.Time{}:
		case <-time.After(time.Second):
			tb.Fatalf("tick %d was not consumed", i+1)
		}
	}
}

// trySend reports whether anyone received a tick within a short wait
func (t *fakeTicker) trySend() bool {
	select {
	case t.c <- time.Time{}:
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

type fakeTimer struct {
	clock   *fakeClock
	f       func()
	delay   time.Duration
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasPending := !t.stopped && !t.fired
	t.stopped = true
	return wasPending
}

// newTestEngine builds an engine with a fake clock and a fixed random seed
func newTestEngine(t *testing.T, catalog LocationCatalog, opts ...Option) (*Engine, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	opts = append([]Option{WithClock(clock), WithRandSource(rand.NewSource(42))}, opts...)
	e := NewEngine(catalog, opts...)
	t.Cleanup(e.Close)
	return e, clock
}

// addPlayers adds players by name and returns their ids in order
func addPlayers(t *testing.T, e *Engine, names ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(names))
	for _, name := range names {
		p, err := e.AddPlayer(name)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	return ids
}

// startedEngine returns an engine with the given players in a started game
func startedEngine(t *testing.T, catalog *stubCatalog, names ...string) (*Engine, *fakeClock, []string) {
	t.Helper()
	e, clock := newTestEngine(t, catalog)
	ids := addPlayers(t, e, names...)
	e.ToggleCategory("outdoors")
	require.NoError(t, e.StartGame())
	return e, clock, ids
}

// revealAll runs every player through both taps
func revealAll(t *testing.T, e *Engine, ids []string) {
	t.Helper()
	for _, id := range ids {
		_, err := e.TogglePlayerCard(id)
		require.NoError(t, err)
		_, err = e.TogglePlayerCard(id)
		require.NoError(t, err)
	}
}

// splitRoles returns spy ids and civilian ids
func splitRoles(e *Engine) (spies, civilians []string) {
	for _, p := range e.Players() {
		if p.IsSpy() {
			spies = append(spies, p.ID)
		} else {
			civilians = append(civilians, p.ID)
		}
	}
	return spies, civilians
}
