package game

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FakeClock is deterministic and test-friendly.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Advance moves the clock forward and returns the new time.
func (c *FakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	return c.t
}

// Stopwatch turns successive clock reads into deltas. Deltas above Max are
// clamped so a stalled caller does not replay a long gap in one step.
type Stopwatch struct {
	clock Clock
	last  time.Time
	Max   time.Duration
}

func NewStopwatch(c Clock, limit time.Duration) *Stopwatch {
	return &Stopwatch{clock: c, last: c.Now(), Max: limit}
}

// Lap returns the time since the previous Lap (or construction).
func (s *Stopwatch) Lap() time.Duration {
	now := s.clock.Now()
	d := now.Sub(s.last)
	s.last = now
	if d < 0 {
		return 0
	}
	if s.Max > 0 && d > s.Max {
		return s.Max
	}
	return d
}
