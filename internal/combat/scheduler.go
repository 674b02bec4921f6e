package combat

import (
	"sort"
	"time"
)

// Source is anything that fires on a fixed period.
type Source struct {
	ID       string
	Interval time.Duration
}

// Scheduler keeps one accumulator per source, which behaves like N independent
// periodic timers driven by a shared clock delta.
type Scheduler struct {
	elapsed map[string]time.Duration
}

func NewScheduler() *Scheduler {
	return &Scheduler{elapsed: map[string]time.Duration{}}
}

// Sync drops accumulators of sources no longer present and adds new ones at
// zero. Surviving sources keep their phase.
func (s *Scheduler) Sync(sources []Source) {
	keep := make(map[string]bool, len(sources))
	for _, src := range sources {
		keep[src.ID] = true
		if _, ok := s.elapsed[src.ID]; !ok {
			s.elapsed[src.ID] = 0
		}
	}
	for id := range s.elapsed {
		if !keep[id] {
			delete(s.elapsed, id)
		}
	}
}

// Shot is one due firing, in tick order.
type Shot struct {
	SourceID string
	// Offset is the time since the start of the tick at which the shot was due.
	Offset time.Duration
}

// Tick advances every source by dt and returns the shots that came due,
// ordered by when they were due. Sources with a non-positive interval never fire.
func (s *Scheduler) Tick(dt time.Duration, sources []Source) []Shot {
	if dt <= 0 {
		return nil
	}
	s.Sync(sources)

	var shots []Shot
	for _, src := range sources {
		if src.Interval <= 0 {
			continue
		}
		start := s.elapsed[src.ID]
		acc := start + dt
		n := 0
		for acc >= src.Interval {
			acc -= src.Interval
			n++
			shots = append(shots, Shot{SourceID: src.ID, Offset: time.Duration(n)*src.Interval - start})
		}
		s.elapsed[src.ID] = acc
	}
	sort.SliceStable(shots, func(i, j int) bool { return shots[i].Offset < shots[j].Offset })
	return shots
}

// Reset zeroes every accumulator.
func (s *Scheduler) Reset() {
	s.elapsed = map[string]time.Duration{}
}
