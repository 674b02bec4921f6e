// Package offline projects currency and experience earned while the game was
// not running, from the rate measured at the last completed wave.
package offline

import (
	"math"
	"time"
)

// Snapshot is the last measured throughput.
type Snapshot struct {
	LastObservedAt      time.Time `json:"last_observed_at"`
	RewardPerMinute     float64   `json:"reward_per_minute"`
	ExperiencePerMinute float64   `json:"experience_per_minute"`
}

type Policy struct {
	MaxElapsed time.Duration
	// Efficiency scales projected gains; 1 projects the full measured rate.
	Efficiency float64
	// MinWindow is the shortest wave duration used as a rate denominator.
	MinWindow time.Duration
}

func DefaultPolicy() Policy {
	return Policy{MaxElapsed: 24 * time.Hour, Efficiency: 1, MinWindow: 10 * time.Second}
}

// Gain is a projection result; the caller decides whether to apply it.
type Gain struct {
	Currency   int           `json:"currency"`
	Experience float64       `json:"experience"`
	Elapsed    time.Duration `json:"elapsed"`
	Capped     bool          `json:"capped"`
}

func (g Gain) Empty() bool { return g.Currency <= 0 && g.Experience <= 0 }

// Project computes gains for the time between lastSeen and now. Elapsed time
// above the policy cap is discarded, so results are linear in the capped time.
func Project(s Snapshot, lastSeen, now time.Time, p Policy) Gain {
	if lastSeen.IsZero() || !now.After(lastSeen) {
		return Gain{}
	}
	elapsed := now.Sub(lastSeen)
	capped := false
	if p.MaxElapsed > 0 && elapsed > p.MaxElapsed {
		elapsed = p.MaxElapsed
		capped = true
	}
	eff := p.Efficiency
	if eff <= 0 {
		eff = 1
	}
	minutes := elapsed.Minutes()
	currency := math.Floor(s.RewardPerMinute * minutes * eff)
	if currency >= math.MaxInt32 {
		currency = math.MaxInt32
	}
	return Gain{
		Currency:   int(currency),
		Experience: math.Floor(s.ExperiencePerMinute * minutes * eff),
		Elapsed:    elapsed,
		Capped:     capped,
	}
}

// Measure builds a snapshot from what a wave earned over its duration.
func Measure(reward int, experience float64, duration time.Duration, at time.Time, p Policy) Snapshot {
	if duration < p.MinWindow {
		duration = p.MinWindow
	}
	if duration <= 0 {
		return Snapshot{LastObservedAt: at}
	}
	minutes := duration.Minutes()
	return Snapshot{
		LastObservedAt:      at,
		RewardPerMinute:     float64(reward) / minutes,
		ExperiencePerMinute: experience / minutes,
	}
}
