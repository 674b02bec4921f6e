package telemetry

import (
	"encoding/json"
	"time"
)

// Stats are the cumulative counters persisted with a save.
type Stats struct {
	TotalClicks      int            `json:"total_clicks"`
	EnemiesDestroyed int            `json:"enemies_destroyed"`
	EnemiesLeaked    int            `json:"enemies_leaked"`
	BossesDestroyed  int            `json:"bosses_destroyed"`
	WavesCompleted   int            `json:"waves_completed"`
	ShotsFired       int            `json:"shots_fired"`
	Upgrades         int            `json:"upgrades"`
	MissionsClaimed  int            `json:"missions_claimed"`
	Earned           map[string]int `json:"earned"`
	TimePlayed       time.Duration  `json:"time_played"`
}

func NewStats() Stats {
	return Stats{Earned: map[string]int{}}
}

func (s *Stats) Earn(currency string, amount int) {
	if amount <= 0 {
		return
	}
	if s.Earned == nil {
		s.Earned = map[string]int{}
	}
	s.Earned[currency] += amount
}

func (s Stats) Clone() Stats {
	out := s
	out.Earned = make(map[string]int, len(s.Earned))
	for k, v := range s.Earned {
		out.Earned[k] = v
	}
	return out
}

// Summary is a balance report computed from the event log.
type Summary struct {
	Period           string            `json:"period"`
	EventCounts      map[EventType]int `json:"event_counts"`
	Kills            int               `json:"kills"`
	Leaks            int               `json:"leaks"`
	Waves            int               `json:"waves"`
	KillsPerWave     float64           `json:"kills_per_wave"`
	LeakRate         float64           `json:"leak_rate"`
	KillsByArchetype map[string]int    `json:"kills_by_archetype"`
	Purchases        map[string]int    `json:"purchases"`
	HighestWave      int               `json:"highest_wave"`
}

// Summarize computes balance stats from events
func Summarize(events []Event, since time.Time) (Summary, error) {
	s := Summary{
		Period:           since.Format("2006-01-02"),
		EventCounts:      make(map[EventType]int),
		KillsByArchetype: make(map[string]int),
		Purchases:        make(map[string]int),
	}

	for _, event := range events {
		s.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventEnemyDestroyed:
			s.Kills++
			if a, ok := metadata["archetype"].(string); ok {
				s.KillsByArchetype[a]++
			}
		case EventEnemyLeaked:
			s.Leaks++
		case EventWaveCompleted:
			s.Waves++
			// numbers decode as float64
			if w, ok := metadata["wave"].(float64); ok && int(w) > s.HighestWave {
				s.HighestWave = int(w)
			}
		case EventPurchase:
			if item, ok := metadata["item"].(string); ok {
				s.Purchases[item]++
			}
		}
	}

	if s.Waves > 0 {
		s.KillsPerWave = float64(s.Kills) / float64(s.Waves)
	}
	if total := s.Kills + s.Leaks; total > 0 {
		s.LeakRate = float64(s.Leaks) / float64(total)
	}

	return s, nil
}
