package ledger

// Progression tracks level and experience toward the next level.
type Progression struct {
	Level            int     `json:"level"`
	Experience       float64 `json:"experience"`
	ExperienceToNext float64 `json:"experience_to_next"`
}

// LevelUp describes one level gained inside AddExperience.
type LevelUp struct {
	Level     int     `json:"level"`
	Threshold float64 `json:"threshold"`
}

func NewProgression(firstThreshold float64) Progression {
	return Progression{Level: 1, ExperienceToNext: firstThreshold}
}

// AddExperience accumulates amount and levels up until experience is below the
// threshold, carrying the excess over each time. Thresholds grow by growth.
func (p *Progression) AddExperience(amount, growth float64) []LevelUp {
	if amount <= 0 {
		return nil
	}
	p.Experience += amount

	var ups []LevelUp
	for p.ExperienceToNext > 0 && p.Experience >= p.ExperienceToNext {
		p.Experience -= p.ExperienceToNext
		p.Level++
		p.ExperienceToNext *= growth
		ups = append(ups, LevelUp{Level: p.Level, Threshold: p.ExperienceToNext})
	}
	return ups
}

// LevelBonus is the currency granted on reaching level.
func LevelBonus(level int, perLevel map[string]int) map[string]int {
	out := make(map[string]int, len(perLevel))
	for k, v := range perLevel {
		if v > 0 {
			out[k] = level * v
		}
	}
	return out
}
