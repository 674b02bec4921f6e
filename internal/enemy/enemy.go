package enemy

import (
	"math"

	"spaceclicker/internal/scaling"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Enemy is one live attacker. Health only decreases and MaxHealth never
// changes after Spawn.
type Enemy struct {
	ID              string            `json:"id"`
	Archetype       scaling.Archetype `json:"archetype"`
	Health          int               `json:"health"`
	MaxHealth       int               `json:"max_health"`
	Speed           float64           `json:"speed"`
	RewardValue     int               `json:"reward_value"`
	ExperienceValue float64           `json:"experience_value"`
	SizeScale       float64           `json:"size_scale"`
	Position        Position          `json:"position"`
	Boss            bool              `json:"boss"`
}

func Spawn(id string, a scaling.Archetype, s scaling.Stats, pos Position) Enemy {
	return Enemy{
		ID:              id,
		Archetype:       a,
		Health:          s.Health,
		MaxHealth:       s.Health,
		Speed:           s.Speed,
		RewardValue:     s.RewardValue,
		ExperienceValue: s.ExperienceValue,
		SizeScale:       s.SizeScale,
		Position:        pos,
		Boss:            s.Boss,
	}
}

func (e Enemy) DistanceTo(x, y float64) float64 {
	return math.Hypot(e.Position.X-x, e.Position.Y-y)
}
