// Package scaling maps (archetype, wave) to enemy stats and wave number to a
// roster. The stat formulas are pure; only archetype draws consume randomness.
package scaling

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"spaceclicker/internal/config"
)

// Archetype names an enemy tier.
type Archetype string

var ErrUnknownArchetype = errors.New("unknown archetype")

// MaxHealth is the ceiling for compounded health. Damage sums stay far from
// int overflow below it.
const MaxHealth = math.MaxInt32

// MaxRoster bounds the wave-scaled part of a roster.
const MaxRoster = 10000

// Stats are the wave-scaled values an enemy is created with.
type Stats struct {
	Health          int     `json:"health"`
	Speed           float64 `json:"speed"`
	RewardValue     int     `json:"reward_value"`
	ExperienceValue float64 `json:"experience_value"`
	SizeScale       float64 `json:"size_scale"`
	Boss            bool    `json:"boss"`
}

// Table holds the archetype curves of one balance preset.
type Table struct {
	specs    map[Archetype]config.ArchetypeSpec
	drawable []config.ArchetypeSpec // hardest first, boss-only tiers excluded
	base     Archetype

	xpRatio        float64
	rosterBase     int
	rosterScale    float64
	rosterExponent float64
	bossEvery      int
	boss           Archetype
}

// NewTable builds a table from balance data. The drawable tiers are the
// non-boss archetypes; the first one without a chance is the remainder tier.
func NewTable(b config.Balance) (*Table, error) {
	t := &Table{
		specs:          make(map[Archetype]config.ArchetypeSpec, len(b.Archetypes)),
		xpRatio:        b.ExperienceRatio,
		rosterBase:     b.RosterBase,
		rosterScale:    b.RosterScale,
		rosterExponent: b.RosterExponent,
		bossEvery:      b.BossEvery,
		boss:           Archetype(b.BossArchetype),
	}
	for _, a := range b.Archetypes {
		t.specs[Archetype(a.Name)] = a
		if a.Boss {
			continue
		}
		if a.ChanceMax <= 0 {
			if t.base == "" {
				t.base = Archetype(a.Name)
			}
			continue
		}
		t.drawable = append(t.drawable, a)
	}
	if t.base == "" {
		return nil, errors.New("scaling: no remainder archetype (one non-boss archetype needs chance_max 0)")
	}
	if _, ok := t.specs[t.boss]; !ok {
		return nil, fmt.Errorf("scaling: boss %w: %s", ErrUnknownArchetype, t.boss)
	}
	// Hardest first: the lower cumulative threshold is checked first.
	for i := 1; i < len(t.drawable); i++ {
		for j := i; j > 0 && t.drawable[j].ChanceBase < t.drawable[j-1].ChanceBase; j-- {
			t.drawable[j], t.drawable[j-1] = t.drawable[j-1], t.drawable[j]
		}
	}
	if t.bossEvery <= 0 {
		t.bossEvery = 10
	}
	return t, nil
}

// EnemyStats returns the stats of an archetype at a wave.
func (t *Table) EnemyStats(a Archetype, wave int) (Stats, error) {
	spec, ok := t.specs[a]
	if !ok {
		return Stats{}, fmt.Errorf("%w: %s", ErrUnknownArchetype, a)
	}
	if wave < 1 {
		wave = 1
	}

	div := spec.HealthDivisor
	if div <= 0 {
		div = 1
	}
	health := float64(spec.HealthBase + wave/div)
	if spec.HealthGrowth > 1 {
		health *= math.Pow(spec.HealthGrowth, float64(wave))
	}

	reward := spec.RewardBase + spec.RewardPerWave*wave
	size := spec.Size
	if size <= 0 {
		size = 1
	}

	return Stats{
		Health:          saturate(math.Floor(health), MaxHealth),
		Speed:           spec.SpeedBase + spec.SpeedPerWave*float64(wave),
		RewardValue:     reward,
		ExperienceValue: float64(reward) * t.xpRatio,
		SizeScale:       size,
		Boss:            spec.Boss,
	}, nil
}

// RosterSize grows sub-linearly with the wave number.
func (t *Table) RosterSize(wave int) int {
	if wave < 1 {
		wave = 1
	}
	extra := math.Floor(t.rosterScale * math.Pow(float64(wave), t.rosterExponent))
	if extra >= MaxRoster {
		return t.rosterBase + MaxRoster
	}
	return t.rosterBase + int(max(extra, 0))
}

// saturate converts to int within [1, limit]. NaN maps to 1.
func saturate(x float64, limit int) int {
	switch {
	case x >= float64(limit):
		return limit
	case x >= 1:
		return int(x)
	default:
		return 1
	}
}

func (t *Table) IsBossWave(wave int) bool {
	return wave > 0 && wave%t.bossEvery == 0
}

// Weights returns the draw probability of every drawable archetype at a wave.
// Each tier's cumulative threshold is capped by its chance_max, so the hardest
// tier never exceeds its cap.
func (t *Table) Weights(wave int) map[Archetype]float64 {
	out := make(map[Archetype]float64, len(t.drawable)+1)
	prev := 0.0
	for _, a := range t.drawable {
		threshold := math.Min(a.ChanceBase+a.ChancePerWave*float64(wave), a.ChanceMax)
		if threshold < prev {
			threshold = prev
		}
		out[Archetype(a.Name)] = threshold - prev
		prev = threshold
	}
	out[t.base] = 1 - prev
	return out
}

// Draw picks one archetype for a normal wave.
func (t *Table) Draw(rng *rand.Rand, wave int) Archetype {
	r := rng.Float64()
	for _, a := range t.drawable {
		threshold := math.Min(a.ChanceBase+a.ChancePerWave*float64(wave), a.ChanceMax)
		if r < threshold {
			return Archetype(a.Name)
		}
	}
	return t.base
}

// Roster returns the archetypes to spawn for a wave: a single boss on boss
// waves, otherwise RosterSize weighted draws.
func (t *Table) Roster(rng *rand.Rand, wave int) []Archetype {
	if t.IsBossWave(wave) {
		return []Archetype{t.boss}
	}
	n := t.RosterSize(wave)
	out := make([]Archetype, n)
	for i := range out {
		out[i] = t.Draw(rng, wave)
	}
	return out
}
