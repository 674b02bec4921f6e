package scaling

import (
	"math/rand"
	"testing"

	"spaceclicker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable(config.Default())
	require.NoError(t, err)
	return tbl
}

func TestEnemyStats_LinearTiers(t *testing.T) {
	tbl := newTable(t)

	s, err := tbl.EnemyStats("basic", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Health)
	assert.Equal(t, 12, s.RewardValue)
	assert.InDelta(t, 6.0, s.ExperienceValue, 1e-9)
	assert.InDelta(t, 66.0, s.Speed, 1e-9)
	assert.False(t, s.Boss)

	s, err = tbl.EnemyStats("basic", 10)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Health)

	s, err = tbl.EnemyStats("medium", 6)
	require.NoError(t, err)
	assert.Equal(t, 6, s.Health)

	s, err = tbl.EnemyStats("advanced", 9)
	require.NoError(t, err)
	assert.Equal(t, 12, s.Health)
	assert.Equal(t, 1.5, s.SizeScale)
}

func TestEnemyStats_EliteCompounds(t *testing.T) {
	tbl := newTable(t)

	early, err := tbl.EnemyStats("elite", 10)
	require.NoError(t, err)
	late, err := tbl.EnemyStats("elite", 20)
	require.NoError(t, err)

	assert.True(t, early.Boss)
	// (40+10)*1.12^10 and (40+20)*1.12^20
	assert.Equal(t, 155, early.Health)
	assert.Equal(t, 578, late.Health)

	basic10, _ := tbl.EnemyStats("basic", 10)
	basic20, _ := tbl.EnemyStats("basic", 20)
	assert.Less(t, basic20.Health-basic10.Health, late.Health-early.Health)
}

func TestEnemyStats_EliteHealthNeverDrops(t *testing.T) {
	for name, b := range map[string]config.Balance{"default": config.Default(), "hard": config.Hard()} {
		t.Run(name, func(t *testing.T) {
			tbl, err := NewTable(b)
			require.NoError(t, err)

			prev := 0
			for w := 1; w <= 1000; w++ {
				s, err := tbl.EnemyStats("elite", w)
				require.NoError(t, err)
				require.GreaterOrEqual(t, s.Health, prev, "wave %d", w)
				require.LessOrEqual(t, s.Health, MaxHealth)
				prev = s.Health
			}
			assert.Equal(t, MaxHealth, prev)
			assert.LessOrEqual(t, tbl.RosterSize(1000000), b.RosterBase+MaxRoster)
		})
	}
}

func TestEnemyStats_IsPure(t *testing.T) {
	tbl := newTable(t)
	a, _ := tbl.EnemyStats("medium", 17)
	b, _ := tbl.EnemyStats("medium", 17)
	assert.Equal(t, a, b)
}

func TestEnemyStats_UnknownArchetype(t *testing.T) {
	tbl := newTable(t)
	_, err := tbl.EnemyStats("dragon", 1)
	assert.ErrorIs(t, err, ErrUnknownArchetype)
}

func TestRosterSize_SubLinear(t *testing.T) {
	tbl := newTable(t)

	assert.Equal(t, 6, tbl.RosterSize(1))
	for w := 2; w < 200; w++ {
		assert.GreaterOrEqual(t, tbl.RosterSize(w), tbl.RosterSize(w-1))
	}
	// doubling the wave less than doubles the growth term
	g50 := tbl.RosterSize(50) - 5
	g100 := tbl.RosterSize(100) - 5
	assert.Less(t, g100, 2*g50)
}

func TestRoster_BossEveryTenthWave(t *testing.T) {
	tbl := newTable(t)
	rng := rand.New(rand.NewSource(1))

	assert.Equal(t, []Archetype{"elite"}, tbl.Roster(rng, 10))
	assert.Equal(t, []Archetype{"elite"}, tbl.Roster(rng, 20))
	assert.False(t, tbl.IsBossWave(9))

	roster := tbl.Roster(rng, 9)
	assert.Len(t, roster, tbl.RosterSize(9))
	for _, a := range roster {
		assert.NotEqual(t, Archetype("elite"), a)
	}
}

func TestWeights_ShiftAndCap(t *testing.T) {
	tbl := newTable(t)

	w1 := tbl.Weights(1)
	assert.InDelta(t, 0.12, w1["advanced"], 1e-9)
	assert.InDelta(t, 0.21, w1["medium"], 1e-9)
	assert.InDelta(t, 0.67, w1["basic"], 1e-9)

	w50 := tbl.Weights(50)
	assert.InDelta(t, 0.4, w50["advanced"], 1e-9)
	assert.InDelta(t, 0.2, w50["medium"], 1e-9)
	assert.InDelta(t, 0.4, w50["basic"], 1e-9)

	for _, w := range []int{1, 5, 15, 100, 1000} {
		weights := tbl.Weights(w)
		assert.LessOrEqual(t, weights["advanced"], 0.4+1e-9)
		sum := 0.0
		for _, p := range weights {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestDraw_FrequencyTracksWeights(t *testing.T) {
	tbl := newTable(t)
	rng := rand.New(rand.NewSource(42))

	counts := map[Archetype]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[tbl.Draw(rng, 50)]++
	}
	assert.InDelta(t, 0.4, float64(counts["advanced"])/n, 0.02)
	assert.InDelta(t, 0.2, float64(counts["medium"])/n, 0.02)
}

func TestNewTable_RequiresRemainderTier(t *testing.T) {
	b := config.Default()
	for i := range b.Archetypes {
		if b.Archetypes[i].Name == "basic" {
			b.Archetypes[i].ChanceMax = 0.5
		}
	}
	_, err := NewTable(b)
	assert.Error(t, err)
}
