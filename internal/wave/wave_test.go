package wave

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"spaceclicker/internal/config"
	"spaceclicker/internal/enemy"
	"spaceclicker/internal/scaling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Lifecycle(t *testing.T) {
	c := NewController()
	now := time.Unix(1000, 0)

	assert.False(t, c.Resolve(true), "idle waves do not resolve")
	require.True(t, c.Begin(now))
	assert.False(t, c.Begin(now), "begin rejected while in progress")
	assert.False(t, c.Resolve(false))

	require.True(t, c.Resolve(true))
	assert.Equal(t, PhaseResolving, c.Phase)
	assert.Equal(t, 1, c.Finish())
	assert.Equal(t, 2, c.Number)
	assert.Equal(t, PhaseIdle, c.Phase)
	assert.False(t, c.Resolve(true))
}

func TestBonus(t *testing.T) {
	b := config.Default()
	assert.Equal(t, 120, Bonus(b, 1))
	assert.Equal(t, 300, Bonus(b, 10))
}

func ids() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("e%d", n)
	}
}

func TestGenerate_BossAndMixed(t *testing.T) {
	b := config.Default()
	tbl, err := scaling.NewTable(b)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(3))

	boss, err := Generate(tbl, rng, b, 10, ids())
	require.NoError(t, err)
	require.Len(t, boss, 1)
	assert.True(t, boss[0].Boss)

	mixed, err := Generate(tbl, rng, b, 3, ids())
	require.NoError(t, err)
	assert.Len(t, mixed, tbl.RosterSize(3))
	seen := map[string]bool{}
	for _, e := range mixed {
		assert.False(t, seen[e.ID])
		seen[e.ID] = true
		assert.GreaterOrEqual(t, e.Position.X, b.SpawnMinX)
		assert.LessOrEqual(t, e.Position.X, b.SpawnMaxX)
		assert.LessOrEqual(t, e.Position.Y, b.SpawnY)
		assert.Equal(t, e.MaxHealth, e.Health)
	}
}

func TestMove_LeaksPastField(t *testing.T) {
	r := enemy.NewRoster()
	r.Add(enemy.Spawn("slow", "basic", scaling.Stats{Health: 1, Speed: 10}, enemy.Position{Y: 0}))
	r.Add(enemy.Spawn("fast", "basic", scaling.Stats{Health: 1, Speed: 100}, enemy.Position{Y: 750}))

	leaked := Move(r, time.Second, 800)

	require.Len(t, leaked, 1)
	assert.Equal(t, "fast", leaked[0].ID)
	assert.Equal(t, 1, r.Len())
	slow, _ := r.Get("slow")
	assert.InDelta(t, 10, slow.Position.Y, 1e-9)

	assert.Empty(t, Move(r, 0, 800))
}
