package combat

import (
	"testing"
	"time"

	"spaceclicker/internal/enemy"
	"spaceclicker/internal/scaling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(id string, x, y, size float64) enemy.Enemy {
	return enemy.Spawn(id, "basic", scaling.Stats{Health: 3, SizeScale: size}, enemy.Position{X: x, Y: y})
}

func TestNearest_StrictRadiusScaledBySize(t *testing.T) {
	es := []enemy.Enemy{at("a", 0, 50, 1), at("b", 0, 70, 2)}

	// a sits exactly on its radius and is excluded; b's radius doubles to 100.
	assert.Equal(t, 1, Nearest(es, 0, 0, 50))
	assert.Equal(t, -1, Nearest(es, 500, 500, 50))
	assert.Equal(t, -1, Nearest(nil, 0, 0, 50))
}

func TestNearest_NearestWinsFirstFoundOnTies(t *testing.T) {
	es := []enemy.Enemy{at("far", 30, 0, 1), at("left", -10, 0, 1), at("right", 10, 0, 1)}
	assert.Equal(t, 1, Nearest(es, 0, 0, 50))
}

func TestMostAdvanced(t *testing.T) {
	es := []enemy.Enemy{at("a", 0, 10, 1), at("b", 0, 300, 1), at("c", 0, 300, 1)}
	assert.Equal(t, 1, MostAdvanced(es))
	assert.Equal(t, -1, MostAdvanced(nil))
}

func count(shots []Shot) map[string]int {
	out := map[string]int{}
	for _, s := range shots {
		out[s.SourceID]++
	}
	return out
}

func TestScheduler_IndependentRates(t *testing.T) {
	s := NewScheduler()
	src := []Source{
		{ID: "fast", Interval: time.Second / 3},
		{ID: "slow", Interval: time.Second},
		{ID: "idle", Interval: 0},
	}

	total := map[string]int{}
	for i := 0; i < 20; i++ {
		for k, v := range count(s.Tick(50*time.Millisecond, src)) {
			total[k] += v
		}
	}
	assert.Equal(t, 3, total["fast"])
	assert.Equal(t, 1, total["slow"])
	assert.Zero(t, total["idle"])
}

func TestScheduler_EvenSpacingInOneLargeTick(t *testing.T) {
	s := NewScheduler()
	shots := s.Tick(time.Second, []Source{
		{ID: "fast", Interval: 250 * time.Millisecond},
		{ID: "slow", Interval: 500 * time.Millisecond},
	})

	require.Len(t, shots, 6)
	for i := 1; i < len(shots); i++ {
		assert.LessOrEqual(t, shots[i-1].Offset, shots[i].Offset)
	}
	assert.Equal(t, 250*time.Millisecond, shots[0].Offset)
	assert.Equal(t, "fast", shots[0].SourceID)
}

func TestScheduler_SyncDropsRemovedSources(t *testing.T) {
	s := NewScheduler()
	a := Source{ID: "a", Interval: time.Second}
	s.Tick(900*time.Millisecond, []Source{a})

	s.Sync(nil)
	assert.Empty(t, s.Tick(200*time.Millisecond, []Source{a}), "phase restarts after removal")
	assert.Len(t, s.Tick(800*time.Millisecond, []Source{a}), 1)
}
