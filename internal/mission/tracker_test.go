package mission

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"spaceclicker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tracker(ms ...Mission) *Tracker {
	return &Tracker{Missions: ms}
}

func TestRecord_ClampsToTarget(t *testing.T) {
	tr := tracker(Mission{ID: "m1", Kind: KindKill, Target: 10, Progress: 9})

	done := tr.Record(KindKill, 5)

	assert.Equal(t, []string{"m1"}, done)
	m, _ := tr.Get("m1")
	assert.Equal(t, 10, m.Progress)
	assert.True(t, m.Completed)
}

func TestRecord_IsMonotonicAndKindScoped(t *testing.T) {
	tr := tracker(
		Mission{ID: "kill", Kind: KindKill, Target: 10, Progress: 3},
		Mission{ID: "wave", Kind: KindWaveClear, Target: 3},
	)

	tr.Record(KindKill, -4)
	tr.Record(KindKill, 0)
	tr.Record(KindWaveClear, 1)

	kill, _ := tr.Get("kill")
	wave, _ := tr.Get("wave")
	assert.Equal(t, 3, kill.Progress)
	assert.Equal(t, 1, wave.Progress)

	// completed missions ignore further events
	tr.Record(KindWaveClear, 10)
	assert.Empty(t, tr.Record(KindWaveClear, 10))
	wave, _ = tr.Get("wave")
	assert.Equal(t, 3, wave.Progress)
}

func TestClaim_OnlyCompletedAndConsumes(t *testing.T) {
	tr := tracker(
		Mission{ID: "open", Kind: KindKill, Target: 5},
		Mission{ID: "done", Kind: KindKill, Target: 1, Progress: 1, Completed: true,
			Reward: Reward{Currencies: map[string]int{"credits": 500}, XP: 50}},
	)

	_, ok := tr.Claim("open")
	assert.False(t, ok)

	r, ok := tr.Claim("done")
	require.True(t, ok)
	assert.Equal(t, 500, r.Currencies["credits"])
	assert.Equal(t, 50, r.XP)

	_, ok = tr.Claim("done")
	assert.False(t, ok)
	assert.Len(t, tr.Missions, 1)
}

func TestNeedsRefresh_ByLocalCalendarDay(t *testing.T) {
	loc := time.Local
	evening := time.Date(2026, 3, 4, 23, 30, 0, 0, loc)

	assert.True(t, NeedsRefresh(time.Time{}, evening))
	assert.False(t, NeedsRefresh(evening, evening.Add(20*time.Minute)))
	assert.True(t, NeedsRefresh(evening, evening.Add(40*time.Minute)))
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, loc), NextMidnight(evening))
}

func TestRefresh_ForfeitsUnclaimed(t *testing.T) {
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local)
	rng := rand.New(rand.NewSource(7))
	tr := tracker(Mission{ID: "old", Kind: KindKill, Target: 1, Progress: 1, Completed: true})

	tr.Refresh(rng, config.Classic().Missions, 3, now, nil)

	require.Len(t, tr.Missions, 3)
	_, ok := tr.Get("old")
	assert.False(t, ok)
	assert.Equal(t, now, tr.LastRefresh)

	seen := map[Kind]bool{}
	for _, m := range tr.Missions {
		assert.True(t, m.Kind.Valid())
		assert.False(t, seen[m.Kind], "templates are drawn without replacement")
		seen[m.Kind] = true
		assert.Positive(t, m.Target)
		assert.NotEmpty(t, m.ID)
		assert.Equal(t, NextMidnight(now), m.ExpiresAt)
	}
}

func TestRoll_StaysInTemplateRanges(t *testing.T) {
	tpl := config.MissionTemplate{
		Kind: "kill", Target: config.Range{Min: 50, Max: 99},
		Reward: map[string]config.Range{"credits": {Min: 500, Max: 799}},
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		ms := Roll(rng, []config.MissionTemplate{tpl}, 3, time.Now(), nil)
		require.Len(t, ms, 1)
		assert.GreaterOrEqual(t, ms[0].Target, 50)
		assert.LessOrEqual(t, ms[0].Target, 99)
		c := ms[0].Reward.Currencies["credits"]
		assert.GreaterOrEqual(t, c, 500)
		assert.LessOrEqual(t, c, 799)
	}
}

func TestRoll_UsesInjectedIDs(t *testing.T) {
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local)
	mint := func() IDFunc {
		n := 0
		return func() string {
			n++
			return fmt.Sprintf("m-%d", n)
		}
	}

	a := Roll(rand.New(rand.NewSource(3)), config.Classic().Missions, 3, now, mint())
	b := Roll(rand.New(rand.NewSource(3)), config.Classic().Missions, 3, now, mint())

	require.Len(t, a, 3)
	assert.Equal(t, "m-1", a[0].ID)
	assert.Equal(t, "m-3", a[2].ID)
	assert.Equal(t, a, b)
}
