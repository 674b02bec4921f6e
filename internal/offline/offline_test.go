package offline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func snap() Snapshot {
	return Snapshot{LastObservedAt: t0, RewardPerMinute: 10, ExperiencePerMinute: 4}
}

func TestProject_Linear(t *testing.T) {
	g := Project(snap(), t0, t0.Add(30*time.Minute), DefaultPolicy())
	assert.Equal(t, 300, g.Currency)
	assert.Equal(t, 120.0, g.Experience)
	assert.Equal(t, 30*time.Minute, g.Elapsed)
	assert.False(t, g.Capped)
}

func TestProject_CappedIsProportionalToCap(t *testing.T) {
	p := DefaultPolicy()
	atCap := Project(snap(), t0, t0.Add(p.MaxElapsed), p)
	twoDays := Project(snap(), t0, t0.Add(48*time.Hour), p)
	week := Project(snap(), t0, t0.Add(7*24*time.Hour), p)

	assert.Equal(t, 1440*10, atCap.Currency)
	assert.Equal(t, atCap.Currency, twoDays.Currency)
	assert.Equal(t, atCap.Experience, week.Experience)
	assert.True(t, week.Capped)
	assert.Equal(t, p.MaxElapsed, week.Elapsed)
}

func TestProject_EfficiencyAndNoTime(t *testing.T) {
	p := DefaultPolicy()
	p.Efficiency = 0.5
	g := Project(snap(), t0, t0.Add(10*time.Minute), p)
	assert.Equal(t, 50, g.Currency)

	assert.True(t, Project(snap(), t0, t0, p).Empty())
	assert.True(t, Project(snap(), t0, t0.Add(-time.Hour), p).Empty())
	assert.True(t, Project(snap(), time.Time{}, t0, p).Empty())
}

func TestMeasure_UsesMinimumWindow(t *testing.T) {
	p := DefaultPolicy()
	s := Measure(100, 50, 2*time.Second, t0, p)
	// 2s is stretched to the 10s window: 100 per 1/6 minute.
	assert.InDelta(t, 600, s.RewardPerMinute, 1e-9)
	assert.InDelta(t, 300, s.ExperiencePerMinute, 1e-9)
	assert.Equal(t, t0, s.LastObservedAt)

	s = Measure(120, 60, time.Minute, t0, p)
	assert.InDelta(t, 120, s.RewardPerMinute, 1e-9)
}
