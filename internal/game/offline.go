package game

import (
	"time"

	"spaceclicker/internal/offline"
	"spaceclicker/internal/telemetry"
)

// ProjectOfflineGain estimates what the last measured rate would have earned
// since lastSeen. It does not change state.
func (e *Engine) ProjectOfflineGain(lastSeen time.Time) (offline.Gain, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return offline.Gain{}, ErrNotInitialized
	}
	return offline.Project(e.st.throughput, lastSeen, e.clock.Now(), e.policy), nil
}

// ApplyOfflineGain credits a projected gain and marks the player as observed
// now, so the same interval cannot be applied twice through LastSeen. A gain
// is accepted once per session and never while a wave is in progress.
func (e *Engine) ApplyOfflineGain(g offline.Gain) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return false, ErrNotInitialized
	}
	if g.Empty() || e.offline || e.wave.InProgress() {
		return false, nil
	}
	e.offline = true

	e.st.wallet.Add(e.primary, g.Currency)
	e.st.stats.Earn(e.primary, g.Currency)
	e.addExperienceLocked(g.Experience)
	e.st.throughput.LastObservedAt = e.clock.Now()
	e.emit(telemetry.EventOfflineApplied, telemetry.EventMetadata{
		"currency":   g.Currency,
		"experience": g.Experience,
		"elapsed_s":  int(g.Elapsed.Seconds()),
	})
	return true, nil
}
