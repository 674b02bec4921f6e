package game

import (
	"spaceclicker/internal/mission"
	"spaceclicker/internal/telemetry"
)

func (e *Engine) recordLocked(kind mission.Kind, amount int) {
	for _, id := range e.st.missions.Record(kind, amount) {
		e.emit(telemetry.EventMissionCompleted, telemetry.EventMetadata{"mission_id": id, "kind": string(kind)})
	}
}

// ClaimMission credits a completed mission's reward and removes it.
func (e *Engine) ClaimMission(missionID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return false, ErrNotInitialized
	}

	reward, ok := e.st.missions.Claim(missionID)
	if !ok {
		return false, nil
	}
	e.st.wallet.AddAll(reward.Currencies)
	for k, v := range reward.Currencies {
		e.st.stats.Earn(k, v)
	}
	e.addExperienceLocked(float64(reward.XP))
	e.st.stats.MissionsClaimed++
	e.emit(telemetry.EventMissionClaimed, telemetry.EventMetadata{"mission_id": missionID, "reward": reward.Currencies})
	return true, nil
}

// RefreshMissions replaces the mission set when the calendar day changed
// since the last refresh, or unconditionally with force.
func (e *Engine) RefreshMissions(force bool) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return false, ErrNotInitialized
	}
	return e.refreshMissionsLocked(force), nil
}

func (e *Engine) refreshMissionsLocked(force bool) bool {
	now := e.clock.Now()
	if !force && !mission.NeedsRefresh(e.st.missions.LastRefresh, now) {
		return false
	}
	forfeited := len(e.st.missions.Missions)
	e.st.missions.Refresh(e.rng, e.cfg.Variant.Missions, e.cfg.Balance.DailyMissionsPerBatch, now, e.newID)
	e.emit(telemetry.EventMissionsRefresh, telemetry.EventMetadata{
		"count":     len(e.st.missions.Missions),
		"forfeited": forfeited,
	})
	return true
}
