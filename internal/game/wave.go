package game

import (
	"time"

	"spaceclicker/internal/mission"
	"spaceclicker/internal/offline"
	"spaceclicker/internal/telemetry"
	"spaceclicker/internal/wave"
)

// StartWave spawns the roster for the current wave number. It is rejected
// while a wave is already in progress.
func (e *Engine) StartWave() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return false, ErrNotInitialized
	}
	if !e.wave.Begin(e.clock.Now()) {
		return false, nil
	}

	enemies, err := wave.Generate(e.table, e.rng, e.cfg.Balance, e.wave.Number, e.newID)
	if err != nil {
		e.wave.Abort()
		return false, err
	}
	e.roster.Clear()
	for _, en := range enemies {
		e.roster.Add(en)
	}
	e.emit(telemetry.EventWaveStarted, telemetry.EventMetadata{
		"wave":    e.wave.Number,
		"enemies": len(enemies),
		"boss":    e.table.IsBossWave(e.wave.Number),
	})

	// an empty roster completes immediately
	if e.roster.Len() == 0 {
		e.completeWaveLocked()
	}
	return true, nil
}

// CompleteWave closes a wave whose roster is empty. It is a no-op while Idle
// or while enemies remain.
func (e *Engine) CompleteWave() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return false, ErrNotInitialized
	}
	return e.completeWaveLocked(), nil
}

func (e *Engine) completeWaveLocked() bool {
	if !e.wave.Resolve(e.roster.Len() == 0) {
		return false
	}
	now := e.clock.Now()
	number := e.wave.Number
	bonus := wave.Bonus(e.cfg.Balance, number)

	e.st.wallet.Add(e.primary, bonus)
	e.st.stats.Earn(e.primary, bonus)
	e.wave.Earned += bonus
	e.wave.XPEarned += float64(bonus)

	e.st.throughput = offline.Measure(e.wave.Earned, e.wave.XPEarned, now.Sub(e.wave.StartedAt), now, e.policy)
	e.st.stats.WavesCompleted++

	e.addExperienceLocked(float64(bonus))
	e.recordLocked(mission.KindWaveClear, 1)
	e.recordLocked(mission.KindResourceCollect, bonus)

	e.emit(telemetry.EventWaveCompleted, telemetry.EventMetadata{
		"wave":   number,
		"bonus":  bonus,
		"kills":  e.wave.Kills,
		"leaked": e.wave.Leaked,
		"earned": e.wave.Earned,
	})
	e.wave.Finish()
	return true
}

type AdvanceResult struct {
	Moved         int      `json:"moved"`
	Leaked        []string `json:"leaked,omitempty"`
	WaveCompleted bool     `json:"wave_completed,omitempty"`
}

// Advance moves enemies by dt. Enemies leaving the field are removed without
// reward or penalty.
func (e *Engine) Advance(dt time.Duration) (AdvanceResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return AdvanceResult{}, ErrNotInitialized
	}
	if dt <= 0 {
		return AdvanceResult{}, nil
	}
	e.st.stats.TimePlayed += dt

	res := AdvanceResult{Moved: e.roster.Len()}
	for _, en := range wave.Move(e.roster, dt, e.cfg.Balance.FieldHeight) {
		res.Leaked = append(res.Leaked, en.ID)
		e.st.stats.EnemiesLeaked++
		e.wave.Leaked++
		e.emit(telemetry.EventEnemyLeaked, telemetry.EventMetadata{
			"enemy_id":  en.ID,
			"archetype": string(en.Archetype),
			"wave":      e.wave.Number,
		})
	}
	if e.roster.Len() == 0 {
		res.WaveCompleted = e.completeWaveLocked()
	}
	return res, nil
}
