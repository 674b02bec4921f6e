package game

import (
	"fmt"
	"sort"
	"time"

	"spaceclicker/internal/combat"
	"spaceclicker/internal/ledger"
	"spaceclicker/internal/mission"
	"spaceclicker/internal/telemetry"
)

// DamageResult reports one damage application. Hit is false for no-ops.
type DamageResult struct {
	Hit           bool             `json:"hit"`
	TargetID      string           `json:"target_id,omitempty"`
	Damage        int              `json:"damage,omitempty"`
	Killed        bool             `json:"killed,omitempty"`
	Reward        int              `json:"reward,omitempty"`
	Experience    float64          `json:"experience,omitempty"`
	LevelUps      []ledger.LevelUp `json:"level_ups,omitempty"`
	WaveCompleted bool             `json:"wave_completed,omitempty"`
}

// ApplyDamage hits targetID for amount. Absent ids and non-positive amounts
// are no-ops, so a stale id can never credit a kill twice.
func (e *Engine) ApplyDamage(targetID string, amount int) (DamageResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return DamageResult{}, ErrNotInitialized
	}
	return e.applyDamageLocked(targetID, amount), nil
}

func (e *Engine) applyDamageLocked(targetID string, amount int) DamageResult {
	if amount <= 0 {
		return DamageResult{}
	}
	target, ok := e.roster.Get(targetID)
	if !ok {
		return DamageResult{}
	}

	res := DamageResult{Hit: true, TargetID: targetID, Damage: amount}
	target.Health -= amount
	if target.Health > 0 {
		return res
	}

	dead, _ := e.roster.Remove(targetID)
	res.Killed = true
	res.Reward = dead.RewardValue
	res.Experience = dead.ExperienceValue

	e.st.wallet.Add(e.primary, dead.RewardValue)
	e.st.stats.Earn(e.primary, dead.RewardValue)
	e.st.stats.EnemiesDestroyed++
	if dead.Boss {
		e.st.stats.BossesDestroyed++
	}
	e.wave.Kills++
	e.wave.Earned += dead.RewardValue
	e.wave.XPEarned += dead.ExperienceValue

	e.emit(telemetry.EventEnemyDestroyed, telemetry.EventMetadata{
		"enemy_id":  dead.ID,
		"archetype": string(dead.Archetype),
		"wave":      e.wave.Number,
		"reward":    dead.RewardValue,
	})
	res.LevelUps = e.addExperienceLocked(dead.ExperienceValue)
	e.recordLocked(mission.KindKill, 1)
	e.recordLocked(mission.KindResourceCollect, dead.RewardValue)

	if e.roster.Len() == 0 {
		res.WaveCompleted = e.completeWaveLocked()
	}
	return res
}

// ClickAttack hits the nearest enemy within the click radius of (x, y). Every
// call counts as a click, hit or miss.
func (e *Engine) ClickAttack(x, y float64) (DamageResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return DamageResult{}, ErrNotInitialized
	}

	e.st.stats.TotalClicks++
	list := e.roster.List()
	idx := combat.Nearest(list, x, y, e.cfg.Balance.ClickRadius)
	if idx < 0 {
		return DamageResult{}, nil
	}
	return e.applyDamageLocked(list[idx].ID, e.clickDamageLocked()), nil
}

// clickDamageLocked is the strongest installed unit's damage, or the upgraded
// fallback, scaled by the click multiplier.
func (e *Engine) clickDamageLocked() int {
	base := e.st.catalog.StrongestDamage(e.cfg.Balance.FallbackClickDamage + e.st.clicks.Damage)
	return e.st.clicks.DamageFor(base)
}

func (e *Engine) autoClickDamageLocked() int {
	return e.st.clicks.DamageFor(e.cfg.Balance.FallbackClickDamage + e.st.clicks.Damage)
}

type AutoFireResult struct {
	Shots         int  `json:"shots"`
	Hits          int  `json:"hits"`
	Kills         int  `json:"kills"`
	Damage        int  `json:"damage"`
	WaveCompleted bool `json:"wave_completed"`
}

func (r *AutoFireResult) add(d DamageResult) {
	r.Shots++
	if !d.Hit {
		return
	}
	r.Hits++
	r.Damage += d.Damage
	if d.Killed {
		r.Kills++
	}
	if d.WaveCompleted {
		r.WaveCompleted = true
	}
}

const autoClickerPrefix = "auto-clicker-"

// AutoFire advances every active unit's fire timer and every auto clicker by
// dt and resolves the shots that came due, in the order they were due. Each
// shot targets the most advanced enemy at the moment it fires.
func (e *Engine) AutoFire(dt time.Duration) (AutoFireResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return AutoFireResult{}, ErrNotInitialized
	}

	damage := map[string]int{}
	var units []combat.Source
	for _, u := range e.st.catalog.ActiveUnits() {
		if !u.Armed() {
			continue
		}
		units = append(units, combat.Source{ID: u.ID, Interval: u.FireInterval()})
		damage[u.ID] = u.Damage
	}
	var clickers []combat.Source
	clickInterval := time.Duration(e.cfg.Balance.AutoClickIntervalMS) * time.Millisecond
	for i := 0; i < e.st.clicks.AutoClickers; i++ {
		id := fmt.Sprintf("%s%d", autoClickerPrefix, i)
		clickers = append(clickers, combat.Source{ID: id, Interval: clickInterval})
		damage[id] = e.autoClickDamageLocked()
	}

	shots := append(e.fire.Tick(dt, units), e.clickers.Tick(dt, clickers)...)
	sort.SliceStable(shots, func(i, j int) bool { return shots[i].Offset < shots[j].Offset })

	var res AutoFireResult
	for _, shot := range shots {
		list := e.roster.List()
		idx := combat.MostAdvanced(list)
		if idx < 0 {
			continue
		}
		e.st.stats.ShotsFired++
		res.add(e.applyDamageLocked(list[idx].ID, damage[shot.SourceID]))
	}
	return res, nil
}

// FireUnit fires one shot from an active armed unit, for drivers that keep
// their own per-unit timers.
func (e *Engine) FireUnit(unitID string) (DamageResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return DamageResult{}, ErrNotInitialized
	}

	for _, u := range e.st.catalog.ActiveUnits() {
		if u.ID != unitID || !u.Armed() {
			continue
		}
		list := e.roster.List()
		idx := combat.MostAdvanced(list)
		if idx < 0 {
			return DamageResult{}, nil
		}
		e.st.stats.ShotsFired++
		return e.applyDamageLocked(list[idx].ID, u.Damage), nil
	}
	return DamageResult{}, nil
}
