package game

import (
	"time"

	"spaceclicker/internal/arsenal"
	"spaceclicker/internal/combat"
	"spaceclicker/internal/ledger"
	"spaceclicker/internal/mission"
	"spaceclicker/internal/telemetry"
)

// addExperienceLocked credits experience and applies every level-up it
// triggers: the level bonus and level-gated unlocks.
func (e *Engine) addExperienceLocked(xp float64) []ledger.LevelUp {
	ups := e.st.progression.AddExperience(xp, e.cfg.Balance.LevelGrowth)
	for _, up := range ups {
		bonus := ledger.LevelBonus(up.Level, e.cfg.Variant.LevelBonus)
		e.st.wallet.AddAll(bonus)
		for k, v := range bonus {
			e.st.stats.Earn(k, v)
		}
		unlocked := e.st.catalog.UnlockForLevel(up.Level)
		e.emit(telemetry.EventLevelUp, telemetry.EventMetadata{"level": up.Level, "bonus": bonus})
		for _, id := range unlocked {
			e.emit(telemetry.EventUnlocked, telemetry.EventMetadata{"id": id, "level": up.Level})
		}
	}
	return ups
}

// PurchaseUnit buys an unlocked, not yet owned unit for its cost.
func (e *Engine) PurchaseUnit(unitID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return false, ErrNotInitialized
	}

	u, ok := e.st.catalog.Unit(unitID)
	if !ok || !u.Unlocked || u.Owned {
		return false, nil
	}
	if !e.st.wallet.Spend(u.Currency, u.Cost) {
		return false, nil
	}
	u.Owned = true
	e.emit(telemetry.EventPurchase, telemetry.EventMetadata{"item": u.ID, "cost": u.Cost, "currency": u.Currency})
	return true, nil
}

// UpgradeUnit pays the unit's upgrade cost and applies one level of growth.
func (e *Engine) UpgradeUnit(unitID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return false, ErrNotInitialized
	}

	u, ok := e.st.catalog.Unit(unitID)
	if !ok || !u.Owned {
		return false, nil
	}
	cost := u.UpgradeCost
	if !e.st.wallet.Spend(u.Currency, cost) {
		return false, nil
	}
	u.Upgrade(e.growth)
	e.st.stats.Upgrades++
	e.emit(telemetry.EventUpgrade, telemetry.EventMetadata{"item": u.ID, "level": u.Level, "cost": cost})
	e.recordLocked(mission.KindUpgrade, 1)
	return true, nil
}

// PurchaseCarrier buys an unlocked carrier for its unlock cost.
func (e *Engine) PurchaseCarrier(carrierID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return false, ErrNotInitialized
	}

	cr, ok := e.st.catalog.Carrier(carrierID)
	if !ok || !cr.Unlocked || cr.Owned {
		return false, nil
	}
	if !e.st.wallet.Spend(cr.Currency, cr.UnlockCost) {
		return false, nil
	}
	cr.Owned = true
	e.emit(telemetry.EventPurchase, telemetry.EventMetadata{"item": cr.ID, "cost": cr.UnlockCost, "currency": cr.Currency})
	return true, nil
}

func (e *Engine) InstallUnit(unitID, carrierID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return false, ErrNotInitialized
	}
	if !e.st.catalog.Install(unitID, carrierID) {
		return false, nil
	}
	e.emit(telemetry.EventInstall, telemetry.EventMetadata{"unit": unitID, "carrier": carrierID})
	return true, nil
}

func (e *Engine) RemoveUnit(unitID, carrierID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return false, ErrNotInitialized
	}
	return e.st.catalog.Remove(unitID, carrierID), nil
}

// SwitchCarrier makes an owned carrier the one that fires.
func (e *Engine) SwitchCarrier(carrierID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return false, ErrNotInitialized
	}
	return e.st.catalog.Switch(carrierID), nil
}

// PurchaseClickUpgrade buys one level of a click upgrade in the primary currency.
func (e *Engine) PurchaseClickUpgrade(kind arsenal.ClickUpgradeKind) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return false, ErrNotInitialized
	}

	cost, ok := e.st.clicks.Cost(kind, e.cfg.Balance)
	if !ok || !e.st.wallet.Spend(e.primary, cost) {
		return false, nil
	}
	e.st.clicks.Apply(kind, e.cfg.Balance)
	e.emit(telemetry.EventPurchase, telemetry.EventMetadata{"item": string(kind), "cost": cost, "currency": e.primary})
	return true, nil
}

// BuyPack trades a pack's price for its grants. Free packs can be taken once.
func (e *Engine) BuyPack(packID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return false, ErrNotInitialized
	}

	for _, p := range e.cfg.Variant.Packs {
		if p.ID != packID {
			continue
		}
		if p.Price <= 0 && e.st.packs[p.ID] > 0 {
			return false, nil
		}
		if !e.st.wallet.Spend(p.Currency, p.Price) {
			return false, nil
		}
		e.st.wallet.AddAll(p.Grants)
		if e.st.packs == nil {
			e.st.packs = map[string]int{}
		}
		e.st.packs[p.ID]++
		e.emit(telemetry.EventPurchase, telemetry.EventMetadata{"item": p.ID, "cost": p.Price, "currency": p.Currency})
		return true, nil
	}
	return false, nil
}

// Produce advances production timers of installed producers on the active
// carrier and returns what they generated.
func (e *Engine) Produce(dt time.Duration) (map[string]int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return nil, ErrNotInitialized
	}

	amounts := map[string]arsenal.Production{}
	var sources []combat.Source
	for _, u := range e.st.catalog.ActiveUnits() {
		if u.Production == nil || u.Production.Interval <= 0 || u.Production.Amount <= 0 {
			continue
		}
		sources = append(sources, combat.Source{ID: u.ID, Interval: u.Production.Interval})
		amounts[u.ID] = *u.Production
	}

	out := map[string]int{}
	for _, shot := range e.produce.Tick(dt, sources) {
		p := amounts[shot.SourceID]
		e.st.wallet.Add(p.Currency, p.Amount)
		e.st.stats.Earn(p.Currency, p.Amount)
		out[p.Currency] += p.Amount
	}
	if n := out[e.primary]; n > 0 {
		if e.wave.InProgress() {
			e.wave.Earned += n
		}
		e.recordLocked(mission.KindResourceCollect, n)
	}
	return out, nil
}
