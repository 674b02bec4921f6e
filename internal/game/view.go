package game

import (
	"spaceclicker/internal/arsenal"
	"spaceclicker/internal/config"
	"spaceclicker/internal/enemy"
	"spaceclicker/internal/ledger"
	"spaceclicker/internal/mission"
	"spaceclicker/internal/offline"
	"spaceclicker/internal/telemetry"
	"spaceclicker/internal/wave"
)

// View is a read-only copy of engine state for rendering.
type View struct {
	Ready           bool                  `json:"ready"`
	Variant         string                `json:"variant"`
	PrimaryCurrency string                `json:"primary_currency"`
	Phase           wave.Phase            `json:"phase"`
	Wave            int                   `json:"wave"`
	Enemies         []enemy.Enemy         `json:"enemies"`
	Units           []arsenal.Unit        `json:"units"`
	Carriers        []arsenal.Carrier     `json:"carriers"`
	ActiveCarrier   string                `json:"active_carrier"`
	ActiveUnits     []arsenal.Unit        `json:"active_units"`
	ClickDamage     int                   `json:"click_damage"`
	Clicks          arsenal.ClickUpgrades `json:"clicks"`
	ClickCosts      map[string]int        `json:"click_costs"`
	Packs           []config.PackSpec     `json:"packs"`
	Missions        []mission.Mission     `json:"missions"`
	Progression     ledger.Progression    `json:"progression"`
	Wallet          ledger.Wallet         `json:"wallet"`
	Stats           telemetry.Stats       `json:"stats"`
	Throughput      offline.Snapshot      `json:"throughput"`
	WaveStats       wave.Controller       `json:"wave_stats"`
}

// Snapshot copies the current state. Before initialization only Ready,
// Variant and PrimaryCurrency are set.
func (e *Engine) Snapshot() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := View{
		Ready:           e.ready,
		Variant:         e.cfg.Variant.Name,
		PrimaryCurrency: e.primary,
	}
	if !e.ready {
		return v
	}

	catalog := e.st.catalog.Clone()
	costs := map[string]int{}
	for _, k := range []arsenal.ClickUpgradeKind{arsenal.ClickDamage, arsenal.ClickMultiplier, arsenal.AutoClicker} {
		if c, ok := e.st.clicks.Cost(k, e.cfg.Balance); ok {
			costs[string(k)] = c
		}
	}

	v.Phase = e.wave.Phase
	v.Wave = e.wave.Number
	v.Enemies = e.roster.List()
	v.Units = catalog.Units
	v.Carriers = catalog.Carriers
	v.ActiveCarrier = catalog.ActiveCarrier
	v.ActiveUnits = catalog.ActiveUnits()
	v.ClickDamage = e.clickDamageLocked()
	v.Clicks = e.st.clicks
	v.ClickCosts = costs
	v.Packs = append([]config.PackSpec(nil), e.cfg.Variant.Packs...)
	v.Missions = e.st.missions.Clone().Missions
	v.Progression = e.st.progression
	v.Wallet = e.st.wallet.Clone()
	v.Stats = e.st.stats.Clone()
	v.Throughput = e.st.throughput
	v.WaveStats = e.wave
	return v
}
