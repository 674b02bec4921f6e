package arsenal

import (
	"math"

	"spaceclicker/internal/config"
)

type ClickUpgradeKind string

const (
	ClickDamage     ClickUpgradeKind = "click_damage"
	ClickMultiplier ClickUpgradeKind = "click_multiplier"
	AutoClicker     ClickUpgradeKind = "auto_clicker"
)

// ClickUpgrades are the manual-attack upgrades bought in the primary currency.
type ClickUpgrades struct {
	// Damage is added to the fallback click damage.
	Damage       int     `json:"damage"`
	Multiplier   float64 `json:"multiplier"`
	AutoClickers int     `json:"auto_clickers"`
}

func NewClickUpgrades() ClickUpgrades {
	return ClickUpgrades{Multiplier: 1}
}

// Cost is the price of the next purchase of kind, or false for unknown kinds.
func (c ClickUpgrades) Cost(kind ClickUpgradeKind, b config.Balance) (int, bool) {
	switch kind {
	case ClickDamage:
		return b.ClickDamageCostBase * (c.Damage + 1), true
	case ClickMultiplier:
		return ceil(float64(b.ClickMultiplierCost) * c.Multiplier), true
	case AutoClicker:
		return b.AutoClickerCostBase * (c.AutoClickers + 1), true
	}
	return 0, false
}

// Apply bumps the level of kind by one step.
func (c *ClickUpgrades) Apply(kind ClickUpgradeKind, b config.Balance) {
	switch kind {
	case ClickDamage:
		c.Damage++
	case ClickMultiplier:
		c.Multiplier = math.Round((c.Multiplier+b.ClickMultiplierStep)*100) / 100
	case AutoClicker:
		c.AutoClickers++
	}
}

// DamageFor is base damage scaled by the multiplier, never below 1.
func (c ClickUpgrades) DamageFor(base int) int {
	m := c.Multiplier
	if m <= 0 {
		m = 1
	}
	d := math.Floor(float64(base)*m + 1e-9)
	if d >= maxAmount {
		return maxAmount
	}
	return max(int(d), 1)
}
