package arsenal

import (
	"math"

	"spaceclicker/internal/config"
)

// minUpgradeBase keeps upgrades of free starter units from costing nothing.
const minUpgradeBase = 50

// Growth is the multiplier set applied by one upgrade.
type Growth struct {
	Cost       float64
	Damage     float64
	FireRate   float64
	Health     float64
	Production float64
}

func GrowthFromBalance(b config.Balance) Growth {
	return Growth{
		Cost:       b.UpgradeCostGrowth,
		Damage:     b.DamageGrowth,
		FireRate:   b.FireRateGrowth,
		Health:     b.HealthGrowth,
		Production: b.ProductionGrowth,
	}
}

type Catalog struct {
	Units         []Unit    `json:"units"`
	Carriers      []Carrier `json:"carriers"`
	ActiveCarrier string    `json:"active_carrier"`
}

func NewCatalog(v config.Variant, b config.Balance) Catalog {
	c := Catalog{ActiveCarrier: v.ActiveCarrier}
	for _, s := range v.Units {
		c.Units = append(c.Units, unitFromSpec(s, b.UpgradeCostGrowth))
	}
	for _, s := range v.Carriers {
		c.Carriers = append(c.Carriers, carrierFromSpec(s))
	}
	return c
}

func firstUpgradeCost(cost int, growth float64) int {
	base := max(cost, minUpgradeBase)
	if growth <= 1 {
		growth = 1.5
	}
	return ceil(float64(base) * growth)
}

func (c *Catalog) Unit(id string) (*Unit, bool) {
	for i := range c.Units {
		if c.Units[i].ID == id {
			return &c.Units[i], true
		}
	}
	return nil, false
}

func (c *Catalog) Carrier(id string) (*Carrier, bool) {
	for i := range c.Carriers {
		if c.Carriers[i].ID == id {
			return &c.Carriers[i], true
		}
	}
	return nil, false
}

// ActiveUnits derives the units installed on the active carrier, in install
// order. Only owned units count.
func (c *Catalog) ActiveUnits() []Unit {
	cr, ok := c.Carrier(c.ActiveCarrier)
	if !ok {
		return nil
	}
	out := make([]Unit, 0, len(cr.Installed))
	for _, id := range cr.Installed {
		u, ok := c.Unit(id)
		if !ok || !u.Owned || !u.Unlocked {
			continue
		}
		out = append(out, *u)
	}
	return out
}

// StrongestDamage returns the highest damage among active armed units, or
// fallback when none is installed.
func (c *Catalog) StrongestDamage(fallback int) int {
	best := 0
	for _, u := range c.ActiveUnits() {
		if u.Armed() && u.Damage > best {
			best = u.Damage
		}
	}
	if best == 0 {
		return fallback
	}
	return best
}

// Install adds unitID to the carrier's installed set. It rejects unknown ids,
// units or carriers not owned, duplicates and full carriers.
func (c *Catalog) Install(unitID, carrierID string) bool {
	u, ok := c.Unit(unitID)
	if !ok || !u.Owned || !u.Unlocked {
		return false
	}
	cr, ok := c.Carrier(carrierID)
	if !ok || !cr.Owned {
		return false
	}
	if cr.Has(unitID) || cr.Full() {
		return false
	}
	cr.Installed = append(cr.Installed, unitID)
	return true
}

func (c *Catalog) Remove(unitID, carrierID string) bool {
	cr, ok := c.Carrier(carrierID)
	if !ok {
		return false
	}
	for i, id := range cr.Installed {
		if id == unitID {
			cr.Installed = append(cr.Installed[:i], cr.Installed[i+1:]...)
			return true
		}
	}
	return false
}

// Switch makes an owned carrier the active one.
func (c *Catalog) Switch(carrierID string) bool {
	cr, ok := c.Carrier(carrierID)
	if !ok || !cr.Owned || c.ActiveCarrier == carrierID {
		return false
	}
	c.ActiveCarrier = carrierID
	return true
}

// UnlockForLevel flips Unlocked on every entry gated at or below level and
// returns the ids it changed.
func (c *Catalog) UnlockForLevel(level int) []string {
	var changed []string
	for i := range c.Units {
		u := &c.Units[i]
		if !u.Unlocked && u.UnlockLevel <= level {
			u.Unlocked = true
			changed = append(changed, u.ID)
		}
	}
	for i := range c.Carriers {
		cr := &c.Carriers[i]
		if !cr.Unlocked && cr.UnlockLevel <= level {
			cr.Unlocked = true
			changed = append(changed, cr.ID)
		}
	}
	return changed
}

// Upgrade applies one level of stat growth to a unit. The caller debits the
// previous UpgradeCost.
func (u *Unit) Upgrade(g Growth) {
	u.Level++
	if u.Damage > 0 {
		u.Damage = ceil(float64(u.Damage) * g.Damage)
	}
	if u.FireRate > 0 {
		u.FireRate = math.Round(u.FireRate*g.FireRate*100) / 100
	}
	if u.Health > 0 {
		u.Health = ceil(float64(u.Health) * g.Health)
	}
	if u.Production != nil {
		p := *u.Production
		p.Amount = ceil(float64(p.Amount) * g.Production)
		u.Production = &p
	}
	u.UpgradeCost = ceil(float64(u.UpgradeCost) * g.Cost)
}

// maxAmount caps upgraded stats and costs.
const maxAmount = math.MaxInt32

// ceil rounds up, ignoring float noise such as 5*1.2 = 6.000000000000001.
func ceil(x float64) int {
	x = math.Ceil(x - 1e-9)
	if x >= maxAmount {
		return maxAmount
	}
	return int(x)
}

// Clone returns a deep copy.
func (c Catalog) Clone() Catalog {
	out := Catalog{
		Units:         make([]Unit, len(c.Units)),
		Carriers:      make([]Carrier, len(c.Carriers)),
		ActiveCarrier: c.ActiveCarrier,
	}
	for i, u := range c.Units {
		if u.Production != nil {
			p := *u.Production
			u.Production = &p
		}
		out.Units[i] = u
	}
	for i, cr := range c.Carriers {
		cr.Installed = append([]string{}, cr.Installed...)
		out.Carriers[i] = cr
	}
	return out
}
