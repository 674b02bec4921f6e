// Package arsenal holds the DefenseUnit and Carrier catalogs and the id-based
// install relation between them.
package arsenal

import (
	"time"

	"spaceclicker/internal/config"
)

type Production struct {
	Currency string        `json:"currency"`
	Amount   int           `json:"amount"`
	Interval time.Duration `json:"interval"`
}

// Unit is a defense unit. Unlocked means level-gated availability; Owned means
// acquired. Only owned units can be installed.
type Unit struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Kind        string      `json:"kind"`
	Level       int         `json:"level"`
	Damage      int         `json:"damage"`
	FireRate    float64     `json:"fire_rate"`
	Health      int         `json:"health,omitempty"`
	Cost        int         `json:"cost"`
	Currency    string      `json:"currency"`
	UpgradeCost int         `json:"upgrade_cost"`
	UnlockLevel int         `json:"unlock_level"`
	Unlocked    bool        `json:"unlocked"`
	Owned       bool        `json:"owned"`
	Production  *Production `json:"production,omitempty"`
}

// Armed reports whether the unit fires at enemies.
func (u Unit) Armed() bool { return u.Damage > 0 && u.FireRate > 0 }

// FireInterval is 1000ms / FireRate.
func (u Unit) FireInterval() time.Duration {
	if u.FireRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / u.FireRate)
}

type Carrier struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slots       int      `json:"slots"`
	Health      int      `json:"health"`
	UnlockCost  int      `json:"unlock_cost"`
	Currency    string   `json:"currency"`
	UnlockLevel int      `json:"unlock_level"`
	Unlocked    bool     `json:"unlocked"`
	Owned       bool     `json:"owned"`
	Installed   []string `json:"installed"`
}

func (c Carrier) Has(unitID string) bool {
	for _, id := range c.Installed {
		if id == unitID {
			return true
		}
	}
	return false
}

func (c Carrier) Full() bool { return len(c.Installed) >= c.Slots }

func unitFromSpec(s config.UnitSpec, upgradeGrowth float64) Unit {
	u := Unit{
		ID:          s.ID,
		Name:        s.Name,
		Kind:        s.Kind,
		Level:       1,
		Damage:      s.Damage,
		FireRate:    s.FireRate,
		Health:      s.Health,
		Cost:        s.Cost,
		Currency:    s.Currency,
		UnlockLevel: s.UnlockLevel,
		Unlocked:    s.UnlockLevel <= 1 || s.Owned,
		Owned:       s.Owned,
	}
	u.UpgradeCost = firstUpgradeCost(s.Cost, upgradeGrowth)
	if s.Production != nil {
		u.Production = &Production{
			Currency: s.Production.Currency,
			Amount:   s.Production.Amount,
			Interval: time.Duration(s.Production.IntervalMS) * time.Millisecond,
		}
	}
	return u
}

func carrierFromSpec(s config.CarrierSpec) Carrier {
	return Carrier{
		ID:          s.ID,
		Name:        s.Name,
		Slots:       s.Slots,
		Health:      s.Health,
		UnlockCost:  s.UnlockCost,
		Currency:    s.Currency,
		UnlockLevel: s.UnlockLevel,
		Unlocked:    s.UnlockLevel <= 1 || s.Owned,
		Owned:       s.Owned,
		Installed:   append([]string{}, s.Installed...),
	}
}
