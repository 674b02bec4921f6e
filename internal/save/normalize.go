package save

import (
	"spaceclicker/internal/arsenal"
	"spaceclicker/internal/ledger"
	"spaceclicker/internal/mission"
)

// Normalize merges a loaded save onto defaults: currencies and catalog entries
// missing from s are taken from defaults, entries unknown to defaults are
// dropped, and installs that no longer reference an owned unit are removed.
func Normalize(s, defaults Save) Save {
	out := s.Clone()
	out.Version = CurrentVersion
	if out.Variant == "" {
		out.Variant = defaults.Variant
	}

	if out.Progression.Level < 1 {
		out.Progression.Level = 1
	}
	if out.Progression.Experience < 0 {
		out.Progression.Experience = 0
	}
	if out.Progression.ExperienceToNext <= 0 {
		out.Progression.ExperienceToNext = defaults.Progression.ExperienceToNext
	}
	if out.Wave < 1 {
		out.Wave = 1
	}

	wallet := ledger.Wallet{}
	for k, v := range defaults.Wallet {
		wallet[k] = v
	}
	if s.Wallet != nil {
		for k := range defaults.Wallet {
			if v, ok := s.Wallet[k]; ok {
				wallet[k] = max(v, 0)
			}
		}
	}
	out.Wallet = wallet

	out.Catalog = normalizeCatalog(s.Catalog, defaults.Catalog)

	if out.Clicks.Multiplier <= 0 {
		out.Clicks.Multiplier = 1
	}
	out.Clicks.Damage = max(out.Clicks.Damage, 0)
	out.Clicks.AutoClickers = max(out.Clicks.AutoClickers, 0)

	missions := out.Missions.Missions[:0]
	for _, m := range out.Missions.Missions {
		if !m.Kind.Valid() || m.Target <= 0 {
			continue
		}
		m.Progress = min(max(m.Progress, 0), m.Target)
		m.Completed = m.Progress == m.Target
		missions = append(missions, m)
	}
	out.Missions = mission.Tracker{Missions: missions, LastRefresh: out.Missions.LastRefresh}

	if out.Stats.Earned == nil {
		out.Stats.Earned = map[string]int{}
	}
	return out
}

func normalizeCatalog(c, defaults arsenal.Catalog) arsenal.Catalog {
	out := defaults.Clone()

	for i := range out.Units {
		def := &out.Units[i]
		u, ok := c.Unit(def.ID)
		if !ok {
			continue
		}
		def.Level = max(u.Level, 1)
		if u.Damage > 0 {
			def.Damage = u.Damage
		}
		if u.FireRate > 0 {
			def.FireRate = u.FireRate
		}
		if u.Health > 0 {
			def.Health = u.Health
		}
		if u.UpgradeCost > 0 {
			def.UpgradeCost = u.UpgradeCost
		}
		def.Unlocked = def.Unlocked || u.Unlocked
		def.Owned = def.Owned || u.Owned
		if u.Production != nil && def.Production != nil && u.Production.Amount > 0 {
			p := *def.Production
			p.Amount = u.Production.Amount
			def.Production = &p
		}
	}

	for i := range out.Carriers {
		def := &out.Carriers[i]
		cr, ok := c.Carrier(def.ID)
		if !ok {
			continue
		}
		def.Unlocked = def.Unlocked || cr.Unlocked
		def.Owned = def.Owned || cr.Owned
		def.Installed = nil
		for _, id := range cr.Installed {
			u, ok := out.Unit(id)
			if !ok || !u.Owned || !u.Unlocked || def.Has(id) || def.Full() {
				continue
			}
			def.Installed = append(def.Installed, id)
		}
	}

	if active, ok := out.Carrier(c.ActiveCarrier); ok && active.Owned {
		out.ActiveCarrier = c.ActiveCarrier
	}
	return out
}
