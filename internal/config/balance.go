package config

// ArchetypeSpec holds the stat curve and draw chance for one enemy archetype.
type ArchetypeSpec struct {
	Name string `yaml:"name" json:"name"`

	HealthBase    int     `yaml:"health_base" json:"health_base"`
	HealthDivisor int     `yaml:"health_divisor" json:"health_divisor"`
	HealthGrowth  float64 `yaml:"health_growth" json:"health_growth"`

	SpeedBase    float64 `yaml:"speed_base" json:"speed_base"`
	SpeedPerWave float64 `yaml:"speed_per_wave" json:"speed_per_wave"`

	RewardBase    int `yaml:"reward_base" json:"reward_base"`
	RewardPerWave int `yaml:"reward_per_wave" json:"reward_per_wave"`

	Size float64 `yaml:"size" json:"size"`
	Boss bool    `yaml:"boss" json:"boss"`

	// Cumulative draw threshold, hardest first. Zero chance means the archetype
	// only takes the remainder (the basic tier) or is boss-only.
	ChanceBase    float64 `yaml:"chance_base" json:"chance_base"`
	ChancePerWave float64 `yaml:"chance_per_wave" json:"chance_per_wave"`
	ChanceMax     float64 `yaml:"chance_max" json:"chance_max"`
}

// Balance holds gameplay balance configuration
type Balance struct {
	// Enemies
	Archetypes      []ArchetypeSpec `yaml:"archetypes" json:"archetypes"`
	ExperienceRatio float64         `yaml:"experience_ratio" json:"experience_ratio"`
	RosterBase      int             `yaml:"roster_base" json:"roster_base"`
	RosterScale     float64         `yaml:"roster_scale" json:"roster_scale"`
	RosterExponent  float64         `yaml:"roster_exponent" json:"roster_exponent"`
	BossEvery       int             `yaml:"boss_every" json:"boss_every"`
	BossArchetype   string          `yaml:"boss_archetype" json:"boss_archetype"`

	// Play field, top to bottom
	SpawnMinX   float64 `yaml:"spawn_min_x" json:"spawn_min_x"`
	SpawnMaxX   float64 `yaml:"spawn_max_x" json:"spawn_max_x"`
	SpawnY      float64 `yaml:"spawn_y" json:"spawn_y"`
	FieldHeight float64 `yaml:"field_height" json:"field_height"`

	// Combat, economy and offline tuning
	ClickRadius           float64 `yaml:"click_radius" json:"click_radius"`
	FallbackClickDamage   int     `yaml:"fallback_click_damage" json:"fallback_click_damage"`
	AutoClickIntervalMS   int     `yaml:"auto_click_interval_ms" json:"auto_click_interval_ms"`
	ClickDamageCostBase   int     `yaml:"click_damage_cost_base" json:"click_damage_cost_base"`
	ClickMultiplierCost   int     `yaml:"click_multiplier_cost" json:"click_multiplier_cost"`
	ClickMultiplierStep   float64 `yaml:"click_multiplier_step" json:"click_multiplier_step"`
	AutoClickerCostBase   int     `yaml:"auto_clicker_cost_base" json:"auto_clicker_cost_base"`
	WaveBonusBase         int     `yaml:"wave_bonus_base" json:"wave_bonus_base"`
	WaveBonusPerWave      int     `yaml:"wave_bonus_per_wave" json:"wave_bonus_per_wave"`
	ExperienceToLevelTwo  float64 `yaml:"experience_to_level_two" json:"experience_to_level_two"`
	LevelGrowth           float64 `yaml:"level_growth" json:"level_growth"`
	UpgradeCostGrowth     float64 `yaml:"upgrade_cost_growth" json:"upgrade_cost_growth"`
	DamageGrowth          float64 `yaml:"damage_growth" json:"damage_growth"`
	FireRateGrowth        float64 `yaml:"fire_rate_growth" json:"fire_rate_growth"`
	HealthGrowth          float64 `yaml:"health_growth" json:"health_growth"`
	ProductionGrowth      float64 `yaml:"production_growth" json:"production_growth"`
	OfflineCapMinutes     int     `yaml:"offline_cap_minutes" json:"offline_cap_minutes"`
	OfflineEfficiency     float64 `yaml:"offline_efficiency" json:"offline_efficiency"`
	RateWindowMinSeconds  int     `yaml:"rate_window_min_seconds" json:"rate_window_min_seconds"`
	DailyMissionsPerBatch int     `yaml:"daily_missions_per_batch" json:"daily_missions_per_batch"`
}

// DefaultArchetypes returns the basic/medium/advanced tiers plus the elite boss.
func DefaultArchetypes() []ArchetypeSpec {
	return []ArchetypeSpec{
		{
			Name: "basic", HealthBase: 2, HealthDivisor: 5,
			SpeedBase: 60, SpeedPerWave: 6,
			RewardBase: 10, RewardPerWave: 2,
			Size: 1,
		},
		{
			Name: "medium", HealthBase: 4, HealthDivisor: 3,
			SpeedBase: 48, SpeedPerWave: 4.8,
			RewardBase: 25, RewardPerWave: 3,
			Size:       1.2,
			ChanceBase: 0.3, ChancePerWave: 0.03, ChanceMax: 0.6,
		},
		{
			Name: "advanced", HealthBase: 8, HealthDivisor: 2,
			SpeedBase: 36, SpeedPerWave: 3.6,
			RewardBase: 50, RewardPerWave: 5,
			Size:       1.5,
			ChanceBase: 0.1, ChancePerWave: 0.02, ChanceMax: 0.4,
		},
		{
			Name: "elite", HealthBase: 40, HealthDivisor: 1, HealthGrowth: 1.12,
			SpeedBase: 24, SpeedPerWave: 1.2,
			RewardBase: 250, RewardPerWave: 25,
			Size: 2.5, Boss: true,
		},
	}
}

// Default returns the default balance configuration
func Default() Balance {
	return Balance{
		Archetypes:            DefaultArchetypes(),
		ExperienceRatio:       0.5,
		RosterBase:            5,
		RosterScale:           1.5,
		RosterExponent:        0.75,
		BossEvery:             10,
		BossArchetype:         "elite",
		SpawnMinX:             100,
		SpawnMaxX:             500,
		SpawnY:                -50,
		FieldHeight:           800,
		ClickRadius:           50,
		FallbackClickDamage:   1,
		AutoClickIntervalMS:   1000,
		ClickDamageCostBase:   200,
		ClickMultiplierCost:   500,
		ClickMultiplierStep:   0.1,
		AutoClickerCostBase:   300,
		WaveBonusBase:         100,
		WaveBonusPerWave:      20,
		ExperienceToLevelTwo:  1000,
		LevelGrowth:           1.5,
		UpgradeCostGrowth:     1.5,
		DamageGrowth:          1.2,
		FireRateGrowth:        1.1,
		HealthGrowth:          1.2,
		ProductionGrowth:      1.3,
		OfflineCapMinutes:     24 * 60,
		OfflineEfficiency:     1,
		RateWindowMinSeconds:  10,
		DailyMissionsPerBatch: 3,
	}
}

// Casual returns easier balance for casual difficulty
func Casual() Balance {
	cfg := Default()
	cfg.RosterScale = 1.2
	cfg.BossEvery = 12
	cfg.WaveBonusBase = 150
	cfg.LevelGrowth = 1.3
	cfg.ClickRadius = 60
	return cfg
}

// Hard returns harder balance for experienced players
func Hard() Balance {
	cfg := Default()
	cfg.RosterScale = 1.8
	cfg.RosterExponent = 0.8
	cfg.BossEvery = 8
	cfg.WaveBonusPerWave = 15
	cfg.ClickRadius = 40
	cfg.OfflineEfficiency = 0.5
	for i := range cfg.Archetypes {
		if cfg.Archetypes[i].Boss {
			cfg.Archetypes[i].HealthGrowth = 1.15
		}
	}
	return cfg
}

// ForDifficulty resolves a preset name; unknown names fall back to Default.
func ForDifficulty(name string) Balance {
	switch name {
	case "casual":
		return Casual()
	case "hard":
		return Hard()
	default:
		return Default()
	}
}
