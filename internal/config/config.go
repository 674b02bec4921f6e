package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version    string        `yaml:"version" json:"version"`
	Difficulty string        `yaml:"difficulty" json:"difficulty"`
	Seed       int64         `yaml:"seed" json:"seed"`
	Server     ServerConfig  `yaml:"server" json:"server"`
	Storage    StorageConfig `yaml:"storage" json:"storage"`
	Driver     DriverConfig  `yaml:"driver" json:"driver"`
	Balance    Balance       `yaml:"balance" json:"balance"`
	Variant    Variant       `yaml:"variant" json:"variant"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type StorageConfig struct {
	Backend string `yaml:"backend" json:"backend"` // "file", "sqlite", "memory"
	DataDir string `yaml:"data_dir" json:"data_dir"`
	Slot    string `yaml:"slot" json:"slot"`
}

type DriverConfig struct {
	TickMS            int     `yaml:"tick_ms" json:"tick_ms"`
	AutoStartDelayMS  int     `yaml:"auto_start_delay_ms" json:"auto_start_delay_ms"`
	AutosaveSeconds   int     `yaml:"autosave_seconds" json:"autosave_seconds"`
	BroadcastMS       int     `yaml:"broadcast_ms" json:"broadcast_ms"`
	CommandsPerSecond float64 `yaml:"commands_per_second" json:"commands_per_second"`
	CommandBurst      int     `yaml:"command_burst" json:"command_burst"`
}

func (s *StorageConfig) ApplyDefaults() {
	if s.Backend == "" {
		s.Backend = "file"
	}
	if s.DataDir == "" {
		s.DataDir = "data"
	}
	if s.Slot == "" {
		s.Slot = "default"
	}
}

func (d *DriverConfig) ApplyDefaults() {
	if d.TickMS == 0 {
		d.TickMS = 50
	}
	if d.AutoStartDelayMS == 0 {
		d.AutoStartDelayMS = 2000
	}
	if d.AutosaveSeconds == 0 {
		d.AutosaveSeconds = 30
	}
	if d.BroadcastMS == 0 {
		d.BroadcastMS = 250
	}
	if d.CommandsPerSecond == 0 {
		d.CommandsPerSecond = 30
	}
	if d.CommandBurst == 0 {
		d.CommandBurst = 10
	}
}

func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":42069"
	}
	c.Storage.ApplyDefaults()
	c.Driver.ApplyDefaults()
}

// Validate rejects balance and catalog data the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	b := c.Balance
	if b.LevelGrowth < 1.2 || b.LevelGrowth > 1.5 {
		errs = append(errs, fmt.Errorf("balance.level_growth must be within [1.2, 1.5], got %v", b.LevelGrowth))
	}
	if b.BossEvery <= 0 {
		errs = append(errs, fmt.Errorf("balance.boss_every must be positive, got %d", b.BossEvery))
	}
	if b.ExperienceToLevelTwo <= 0 {
		errs = append(errs, errors.New("balance.experience_to_level_two must be positive"))
	}
	if b.ClickRadius <= 0 {
		errs = append(errs, errors.New("balance.click_radius must be positive"))
	}
	if b.RosterExponent <= 0 || b.RosterExponent >= 1 {
		errs = append(errs, fmt.Errorf("balance.roster_exponent must be within (0, 1), got %v", b.RosterExponent))
	}
	if b.FieldHeight <= b.SpawnY {
		errs = append(errs, errors.New("balance.field_height must lie below spawn_y"))
	}
	if len(b.Archetypes) == 0 {
		errs = append(errs, errors.New("balance.archetypes is empty"))
	}
	bossFound := false
	for _, a := range b.Archetypes {
		if strings.TrimSpace(a.Name) == "" {
			errs = append(errs, errors.New("archetype without name"))
		}
		if a.HealthBase <= 0 {
			errs = append(errs, fmt.Errorf("archetype %s: health_base must be positive", a.Name))
		}
		if a.ChanceMax < 0 || a.ChanceMax > 1 {
			errs = append(errs, fmt.Errorf("archetype %s: chance_max must be within [0, 1]", a.Name))
		}
		if a.Name == b.BossArchetype {
			bossFound = true
		}
	}
	if !bossFound {
		errs = append(errs, fmt.Errorf("balance.boss_archetype %q is not a known archetype", b.BossArchetype))
	}

	v := c.Variant
	if v.PrimaryCurrency == "" {
		errs = append(errs, errors.New("variant.primary_currency is required"))
	}
	seen := map[string]bool{}
	for _, u := range v.Units {
		if u.ID == "" || seen[u.ID] {
			errs = append(errs, fmt.Errorf("variant.units: empty or duplicate id %q", u.ID))
		}
		seen[u.ID] = true
		if u.Production == nil && (u.Damage <= 0 || u.FireRate <= 0) {
			errs = append(errs, fmt.Errorf("unit %s: damage and fire_rate must be positive", u.ID))
		}
	}
	carriers := map[string]bool{}
	for _, cr := range v.Carriers {
		if cr.ID == "" || carriers[cr.ID] {
			errs = append(errs, fmt.Errorf("variant.carriers: empty or duplicate id %q", cr.ID))
		}
		carriers[cr.ID] = true
		if cr.Slots <= 0 {
			errs = append(errs, fmt.Errorf("carrier %s: slots must be positive", cr.ID))
		}
		if len(cr.Installed) > cr.Slots {
			errs = append(errs, fmt.Errorf("carrier %s: %d installed units exceed %d slots", cr.ID, len(cr.Installed), cr.Slots))
		}
	}
	if !carriers[v.ActiveCarrier] {
		errs = append(errs, fmt.Errorf("variant.active_carrier %q is not a known carrier", v.ActiveCarrier))
	}
	return errors.Join(errs...)
}

// Defaults returns a ready-to-use configuration for the given difficulty and
// variant presets.
func Defaults(difficulty, variant string) (*Config, error) {
	v, err := ForVariant(variant)
	if err != nil {
		return nil, err
	}
	c := &Config{
		Version:    "1",
		Difficulty: difficulty,
		Balance:    ForDifficulty(difficulty),
		Variant:    v,
	}
	c.ApplyDefaults()
	return c, nil
}

type presetProbe struct {
	Difficulty string `yaml:"difficulty"`
	Variant    struct {
		Name string `yaml:"name"`
	} `yaml:"variant"`
}

// Load reads a yaml config. Keys that are absent keep the values of the
// difficulty and variant presets the file selects.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var probe presetProbe
	if err := yaml.Unmarshal(b, &probe); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	r, err := Defaults(probe.Difficulty, probe.Variant.Name)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return r, nil
}
