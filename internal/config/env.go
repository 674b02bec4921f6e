package config

import (
	"os"
	"strconv"
)

// FromEnv loads balance configuration from environment variables
// Falls back to defaults if variables are not set
func FromEnv() Balance {
	// Support preset modes
	cfg := ForDifficulty(os.Getenv("DIFFICULTY"))

	if val := getEnvInt("BOSS_EVERY"); val > 0 {
		cfg.BossEvery = val
	}
	if val := getEnvInt("ROSTER_BASE"); val > 0 {
		cfg.RosterBase = val
	}
	if val := getEnvInt("WAVE_BONUS_BASE"); val > 0 {
		cfg.WaveBonusBase = val
	}
	if val := getEnvInt("WAVE_BONUS_PER_WAVE"); val > 0 {
		cfg.WaveBonusPerWave = val
	}
	if val := getEnvInt("FALLBACK_CLICK_DAMAGE"); val > 0 {
		cfg.FallbackClickDamage = val
	}
	if val := getEnvInt("OFFLINE_CAP_MINUTES"); val > 0 {
		cfg.OfflineCapMinutes = val
	}
	if val := getEnvFloat("LEVEL_GROWTH"); val > 0 {
		cfg.LevelGrowth = val
	}
	if val := getEnvFloat("CLICK_RADIUS"); val > 0 {
		cfg.ClickRadius = val
	}
	if val := getEnvFloat("OFFLINE_EFFICIENCY"); val > 0 {
		cfg.OfflineEfficiency = val
	}

	return cfg
}

// ApplyEnv overlays environment overrides that apply to the whole config.
func (c *Config) ApplyEnv() {
	if os.Getenv("DIFFICULTY") != "" {
		c.Difficulty = os.Getenv("DIFFICULTY")
		c.Balance = FromEnv()
	}
	if v := os.Getenv("SPACECLICKER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SPACECLICKER_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("SPACECLICKER_STORE"); v != "" {
		c.Storage.Backend = v
	}
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvFloat(key string) float64 {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0
	}
	return num
}
