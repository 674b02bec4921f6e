package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"spaceclicker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSim(t *testing.T, variant string, seed int64) report {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, simulate(&out, variant, "", seed, 3, 50*time.Millisecond, 4, false))
	var r report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	return r
}

func TestSimulate_CompletesRequestedWaves(t *testing.T) {
	for _, variant := range []string{config.VariantClassic, config.VariantArsenal} {
		t.Run(variant, func(t *testing.T) {
			r := runSim(t, variant, 1)
			assert.Equal(t, 3, r.Waves)
			assert.Equal(t, 3, r.Stats.WavesCompleted)
			assert.Equal(t, 3, r.Summary.Waves)
			assert.Equal(t, r.Stats.EnemiesDestroyed, r.Summary.Kills)
		})
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	a := runSim(t, config.VariantClassic, 9)
	b := runSim(t, config.VariantClassic, 9)
	assert.Equal(t, a, b)
}
