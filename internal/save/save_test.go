package save

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"spaceclicker/internal/arsenal"
	"spaceclicker/internal/config"
	"spaceclicker/internal/ledger"
	"spaceclicker/internal/mission"
	"spaceclicker/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults(v config.Variant) Save {
	b := config.Default()
	return Save{
		Version:     CurrentVersion,
		Variant:     v.Name,
		Progression: ledger.NewProgression(b.ExperienceToLevelTwo),
		Wallet:      ledger.NewWallet(v.Currencies, v.StartingWallet),
		Wave:        1,
		Catalog:     arsenal.NewCatalog(v, b),
		Clicks:      arsenal.NewClickUpgrades(),
		Stats:       telemetry.NewStats(),
	}
}

func sample() Save {
	s := defaults(config.Arsenal())
	s.Wave = 7
	s.Progression.Level = 3
	s.Wallet["coins"] = 1234
	s.SavedAt = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	s.Missions.Missions = []mission.Mission{{ID: "m1", Kind: mission.KindKill, Target: 10, Progress: 4}}
	return s
}

func exerciseRepo(t *testing.T, r Repository) {
	t.Helper()
	ctx := context.Background()

	_, err := r.Load(ctx, "main")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Store(ctx, "main", sample()))
	got, err := r.Load(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Wave)
	assert.Equal(t, 1234, got.Wallet["coins"])
	require.Len(t, got.Missions.Missions, 1)
	assert.Equal(t, 4, got.Missions.Missions[0].Progress)
	scout, ok := got.Catalog.Carrier("scout")
	require.True(t, ok)
	assert.Equal(t, []string{"laser"}, scout.Installed)

	next := sample()
	next.Wave = 8
	require.NoError(t, r.Store(ctx, "main", next))
	require.NoError(t, r.Store(ctx, "alt", sample()))

	infos, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "alt", infos[0].Slot)
	assert.Equal(t, 8, infos[1].Wave)

	require.NoError(t, r.Delete(ctx, "alt"))
	assert.ErrorIs(t, r.Delete(ctx, "alt"), ErrNotFound)
}

func TestMemoryRepo(t *testing.T) {
	exerciseRepo(t, NewMemoryRepo())
}

func TestFileRepo(t *testing.T) {
	r, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)
	exerciseRepo(t, r)
}

func TestFileRepo_CorruptSave(t *testing.T) {
	dir := t.TempDir()
	r, err := NewFileRepo(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.json"), []byte("{not json"), 0o644))

	_, err = r.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrCorruptSave)
}

func TestSQLiteRepo(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	r := NewSQLiteRepo(db)
	t.Cleanup(func() { r.Close() })

	exerciseRepo(t, r)

	hist, err := r.History(context.Background(), "main", 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, 8, hist[0].Wave)
	assert.Equal(t, 7, hist[1].Wave)
}

func TestNormalize_MergesOntoDefaults(t *testing.T) {
	def := defaults(config.Arsenal())

	loaded := sample()
	loaded.Version = 0
	loaded.Progression = ledger.Progression{Level: 0, Experience: -5}
	loaded.Wallet = ledger.Wallet{"coins": -20, "bogus": 99}
	loaded.Catalog.Units = append(loaded.Catalog.Units, arsenal.Unit{ID: "removed", Owned: true})
	loaded.Catalog.Carriers[0].Installed = []string{"laser", "plasma", "removed"}
	loaded.Catalog.ActiveCarrier = "frigate"
	loaded.Clicks = arsenal.ClickUpgrades{}
	loaded.Missions.Missions = append(loaded.Missions.Missions,
		mission.Mission{ID: "bad", Kind: "unknown", Target: 3},
		mission.Mission{ID: "over", Kind: mission.KindUpgrade, Target: 3, Progress: 9},
	)

	got := Normalize(loaded, def)

	assert.Equal(t, CurrentVersion, got.Version)
	assert.Equal(t, 1, got.Progression.Level)
	assert.Zero(t, got.Progression.Experience)
	assert.Equal(t, def.Progression.ExperienceToNext, got.Progression.ExperienceToNext)
	assert.Equal(t, ledger.Wallet{"coins": 0, "gems": 0}, got.Wallet)

	_, ok := got.Catalog.Unit("removed")
	assert.False(t, ok)
	scout, _ := got.Catalog.Carrier("scout")
	assert.Equal(t, []string{"laser"}, scout.Installed, "unowned and unknown installs dropped")
	assert.Equal(t, "scout", got.Catalog.ActiveCarrier, "unowned carrier cannot be active")
	assert.Equal(t, 1.0, got.Clicks.Multiplier)

	require.Len(t, got.Missions.Missions, 2)
	over := got.Missions.Missions[1]
	assert.Equal(t, 3, over.Progress)
	assert.True(t, over.Completed)
}
