// Package game is the single-writer simulation engine. Every entry point takes
// the engine lock, so callers may use it from any goroutine.
package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"spaceclicker/internal/arsenal"
	"spaceclicker/internal/combat"
	"spaceclicker/internal/config"
	"spaceclicker/internal/enemy"
	"spaceclicker/internal/ledger"
	"spaceclicker/internal/mission"
	"spaceclicker/internal/offline"
	"spaceclicker/internal/save"
	"spaceclicker/internal/scaling"
	"spaceclicker/internal/telemetry"
	"spaceclicker/internal/wave"

	"github.com/google/uuid"
)

// ErrNotInitialized is returned by every operation called before Initialize
// or Reset.
var ErrNotInitialized = errors.New("game: engine not initialized")

type Options struct {
	Config *config.Config
	// Store is optional; without one Initialize starts fresh and Save is a no-op.
	Store  save.Repository
	Slot   string
	Clock  Clock
	Rand   *rand.Rand
	Events telemetry.Repository
	Logger *log.Logger
	NewID  func() string
}

// state is everything a Save captures.
type state struct {
	progression ledger.Progression
	wallet      ledger.Wallet
	catalog     arsenal.Catalog
	clicks      arsenal.ClickUpgrades
	missions    mission.Tracker
	stats       telemetry.Stats
	throughput  offline.Snapshot
	packs       map[string]int
}

type Engine struct {
	mu sync.Mutex

	cfg     *config.Config
	table   *scaling.Table
	growth  arsenal.Growth
	policy  offline.Policy
	store   save.Repository
	slot    string
	clock   Clock
	rng     *rand.Rand
	events  telemetry.Repository
	logger  *log.Logger
	newID   func() string
	primary string

	ready   bool
	offline bool // gain applied since Initialize or Reset
	st      state
	wave    wave.Controller
	roster  *enemy.Roster
	savedAt time.Time

	fire     *combat.Scheduler
	clickers *combat.Scheduler
	produce  *combat.Scheduler
}

func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Defaults("", ""); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	table, err := scaling.NewTable(cfg.Balance)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	e := &Engine{
		cfg:     cfg,
		table:   table,
		growth:  arsenal.GrowthFromBalance(cfg.Balance),
		store:   opts.Store,
		slot:    opts.Slot,
		clock:   opts.Clock,
		rng:     opts.Rand,
		events:  opts.Events,
		logger:  opts.Logger,
		newID:   opts.NewID,
		primary: cfg.Variant.PrimaryCurrency,
		wave:    wave.NewController(),
		roster:  enemy.NewRoster(),

		fire:     combat.NewScheduler(),
		clickers: combat.NewScheduler(),
		produce:  combat.NewScheduler(),
	}
	e.policy = offline.Policy{
		MaxElapsed: time.Duration(cfg.Balance.OfflineCapMinutes) * time.Minute,
		Efficiency: cfg.Balance.OfflineEfficiency,
		MinWindow:  time.Duration(cfg.Balance.RateWindowMinSeconds) * time.Second,
	}
	if e.slot == "" {
		e.slot = cfg.Storage.Slot
	}
	if e.clock == nil {
		e.clock = RealClock{}
	}
	if e.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		e.rng = rand.New(rand.NewSource(seed))
	}
	if e.events == nil {
		e.events = telemetry.Discard{}
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	return e, nil
}

func (e *Engine) Config() *config.Config { return e.cfg }

// Initialize loads the configured slot, or starts a fresh game when the slot
// does not exist. Corrupt saves are returned as errors and leave the engine
// uninitialized; the caller may fall back to Reset.
func (e *Engine) Initialize(ctx context.Context) error {
	var (
		loaded save.Save
		found  bool
	)
	if e.store != nil {
		s, err := e.store.Load(ctx, e.slot)
		switch {
		case err == nil:
			loaded, found = s, true
		case errors.Is(err, save.ErrNotFound):
		default:
			return fmt.Errorf("game: load slot %q: %w", e.slot, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	def := e.defaultSave()
	if found {
		e.restoreLocked(save.Normalize(loaded, def))
	} else {
		e.restoreLocked(def)
	}
	e.ready = true
	e.offline = false
	e.refreshMissionsLocked(false)
	e.logJSON("info", "engine_initialized", map[string]any{
		"slot":  e.slot,
		"fresh": !found,
		"wave":  e.wave.Number,
		"level": e.st.progression.Level,
	})
	return nil
}

// Reset discards all progress and starts a fresh game.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.restoreLocked(e.defaultSave())
	e.ready = true
	e.offline = false
	e.refreshMissionsLocked(true)
}

func (e *Engine) defaultSave() save.Save {
	v := e.cfg.Variant
	return save.Save{
		Version:     save.CurrentVersion,
		Variant:     v.Name,
		Difficulty:  e.cfg.Difficulty,
		Progression: ledger.NewProgression(e.cfg.Balance.ExperienceToLevelTwo),
		Wallet:      ledger.NewWallet(v.Currencies, v.StartingWallet),
		Wave:        1,
		Catalog:     arsenal.NewCatalog(v, e.cfg.Balance),
		Clicks:      arsenal.NewClickUpgrades(),
		Stats:       telemetry.NewStats(),
		Packs:       map[string]int{},
	}
}

func (e *Engine) restoreLocked(s save.Save) {
	s = s.Clone()
	e.st = state{
		progression: s.Progression,
		wallet:      s.Wallet,
		catalog:     s.Catalog,
		clicks:      s.Clicks,
		missions:    s.Missions,
		stats:       s.Stats,
		throughput:  s.Throughput,
		packs:       s.Packs,
	}
	e.savedAt = s.SavedAt
	e.wave = wave.NewController()
	e.wave.Number = max(s.Wave, 1)
	e.roster.Clear()
	e.fire.Reset()
	e.clickers.Reset()
	e.produce.Reset()
	// levels reached before a catalog change still unlock their entries
	e.st.catalog.UnlockForLevel(e.st.progression.Level)
}

func (e *Engine) snapshotLocked() save.Save {
	s := save.Save{
		Version:     save.CurrentVersion,
		Variant:     e.cfg.Variant.Name,
		Difficulty:  e.cfg.Difficulty,
		Progression: e.st.progression,
		Wallet:      e.st.wallet,
		Wave:        e.wave.Number,
		Catalog:     e.st.catalog,
		Clicks:      e.st.clicks,
		Missions:    e.st.missions,
		Stats:       e.st.stats,
		Throughput:  e.st.throughput,
		Packs:       e.st.packs,
		SavedAt:     e.clock.Now(),
	}
	return s.Clone()
}

// Export returns the persisted subset of the current state.
func (e *Engine) Export() (save.Save, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return save.Save{}, ErrNotInitialized
	}
	return e.snapshotLocked(), nil
}

// Save writes the current state to the store. The snapshot is taken under the
// lock and written outside it.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	if !e.ready {
		e.mu.Unlock()
		return ErrNotInitialized
	}
	s := e.snapshotLocked()
	e.mu.Unlock()

	if e.store == nil {
		return nil
	}
	if err := e.store.Store(ctx, e.slot, s); err != nil {
		return fmt.Errorf("game: save slot %q: %w", e.slot, err)
	}

	e.mu.Lock()
	e.savedAt = s.SavedAt
	e.emit(telemetry.EventSaved, telemetry.EventMetadata{"slot": e.slot, "wave": s.Wave})
	e.mu.Unlock()
	return nil
}

// LastSeen is when the player was last observed: the later of the loaded
// save time and the last applied offline gain.
func (e *Engine) LastSeen() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st.throughput.LastObservedAt.After(e.savedAt) {
		return e.st.throughput.LastObservedAt
	}
	return e.savedAt
}

// emit records an event; sink failures are logged and dropped.
func (e *Engine) emit(t telemetry.EventType, meta telemetry.EventMetadata) {
	if err := e.events.RecordEvent(t, meta); err != nil {
		e.logJSON("warn", "telemetry_failed", map[string]any{"event": string(t), "err": err.Error()})
	}
}

func (e *Engine) logJSON(level, msg string, fields map[string]any) {
	m := map[string]any{
		"ts":    e.clock.Now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	for k, v := range fields {
		m[k] = v
	}
	b, err := json.Marshal(m)
	if err != nil {
		e.logger.Printf(`{"level":"error","msg":"log_marshal_failed","err":%q}`, err.Error())
		return
	}
	e.logger.Print(string(b))
}
