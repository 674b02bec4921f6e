// Command spaceclicker runs a headless balance simulation: a deterministic
// clock, a greedy shopper between waves, and a JSON report on stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"sort"
	"time"

	"spaceclicker/internal/arsenal"
	"spaceclicker/internal/combat"
	"spaceclicker/internal/config"
	"spaceclicker/internal/driver"
	"spaceclicker/internal/game"
	"spaceclicker/internal/telemetry"
	"spaceclicker/internal/wave"
)

type report struct {
	Variant    string            `json:"variant"`
	Difficulty string            `json:"difficulty"`
	Waves      int               `json:"waves"`
	Simulated  string            `json:"simulated"`
	Level      int               `json:"level"`
	Wallet     map[string]int    `json:"wallet"`
	Units      []string          `json:"active_units"`
	Stats      telemetry.Stats   `json:"stats"`
	Summary    telemetry.Summary `json:"summary"`
}

func main() {
	waves := flag.Int("waves", 20, "waves to simulate")
	variant := flag.String("variant", config.VariantClassic, "catalog variant")
	difficulty := flag.String("difficulty", "", "balance preset: casual, hard or empty")
	seed := flag.Int64("seed", 1, "random seed")
	stepMS := flag.Int("step-ms", 50, "simulated tick")
	clicksPerSecond := flag.Int("cps", 4, "simulated player clicks per second")
	verbose := flag.Bool("v", false, "log engine events to stderr")
	flag.Parse()

	if err := simulate(os.Stdout, *variant, *difficulty, *seed, *waves, time.Duration(*stepMS)*time.Millisecond, *clicksPerSecond, *verbose); err != nil {
		log.Fatal(err)
	}
}

func simulate(out io.Writer, variant, difficulty string, seed int64, waves int, step time.Duration, cps int, verbose bool) error {
	cfg, err := config.Defaults(difficulty, variant)
	if err != nil {
		return err
	}
	cfg.Seed = seed

	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.New(os.Stderr, "", 0)
	}
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := game.NewFakeClock(start)
	events := telemetry.NewMemoryRepository()
	events.Now = clock.Now

	engine, err := game.New(game.Options{
		Config: cfg,
		Clock:  clock,
		Rand:   rand.New(rand.NewSource(seed)),
		Events: events,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	if err := engine.Initialize(context.Background()); err != nil {
		return err
	}

	runner := driver.New(driver.Options{Engine: engine, Clock: clock, Logger: logger})
	clickEvery := time.Duration(0)
	if cps > 0 {
		clickEvery = time.Second / time.Duration(cps)
	}
	var sinceClick time.Duration
	limit := time.Duration(waves) * 10 * time.Minute

	for engine.Snapshot().Wave <= waves && clock.Now().Sub(start) < limit {
		clock.Advance(step)
		if _, err := runner.Step(step); err != nil {
			return err
		}
		sinceClick += step
		if clickEvery > 0 && sinceClick >= clickEvery {
			sinceClick -= clickEvery
			if v := engine.Snapshot(); v.Phase == wave.PhaseInProgress && len(v.Enemies) > 0 {
				target := v.Enemies[combat.MostAdvanced(v.Enemies)]
				if _, err := engine.ClickAttack(target.Position.X, target.Position.Y); err != nil {
					return err
				}
			}
		}
		if v := engine.Snapshot(); v.Phase == wave.PhaseIdle {
			if err := shop(engine, v); err != nil {
				return err
			}
		}
	}

	v := engine.Snapshot()
	evs, err := events.GetEvents(time.Time{}, nil)
	if err != nil {
		return err
	}
	summary, err := telemetry.Summarize(evs, start)
	if err != nil {
		return err
	}
	r := report{
		Variant:    v.Variant,
		Difficulty: cfg.Difficulty,
		Waves:      v.Wave - 1,
		Simulated:  clock.Now().Sub(start).String(),
		Level:      v.Progression.Level,
		Wallet:     v.Wallet,
		Stats:      v.Stats,
		Summary:    summary,
	}
	for _, u := range v.ActiveUnits {
		r.Units = append(r.Units, fmt.Sprintf("%s@%d", u.ID, u.Level))
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// shop claims finished missions, then buys or upgrades the cheapest
// affordable armed unit and installs it where there is room.
func shop(e *game.Engine, v game.View) error {
	for _, m := range v.Missions {
		if m.Completed {
			if _, err := e.ClaimMission(m.ID); err != nil {
				return err
			}
		}
	}

	units := append([]arsenal.Unit(nil), v.Units...)
	sort.Slice(units, func(i, j int) bool { return price(units[i]) < price(units[j]) })
	for _, u := range units {
		if !u.Unlocked {
			continue
		}
		if !u.Owned {
			ok, err := e.PurchaseUnit(u.ID)
			if err != nil {
				return err
			}
			if ok {
				_, err = e.InstallUnit(u.ID, v.ActiveCarrier)
				return err
			}
			continue
		}
		if ok, err := e.UpgradeUnit(u.ID); err != nil || ok {
			return err
		}
	}
	return nil
}

func price(u arsenal.Unit) int {
	if u.Owned {
		return u.UpgradeCost
	}
	return u.Cost
}
