// Package driver runs the engine in real time: a ticker feeds clock deltas to
// movement, automatic fire and production, idle waves are restarted after a
// delay, and state is saved on an interval.
package driver

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"spaceclicker/internal/config"
	"spaceclicker/internal/game"
	"spaceclicker/internal/wave"
)

type Options struct {
	Engine *game.Engine
	Clock  game.Clock
	Logger *log.Logger

	Tick           time.Duration
	AutoStartDelay time.Duration
	Autosave       time.Duration
	Broadcast      time.Duration
	// MissionCheck is how often the daily mission rollover is checked.
	MissionCheck time.Duration
	// MaxStep clamps a single tick's delta after a stall.
	MaxStep time.Duration

	// OnSnapshot receives a view every Broadcast interval.
	OnSnapshot func(game.View)
}

// OptionsFromConfig fills the intervals from driver configuration.
func OptionsFromConfig(d config.DriverConfig) Options {
	return Options{
		Tick:           time.Duration(d.TickMS) * time.Millisecond,
		AutoStartDelay: time.Duration(d.AutoStartDelayMS) * time.Millisecond,
		Autosave:       time.Duration(d.AutosaveSeconds) * time.Second,
		Broadcast:      time.Duration(d.BroadcastMS) * time.Millisecond,
	}
}

type Runner struct {
	opts      Options
	watch     *game.Stopwatch
	idleSince time.Time
}

func New(opts Options) *Runner {
	if opts.Clock == nil {
		opts.Clock = game.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Tick <= 0 {
		opts.Tick = 50 * time.Millisecond
	}
	if opts.MissionCheck <= 0 {
		opts.MissionCheck = time.Minute
	}
	if opts.MaxStep <= 0 {
		opts.MaxStep = time.Second
	}
	return &Runner{
		opts:  opts,
		watch: game.NewStopwatch(opts.Clock, opts.MaxStep),
	}
}

// StepResult summarizes one Step.
type StepResult struct {
	Started bool
	Advance game.AdvanceResult
	Fire    game.AutoFireResult
	Yield   map[string]int
}

// Step applies one delta to the engine. Tests drive it directly with a fake
// clock; Run calls it from the tick loop.
func (r *Runner) Step(dt time.Duration) (StepResult, error) {
	var res StepResult
	e := r.opts.Engine

	if e.Snapshot().Phase == wave.PhaseIdle {
		now := r.opts.Clock.Now()
		if r.idleSince.IsZero() {
			r.idleSince = now
		}
		if now.Sub(r.idleSince) >= r.opts.AutoStartDelay {
			ok, err := e.StartWave()
			if err != nil {
				return res, err
			}
			res.Started = ok
			r.idleSince = time.Time{}
		}
	} else {
		r.idleSince = time.Time{}
	}

	var err error
	if res.Advance, err = e.Advance(dt); err != nil {
		return res, err
	}
	if res.Fire, err = e.AutoFire(dt); err != nil {
		return res, err
	}
	if res.Yield, err = e.Produce(dt); err != nil {
		return res, err
	}
	return res, nil
}

// Run blocks until ctx is cancelled. Step and save failures are logged and
// the loop keeps going; nothing is saved on exit, callers do that.
func (r *Runner) Run(ctx context.Context) error {
	tick := time.NewTicker(r.opts.Tick)
	defer tick.Stop()
	missions := time.NewTicker(r.opts.MissionCheck)
	defer missions.Stop()

	autosave := disabledTicker()
	if r.opts.Autosave > 0 {
		t := time.NewTicker(r.opts.Autosave)
		defer t.Stop()
		autosave = t.C
	}
	broadcast := disabledTicker()
	if r.opts.Broadcast > 0 && r.opts.OnSnapshot != nil {
		t := time.NewTicker(r.opts.Broadcast)
		defer t.Stop()
		broadcast = t.C
	}

	r.watch.Lap()
	r.logJSON("info", "driver_started", map[string]any{"tick_ms": r.opts.Tick.Milliseconds()})
	for {
		select {
		case <-ctx.Done():
			r.logJSON("info", "driver_stopped", nil)
			return nil
		case <-tick.C:
			if _, err := r.Step(r.watch.Lap()); err != nil {
				r.logJSON("error", "tick_failed", map[string]any{"err": err.Error()})
			}
		case <-missions.C:
			if _, err := r.opts.Engine.RefreshMissions(false); err != nil {
				r.logJSON("warn", "mission_refresh_failed", map[string]any{"err": err.Error()})
			}
		case <-autosave:
			if err := r.opts.Engine.Save(ctx); err != nil {
				r.logJSON("warn", "autosave_failed", map[string]any{"err": err.Error()})
			}
		case <-broadcast:
			r.opts.OnSnapshot(r.opts.Engine.Snapshot())
		}
	}
}

// disabledTicker never fires.
func disabledTicker() <-chan time.Time { return nil }

func (r *Runner) logJSON(level, msg string, fields map[string]any) {
	m := map[string]any{
		"ts":    r.opts.Clock.Now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	for k, v := range fields {
		m[k] = v
	}
	b, err := json.Marshal(m)
	if err != nil {
		r.opts.Logger.Printf(`{"level":"error","msg":"log_marshal_failed","err":%q}`, err.Error())
		return
	}
	r.opts.Logger.Print(string(b))
}
