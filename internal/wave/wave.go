// Package wave holds the wave state machine, roster generation and movement.
package wave

import (
	"math/rand"
	"time"

	"spaceclicker/internal/config"
	"spaceclicker/internal/enemy"
	"spaceclicker/internal/scaling"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseInProgress Phase = "in_progress"
	// PhaseResolving is only observable from inside completion.
	PhaseResolving Phase = "resolving"
)

// Controller is the per-wave bookkeeping. Number is the wave to play next
// while Idle and the wave being played while InProgress.
type Controller struct {
	Phase     Phase     `json:"phase"`
	Number    int       `json:"number"`
	StartedAt time.Time `json:"started_at"`
	Kills     int       `json:"kills"`
	Leaked    int       `json:"leaked"`
	Earned    int       `json:"earned"`
	XPEarned  float64   `json:"xp_earned"`
}

func NewController() Controller {
	return Controller{Phase: PhaseIdle, Number: 1}
}

// Begin moves Idle to InProgress. It fails while a wave is already running.
func (c *Controller) Begin(now time.Time) bool {
	if c.Phase != PhaseIdle {
		return false
	}
	c.Phase = PhaseInProgress
	c.StartedAt = now
	c.Kills, c.Leaked, c.Earned, c.XPEarned = 0, 0, 0, 0
	return true
}

// Resolve moves InProgress to Resolving when the roster is empty.
func (c *Controller) Resolve(rosterEmpty bool) bool {
	if c.Phase != PhaseInProgress || !rosterEmpty {
		return false
	}
	c.Phase = PhaseResolving
	return true
}

// Finish closes a resolving wave, returning the number just cleared.
func (c *Controller) Finish() int {
	cleared := c.Number
	c.Number++
	c.Phase = PhaseIdle
	return cleared
}

// Abort drops back to Idle without advancing the wave number.
func (c *Controller) Abort() {
	c.Phase = PhaseIdle
}

func (c Controller) InProgress() bool { return c.Phase == PhaseInProgress }

// Bonus is the completion award for clearing wave.
func Bonus(b config.Balance, wave int) int {
	return b.WaveBonusBase + b.WaveBonusPerWave*wave
}

// IDFunc mints unique enemy ids.
type IDFunc func() string

// Generate spawns the roster for wave above the field at random x positions,
// staggered upward so enemies enter one after another.
func Generate(t *scaling.Table, rng *rand.Rand, b config.Balance, wave int, newID IDFunc) ([]enemy.Enemy, error) {
	kinds := t.Roster(rng, wave)
	out := make([]enemy.Enemy, 0, len(kinds))
	for i, a := range kinds {
		s, err := t.EnemyStats(a, wave)
		if err != nil {
			return nil, err
		}
		x := b.SpawnMinX
		if b.SpawnMaxX > b.SpawnMinX {
			x += rng.Float64() * (b.SpawnMaxX - b.SpawnMinX)
		}
		pos := enemy.Position{X: x, Y: b.SpawnY - float64(i)*spawnSpacing}
		out = append(out, enemy.Spawn(newID(), a, s, pos))
	}
	return out, nil
}

const spawnSpacing = 40

// Move advances every enemy by speed*dt along +Y and removes those past
// fieldHeight. Removed enemies are returned in roster order.
func Move(r *enemy.Roster, dt time.Duration, fieldHeight float64) []enemy.Enemy {
	if dt <= 0 {
		return nil
	}
	secs := dt.Seconds()
	var out []string
	r.Each(func(e *enemy.Enemy) {
		e.Position.Y += e.Speed * secs
		if e.Position.Y > fieldHeight {
			out = append(out, e.ID)
		}
	})

	leaked := make([]enemy.Enemy, 0, len(out))
	for _, id := range out {
		if e, ok := r.Remove(id); ok {
			leaked = append(leaked, e)
		}
	}
	return leaked
}
