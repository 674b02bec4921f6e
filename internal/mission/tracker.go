// Package mission tracks daily missions: progress events, claims and the
// once-per-day refresh.
package mission

import (
	"math/rand"
	"sort"
	"time"

	"spaceclicker/internal/config"

	"github.com/google/uuid"
)

// Tracker owns the active mission set. Callers serialize access.
type Tracker struct {
	Missions    []Mission `json:"missions"`
	LastRefresh time.Time `json:"last_refresh"`
}

// Record adds amount to every active, incomplete mission of kind and returns
// the ids that completed on this call.
func (t *Tracker) Record(kind Kind, amount int) []string {
	if amount <= 0 {
		return nil
	}
	var done []string
	for i := range t.Missions {
		m := &t.Missions[i]
		if m.Kind != kind {
			continue
		}
		if m.add(amount) && m.Completed {
			done = append(done, m.ID)
		}
	}
	return done
}

// Claim removes a completed mission and returns its reward.
func (t *Tracker) Claim(id string) (Reward, bool) {
	for i, m := range t.Missions {
		if m.ID != id {
			continue
		}
		if !m.Completed {
			return Reward{}, false
		}
		t.Missions = append(t.Missions[:i], t.Missions[i+1:]...)
		return m.Reward, true
	}
	return Reward{}, false
}

func (t *Tracker) Get(id string) (Mission, bool) {
	for _, m := range t.Missions {
		if m.ID == id {
			return m.clone(), true
		}
	}
	return Mission{}, false
}

// NeedsRefresh is true before the first refresh and on any later local day.
func NeedsRefresh(last, now time.Time) bool {
	if last.IsZero() {
		return true
	}
	return !sameLocalDay(last, now)
}

func sameLocalDay(a, b time.Time) bool {
	a, b = a.Local(), b.Local()
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// NextMidnight is the start of the local day after now.
func NextMidnight(now time.Time) time.Time {
	n := now.Local()
	y, m, d := n.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, n.Location())
}

// IDFunc mints mission ids. A nil IDFunc falls back to random uuids.
type IDFunc func() string

// Refresh replaces the whole set with count missions rolled from templates.
// Unclaimed missions, completed or not, are discarded.
func (t *Tracker) Refresh(rng *rand.Rand, templates []config.MissionTemplate, count int, now time.Time, newID IDFunc) {
	t.Missions = Roll(rng, templates, count, now, newID)
	t.LastRefresh = now
}

// Roll picks count distinct templates (all of them when count is larger) and
// randomizes targets and rewards within their ranges.
func Roll(rng *rand.Rand, templates []config.MissionTemplate, count int, now time.Time, newID IDFunc) []Mission {
	if len(templates) == 0 || count <= 0 {
		return nil
	}
	if newID == nil {
		newID = uuid.NewString
	}
	order := rng.Perm(len(templates))
	if count < len(order) {
		order = order[:count]
	}
	expires := NextMidnight(now)

	out := make([]Mission, 0, len(order))
	for _, idx := range order {
		tpl := templates[idx]
		m := Mission{
			ID:          newID(),
			Title:       tpl.Title,
			Description: tpl.Description,
			Kind:        Kind(tpl.Kind),
			Target:      max(roll(rng, tpl.Target), 1),
			Reward:      Reward{Currencies: map[string]int{}, XP: roll(rng, tpl.XP)},
			ExpiresAt:   expires,
		}
		// sorted so a seeded rng rolls the same rewards every time
		kinds := make([]string, 0, len(tpl.Reward))
		for k := range tpl.Reward {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			if v := roll(rng, tpl.Reward[k]); v > 0 {
				m.Reward.Currencies[k] = v
			}
		}
		out = append(out, m)
	}
	return out
}

func roll(rng *rand.Rand, r config.Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// Clone returns a deep copy.
func (t Tracker) Clone() Tracker {
	out := Tracker{LastRefresh: t.LastRefresh, Missions: make([]Mission, len(t.Missions))}
	for i, m := range t.Missions {
		out.Missions[i] = m.clone()
	}
	return out
}
