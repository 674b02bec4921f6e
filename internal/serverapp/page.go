package serverapp

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"spaceclicker/internal/arsenal"
	"spaceclicker/internal/game"
	"spaceclicker/internal/mission"

	"github.com/a-h/templ"
)

//go:generate templ generate -f page.templ

// statusPage renders the status board from a fresh snapshot on every request.
func statusPage(e *game.Engine) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return statusView(e.Snapshot()).Render(ctx, w)
	})
}

type statusRow struct {
	Label string
	Value string
}

func waveTitle(v game.View) string { return "Wave " + strconv.Itoa(v.Wave) }

func waveLine(v game.View) string {
	return fmt.Sprintf("phase %s, %d enemies on the field", v.Phase, len(v.Enemies))
}

func levelTitle(v game.View) string { return "Level " + strconv.Itoa(v.Progression.Level) }

func xpLine(v game.View) string {
	return fmt.Sprintf("%.0f / %.0f xp", v.Progression.Experience, v.Progression.ExperienceToNext)
}

func unitLine(u arsenal.Unit) string {
	return fmt.Sprintf("%s lv%d, dmg %d @ %.2f/s", u.Name, u.Level, u.Damage, u.FireRate)
}

func missionLine(m mission.Mission) string {
	return fmt.Sprintf("%s %d/%d", m.Title, m.Progress, m.Target)
}

func walletRows(v game.View) []statusRow {
	rows := make([]statusRow, 0, len(v.Wallet))
	for _, k := range v.Wallet.Kinds() {
		rows = append(rows, statusRow{Label: k, Value: strconv.Itoa(v.Wallet[k])})
	}
	return rows
}

func statsRows(v game.View) []statusRow {
	rows := []statusRow{
		{"destroyed", strconv.Itoa(v.Stats.EnemiesDestroyed)},
		{"leaked", strconv.Itoa(v.Stats.EnemiesLeaked)},
		{"waves", strconv.Itoa(v.Stats.WavesCompleted)},
		{"clicks", strconv.Itoa(v.Stats.TotalClicks)},
	}
	earned := make([]string, 0, len(v.Stats.Earned))
	for k := range v.Stats.Earned {
		earned = append(earned, k)
	}
	sort.Strings(earned)
	for _, k := range earned {
		rows = append(rows, statusRow{"earned " + k, strconv.Itoa(v.Stats.Earned[k])})
	}
	return rows
}
