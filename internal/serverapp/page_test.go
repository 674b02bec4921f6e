package serverapp

import (
	"bytes"
	"context"
	"testing"

	"spaceclicker/internal/game"
	"spaceclicker/internal/ledger"
	"spaceclicker/internal/mission"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusView_RendersAndEscapes(t *testing.T) {
	v := game.View{
		Ready:         true,
		Variant:       "classic",
		Wave:          4,
		ActiveCarrier: "mothership",
		Wallet:        ledger.Wallet{"credits": 120},
		Missions: []mission.Mission{
			{ID: "a", Title: "<b>Hunter</b>", Target: 10, Progress: 10, Completed: true},
			{ID: "b", Title: "Sweeper", Target: 3, Progress: 1},
		},
	}
	v.Progression.Level = 2

	var buf bytes.Buffer
	require.NoError(t, statusView(v).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, "<h2>Wave 4</h2>")
	assert.Contains(t, html, "<h2>Level 2</h2>")
	assert.Contains(t, html, "<td>credits</td><td>120</td>")
	assert.Contains(t, html, `<li class="done">&lt;b&gt;Hunter&lt;/b&gt; 10/10</li>`)
	assert.Contains(t, html, "<li>Sweeper 1/3</li>")
	assert.NotContains(t, html, "<b>Hunter</b>")
}

func TestStatusView_NotReady(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, statusView(game.View{Variant: "arsenal"}).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "engine not initialized")
	assert.NotContains(t, buf.String(), "<h2>Wave")
}
