package serverapp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"spaceclicker/internal/config"
	"spaceclicker/internal/game"
	"spaceclicker/internal/save"
	"spaceclicker/internal/telemetry"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	engine  *game.Engine
	store   *save.MemoryRepo
	handler http.Handler
	hub     *Hub
}

func newTestApp(t *testing.T, initialize bool) testApp {
	t.Helper()
	cfg, err := config.Defaults("", "")
	require.NoError(t, err)
	cfg.Driver.CommandsPerSecond = 1000
	cfg.Driver.CommandBurst = 1000

	logger := log.New(io.Discard, "", 0)
	store := save.NewMemoryRepo()
	events := telemetry.NewMemoryRepository()
	e, err := game.New(game.Options{
		Config: cfg,
		Store:  store,
		Rand:   rand.New(rand.NewSource(3)),
		Events: events,
		Logger: logger,
	})
	require.NoError(t, err)
	if initialize {
		require.NoError(t, e.Initialize(context.Background()))
	}

	hub := NewHub(e, logger, 1000, 1000)
	h, err := NewHandler(Options{Config: cfg, Engine: e, Store: store, Events: events, Hub: hub, Logger: logger})
	require.NoError(t, err)
	return testApp{engine: e, store: store, handler: h, hub: hub}
}

func (a testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndReady(t *testing.T) {
	app := newTestApp(t, false)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, app.do(t, http.MethodGet, "/readyz", nil).Code)

	res := app.do(t, http.MethodPost, "/api/wave/start", nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
	assert.Contains(t, decode[map[string]string](t, res)["error"], "not initialized")

	require.NoError(t, app.engine.Initialize(context.Background()))
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/readyz", nil).Code)
}

func TestWaveAndClickRoutes(t *testing.T) {
	app := newTestApp(t, true)

	res := app.do(t, http.MethodPost, "/api/wave/start", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.True(t, decode[okResult](t, res).OK)

	res = app.do(t, http.MethodPost, "/api/wave/start", nil)
	assert.False(t, decode[okResult](t, res).OK, "already in progress")

	state := decode[game.View](t, app.do(t, http.MethodGet, "/api/state", nil))
	require.NotEmpty(t, state.Enemies)
	target := state.Enemies[0]

	res = app.do(t, http.MethodPost, "/api/click", map[string]any{"x": target.Position.X, "y": target.Position.Y})
	require.Equal(t, http.StatusOK, res.Code)
	hit := decode[game.DamageResult](t, res)
	assert.True(t, hit.Hit)

	res = app.do(t, http.MethodPost, "/api/damage", map[string]any{"target_id": "nobody", "amount": 5})
	assert.False(t, decode[game.DamageResult](t, res).Hit)
	assert.Equal(t, 1, app.engine.Snapshot().Stats.TotalClicks)
}

func TestPurchaseRoutes(t *testing.T) {
	app := newTestApp(t, true)

	res := app.do(t, http.MethodPost, "/api/units/cruiser-1/purchase", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.False(t, decode[okResult](t, res).OK, "level gated")

	res = app.do(t, http.MethodPost, "/api/units/defender-1/purchase", nil)
	assert.True(t, decode[okResult](t, res).OK)

	res = app.do(t, http.MethodPost, "/api/carriers/mothership/install", map[string]any{"unit_id": "defender-1"})
	assert.True(t, decode[okResult](t, res).OK)
	assert.Len(t, app.engine.Snapshot().ActiveUnits, 1)

	res = app.do(t, http.MethodPost, "/api/packs/pack1", nil)
	assert.True(t, decode[okResult](t, res).OK)
	res = app.do(t, http.MethodPost, "/api/clicks/click_damage", nil)
	assert.True(t, decode[okResult](t, res).OK)
}

func TestCommandEndpoint(t *testing.T) {
	app := newTestApp(t, true)

	res := app.do(t, http.MethodPost, "/api/command", Command{Type: "warp"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = app.do(t, http.MethodPost, "/api/command", Command{Type: cmdSave})
	require.Equal(t, http.StatusOK, res.Code)
	_, err := app.store.Load(context.Background(), "default")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/command", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOfflineAndStats(t *testing.T) {
	app := newTestApp(t, true)

	res := app.do(t, http.MethodGet, "/api/offline", nil)
	require.Equal(t, http.StatusOK, res.Code)

	res = app.do(t, http.MethodPost, "/api/offline", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.False(t, decode[offlineResult](t, res).OK, "no measured rate yet")

	app.do(t, http.MethodPost, "/api/wave/start", nil)
	res = app.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, res.Code)
	body := decode[struct {
		Summary telemetry.Summary `json:"summary"`
	}](t, res)
	assert.Equal(t, 1, body.Summary.EventCounts[telemetry.EventWaveStarted])

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/stats?since=yesterday", nil).Code)
}

func TestStatusPage(t *testing.T) {
	app := newTestApp(t, true)
	res := app.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Wave 1")
	assert.Contains(t, res.Body.String(), "credits")

	res = app.do(t, http.MethodGet, "/static/css/status.css", nil)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestWebsocket_SnapshotThenCommands(t *testing.T) {
	app := newTestApp(t, true)
	srv := httptest.NewServer(app.handler)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first Message
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "snapshot", first.Type)
	require.NotNil(t, first.State)
	assert.True(t, first.State.Ready)

	require.NoError(t, conn.WriteJSON(Command{Type: cmdStartWave}))
	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "result", reply.Type)
	assert.Equal(t, cmdStartWave, reply.Command)

	require.NoError(t, conn.WriteJSON(Command{Type: "warp"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "error", reply.Type)

	app.hub.BroadcastView(app.engine.Snapshot())
	var snap Message
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, "snapshot", snap.Type)
	assert.NotEmpty(t, snap.State.Enemies)
}
