package serverapp

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"spaceclicker/internal/game"
	"spaceclicker/internal/telemetry"
)

type apiHandler struct {
	engine *game.Engine
	events telemetry.Repository
	logger *log.Logger
}

func (h *apiHandler) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/state", h.state)
	mux.HandleFunc("GET /api/stats", h.stats)
	mux.HandleFunc("GET /api/offline", h.offlineProjection)
	mux.HandleFunc("POST /api/command", h.command)

	// path forms of the common commands
	h.route(mux, "POST /api/wave/start", cmdStartWave, nil)
	h.route(mux, "POST /api/wave/complete", cmdCompleteWave, nil)
	h.route(mux, "POST /api/click", cmdClick, nil)
	h.route(mux, "POST /api/damage", cmdDamage, nil)
	h.route(mux, "POST /api/units/{id}/purchase", cmdPurchaseUnit, pathID)
	h.route(mux, "POST /api/units/{id}/upgrade", cmdUpgradeUnit, pathID)
	h.route(mux, "POST /api/carriers/{id}/purchase", cmdPurchaseCarrier, pathID)
	h.route(mux, "POST /api/carriers/{id}/switch", cmdSwitchCarrier, pathID)
	h.route(mux, "POST /api/carriers/{id}/install", cmdInstall, pathID)
	h.route(mux, "POST /api/carriers/{id}/remove", cmdRemove, pathID)
	h.route(mux, "POST /api/clicks/{id}", cmdClickUpgrade, pathID)
	h.route(mux, "POST /api/packs/{id}", cmdBuyPack, pathID)
	h.route(mux, "POST /api/missions/{id}/claim", cmdClaimMission, pathID)
	h.route(mux, "POST /api/missions/refresh", cmdRefreshMissions, nil)
	h.route(mux, "POST /api/offline", cmdApplyOffline, nil)
	h.route(mux, "POST /api/save", cmdSave, nil)
}

func pathID(r *http.Request, c *Command) { c.ID = r.PathValue("id") }

// route binds a path to a fixed command type. A JSON body, when present,
// supplies the remaining fields.
func (h *apiHandler) route(mux *http.ServeMux, pattern, cmdType string, fill func(*http.Request, *Command)) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		var c Command
		if err := decodeBody(r, &c); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		c.Type = cmdType
		if fill != nil {
			fill(r, &c)
		}
		h.run(w, r, c)
	})
}

func (h *apiHandler) command(w http.ResponseWriter, r *http.Request) {
	var c Command
	if err := decodeBody(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	h.run(w, r, c)
}

func (h *apiHandler) run(w http.ResponseWriter, r *http.Request, c Command) {
	res, err := dispatch(r.Context(), h.engine, c)
	if err != nil {
		h.fail(w, c.Type, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *apiHandler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, errUnknownCommand):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrNotInitialized):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logJSON(h.logger, "error", "command_failed", map[string]any{"command": op, "err": err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *apiHandler) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *apiHandler) offlineProjection(w http.ResponseWriter, r *http.Request) {
	g, err := h.engine.ProjectOfflineGain(h.engine.LastSeen())
	if err != nil {
		h.fail(w, "offline_projection", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// stats reports the engine counters plus a summary of the event log since
// ?since= (RFC 3339, default the last 24 hours).
func (h *apiHandler) stats(w http.ResponseWriter, r *http.Request) {
	since := time.Now().Add(-24 * time.Hour)
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be RFC 3339")
			return
		}
		since = t
	}

	events, err := h.events.GetEvents(since, nil)
	if err != nil {
		h.fail(w, "stats", err)
		return
	}
	summary, err := telemetry.Summarize(events, since)
	if err != nil {
		h.fail(w, "stats", err)
		return
	}
	v := h.engine.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":   v.Stats,
		"summary": summary,
	})
}

// decodeBody accepts an empty body.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
