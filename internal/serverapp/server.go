package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"spaceclicker/internal/config"
	"spaceclicker/internal/game"
	"spaceclicker/internal/httpmw"
	"spaceclicker/internal/save"
	"spaceclicker/internal/telemetry"
	"spaceclicker/static"

	"github.com/a-h/templ"
)

type Options struct {
	Config *config.Config
	Engine *game.Engine
	// Store backs /readyz; optional.
	Store save.Repository
	// Events backs /api/stats; optional.
	Events telemetry.Repository
	// Hub serves /ws; one is created when nil.
	Hub *Hub

	StaticDir     string
	UseDiskStatic bool
	Logger        *log.Logger
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Engine == nil {
		return nil, errors.New("engine is required")
	}
	if strings.TrimSpace(opts.StaticDir) == "" {
		opts.StaticDir = "static"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Events == nil {
		opts.Events = telemetry.Discard{}
	}
	if opts.Hub == nil {
		d := opts.Config.Driver
		opts.Hub = NewHub(opts.Engine, opts.Logger, d.CommandsPerSecond, d.CommandBurst)
	}

	mux := http.NewServeMux()

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(opts.StaticDir))
	}
	mux.Handle("/static/", http.StripPrefix("/static/", staticHandler))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "spaceclicker",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !opts.Engine.Snapshot().Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "engine not initialized",
			})
			return
		}
		if opts.Store != nil {
			if _, err := opts.Store.List(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{
					"ok":    false,
					"error": "save storage unavailable",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "spaceclicker",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := &apiHandler{engine: opts.Engine, events: opts.Events, logger: opts.Logger}
	api.register(mux)

	mux.HandleFunc("GET /api/config", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(opts.Config); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})

	mux.HandleFunc("GET /ws", opts.Hub.ServeWS)
	mux.Handle("GET /{$}", templ.Handler(statusPage(opts.Engine)))

	d := opts.Config.Driver
	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
		httpmw.WithRateLimit(d.CommandsPerSecond, d.CommandBurst),
	), nil
}

func UseDiskStaticByEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SPACECLICKER_DEV_STATIC"))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func logJSON(logger *log.Logger, level, msg string, fields map[string]any) {
	if logger == nil {
		return
	}
	m := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	for k, v := range fields {
		m[k] = v
	}
	b, err := json.Marshal(m)
	if err != nil {
		logger.Printf(`{"level":"error","msg":"log_marshal_failed","error":%q}`, err.Error())
		return
	}
	logger.Print(string(b))
}
