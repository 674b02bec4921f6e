package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"spaceclicker/internal/config"
	"spaceclicker/internal/driver"
	"spaceclicker/internal/game"
	"spaceclicker/internal/save"
	"spaceclicker/internal/serverapp"
	"spaceclicker/internal/telemetry"
)

const configPath = "spaceclicker.yml"

func main() {
	logger := log.Default()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		log.Fatalf("spaceclicker: %v", err)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = config.Defaults(os.Getenv("DIFFICULTY"), os.Getenv("VARIANT"))
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// openStore picks the save backend. The returned close func is never nil.
func openStore(s config.StorageConfig) (save.Repository, func() error, error) {
	noop := func() error { return nil }
	switch s.Backend {
	case "memory":
		return save.NewMemoryRepo(), noop, nil
	case "sqlite":
		db, err := save.OpenSQLite(filepath.Join(s.DataDir, "saves.db"))
		if err != nil {
			return nil, noop, err
		}
		repo := save.NewSQLiteRepo(db)
		return repo, repo.Close, nil
	case "file", "":
		repo, err := save.NewFileRepo(filepath.Join(s.DataDir, "saves"))
		return repo, noop, err
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", s.Backend)
	}
}

func run(ctx context.Context, logger *log.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = closeStore() }()

	events := telemetry.NewMemoryRepository()
	engine, err := game.New(game.Options{Config: cfg, Store: store, Events: events, Logger: logger})
	if err != nil {
		return err
	}
	if err := engine.Initialize(ctx); err != nil {
		if !errors.Is(err, save.ErrCorruptSave) {
			return err
		}
		logger.Printf(`{"level":"warn","msg":"corrupt_save_reset","err":%q}`, err.Error())
		engine.Reset()
	}

	if g, err := engine.ProjectOfflineGain(engine.LastSeen()); err == nil && !g.Empty() {
		if _, err := engine.ApplyOfflineGain(g); err != nil {
			return err
		}
		logger.Printf(`{"level":"info","msg":"offline_gain","currency":%d,"experience":%.0f,"capped":%t}`,
			g.Currency, g.Experience, g.Capped)
	}

	d := cfg.Driver
	hub := serverapp.NewHub(engine, logger, d.CommandsPerSecond, d.CommandBurst)
	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:        cfg,
		Engine:        engine,
		Store:         store,
		Events:        events,
		Hub:           hub,
		StaticDir:     "static",
		UseDiskStatic: serverapp.UseDiskStaticByEnv(),
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	feed, cancelFeed := events.Subscribe(256)
	defer cancelFeed()
	go hub.ForwardEvents(ctx, feed)

	opts := driver.OptionsFromConfig(d)
	opts.Engine = engine
	opts.Logger = logger
	opts.OnSnapshot = hub.BroadcastView
	runner := driver.New(opts)
	driverDone := make(chan error, 1)
	go func() { driverDone <- runner.Run(ctx) }()

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		logger.Printf("listening on http://localhost%s", cfg.Server.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	hub.Close()
	<-driverDone

	if err := engine.Save(shutdownCtx); err != nil {
		return fmt.Errorf("final save: %w", err)
	}
	logger.Printf(`{"level":"info","msg":"saved_on_exit","slot":%q}`, cfg.Storage.Slot)
	return nil
}
