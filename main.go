package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smidgyy/Cursorrrr/internal/catalog"
	"github.com/smidgyy/Cursorrrr/internal/config"
	"github.com/smidgyy/Cursorrrr/internal/game"
	"github.com/smidgyy/Cursorrrr/internal/ratelimit"
	"github.com/smidgyy/Cursorrrr/internal/save"
	"github.com/smidgyy/Cursorrrr/internal/score"
	"github.com/smidgyy/Cursorrrr/internal/server"
	"github.com/smidgyy/Cursorrrr/internal/session"
	"github.com/smidgyy/Cursorrrr/internal/telemetry"
)

func main() {
	logger := log.Default()

	cfg, err := config.Load("cursorrrr_config.yml")
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	cat := catalog.Default()
	if cfg.Game.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.Game.CatalogPath)
		if err != nil {
			logger.Fatalf("load catalog %s: %v", cfg.Game.CatalogPath, err)
		}
	}

	store, err := save.NewStore(cfg.Game.DataDir, logger)
	if err != nil {
		logger.Fatalf("open save store: %v", err)
	}
	snap, err := store.Load()
	if err != nil {
		logger.Fatalf("load save: %v", err)
	}

	bus := telemetry.NewBus(telemetry.NewMemoryRepository())
	defer bus.Close()

	engine := game.NewEngine(game.Options{
		Catalog: cat,
		Limiter: ratelimit.New(cfg.Game.RateLimit.CPM, cfg.Game.RateLimit.Window),
		Clock:   game.RealClock{},
		Bus:     bus,
		Saved:   snap,
	})

	// Credit the idle earnings accrued since the last save before any
	// ticker runs, so the grant happens exactly once.
	if earned := save.ReconcileOffline(snap, time.Now()); earned > 0 {
		engine.ApplyOfflineCredit(earned)
		logger.Printf("welcome back: +%s from offline auto clicks", game.FormatNumber(earned))
	}

	scores := score.NewClient(cfg.Game.APIBase, cfg.Game.SyncTimeout)

	sess := session.New(session.Options{
		Engine:         engine,
		Store:          store,
		Scores:         scores,
		Bus:            bus,
		Logger:         logger,
		IncomePeriod:   cfg.Game.Ticks.Income,
		AutosavePeriod: cfg.Game.Ticks.Autosave,
		SweepPeriod:    cfg.Game.Ticks.Sweep,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Run(ctx)
	}()

	handler := server.NewHandler(&server.App{
		Engine:  engine,
		Session: sess,
		Scores:  scores,
		Logger:  logger,
	})

	srv := &http.Server{Addr: cfg.Game.Addr, Handler: handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Printf("cursorrrr listening on http://localhost%s", cfg.Game.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("serve: %v", err)
	}

	// Wait for the session loop's final save.
	<-done
}
