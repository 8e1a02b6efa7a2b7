package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"callops-platform/internal/callops"
	"callops-platform/internal/config"
	"callops-platform/internal/httpapi"
	"callops-platform/internal/insights"
	"callops-platform/internal/journal"
	"callops-platform/internal/snapshot"
	"callops-platform/pkg/logger"
	"callops-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	snapStore, cleanup, err := openSnapshotStore(rootCtx, cfg)
	if err != nil {
		log.Error("snapshot backend init failed", "backend", cfg.Snapshot.Backend, "err", err)
		os.Exit(1)
	}
	defer cleanup()

	store := callops.NewStore()
	if err := loadOrSeed(rootCtx, store, snapStore, log); err != nil {
		log.Error("state load failed", "err", err)
		os.Exit(1)
	}

	saver := snapshot.NewAutosaver(snapStore, log)
	store.SetOnChange(saver.Notify)

	saverCtx, stopSaver := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		saver.Run(saverCtx)
	}()

	h := httpapi.Handlers{
		Store:    store,
		Insights: insights.NewService(store),
		Journal:  journal.NewService(journal.NewMemoryRepo()),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, h)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "snapshot_backend", cfg.Snapshot.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	// Stop the autosaver after the server so in-flight mutations still get
	// queued; Run does a final flush before returning.
	stopSaver()
	wg.Wait()
}

// openSnapshotStore builds the configured snapshot backend. The returned
// cleanup closes any underlying connection and is safe to call once.
func openSnapshotStore(ctx context.Context, cfg config.Config) (snapshot.Store, func(), error) {
	switch cfg.Snapshot.Backend {
	case config.BackendFile:
		return snapshot.NewFileStore(cfg.Snapshot.Path), func() {}, nil
	case config.BackendSQLite:
		s, err := snapshot.OpenSQLite(ctx, cfg.Snapshot.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.BackendRedis:
		rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			return nil, nil, err
		}
		return snapshot.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
	case config.BackendPostgres:
		db, err := utils.OpenPostgres(ctx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
		if err != nil {
			return nil, nil, err
		}
		s := snapshot.NewPostgresStore(db)
		if err := s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, func() { _ = db.Close() }, nil
	default:
		return nil, nil, errors.New("unknown snapshot backend " + cfg.Snapshot.Backend)
	}
}

// loadOrSeed restores a persisted snapshot, falling back to the demo fixture
// on first run.
func loadOrSeed(ctx context.Context, store *callops.Store, snapStore snapshot.Store, log *slog.Logger) error {
	st, ok, err := snapStore.Load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		log.Info("no snapshot found, seeding demo state")
		store.Restore(callops.DemoState(time.Now()))
		return snapStore.Save(ctx, store.Snapshot())
	}
	store.Restore(st)
	return nil
}
