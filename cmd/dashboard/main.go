package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"callops-platform/internal/callops"
	"callops-platform/internal/config"
	"callops-platform/internal/insights"
	"callops-platform/internal/snapshot"
	"callops-platform/internal/tui"
	"callops-platform/pkg/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// The dashboard shares the snapshot backend with the API server, so running
// both against the same backend shows the same state.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	// Log to a file so slog output does not fight the terminal UI.
	logFile, err := os.OpenFile("callops-dashboard.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Error("log file open failed", "err", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := slog.New(slog.NewJSONHandler(logFile, nil))

	ctx := context.Background()
	snapStore, cleanup, err := openSnapshotStore(ctx, cfg)
	if err != nil {
		slog.Error("snapshot backend init failed", "backend", cfg.Snapshot.Backend, "err", err)
		os.Exit(1)
	}
	defer cleanup()

	store := callops.NewStore()
	st, ok, err := snapStore.Load(ctx)
	if err != nil {
		slog.Error("state load failed", "err", err)
		os.Exit(1)
	}
	if ok {
		store.Restore(st)
	} else {
		store.Restore(callops.DemoState(time.Now()))
	}

	saver := snapshot.NewAutosaver(snapStore, log)
	store.SetOnChange(saver.Notify)

	saverCtx, stopSaver := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		saver.Run(saverCtx)
	}()

	runErr := tui.Run(store, insights.NewService(store))

	stopSaver()
	wg.Wait()

	if runErr != nil {
		slog.Error("dashboard failed", "err", runErr)
		os.Exit(1)
	}
}

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
