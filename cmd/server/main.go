package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tileworld/db"
	httpadapter "tileworld/internal/adapter/http"
	metricsinmem "tileworld/internal/adapter/metrics/inmemory"
	gormrepo "tileworld/internal/adapter/repo/gorm"
	memoryrepo "tileworld/internal/adapter/repo/memory"
	sqliterepo "tileworld/internal/adapter/repo/sqlite"
	"tileworld/internal/app/game"
	"tileworld/internal/app/ports"
	"tileworld/internal/config"
	"tileworld/internal/logger"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.Format)

	gameCfg, err := cfg.Game()
	if err != nil {
		log.Fatalf("game config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := buildStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer store.close()

	kpiRecorder := metricsinmem.NewRecorder()
	engine := game.NewEngine(gameCfg, game.Deps{
		Worlds:  store.worlds,
		Catalog: store.catalog,
		Tx:      store.tx,
		Metrics: kpiRecorder,
		Logger:  log,
	})
	engineDone := make(chan error, 1)
	go func() { engineDone <- engine.Run(ctx) }()

	h := httpadapter.Handler{World: engine, KPI: kpiRecorder}
	s := server.Default(server.WithHostPorts(cfg.HTTP.Addr))
	h.RegisterRoutes(s)

	log.WithFields(logrus.Fields{
		"addr":     cfg.HTTP.Addr,
		"driver":   cfg.Storage.Driver,
		"world_id": gameCfg.WorldID,
	}).Info("tileworld server listening")
	s.Spin()

	cancel()
	select {
	case err := <-engineDone:
		if err != nil && err != context.Canceled {
			log.WithError(err).Warn("engine stopped with error")
		}
	case <-time.After(gameCfg.SaveTimeout + time.Second):
		log.Warn("engine did not stop in time; pending saves may be lost")
	}
}

type storage struct {
	worlds  ports.WorldStore
	catalog ports.CatalogStore
	tx      ports.TxManager
	close   func()
}

func buildStorage(ctx context.Context, cfg config.StorageConfig) (storage, error) {
	switch cfg.Driver {
	case "postgres":
		gdb, err := gormrepo.OpenPostgres(cfg.DSN)
		if err != nil {
			return storage{}, fmt.Errorf("open postgres: %w", err)
		}
		if err := gormrepo.ApplyMigrations(ctx, gdb, db.Migrations, "migrations"); err != nil {
			return storage{}, fmt.Errorf("migrate: %w", err)
		}
		return storage{
			worlds:  gormrepo.NewWorldRepo(gdb),
			catalog: gormrepo.NewResourceRepo(gdb),
			tx:      gormrepo.NewTxManager(gdb),
			close: func() {
				if sqlDB, err := gdb.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil
	case "sqlite":
		sdb, err := sqliterepo.Open(cfg.DSN)
		if err != nil {
			return storage{}, fmt.Errorf("open sqlite: %w", err)
		}
		return storage{
			worlds:  sqliterepo.NewWorldRepo(sdb),
			catalog: sqliterepo.NewResourceRepo(sdb),
			tx:      sqliterepo.NewTxManager(sdb),
			close:   closer(sdb),
		}, nil
	case "memory", "":
		mem := memoryrepo.NewStore()
		return storage{
			worlds:  memoryrepo.NewWorldRepo(mem),
			catalog: memoryrepo.NewResourceRepo(mem),
			tx:      memoryrepo.NewTxManager(mem),
			close:   func() {},
		}, nil
	default:
		return storage{}, fmt.Errorf("%w: unknown storage driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}

func closer(db *sql.DB) func() {
	return func() { _ = db.Close() }
}
