// Package app assembles the shared runtime of the battle hosts: logger,
// content catalog, random source, strategy registry, engine and save store.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/config"
	"github.com/cory-johannsen/battlesim/internal/game/ai"
	"github.com/cory-johannsen/battlesim/internal/game/battle"
	"github.com/cory-johannsen/battlesim/internal/game/content"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/observability"
	"github.com/cory-johannsen/battlesim/internal/savegame"
	"github.com/cory-johannsen/battlesim/internal/scripting"
	"github.com/cory-johannsen/battlesim/internal/storage/postgres"
)

// Runtime is everything a host needs to run battles.
type Runtime struct {
	Config     config.Config
	Logger     *zap.Logger
	Content    *content.DB
	Strategies *ai.Registry
	Engine     *battle.Engine
	Store      savegame.Store
	// Pool is nil unless the postgres driver is selected.
	Pool       *postgres.Pool
}

// NewRuntime bundles the provided parts.
func NewRuntime(cfg config.Config, logger *zap.Logger, db *content.DB, strategies *ai.Registry, engine *battle.Engine, store savegame.Store, pool *postgres.Pool) *Runtime {
	return &Runtime{Config: cfg, Logger: logger, Content: db, Strategies: strategies, Engine: engine, Store: store, Pool: pool}
}

// ProviderSet wires a Runtime from a config.Config and a context.Context.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideSource,
	ProvideContent,
	ProvideScripts,
	ProvideStrategies,
	ProvideEngine,
	ProvidePool,
	ProvideStore,
	NewRuntime,
)

// ProvideLogger builds the process logger. The cleanup flushes it.
func ProvideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideSource returns the random source shared by the engine and the
// scripts. The seed is always logged; configuring it replays the run.
func ProvideSource(cfg config.Config, logger *zap.Logger) dice.Source {
	var src *dice.Seeded
	if cfg.Battle.Seed != 0 {
		src = dice.NewSeededSource(cfg.Battle.Seed)
	} else {
		src = dice.NewCryptoSource()
	}
	logger.Info("random source ready", zap.Uint64("seed", src.Seed()))
	if cfg.Battle.LogRolls {
		return dice.NewLoggedRoller(src, logger)
	}
	return src
}

// ProvideContent loads the content catalog.
func ProvideContent(cfg config.Config, logger *zap.Logger) (*content.DB, error) {
	start := time.Now()
	db, err := content.Load(cfg.Content.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	logger.Info("content loaded",
		zap.String("dir", cfg.Content.Dir),
		zap.Int("species", len(db.SpeciesNames())),
		zap.Int("moves", len(db.MoveNames())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return db, nil
}

// ProvideScripts loads every *.lua file in the scripts directory into its own
// VM named after the file. An empty directory setting loads nothing.
func ProvideScripts(cfg config.Config, src dice.Source, logger *zap.Logger) (*scripting.Manager, func(), error) {
	mgr := scripting.NewManager(src, logger)
	if cfg.Content.ScriptsDir == "" {
		return mgr, mgr.Close, nil
	}
	entries, err := os.ReadDir(cfg.Content.ScriptsDir)
	if err != nil {
		mgr.Close()
		return nil, nil, fmt.Errorf("reading strategy scripts: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lua" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".lua")
		if err := mgr.LoadFile(name, filepath.Join(cfg.Content.ScriptsDir, e.Name()), cfg.Content.InstructionLimit); err != nil {
			mgr.Close()
			return nil, nil, err
		}
	}
	return mgr, mgr.Close, nil
}

// ProvideStrategies returns the built-in strategies plus one scripted strategy
// per loaded script.
func ProvideStrategies(mgr *scripting.Manager, logger *zap.Logger) (*ai.Registry, error) {
	reg := ai.NewRegistry()
	if err := reg.RegisterScripts(mgr, logger, mgr.Names()...); err != nil {
		return nil, fmt.Errorf("registering strategy scripts: %w", err)
	}
	logger.Info("strategies registered", zap.Strings("names", reg.Names()))
	return reg, nil
}

// ProvideEngine creates the battle engine with the configured chart, source
// and turn limit.
func ProvideEngine(cfg config.Config, db *content.DB, src dice.Source, logger *zap.Logger) *battle.Engine {
	return battle.NewEngine(logger,
		battle.WithChart(db.Chart()),
		battle.WithRand(src),
		battle.WithMaxTurns(cfg.Battle.MaxTurns),
	)
}

// ProvidePool connects to PostgreSQL when the postgres persistence driver is
// selected and returns nil otherwise. The cleanup closes the pool.
func ProvidePool(ctx context.Context, cfg config.Config, logger *zap.Logger) (*postgres.Pool, func(), error) {
	if cfg.Persistence.Driver != config.DriverPostgres {
		return nil, func() {}, nil
	}
	start := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(start)),
	)
	return pool, pool.Close, nil
}

// ProvideStore returns the save store: the pool's repository when a pool is
// present, the save directory otherwise.
func ProvideStore(cfg config.Config, pool *postgres.Pool) (savegame.Store, error) {
	if pool != nil {
		return pool.Saves(), nil
	}
	return savegame.NewFileStore(cfg.Persistence.Dir)
}
