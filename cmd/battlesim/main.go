// Package main provides the terminal battle host: it loads a lineup, then
// plays the battle on stdin/stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/app"
	"github.com/cory-johannsen/battlesim/internal/config"
	"github.com/cory-johannsen/battlesim/internal/console"
	"github.com/cory-johannsen/battlesim/internal/game/lineup"
	"github.com/cory-johannsen/battlesim/internal/savegame"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	lineupPath := flag.String("lineup", "content/lineups/classic.yaml", "path to the lineup YAML file")
	resume := flag.String("resume", "", "save slot to resume instead of starting from the lineup")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	rt, cleanup, err := app.InitializeRuntime(ctx, cfg)
	if err != nil {
		log.Fatalf("initializing runtime: %v", err)
	}
	defer cleanup()
	logger := rt.Logger

	var con *console.Console
	if *resume != "" {
		s, err := rt.Store.Get(ctx, *resume)
		if err != nil {
			logger.Fatal("loading save", zap.String("slot", *resume), zap.Error(err))
		}
		b, err := savegame.Restore(s, rt.Strategies, rt.Engine.Options()...)
		if err != nil {
			logger.Fatal("restoring save", zap.String("slot", *resume), zap.Error(err))
		}
		con = console.New(rt.Engine, rt.Engine.Adopt(b), rt.Store, rt.Strategies, os.Stdout, logger)
	} else {
		m, err := lineup.LoadFile(*lineupPath)
		if err != nil {
			logger.Fatal("loading lineup", zap.Error(err))
		}
		t1, t2, err := lineup.BuildPair(rt.Content, rt.Strategies, m)
		if err != nil {
			logger.Fatal("building trainers", zap.Error(err))
		}
		h, _, err := rt.Engine.StartBattle(t1, t2)
		if err != nil {
			logger.Fatal("starting battle", zap.Error(err))
		}
		con = console.New(rt.Engine, h, rt.Store, rt.Strategies, os.Stdout, logger)
	}

	err = con.Run(ctx, os.Stdin)
	switch {
	case err == nil, errors.Is(err, console.ErrQuit):
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stdout)
	default:
		logger.Error("battle aborted", zap.Error(err))
		os.Exit(1)
	}
}
