// Package main provides the battle server binary that hosts battles over gRPC.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/cory-johannsen/battlesim/internal/app"
	"github.com/cory-johannsen/battlesim/internal/battleserver"
	"github.com/cory-johannsen/battlesim/internal/config"
	"github.com/cory-johannsen/battlesim/internal/server"
)

const (
	// reapInterval is how often idle battles are looked for.
	reapInterval = time.Minute
	// healthInterval is how often the database is pinged.
	healthInterval = 30 * time.Second
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

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

	svc := battleserver.NewService(rt.Engine, rt.Content, rt.Strategies, rt.Store, logger)
	grpcServer := grpc.NewServer()
	battleserver.RegisterBattleServiceServer(grpcServer, svc)

	lifecycle := server.NewLifecycle(logger)

	lifecycle.Add("grpc", &server.FuncService{
		StartFn: func() error {
			lis, err := net.Listen("tcp", cfg.GRPC.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.GRPC.Addr(), err)
			}
			logger.Info("gRPC server listening",
				zap.String("addr", lis.Addr().String()),
			)
			return grpcServer.Serve(lis)
		},
		StopFn: func() {
			grpcServer.GracefulStop()
		},
	})

	if idle := cfg.Battle.IdleTimeout; idle > 0 {
		lifecycle.Add("reaper", server.NewTicker(reapInterval, func(now time.Time) {
			rt.Engine.Reap(now, idle)
		}))
	}

	if pool := rt.Pool; pool != nil {
		lifecycle.Add("postgres", server.NewTicker(healthInterval, func(time.Time) {
			if err := pool.Health(ctx, 5*time.Second); err != nil {
				logger.Warn("database health check failed", zap.Error(err))
			}
		}))
	}

	logger.Info("battle server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("grpc_addr", cfg.GRPC.Addr()),
		zap.String("persistence", cfg.Persistence.Driver),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
	}
}
