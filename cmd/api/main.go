package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"medreps/internal/cache"
	"medreps/internal/config"
	"medreps/internal/database"
	"medreps/internal/events"
	"medreps/internal/handlers"
	"medreps/internal/jobs"
	"medreps/internal/log"
	"medreps/internal/server"
	"medreps/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medreps-api",
		Short: "Field-force visit tracking API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrate, _ := cmd.Flags().GetBool("migrate")
			return runServer(migrate)
		},
	}
	cmd.Flags().Bool("migrate", false, "Apply pending Postgres migrations before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := log.New(cfg.Environment, cfg.Logging)

			ctx := context.Background()
			pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			return database.Migrate(ctx, pool, logger)
		},
	}
}

func runServer(migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := log.New(cfg.Environment, cfg.Logging)

	dir, err := cfg.BuildDirectory()
	if err != nil {
		return fmt.Errorf("build directory: %w", err)
	}

	ctx := context.Background()

	backend, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if migrate && backend.Pool != nil {
		if err := database.Migrate(ctx, backend.Pool, logger); err != nil {
			return err
		}
	}

	// Redis is optional; without it activity events are dropped and jobs do not run.
	var (
		redisClient *redis.Client
		publisher   events.Publisher = events.Discard{}
		counters    service.CounterReader
	)
	redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, activity stream disabled")
		redisClient = nil
	} else {
		publisher = events.NewStreamPublisher(redisClient, cfg.Queue.Stream)
		counters = cache.NewStatsCounters(redisClient)
	}

	services := service.New(cfg, dir, backend.Set, publisher, counters, logger)

	handlerSet := handlers.NewHandlerSet(logger, cfg, handlers.Dependencies{
		Auth:         services.Auth,
		Plans:        services.Plans,
		Reports:      services.Reports,
		Hospitals:    services.Hospitals,
		Aggregation:  services.Aggregation,
		DatabasePing: backend.Ping,
		Cache:        redisClient,
	})
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	var scheduler *jobs.Scheduler
	if redisClient != nil {
		scheduler = jobs.NewScheduler(publisher, cfg.Jobs, logger)
		if err := scheduler.Start(); err != nil {
			logger.Error().Err(err).Msg("scheduler start failed")
		}
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, backend, redisClient)
	return nil
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, backend *database.Backend, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}

	if err := backend.Close(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("storage close error")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
