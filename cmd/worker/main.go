package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"medreps/internal/cache"
	"medreps/internal/config"
	"medreps/internal/database"
	"medreps/internal/events"
	"medreps/internal/log"
	"medreps/internal/metrics"
	"medreps/internal/queue"
	"medreps/internal/service"
	"medreps/internal/storage"
	"medreps/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging).With().Str("process", "worker").Logger()
	metrics.Register()

	dir, err := cfg.BuildDirectory()
	if err != nil {
		logger.Fatal().Err(err).Msg("build directory failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("storage connection failed")
	}
	defer backend.Close(context.Background())

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	counters := cache.NewStatsCounters(client)
	services := service.New(cfg, dir, backend.Set, events.Discard{}, counters, logger)

	var snapshots tasks.SnapshotWriter
	if cfg.ObjectStore.Enabled {
		store, err := storage.NewObjectStore(cfg.ObjectStore)
		if err != nil {
			logger.Fatal().Err(err).Msg("object store init failed")
		}
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure snapshot bucket failed")
		}
		snapshots = store
	}

	processor := tasks.NewProcessor(counters, services.Scan, services.Aggregation, snapshots, logger)
	consumer := queue.NewConsumer(
		client,
		cfg.Queue.Stream,
		cfg.Queue.Group,
		cfg.Queue.Consumer,
		cfg.Queue.ClaimInterval,
		logger,
		processor,
	)

	// Counters may have drifted while no worker was consuming.
	if err := processor.Reconcile(ctx); err != nil {
		logger.Warn().Err(err).Msg("startup counter reconcile failed")
	}

	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")
	time.Sleep(500 * time.Millisecond)
}
