package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"medreps/internal/config"
	"medreps/internal/repository"
	"medreps/internal/repository/memory"
	"medreps/internal/repository/mongorepo"
)

// Backend is an opened storage driver with its repositories.
type Backend struct {
	Driver string
	Set    repository.Set
	// Ping is nil for the memory driver.
	Ping  func(ctx context.Context) error
	Close func(ctx context.Context) error
	Pool  *pgxpool.Pool
}

func Open(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (*Backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Backend{
			Driver: cfg.Storage.Driver,
			Set:    repository.NewPostgresSet(pool),
			Ping:   pool.Ping,
			Close: func(context.Context) error {
				pool.Close()
				return nil
			},
			Pool: pool,
		}, nil

	case config.StorageDriverMongo:
		client, db, err := NewMongoDatabase(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return &Backend{
			Driver: cfg.Storage.Driver,
			Set:    mongorepo.NewSet(db),
			Ping: func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			},
			Close: client.Disconnect,
		}, nil

	case config.StorageDriverMemory:
		log.Warn().Msg("memory storage selected, data is lost on restart")
		return &Backend{
			Driver: cfg.Storage.Driver,
			Set:    memory.NewSet(),
			Close:  func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
