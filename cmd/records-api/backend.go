package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-records/internal/repository"
	"github.com/noah-isme/sma-records/pkg/config"
	"github.com/noah-isme/sma-records/pkg/database"
)

// openBackend connects the key-value substrate selected by cfg.Store.Driver.
func openBackend(ctx context.Context, cfg *config.Config, logr *zap.Logger) (repository.Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return repository.NewMemoryBackend(), nil
	case config.DriverFile:
		return repository.NewFileBackend(cfg.Store.Dir)
	case config.DriverBadger:
		db, err := database.NewBadger(cfg.Store.Dir, logr)
		if err != nil {
			return nil, err
		}
		return repository.NewBadgerBackend(db), nil
	case config.DriverRedis:
		client, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisBackend(client), nil
	case config.DriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		backend := repository.NewPostgresBackend(db)
		if err := backend.EnsureSchema(ctx); err != nil {
			_ = backend.Close()
			return nil, err
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
