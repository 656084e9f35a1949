// Package app builds the concrete adapters selected by configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"truck-status-service/internal/adapters/cache"
	"truck-status-service/internal/adapters/repositories"
	"truck-status-service/internal/adapters/trucks"
	"truck-status-service/internal/config"
	"truck-status-service/internal/platform/db"
	"truck-status-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// Deps holds the opened adapters and the resources backing them.
type Deps struct {
	DB     *sql.DB
	Store  ports.KVStore
	Source ports.TruckSource

	closers []func() error
}

// Close releases every opened resource in reverse order.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open connects the database (when configured) and builds the cache store and truck source.
func Open(ctx context.Context, cfg config.Config) (_ *Deps, err error) {
	d := &Deps{}
	defer func() {
		if err != nil {
			_ = d.Close()
		}
	}()

	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		d.DB = conn
		d.closers = append(d.closers, conn.Close)
	}

	store, err := openStore(ctx, cfg, d)
	if err != nil {
		return nil, err
	}
	d.Store = store

	source, err := openSource(cfg, d)
	if err != nil {
		return nil, err
	}
	d.Source = source

	return d, nil
}

func openStore(ctx context.Context, cfg config.Config, d *Deps) (ports.KVStore, error) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		d.closers = append(d.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("open cache: ping redis %s: %w", cfg.RedisAddr, err)
		}
		return cache.NewRedisStore(client, cfg.RedisNamespace), nil
	case config.CacheBolt:
		store, err := cache.OpenBoltStore(cfg.BoltPath, "trucks")
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		d.closers = append(d.closers, store.Close)
		return store, nil
	case config.CachePostgres:
		if d.DB == nil {
			return nil, errors.New("open cache: postgres cache needs DATABASE_URL")
		}
		return cache.NewSQLStore(d.DB), nil
	case config.CacheMemory, "":
		return cache.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("open cache: unknown backend %q", cfg.CacheBackend)
	}
}

func openSource(cfg config.Config, d *Deps) (ports.TruckSource, error) {
	switch cfg.TruckSource {
	case config.SourceHTTP:
		src, err := trucks.NewHTTPTruckSource(cfg.TruckAPIURL, cfg.TruckAPIToken)
		if err != nil {
			return nil, fmt.Errorf("open truck source: %w", err)
		}
		return src, nil
	case config.SourcePostgres, "":
		if d.DB == nil {
			return nil, errors.New("open truck source: postgres source needs DATABASE_URL")
		}
		return repositories.NewSQLTruckRepository(d.DB), nil
	default:
		return nil, fmt.Errorf("open truck source: unknown source %q", cfg.TruckSource)
	}
}
