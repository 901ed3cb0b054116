package store

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/byhelaman/sched-planner/internal/config"
)

// Open connects the backend selected by cfg.Backend. Redis keys additionally
// expire natively after maxAge.
func Open(ctx context.Context, cfg config.StoreConfig, maxAge time.Duration) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(), nil

	case config.BackendFile:
		s, err := NewFile(cfg.Dir)
		if err != nil {
			return nil, err
		}
		slog.Info("using file store", "dir", s.Dir())
		return s, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		slog.Info("connected to redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return NewRedis(client, cfg.RedisPrefix, maxAge), nil

	case config.BackendPostgres:
		return openPostgres(ctx, cfg)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func openPostgres(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.DatabaseURL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}

	s, err := NewPostgres(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}
