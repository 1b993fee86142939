// Package store defines the key-value slot the cart persists into and
// opens one of the available backends.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Makepad-fr/gomarketplace/internal/store/buntstore"
	"github.com/Makepad-fr/gomarketplace/internal/store/jsonstore"
	"github.com/Makepad-fr/gomarketplace/internal/store/memstore"
	"github.com/Makepad-fr/gomarketplace/internal/store/redisstore"
)

// Storage is a string key-value slot. A missing key is reported as
// ok == false with a nil error.
type Storage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
}

var ErrUnknownBackend = errors.New("unknown storage backend")

// Config selects and configures a backend.
type Config struct {
	Backend string // file | bunt | redis | memory
	Path    string // file and bunt

	RedisAddr     string
	RedisPassword string
	RedisPrefix   string

	Logger *slog.Logger
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Open returns the configured backend and a func releasing it.
func Open(ctx context.Context, cfg Config) (Storage, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "file":
		return jsonstore.New(cfg.Path), noop, nil

	case "bunt":
		s, err := buntstore.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		rs := redisstore.New(client, cfg.RedisPrefix)
		return WithBreaker(rs, "redis", cfg.Logger), client.Close, nil

	case "memory":
		return memstore.New(), noop, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}
