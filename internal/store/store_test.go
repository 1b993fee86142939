package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/gomarketplace/internal/store/memstore"
)

func roundTrip(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.GetItem(ctx, "@GoMarketplace:cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetItem(ctx, "@GoMarketplace:cart", `[{"id":"a","quantity":2}]`))
	v, ok, err := s.GetItem(ctx, "@GoMarketplace:cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a","quantity":2}]`, v)
}

func TestOpen_Backends(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()

	cases := []Config{
		{Backend: "file", Path: filepath.Join(dir, "cart.json")},
		{Backend: "", Path: filepath.Join(dir, "default.json")},
		{Backend: "bunt", Path: filepath.Join(dir, "cart.db")},
		{Backend: "redis", RedisAddr: mr.Addr(), RedisPrefix: "t:"},
		{Backend: "MEMORY"},
	}
	for _, cfg := range cases {
		t.Run(cfg.Backend, func(t *testing.T) {
			s, closeFn, err := Open(context.Background(), cfg)
			require.NoError(t, err)
			defer closeFn()
			roundTrip(t, s)
		})
	}
}

func TestOpen_Unknown(t *testing.T) {
	_, _, err := Open(context.Background(), Config{Backend: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestOpen_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, err := Open(ctx, Config{Backend: "redis", RedisAddr: addr})
	assert.ErrorContains(t, err, "redis ping")
}

type failingStorage struct {
	calls int
}

func (f *failingStorage) GetItem(context.Context, string) (string, bool, error) {
	f.calls++
	return "", false, errors.New("boom")
}

func (f *failingStorage) SetItem(context.Context, string, string) error {
	f.calls++
	return errors.New("boom")
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	ctx := context.Background()
	f := &failingStorage{}
	var logs bytes.Buffer
	b := newBreaker(f, "test", slog.New(slog.NewTextHandler(&logs, nil)), 2, time.Minute)

	assert.Error(t, b.SetItem(ctx, "k", "v"))
	assert.Error(t, b.SetItem(ctx, "k", "v"))
	assert.Equal(t, 2, f.calls)

	// open: the backend is no longer called
	err := b.SetItem(ctx, "k", "v")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, f.calls)

	// the state change goes to the injected logger
	assert.Contains(t, logs.String(), "storage breaker state change")
	assert.Contains(t, logs.String(), "breaker=test:set")
}

func TestBreaker_PassesThrough(t *testing.T) {
	roundTrip(t, WithBreaker(memstore.New(), "mem", nil))
}
