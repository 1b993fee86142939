package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetItem_MissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "cart.json"))

	v, ok, err := s.GetItem(context.Background(), "@GoMarketplace:cart")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSetThenGet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cart.json")
	s := New(path)

	require.NoError(t, s.SetItem(ctx, "k1", `[{"id":"a"}]`))
	require.NoError(t, s.SetItem(ctx, "k2", "other"))

	// a fresh instance reads what the first one wrote
	v, ok, err := New(path).GetItem(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, v)

	v, ok, err = s.GetItem(ctx, "k2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "other", v)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSetItem_Overwrites(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), "cart.json"))

	require.NoError(t, s.SetItem(ctx, "k", "one"))
	require.NoError(t, s.SetItem(ctx, "k", "two"))

	v, _, err := s.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", v)
}

func TestGetItem_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, _, err := New(path).GetItem(context.Background(), "k")
	require.ErrorContains(t, err, "json unmarshal")
}

func TestDefaultPathIsWorkingDir(t *testing.T) {
	dir := t.TempDir()
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, New("").SetItem(context.Background(), "k", "v"))
	_, err := os.Stat(filepath.Join(dir, dataFileName))
	assert.NoError(t, err)
}

func TestSetItem_RepairsCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte("{garbage"), 0o644))
	s := New(path)

	require.NoError(t, s.SetItem(ctx, "@GoMarketplace:cart", `[{"id":"3","quantity":1}]`))

	v, ok, err := New(path).GetItem(ctx, "@GoMarketplace:cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"3","quantity":1}]`, v)

	bak, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "{garbage", string(bak))
}
