package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/setupsched/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".cache", appName), dir)
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(custom, appName), dir)
}

func TestNewCacheBackends(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(envRedisAddr, "")
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	store, err := c.newCache(ctx, true)
	require.NoError(t, err)
	assert.IsType(t, &cache.NullCache{}, store)

	store, err = c.newCache(ctx, false)
	require.NoError(t, err)
	fc, ok := store.(*cache.FileCache)
	require.True(t, ok, "got %T, want *cache.FileCache", store)
	assert.Equal(t, appName, filepath.Base(fc.Dir()))
}

func TestNewCacheRedisFallback(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	// Port 1 refuses connections, so the ping fails fast.
	t.Setenv(envRedisAddr, "127.0.0.1:1")
	c := New(io.Discard, LogInfo)

	store, err := c.newCache(context.Background(), false)
	require.NoError(t, err)
	assert.IsType(t, &cache.FileCache{}, store)
}
