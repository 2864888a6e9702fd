package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDeliversReloadedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rank: 0.1\n"), 0o644))

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("rank: 0.3\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("rank: 0.7\ntime_speed: 2\n"), 0o644))

	select {
	case cfg := <-w.Updates:
		assert.InDelta(t, 0.7, cfg.Rank, 1e-9)
		assert.InDelta(t, 2, cfg.TimeSpeed, 1e-9)
	case err := <-w.Errors:
		t.Fatalf("unexpected watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherReportsInvalidEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rank: 0.1\n"), 0o644))

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("rank: 3\n"), 0o644))

	select {
	case err := <-w.Errors:
		assert.ErrorIs(t, err, ErrInvalid)
	case cfg := <-w.Updates:
		t.Fatalf("invalid config delivered: %+v", cfg)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w, err := Watch(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, ok := <-w.Updates
	assert.False(t, ok)
}
