package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
inputs: 42
busy_backoff: 5ms
passthrough:
  depth: 3
  extra_every: 7
  poll_interval: 2ms
`), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, LoadConfig(path, &cfg))
	require.Equal(t, uint(42), cfg.Inputs)
	require.Equal(t, 1024, cfg.PayloadSize, "unset fields keep the defaults")
	require.Equal(t, 5*time.Millisecond, cfg.BusyBackoff)
	require.Equal(t, uint(3), cfg.Passthrough.Depth)
	require.Equal(t, uint(7), cfg.Passthrough.ExtraEvery)
	require.Equal(t, 2*time.Millisecond, cfg.Passthrough.PollInterval)
}

func TestLoadConfigUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("inptus: 1\n"), 0o644))
	cfg := DefaultConfig()
	require.Error(t, LoadConfig(path, &cfg))
}
