package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/tilecoord/config"
	"github.com/katalvlaran/tilecoord/tile"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tilecoord.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeTemp(t, "num_samples: 4\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, 4, cfg.NumSamples)
	require.Equal(t, 64, cfg.TileSize.W)
	require.Equal(t, tile.Center, cfg.TileOrder)
	require.Equal(t, tile.Unlimited, cfg.StartResolution)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeTemp(t, `
progressive: true
num_samples: 16
tile_width: 32
tile_height: 32
start_resolution: 64
preserve_tile_device: false
background: true
tile_order: HILBERT_SPIRAL
num_devices: 4
schedule_denoising: true
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.True(t, cfg.Progressive)
	require.Equal(t, 16, cfg.NumSamples)
	require.Equal(t, 32, cfg.TileSize.W)
	require.Equal(t, 64, cfg.StartResolution)
	require.False(t, cfg.PreserveTileDevice)
	require.Equal(t, tile.HilbertSpiral, cfg.TileOrder)
	require.Equal(t, 4, cfg.NumDevices)
	require.True(t, cfg.ScheduleDenoising)
}

func TestLoadUnknownOrder(t *testing.T) {
	path := writeTemp(t, "tile_order: SIDEWAYS\n")
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
