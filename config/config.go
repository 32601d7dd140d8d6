// Package config loads a tile.Config from YAML, the on-disk configuration
// format for the standalone tilecoord command. The scheduler core itself
// never touches a filesystem; this package is purely an ambient concern of
// the cmd/tilecoord front end.
package config

import (
	"fmt"
	"os"

	"github.com/katalvlaran/tilecoord/geom"
	"github.com/katalvlaran/tilecoord/tile"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a tilecoord configuration file. Field names
// are snake_case rather than tile.Config's Go field names, since this is the
// boundary where an external, versionable file format meets Go's naming
// convention.
type File struct {
	Progressive        bool   `yaml:"progressive"`
	NumSamples         int    `yaml:"num_samples"`
	TileWidth          int    `yaml:"tile_width"`
	TileHeight         int    `yaml:"tile_height"`
	StartResolution    int    `yaml:"start_resolution"`
	PreserveTileDevice bool   `yaml:"preserve_tile_device"`
	Background         bool   `yaml:"background"`
	TileOrder          string `yaml:"tile_order"`
	NumDevices         int    `yaml:"num_devices"`
	OnlyDenoise        bool   `yaml:"only_denoise"`
	ScheduleDenoising  bool   `yaml:"schedule_denoising"`
	RangeStartSample   int    `yaml:"range_start_sample"`
	RangeNumSamples    int    `yaml:"range_num_samples"`
}

// Load reads and parses a YAML configuration file at path, applying
// tile.DefaultConfig() for any zero-valued numeric field the file omits
// relevant to sentinels (tile_width/tile_height default to 64 when unset,
// matching tile.DefaultConfig's own tile size).
func Load(path string) (tile.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tile.Config{}, fmt.Errorf("config: Load(%s): %w", path, err)
	}

	var f File
	f.StartResolution = tile.Unlimited
	f.RangeStartSample = tile.NoRange
	f.RangeNumSamples = tile.NoRange
	f.TileWidth, f.TileHeight = 64, 64
	f.NumDevices = 1
	f.NumSamples = 1

	if err := yaml.Unmarshal(data, &f); err != nil {
		return tile.Config{}, fmt.Errorf("config: Load(%s): %w", path, err)
	}

	order, err := parseOrder(f.TileOrder)
	if err != nil {
		return tile.Config{}, fmt.Errorf("config: Load(%s): %w", path, err)
	}

	cfg := tile.DefaultConfig()
	cfg.Progressive = f.Progressive
	cfg.NumSamples = f.NumSamples
	cfg.TileSize = geom.Size{W: f.TileWidth, H: f.TileHeight}
	cfg.StartResolution = f.StartResolution
	cfg.PreserveTileDevice = f.PreserveTileDevice
	cfg.Background = f.Background
	cfg.TileOrder = order
	cfg.NumDevices = f.NumDevices
	cfg.OnlyDenoise = f.OnlyDenoise
	cfg.ScheduleDenoising = f.ScheduleDenoising
	cfg.RangeStartSample = f.RangeStartSample
	cfg.RangeNumSamples = f.RangeNumSamples
	return cfg, nil
}

func parseOrder(s string) (tile.Order, error) {
	switch s {
	case "", "CENTER":
		return tile.Center, nil
	case "RIGHT_TO_LEFT":
		return tile.RightToLeft, nil
	case "LEFT_TO_RIGHT":
		return tile.LeftToRight, nil
	case "TOP_TO_BOTTOM":
		return tile.TopToBottom, nil
	case "BOTTOM_TO_TOP":
		return tile.BottomToTop, nil
	case "HILBERT_SPIRAL":
		return tile.HilbertSpiral, nil
	default:
		return 0, fmt.Errorf("unrecognized tile_order %q", s)
	}
}
