// Command tilecoord drives the tile scheduler over a simulated image,
// without any actual rendering or denoising: it dispatches tiles,
// immediately returns them, and logs the resulting schedule. It exists to
// exercise config loading and the Manager state machine end to end; the
// scheduler itself has no CLI surface of its own.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/katalvlaran/tilecoord/config"
	"github.com/katalvlaran/tilecoord/geom"
	"github.com/katalvlaran/tilecoord/tile"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a tilecoord YAML config; defaults built in if empty")
		width      = flag.Int("width", 512, "image width in pixels")
		height     = flag.Int("height", 512, "image height in pixels")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := tile.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Error("failed to load config", "path", *configPath, "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if err := run(logger, cfg, *width, *height); err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg tile.Config, width, height int) error {
	m := tile.NewManager(cfg, logger)

	if err := m.Reset(tile.BufferParams{Width: width, Height: height}, cfg.NumSamples); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	for {
		dispatched := 0
		for device := 0; device < cfg.NumLogicalDevices(); device++ {
			for {
				tl, ok := m.NextTile(device)
				if !ok {
					break
				}
				dispatched++
				if _, _, err := m.ReturnTile(tl.Index); err != nil {
					return fmt.Errorf("return tile %d: %w", tl.Index, err)
				}
			}
		}
		drainReady(m)

		stats := m.Stats()
		logger.Info("phase complete",
			"resolution_divider", stats.ResolutionDivider,
			"sample", stats.Sample,
			"dispatched", dispatched,
			"num_tiles", stats.NumTiles)

		if !m.Next() {
			break
		}
	}

	logger.Info("scheduling complete", "tile_size", geom.Size{W: cfg.TileSize.W, H: cfg.TileSize.H})
	return nil
}

func drainReady(m *tile.Manager) {
	for _, idx := range m.DrainReady() {
		slog.Debug("tile reached done via neighbor promotion", "index", idx)
	}
}
