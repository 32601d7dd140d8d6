package tile_test

import (
	"testing"

	"github.com/katalvlaran/tilecoord/geom"
	"github.com/katalvlaran/tilecoord/tile"
)

func newManager(t *testing.T, cfg tile.Config, w, h int) *tile.Manager {
	t.Helper()
	m := tile.NewManager(cfg, nil)
	if err := m.Reset(tile.BufferParams{Width: w, Height: h}, cfg.NumSamples); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	return m
}

//----------------------------------------------------------------------------//
// Simple single-device batch
//----------------------------------------------------------------------------//

func TestSimpleBatchDispatchesAndCompletesEveryTile(t *testing.T) {
	cfg := tile.DefaultConfig()
	cfg.TileSize = geom.Size{W: 64, H: 64}
	cfg.NumSamples = 1
	cfg.NumDevices = 1
	cfg.Background = true
	cfg.TileOrder = tile.BottomToTop
	cfg.ScheduleDenoising = false

	m := newManager(t, cfg, 128, 64)

	t1, ok := m.NextTile(0)
	if !ok {
		t.Fatal("expected a first tile")
	}
	if t1.Rect != (geom.Rect{X: 0, Y: 0, W: 64, H: 64}) {
		t.Errorf("first tile rect = %v; want (0,0,64,64)", t1.Rect)
	}

	t2, ok := m.NextTile(0)
	if !ok {
		t.Fatal("expected a second tile")
	}
	if t2.Rect != (geom.Rect{X: 64, Y: 0, W: 64, H: 64}) {
		t.Errorf("second tile rect = %v; want (64,0,64,64)", t2.Rect)
	}

	if _, ok := m.NextTile(0); ok {
		t.Fatal("expected only 2 tiles")
	}

	for _, tl := range []*tile.Tile{t1, t2} {
		write, del, err := m.ReturnTile(tl.Index)
		if err != nil {
			t.Fatalf("ReturnTile(%d): %v", tl.Index, err)
		}
		if !write || !del {
			t.Errorf("ReturnTile(%d) = (%v,%v); want (true,true)", tl.Index, write, del)
		}
	}
}

//----------------------------------------------------------------------------//
// Denoise eligibility depends on all 8 neighbors
//----------------------------------------------------------------------------//

func TestDenoiseEligibleOnlyAfterAllEightNeighborsRendered(t *testing.T) {
	cfg := tile.DefaultConfig()
	cfg.TileSize = geom.Size{W: 64, H: 64}
	cfg.NumDevices = 1
	cfg.Background = true
	cfg.TileOrder = tile.LeftToRight
	cfg.ScheduleDenoising = true

	m := newManager(t, cfg, 192, 192)

	// Drain all 9 tiles so we hold every index before returning any of
	// them (order of return must not matter).
	var all []*tile.Tile
	for {
		tl, ok := m.NextTile(0)
		if !ok {
			break
		}
		all = append(all, tl)
	}
	if len(all) != 9 {
		t.Fatalf("got %d tiles; want 9", len(all))
	}

	centerIdx := 4 // 3x3 grid, row-major: (1,1) -> 1*3+1
	for _, tl := range all {
		if tl.Index == centerIdx {
			continue
		}
		if _, _, err := m.ReturnTile(tl.Index); err != nil {
			t.Fatalf("ReturnTile(%d): %v", tl.Index, err)
		}
	}
	// All 8 neighbors rendered, center still untouched: no denoise work
	// should have been enqueued yet.
	if dt, ok := m.NextTile(0); ok {
		t.Fatalf("unexpected denoise tile %d enqueued before center returned", dt.Index)
	}

	if _, _, err := m.ReturnTile(centerIdx); err != nil {
		t.Fatalf("ReturnTile(center): %v", err)
	}

	dt, ok := m.NextTile(0)
	if !ok {
		t.Fatal("expected exactly one denoise tile after all 9 returns")
	}
	if dt.Index != centerIdx {
		t.Errorf("denoise tile index = %d; want %d (center)", dt.Index, centerIdx)
	}
	if _, ok := m.NextTile(0); ok {
		t.Fatal("expected no further denoise work")
	}
}

//----------------------------------------------------------------------------//
// Viewport slicing
//----------------------------------------------------------------------------//

func TestViewportSlicingSplitsRowsAcrossDevices(t *testing.T) {
	cfg := tile.DefaultConfig()
	cfg.TileSize = geom.Size{W: 32, H: 32}
	cfg.NumDevices = 2
	cfg.Background = false

	m := newManager(t, cfg, 100, 40)

	for device := 0; device < 2; device++ {
		for {
			tl, ok := m.NextTile(device)
			if !ok {
				break
			}
			if device == 0 && tl.Rect.Y >= 20 {
				t.Errorf("device 0 received tile at y=%d; want y<20", tl.Rect.Y)
			}
			if device == 1 && tl.Rect.Y < 20 {
				t.Errorf("device 1 received tile at y=%d; want y>=20", tl.Rect.Y)
			}
		}
	}
}

//----------------------------------------------------------------------------//
// Progressive staging
//----------------------------------------------------------------------------//

func TestProgressiveStagingWalksDividersThenSamples(t *testing.T) {
	cfg := tile.DefaultConfig()
	cfg.Progressive = true
	cfg.StartResolution = 64
	cfg.NumSamples = 2

	m := tile.NewManager(cfg, nil)
	if err := m.Reset(tile.BufferParams{Width: 512, Height: 512}, cfg.NumSamples); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if got := m.Stats().ResolutionDivider; got != 8 {
		t.Fatalf("initial resolution_divider = %d; want 8", got)
	}

	wantDividers := []int{4, 2, 1}
	for _, want := range wantDividers {
		if !m.Next() {
			t.Fatal("Next() returned false before final samples exhausted")
		}
		if got := m.Stats().ResolutionDivider; got != want {
			t.Errorf("resolution_divider = %d; want %d", got, want)
		}
	}

	// Two samples remain at full resolution.
	if m.Done() {
		t.Fatal("Done() true before second full-resolution sample")
	}
	if !m.Next() {
		t.Fatal("Next() returned false before final sample")
	}
	if !m.Done() {
		t.Fatal("Done() false after final sample")
	}
	if m.Next() {
		t.Fatal("Next() returned true after Done()")
	}
}

//----------------------------------------------------------------------------//
// General invariants
//----------------------------------------------------------------------------//

func TestOnlyDenoiseSkipsRender(t *testing.T) {
	cfg := tile.DefaultConfig()
	cfg.TileSize = geom.Size{W: 32, H: 32}
	cfg.OnlyDenoise = true

	m := newManager(t, cfg, 64, 32)

	tl, ok := m.NextTile(0)
	if !ok {
		t.Fatal("expected a tile")
	}
	write, del, err := m.ReturnTile(tl.Index)
	if err != nil {
		t.Fatalf("ReturnTile: %v", err)
	}
	if !write || del {
		t.Errorf("ReturnTile(only_denoise) = (%v,%v); want (true,false)", write, del)
	}
}

func TestReturnTileOnDoneIsInvalidTransition(t *testing.T) {
	cfg := tile.DefaultConfig()
	cfg.TileSize = geom.Size{W: 64, H: 64}

	m := newManager(t, cfg, 64, 64)
	tl, ok := m.NextTile(0)
	if !ok {
		t.Fatal("expected a tile")
	}
	if _, _, err := m.ReturnTile(tl.Index); err != nil {
		t.Fatalf("first ReturnTile: %v", err)
	}
	if _, _, err := m.ReturnTile(tl.Index); err == nil {
		t.Fatal("second ReturnTile on a DONE tile should error")
	}
}

func TestHilbertSpiralDequeuesInnermostBlockFirst(t *testing.T) {
	cfg := tile.DefaultConfig()
	cfg.TileSize = geom.Size{W: 8, H: 8}
	cfg.NumSamples = 1
	cfg.NumDevices = 1
	cfg.Background = true
	cfg.TileOrder = tile.HilbertSpiral

	// 192x192 over an 8x8 tile size and an 8x8 Hilbert block gives a 3x3
	// block spiral: block (2,2) is generated first (the spiral's outer
	// starting corner), block (1,1) is generated last (the spiral's
	// center terminus).
	m := newManager(t, cfg, 192, 192)

	const tileStride = 24 // CeilDiv(192, 8)
	cornerIdx := 16*tileStride + 16 // grid tile inside block (2,2)
	centerIdx := 8*tileStride + 8   // grid tile inside block (1,1)

	cornerPos, centerPos := -1, -1
	for ordinal := 0; ; ordinal++ {
		tl, ok := m.NextTile(0)
		if !ok {
			break
		}
		if tl.Index == cornerIdx {
			cornerPos = ordinal
		}
		if tl.Index == centerIdx {
			centerPos = ordinal
		}
	}

	if cornerPos == -1 || centerPos == -1 {
		t.Fatalf("expected both probe tiles to be dequeued, got corner=%d center=%d", cornerPos, centerPos)
	}
	if centerPos >= cornerPos {
		t.Errorf("center-block tile dequeued at %d, corner-block tile at %d; want center before corner", centerPos, cornerPos)
	}
}

func TestHilbertSpiralRejectsViewport(t *testing.T) {
	cfg := tile.DefaultConfig()
	cfg.TileOrder = tile.HilbertSpiral
	cfg.Background = false

	m := tile.NewManager(cfg, nil)
	if err := m.Reset(tile.BufferParams{Width: 64, Height: 64}, 1); err == nil {
		t.Fatal("expected InvalidConfiguration error")
	}
}

func TestNextTileNeverRepeats(t *testing.T) {
	cfg := tile.DefaultConfig()
	cfg.TileSize = geom.Size{W: 16, H: 16}
	cfg.NumDevices = 1

	m := newManager(t, cfg, 64, 64)

	seen := make(map[int]bool)
	for {
		tl, ok := m.NextTile(0)
		if !ok {
			break
		}
		if seen[tl.Index] {
			t.Fatalf("tile %d dispatched twice", tl.Index)
		}
		seen[tl.Index] = true
	}
	if len(seen) != 16 {
		t.Fatalf("dispatched %d tiles; want 16", len(seen))
	}
}

func TestEmptyRegionFloorsToOneTile(t *testing.T) {
	cfg := tile.DefaultConfig()
	m := newManager(t, cfg, 0, 0)
	if got := m.Stats().NumTiles; got != 1 {
		t.Errorf("NumTiles = %d; want 1 (width/height floored to 1)", got)
	}
	if _, ok := m.NextTile(0); !ok {
		t.Fatal("expected the single floored tile to be dispatchable")
	}
}
