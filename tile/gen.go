package tile

import "github.com/katalvlaran/tilecoord/geom"

// setTilesLocked validates the configuration and (re)generates the tile
// vector and per-device queues for the current resolution_divider. Callers
// must hold m.mu.
func (m *Manager) setTilesLocked() error {
	if err := m.validateLocked(); err != nil {
		return err
	}
	m.genTiles()
	return nil
}

// SetTiles validates the configuration and regenerates the tiles and
// per-device queues for the current resolution divider, under the lock.
func (m *Manager) SetTiles() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setTilesLocked()
}

// genTiles builds the dense row-major tile grid for the current effective
// resolution and distributes it into per-device render/denoise queues,
// either by slicing rows across devices (viewport mode) or by splitting a
// single ordered sequence into contiguous chunks (background mode).
func (m *Manager) genTiles() {
	// Floored at 1 so a coarse preview divider never collapses a
	// non-empty region to zero tiles; matches setSamplesLocked's use of
	// the same divider.
	imageW := geom.MaxInt(1, m.params.Width/m.resolutionDivider)
	imageH := geom.MaxInt(1, m.params.Height/m.resolutionDivider)

	tileW := geom.CeilDiv(imageW, m.cfg.TileSize.W)
	tileH := geom.CeilDiv(imageH, m.cfg.TileSize.H)

	m.tileStride = tileW
	m.tileRows = tileH
	m.numTiles = tileW * tileH

	initState := Render
	if m.cfg.OnlyDenoise {
		initState = Denoise
	}

	m.tiles = make([]*Tile, m.numTiles)
	for gy := 0; gy < tileH; gy++ {
		for gx := 0; gx < tileW; gx++ {
			idx := gy*tileW + gx
			rect := geom.Rect{
				X: gx * m.cfg.TileSize.W,
				Y: gy * m.cfg.TileSize.H,
				W: m.cfg.TileSize.W,
				H: m.cfg.TileSize.H,
			}.Clip(imageW, imageH)
			m.tiles[idx] = &Tile{Index: idx, Rect: rect, State: initState}
		}
	}

	numLogical := m.cfg.NumLogicalDevices()
	m.renderQueues = make([][]int, numLogical)
	m.denoiseQueues = make([][]int, numLogical)

	if m.numTiles == 0 {
		return
	}

	center := geom.Point{X: imageW / 2, Y: imageH / 2}
	if !m.cfg.Background {
		m.distributeViewport(tileW, tileH, numLogical, center)
	} else if m.cfg.TileOrder == HilbertSpiral {
		m.distributeHilbert(imageW, imageH, tileW, numLogical)
	} else {
		m.distributeFlat(numLogical, center)
	}
}

// distributeViewport slices the tile grid into contiguous row bands, one
// per logical device, and sorts each band by the configured order — the
// sliced (non-background) distribution mode.
func (m *Manager) distributeViewport(tileW, tileH, numLogical int, center geom.Point) {
	numSlices := geom.MinInt(tileH, numLogical)
	if numSlices < 1 {
		numSlices = 1
	}
	rowsPerSlice := geom.CeilDiv(tileH, numSlices)

	for device := 0; device < numSlices; device++ {
		rowStart := device * rowsPerSlice
		if rowStart >= tileH {
			break
		}
		rowEnd := geom.MinInt(rowStart+rowsPerSlice, tileH)

		band := make([]*Tile, 0, (rowEnd-rowStart)*tileW)
		for gy := rowStart; gy < rowEnd; gy++ {
			for gx := 0; gx < tileW; gx++ {
				t := m.tiles[gy*tileW+gx]
				t.Device = device
				band = append(band, t)
			}
		}
		sortSlice(m.cfg.TileOrder, band, center)
		m.enqueueAll(band, device)
	}
}

// distributeFlat splits the row-major tile sequence into numLogical
// contiguous chunks (one per device) and sorts each chunk by the
// configured order — the background distribution for every order other
// than HILBERT_SPIRAL.
func (m *Manager) distributeFlat(numLogical int, center geom.Point) {
	chunkSize := geom.CeilDiv(m.numTiles, numLogical)
	for device := 0; device < numLogical; device++ {
		start := device * chunkSize
		if start >= m.numTiles {
			break
		}
		end := geom.MinInt(start+chunkSize, m.numTiles)

		chunk := make([]*Tile, 0, end-start)
		for i := start; i < end; i++ {
			t := m.tiles[i]
			t.Device = device
			chunk = append(chunk, t)
		}
		sortSlice(m.cfg.TileOrder, chunk, center)
		m.enqueueAll(chunk, device)
	}
}

// distributeHilbert walks hilbertSequence over the effective image,
// mapping each emitted pixel position back onto the already-built
// row-major tile grid (dropping positions outside the image and any tile
// already emitted), then splits the resulting order into
// numLogical contiguous chunks, one per device. Each chunk is reversed
// before enqueueing: the spiral ends at the innermost block, and that
// block must dequeue first, so within a device's slice the
// last-generated tile is queued first.
func (m *Manager) distributeHilbert(imageW, imageH, tileW, numLogical int) {
	seq := hilbertSequence(imageW, imageH, m.cfg.TileSize)

	ordered := make([]*Tile, 0, m.numTiles)
	seen := make([]bool, m.numTiles)
	for _, p := range seq {
		if p.X < 0 || p.Y < 0 || p.X >= imageW || p.Y >= imageH {
			continue
		}
		gx, gy := p.X/m.cfg.TileSize.W, p.Y/m.cfg.TileSize.H
		if gx < 0 || gx >= tileW || gy < 0 || gy >= m.tileRows {
			continue
		}
		idx := gy*tileW + gx
		if seen[idx] {
			continue
		}
		seen[idx] = true
		ordered = append(ordered, m.tiles[idx])
	}

	total := len(ordered)
	chunkSize := geom.CeilDiv(total, numLogical)
	for device := 0; device < numLogical; device++ {
		start := device * chunkSize
		if start >= total {
			break
		}
		end := geom.MinInt(start+chunkSize, total)
		chunk := ordered[start:end]
		for _, t := range chunk {
			t.Device = device
		}
		reversed := make([]*Tile, len(chunk))
		for i, t := range chunk {
			reversed[len(chunk)-1-i] = t
		}
		m.enqueueAll(reversed, device)
	}
}

// enqueueAll appends tiles, in order, to their device's render or denoise
// queue according to each tile's current State (Denoise for OnlyDenoise
// configurations, Render otherwise).
func (m *Manager) enqueueAll(tiles []*Tile, device int) {
	for _, t := range tiles {
		if t.State == Denoise {
			m.denoiseQueues[device] = append(m.denoiseQueues[device], t.Index)
		} else {
			m.renderQueues[device] = append(m.renderQueues[device], t.Index)
		}
	}
}
