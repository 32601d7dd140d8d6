package tile

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/katalvlaran/tilecoord/geom"
	"github.com/katalvlaran/tilecoord/tileerr"
)

// Manager is the tile scheduler and state machine: a single-threaded
// cooperative arbiter guarded by one mutex, since there is exactly one
// arbiter and per-device queues never alias each other.
type Manager struct {
	mu sync.Mutex

	cfg    Config
	params BufferParams
	logger *slog.Logger

	tiles      []*Tile
	tileStride int // tile_w: tiles-per-row, used to flatten (gx,gy) -> index
	tileRows   int // tile_h

	renderQueues  [][]int
	denoiseQueues [][]int

	sample              int
	numSamplesThisPhase int
	resolutionDivider   int

	numTiles           int
	numRenderedTiles   int
	numSamples         int
	totalPixelSamples  int

	// ready accumulates indices of tiles that reached Done as a side
	// effect of another tile's ReturnTile call: the neighbor scan can
	// promote several tiles to Done in one call, but ReturnTile's own
	// return tuple only describes the tile it was passed. DrainReady lets
	// the output writer pick these up.
	ready []int
}

// NewManager constructs a Manager for the given configuration. logger may
// be nil, in which case slog.Default() is used.
func NewManager(cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{cfg: cfg, logger: logger}
}

// Validate checks the configuration for InvalidConfiguration conditions:
// HILBERT_SPIRAL combined with viewport (sliced) distribution, a
// non-positive tile size, or zero devices.
func (m *Manager) Validate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validateLocked()
}

func (m *Manager) validateLocked() error {
	if m.cfg.TileOrder == HilbertSpiral && !m.cfg.Background {
		return fmt.Errorf("tile: HILBERT_SPIRAL requires background distribution: %w", tileerr.ErrInvalidConfiguration)
	}
	if m.cfg.TileSize.W <= 0 || m.cfg.TileSize.H <= 0 {
		return fmt.Errorf("tile: tile size must be positive: %w", tileerr.ErrInvalidConfiguration)
	}
	if m.cfg.NumDevices <= 0 {
		return fmt.Errorf("tile: num_devices must be positive: %w", tileerr.ErrInvalidConfiguration)
	}
	return nil
}

// Reset re-initializes the manager to the start of a new image.
func (m *Manager) Reset(params BufferParams, numSamples int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.params = params
	m.sample = m.cfg.rangeStart() - 1
	m.numSamplesThisPhase = 0
	m.numRenderedTiles = 0
	m.ready = nil
	m.resolutionDivider = startDivider(params.Width, params.Height, m.cfg.StartResolution)
	m.setSamplesLocked(numSamples)

	m.logger.Debug("tile manager reset",
		"width", params.Width, "height", params.Height,
		"resolution_divider", m.resolutionDivider)

	return m.setTilesLocked()
}

// startDivider computes the smallest power of two k such that
// (w/k)*(h/k) <= startResolution^2, or 1 if staging is disabled
// (startResolution == Unlimited).
func startDivider(w, h, startResolution int) int {
	if startResolution == Unlimited {
		return 1
	}
	target := startResolution * startResolution
	d := 1
	for (w/d)*(h/d) > target {
		d *= 2
	}
	return d
}

// SetSamples recomputes total_pixel_samples for the given total sample
// count.
func (m *Manager) SetSamples(numSamples int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setSamplesLocked(numSamples)
}

func (m *Manager) setSamplesLocked(numSamples int) {
	m.numSamples = numSamples
	if numSamples == Unlimited {
		m.totalPixelSamples = 0
		return
	}

	w, h := m.params.Width, m.params.Height
	total := 0
	if m.cfg.Progressive {
		for d := m.resolutionDivider / 2; d >= 2; d /= 2 {
			total += geom.MaxInt(1, w/d) * geom.MaxInt(1, h/d)
		}
	}
	total += numSamples * w * h
	if m.cfg.ScheduleDenoising {
		total += w * h
	}
	m.totalPixelSamples = total
}

// Next advances to the next phase (the next preview level, or the next
// sample once at final resolution). It returns false iff Done().
func (m *Manager) Next() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.doneLocked() {
		return false
	}

	if m.cfg.Progressive && m.resolutionDivider > 1 {
		m.resolutionDivider /= 2
		m.sample = 0
		m.numSamplesThisPhase = 1
	} else {
		m.sample++
		if m.cfg.Progressive {
			m.numSamplesThisPhase = 1
		} else {
			m.numSamplesThisPhase = m.cfg.rangeCount()
		}
		m.resolutionDivider = 1
	}

	m.logger.Debug("tile manager phase advance",
		"resolution_divider", m.resolutionDivider, "sample", m.sample)

	if err := m.setTilesLocked(); err != nil {
		m.logger.Warn("tile manager regeneration failed", "err", err)
	}
	return true
}

// Done reports whether scheduling has completed: final resolution reached
// and the sample range exhausted.
func (m *Manager) Done() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doneLocked()
}

func (m *Manager) doneLocked() bool {
	return m.resolutionDivider == 1 && m.sample+m.numSamplesThisPhase >= m.cfg.endSample()
}

// NextTile dequeues the next tile for device, preferring the denoise queue
// over the render queue: denoising releases memory sooner, reducing
// working set.
func (m *Manager) NextTile(device int) (*Tile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := device
	if !m.cfg.PreserveTileDevice {
		d = 0
	}
	if d < 0 || d >= len(m.denoiseQueues) {
		return nil, false
	}

	if len(m.denoiseQueues[d]) > 0 {
		idx := m.denoiseQueues[d][0]
		m.denoiseQueues[d] = m.denoiseQueues[d][1:]
		if m.cfg.OnlyDenoise {
			m.numRenderedTiles++
		}
		return m.tiles[idx], true
	}
	if len(m.renderQueues[d]) > 0 {
		idx := m.renderQueues[d][0]
		m.renderQueues[d] = m.renderQueues[d][1:]
		m.numRenderedTiles++
		return m.tiles[idx], true
	}
	return nil, false
}

// ReturnTile reports completion of the tile at index and advances the
// state machine. should_write is true when the tile's own pixels are ready
// for output; may_delete is true when its auxiliary buffer may be released
// now.
//
// Tiles promoted to Done as a side effect of this call (not the tile at
// index itself) are recorded for DrainReady rather than reported here —
// see the field doc on Manager.ready.
func (m *Manager) ReturnTile(index int) (shouldWrite, mayDelete bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.tiles) {
		return false, false, fmt.Errorf("tile: ReturnTile(%d): index out of range: %w", index, tileerr.ErrInvalidTransition)
	}
	t := m.tiles[index]

	switch t.State {
	case Render:
		if !m.cfg.ScheduleDenoising {
			t.State = Done
			t.Aux = nil
			return true, true, nil
		}
		t.State = Rendered
		m.scanAndPromote(index, Rendered, Denoise, m.denoiseQueues)
		return false, false, nil

	case Denoise:
		if m.cfg.OnlyDenoise {
			t.State = Done
			return true, false, nil
		}
		t.State = Denoised
		promoted := m.scanAndPromote(index, Denoised, Done, nil)
		selfDone := false
		for _, idx := range promoted {
			if idx == index {
				selfDone = true
				continue
			}
			m.tiles[idx].Aux = nil
			m.ready = append(m.ready, idx)
		}
		if selfDone {
			return true, true, nil
		}
		return false, false, nil

	default:
		return false, false, fmt.Errorf("tile: ReturnTile(%d): tile in state %s: %w", index, t.State, tileerr.ErrInvalidTransition)
	}
}

// DrainReady returns and clears the set of tile indices that reached Done
// as a side effect of some other tile's ReturnTile call since the last
// drain.
func (m *Manager) DrainReady() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.ready
	m.ready = nil
	return out
}

// FreeDevice releases every tile's auxiliary buffer, if denoising was
// scheduled.
func (m *Manager) FreeDevice() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cfg.ScheduleDenoising {
		return
	}
	for _, t := range m.tiles {
		t.Aux = nil
	}
}

// Stats is a read-only snapshot of progress counters, copied out under
// lock so a caller can poll progress without racing the scheduler.
type Stats struct {
	NumTiles           int
	NumRenderedTiles   int
	TotalPixelSamples  int
	Sample             int
	ResolutionDivider  int
}

// Stats returns a snapshot of the manager's progress counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		NumTiles:          m.numTiles,
		NumRenderedTiles:  m.numRenderedTiles,
		TotalPixelSamples: m.totalPixelSamples,
		Sample:            m.sample,
		ResolutionDivider: m.resolutionDivider,
	}
}

// scanAndPromote scans the 3x3 neighborhood centered on centerIdx (self
// plus 8 neighbors) in row-major order and promotes every candidate
// currently in fromState whose own 8-neighborhood is entirely in-grid and
// >= fromState to toState, appending it to the per-device queue in queues
// (nil skips enqueueing — used for the Done transition, which has no
// further queue). Returns the indices promoted, in scan order, a stable
// tie-break for candidates that become eligible simultaneously.
func (m *Manager) scanAndPromote(centerIdx int, fromState, toState State, queues [][]int) []int {
	cx, cy := centerIdx%m.tileStride, centerIdx/m.tileStride

	var promoted []int
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			gx, gy := cx+dx, cy+dy
			if gx < 0 || gx >= m.tileStride || gy < 0 || gy >= m.tileRows {
				continue
			}
			idx := gy*m.tileStride + gx
			cand := m.tiles[idx]
			if cand.State != fromState {
				continue
			}
			if !m.neighborsAtLeast(gx, gy, fromState) {
				continue
			}
			cand.State = toState
			if queues != nil {
				queues[cand.Device] = append(queues[cand.Device], cand.Index)
			}
			promoted = append(promoted, idx)
		}
	}
	return promoted
}

// neighborsAtLeast reports whether (gx,gy) has a full set of eight in-grid
// neighbors, each in a state >= minState. A position missing any of its
// eight neighbors (an image-border tile) never qualifies: only interior
// tiles, with a complete 3x3 neighborhood, can accumulate an eligible
// promotion. See DESIGN.md for the reasoning behind this choice.
func (m *Manager) neighborsAtLeast(gx, gy int, minState State) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := gx+dx, gy+dy
			if nx < 0 || nx >= m.tileStride || ny < 0 || ny >= m.tileRows {
				return false
			}
			if m.tiles[ny*m.tileStride+nx].State < minState {
				return false
			}
		}
	}
	return true
}
