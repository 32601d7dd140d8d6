// Package tile implements the tile scheduler: the render/denoise lifecycle
// state machine and its work-distribution logic. It owns the Tile vector,
// per-device queues, and the render→denoise dependency relation, an
// 8-connected grid-neighbor adjacency over the tile grid that drives state
// transitions rather than connected-component analysis.
package tile

import "github.com/katalvlaran/tilecoord/geom"

// State is a tile's position in the render→denoise lifecycle. The zero
// value is Render, the state every tile starts in outside denoise-only mode.
// States are totally ordered: Render < Rendered < Denoise < Denoised < Done,
// and the state machine never moves backward.
type State int

const (
	Render State = iota
	Rendered
	Denoise
	Denoised
	Done
)

// String renders the state for logging.
func (s State) String() string {
	switch s {
	case Render:
		return "RENDER"
	case Rendered:
		return "RENDERED"
	case Denoise:
		return "DENOISE"
	case Denoised:
		return "DENOISED"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// AuxBuffer is the per-tile auxiliary storage the manager exclusively owns
// and releases. It is opaque to the scheduler: workers populate and read
// it, the scheduler only decides when it may be released.
type AuxBuffer interface{}

// Tile carries a grid index, its pixel rectangle in the effective image,
// the owning logical device, its lifecycle State, and an optional auxiliary
// buffer whose lifetime is bound to the Tile.
type Tile struct {
	Index  int
	Rect   geom.Rect
	Device int
	State  State

	// Aux is nil until a worker allocates it, and is released (set back to
	// nil) by the manager at: the RENDER→DONE transition when no denoising
	// is scheduled, the DENOISED→DONE transition in a scheduled-denoise
	// run, and bulk teardown in FreeDevice.
	Aux AuxBuffer
}

// BufferParams describes an image region: its effective (post-crop) and
// full (pre-crop) dimensions, crop offset, and which denoising-related
// passes are present. Effective dims must be <= full dims; offsets must be
// non-negative — callers are expected to uphold this; the manager does not
// re-validate it beyond what SetTiles needs.
type BufferParams struct {
	Width, Height         int
	FullWidth, FullHeight int
	FullX, FullY          int

	DenoisingPassesPresent bool
	SelectiveDenoising     bool

	// FrameCount supports multi-frame denoising (temporally accumulated
	// passes); it does not affect tile geometry or the state machine, only
	// the feature transform builder's caller-side buffer indexing.
	FrameCount int
}
