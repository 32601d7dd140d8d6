package tile

import "github.com/katalvlaran/tilecoord/geom"

// Unlimited is the sentinel used for NumSamples and StartResolution to mean
// "no limit" / "staging disabled".
const Unlimited = -1

// NoRange is the sentinel for RangeStartSample/RangeNumSamples meaning
// "use NumSamples" — no sub-range requested.
const NoRange = -1

// Order selects the traversal order used to sort tiles within a device's
// queue. The zero value is Center.
type Order int

const (
	Center Order = iota
	RightToLeft
	LeftToRight
	TopToBottom
	BottomToTop
	HilbertSpiral
)

// String renders the order for logging and config diagnostics.
func (o Order) String() string {
	switch o {
	case Center:
		return "CENTER"
	case RightToLeft:
		return "RIGHT_TO_LEFT"
	case LeftToRight:
		return "LEFT_TO_RIGHT"
	case TopToBottom:
		return "TOP_TO_BOTTOM"
	case BottomToTop:
		return "BOTTOM_TO_TOP"
	case HilbertSpiral:
		return "HILBERT_SPIRAL"
	default:
		return "UNKNOWN"
	}
}

// Config holds the recognized scheduling options.
type Config struct {
	// Progressive enables multi-resolution preview staging before the
	// final sample iteration.
	Progressive bool

	// NumSamples is the total samples per pixel. Unlimited disables
	// progress accounting.
	NumSamples int

	// TileSize is the tile dimension in pixels.
	TileSize geom.Size

	// StartResolution is the target pixel count for the initial preview.
	// Unlimited disables staging.
	StartResolution int

	// PreserveTileDevice: true gives each physical device its own queue;
	// false routes every tile through a single shared queue.
	PreserveTileDevice bool

	// Background selects pooled (true) vs. sliced/viewport (false)
	// distribution.
	Background bool

	// TileOrder is the traversal order applied within each device's queue.
	TileOrder Order

	// NumDevices is the count of physical render devices.
	NumDevices int

	// OnlyDenoise: true means no RENDER phase; tiles are created DENOISE.
	OnlyDenoise bool

	// ScheduleDenoising: true performs denoise as tiles become eligible
	// after rendering; false completes rendering with no scheduled
	// denoise pass.
	ScheduleDenoising bool

	// RangeStartSample / RangeNumSamples optionally restrict the manager
	// to a sub-range of samples. NoRange means "use NumSamples".
	RangeStartSample int
	RangeNumSamples  int
}

// DefaultConfig returns a Config with sane defaults: a single non-denoising
// device rendering the whole image in one pass, no staging, background
// distribution in left-to-right order.
func DefaultConfig() Config {
	return Config{
		Progressive:        false,
		NumSamples:         1,
		TileSize:           geom.Size{W: 64, H: 64},
		StartResolution:    Unlimited,
		PreserveTileDevice: true,
		Background:         true,
		TileOrder:          LeftToRight,
		NumDevices:         1,
		OnlyDenoise:        false,
		ScheduleDenoising:  false,
		RangeStartSample:   NoRange,
		RangeNumSamples:    NoRange,
	}
}

// NumLogicalDevices returns the number of independent per-device queues the
// manager maintains: num_devices when PreserveTileDevice, otherwise 1 (a
// single shared queue).
func (c Config) NumLogicalDevices() int {
	if c.PreserveTileDevice {
		return c.NumDevices
	}
	return 1
}

// rangeStart and rangeCount resolve the sample range the manager advances
// over: the requested sub-range where one is set, else samples starting at 0
// and NumSamples of them.
func (c Config) rangeStart() int {
	if c.RangeStartSample != NoRange {
		return c.RangeStartSample
	}
	return 0
}

func (c Config) rangeCount() int {
	if c.RangeNumSamples != NoRange {
		return c.RangeNumSamples
	}
	return c.NumSamples
}

func (c Config) endSample() int {
	return c.rangeStart() + c.rangeCount()
}
