// Package tileerr centralizes the sentinel error taxonomy shared by the
// tile scheduler and the denoise feature transform builder.
//
// Callers should compare with errors.Is; packages that return these
// sentinels wrap them with call-site context via fmt.Errorf("%w", ...).
package tileerr

import "errors"

var (
	// ErrInvalidTransition is returned when ReturnTile observes a tile
	// already in DONE, or a state inconsistent with the manager's current
	// mode (e.g. a DENOISE return while only_denoise is false and the tile
	// never passed through RENDERED).
	ErrInvalidTransition = errors.New("tile: invalid state transition")

	// ErrInvalidConfiguration is returned at SetTiles when the requested
	// configuration cannot be realized, e.g. TileOrder=HilbertSpiral
	// combined with viewport (sliced) distribution.
	ErrInvalidConfiguration = errors.New("tile: invalid configuration")

	// ErrEmptyRegion indicates an empty pixel region. BuildTransform returns
	// it for an empty window. SetTiles never returns it: a zero-sized image
	// is floored to a single 1x1 tile.
	ErrEmptyRegion = errors.New("tile: effective region is empty")

	// ErrNumericDegeneracy marks an all-zero Gramian encountered by the
	// transform builder. The builder recovers locally (rank=2, identity
	// basis on the first two features) and does not propagate this as a
	// fatal error; it is exposed for diagnostics/logging only.
	ErrNumericDegeneracy = errors.New("transform: degenerate (zero-variance) window")
)
