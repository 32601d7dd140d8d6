// Package transform implements the denoise feature transform builder: given
// a window of accumulated samples around an output pixel, it extracts
// per-pixel features, accumulates their Gramian, and reduces it via Jacobi
// eigendecomposition to a rank-selected, scale-baked orthonormal basis.
//
// This package depends on linalg for the fixed F=10 vector/matrix types and
// the eigendecomposition itself; it owns only the windowing, extraction,
// and rank-selection logic that is specific to the feature transform.
package transform

import "github.com/katalvlaran/tilecoord/linalg"

// SampleBuffer is a read-only view over a contiguous accumulated-sample
// float array: pixel (px,py) starts at offset
// (py-Rect.Y0)*strideWidth*PassStride + (px-Rect.X0)*PassStride, where
// strideWidth is the buffer width rounded up to a multiple of 4.
type SampleBuffer struct {
	Data       []float32
	PassStride int
	Rect       Rect
}

// Rect is the valid pixel region [X0,X1) x [Y0,Y1) of a SampleBuffer.
type Rect struct {
	X0, Y0, X1, Y1 int
}

// strideWidth returns the buffer's row stride in pixels: the valid width
// rounded up to a multiple of 4.
func (r Rect) strideWidth() int {
	return alignUp(r.X1-r.X0, 4)
}

func alignUp(v, to int) int {
	return (v + to - 1) / to * to
}

// Offset returns the float offset of pixel (px,py) within b.Data.
func (b SampleBuffer) Offset(px, py int) int {
	localX := px - b.Rect.X0
	localY := py - b.Rect.Y0
	return localY*b.Rect.strideWidth()*b.PassStride + localX*b.PassStride
}

// FeatureExtractor reads raw per-pixel features from a SampleBuffer, derives
// a per-pixel robust magnitude ("feature scale") given a mean, and reduces
// per-feature maximum magnitudes into a scaling vector. Implementations are
// supplied by the path tracer; this package only consumes the interface.
type FeatureExtractor interface {
	// GetFeatures reads the F raw features for pixel (px,py), optionally
	// pre-subtracting mean component-wise (mean may be the zero Vec to
	// skip subtraction).
	GetFeatures(buf SampleBuffer, px, py int, mean linalg.Vec) linalg.Vec

	// GetFeatureScales reads a per-pixel robust magnitude per feature for
	// pixel (px,py), given the window's feature means.
	GetFeatureScales(buf SampleBuffer, px, py int, means linalg.Vec) linalg.Vec

	// CalculateScale reduces a component-wise maximum-magnitude vector into
	// a per-feature multiplier such that scaled features lie within
	// approximately [-1,+1] over the window.
	CalculateScale(maxMagnitudes linalg.Vec) linalg.Vec
}
