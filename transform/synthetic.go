package transform

import "github.com/katalvlaran/tilecoord/linalg"

// SyntheticExtractor is a test/reference FeatureExtractor backed by a
// closed-form per-pixel feature function rather than a real sample buffer.
// It exists to exercise BuildTransform deterministically without a path
// tracer's buffer layout. Features returns the raw F-vector for pixel
// (px,py); GetFeatureScales and CalculateScale use the straightforward
// absolute-deviation-then-reciprocal policy real extractors in this domain
// follow.
type SyntheticExtractor struct {
	Features func(px, py int) linalg.Vec
}

// GetFeatures evaluates Features at (px,py), subtracting mean component-wise.
func (s SyntheticExtractor) GetFeatures(_ SampleBuffer, px, py int, mean linalg.Vec) linalg.Vec {
	return s.Features(px, py).Sub(mean)
}

// GetFeatureScales returns the absolute mean-subtracted feature vector at
// (px,py) — a simple per-pixel robust magnitude proxy.
func (s SyntheticExtractor) GetFeatureScales(_ SampleBuffer, px, py int, means linalg.Vec) linalg.Vec {
	d := s.Features(px, py).Sub(means)
	for i := range d {
		if d[i] < 0 {
			d[i] = -d[i]
		}
	}
	return d
}

// CalculateScale reduces a component-wise maximum-magnitude vector into a
// reciprocal multiplier (1/max, or 1 where max is zero), keeping scaled
// features within approximately [-1,+1] over the window.
func (s SyntheticExtractor) CalculateScale(maxMagnitudes linalg.Vec) linalg.Vec {
	var out linalg.Vec
	for i, m := range maxMagnitudes {
		if m == 0 {
			out[i] = 1
		} else {
			out[i] = 1 / m
		}
	}
	return out
}
