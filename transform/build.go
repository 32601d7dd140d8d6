package transform

import (
	"fmt"
	"math"

	"github.com/katalvlaran/tilecoord/linalg"
	"github.com/katalvlaran/tilecoord/tileerr"
)

// eigenTol bounds both Eigen's symmetry check and its convergence test. A
// small multiple of float32 epsilon is generous enough for the Gramians
// this builder produces (sums of outer products of scaled, mean-subtracted
// features) without masking genuine asymmetry bugs.
const eigenTol = 1e-5

// eigenMaxIter caps the number of Jacobi rotations (one per iteration of
// linalg.Eigen); it is a fixed ceiling, not a tuned bound.
const eigenMaxIter = 100

// Result is the output of BuildTransform: rows 0..Rank-1 of Transform hold
// the reduced, scale-baked basis; the remaining rows are left at zero.
type Result struct {
	Transform linalg.Mat
	Rank      int
}

// BuildTransform computes the rank-reduced, scale-baked feature transform
// for output pixel (x,y). rect bounds the valid pixel region of buf; radius
// is the window half-extent; pcaThreshold selects the rank-selection policy
// (positive: energy-retained fraction; non-positive: its negation is a
// standard-deviation cutoff).
func BuildTransform(extractor FeatureExtractor, buf SampleBuffer, x, y int, rect Rect, radius int, pcaThreshold float32) (Result, error) {
	low := Point{max(rect.X0, x-radius), max(rect.Y0, y-radius)}
	high := Point{min(rect.X1, x+radius+1), min(rect.Y1, y+radius+1)}

	n := (high.Y - low.Y) * (high.X - low.X)
	if n <= 0 {
		return Result{}, fmt.Errorf("transform: BuildTransform: window at (%d,%d) is empty: %w", x, y, tileerr.ErrEmptyRegion)
	}

	// Pass 1: feature means.
	var sum linalg.Vec
	for py := low.Y; py < high.Y; py++ {
		for px := low.X; px < high.X; px++ {
			sum = sum.Add(extractor.GetFeatures(buf, px, py, linalg.Vec{}))
		}
	}
	means := sum.Scale(1 / float32(n))

	// Pass 2: per-feature scale, via a component-wise maximum of per-pixel
	// robust magnitudes reduced through CalculateScale.
	var maxMag linalg.Vec
	for py := low.Y; py < high.Y; py++ {
		for px := low.X; px < high.X; px++ {
			maxMag = maxMag.Max(extractor.GetFeatureScales(buf, px, py, means))
		}
	}
	scale := extractor.CalculateScale(maxMag)

	// Pass 3: Gramian accumulation, upper triangle only.
	var gramian linalg.Mat
	for py := low.Y; py < high.Y; py++ {
		for px := low.X; px < high.X; px++ {
			v := extractor.GetFeatures(buf, px, py, means).Mul(scale)
			gramian.AddOuter(v)
		}
	}
	gramian = gramian.Symmetrize()

	if gramian.IsZero() {
		return degenerateResult(scale), nil
	}

	eigs, basis, err := linalg.Eigen(gramian, eigenTol, eigenMaxIter)
	if err != nil {
		return Result{}, fmt.Errorf("transform: BuildTransform: %w", err)
	}

	rank := selectRank(eigs, pcaThreshold)

	var out linalg.Mat
	for i := 0; i < rank; i++ {
		out[i] = basis.Row(i).Mul(scale)
	}
	return Result{Transform: out, Rank: rank}, nil
}

// degenerateResult handles the NumericDegeneracy case: an all-zero
// Gramian (zero-variance window). It is recovered locally, not propagated
// as an error: rank=2 with an identity-like basis restricted to the first
// two features, scale-baked like any other result.
func degenerateResult(scale linalg.Vec) Result {
	var out linalg.Mat
	out[0][0] = scale[0]
	out[1][1] = scale[1]
	return Result{Transform: out, Rank: 2}
}

// selectRank picks how many leading components to retain, enforcing a
// minimum rank of 2. eigs must already be sorted descending by magnitude
// (linalg.Eigen's contract).
func selectRank(eigs linalg.Vec, pcaThreshold float32) int {
	if pcaThreshold > 0 {
		total := float32(0)
		for _, l := range eigs {
			total += l
		}
		target := total * (1 - pcaThreshold)

		reduced := float32(0)
		for i := 0; i < linalg.FeatureDim; i++ {
			reduced += eigs[i]
			if i >= 1 && reduced >= target {
				return i + 1
			}
		}
		return linalg.FeatureDim
	}

	cutoff := -pcaThreshold
	rank := 0
	for i := 0; i < linalg.FeatureDim; i++ {
		if i >= 2 && sqrtf(eigs[i]) < cutoff {
			break
		}
		rank = i + 1
	}
	if rank < 2 {
		rank = 2
	}
	return rank
}

// Point is a pixel coordinate local to the transform package, avoiding a
// dependency on the tile scheduler's geom package for a single pair of
// ints used only inside the windowing computation.
type Point struct{ X, Y int }

func sqrtf(x float32) float32 {
	if x <= 0 {
		return 0
	}
	return float32(math.Sqrt(float64(x)))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
