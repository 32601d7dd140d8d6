package linalg

import (
	"errors"
	"math"
	"sort"
)

// ErrNotSymmetric is returned when Eigen is given a matrix whose upper and
// lower triangles disagree beyond tol. Gramians built via Mat.AddOuter
// followed by Mat.Symmetrize never trigger this; it guards misuse.
var ErrNotSymmetric = errors.New("linalg: matrix is not symmetric")

// ErrEigenFailed is returned if the Jacobi sweep does not converge within
// maxIter iterations.
var ErrEigenFailed = errors.New("linalg: eigen decomposition did not converge")

// Eigen performs a Jacobi eigenvalue decomposition of the symmetric F×F
// matrix m. It returns the eigenvalues and a matrix whose rows are the
// corresponding unit eigenvectors, sorted by descending |eigenvalue| — the
// order rank selection over the components needs.
//
// tol bounds both the symmetry check and the off-diagonal convergence test;
// maxIter caps the number of rotations (one per iteration). Uses the
// classical Jacobi method (largest-off-diagonal pivot, rotation via
// theta/t/c/s, accumulate into Q) over the fixed-size Mat/Vec types used
// throughout this package.
//
// Complexity: O(F²) per rotation (dominated by the pivot search),
// O(maxIter·F²) worst case — negligible for the F≈10 this package is sized
// for (see package doc).
func Eigen(m Mat, tol float32, maxIter int) (Vec, Mat, error) {
	const n = FeatureDim

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if float32(math.Abs(float64(m[i][j]-m[j][i]))) > tol {
				return Vec{}, Mat{}, ErrNotSymmetric
			}
		}
	}

	a := m
	q := Identity()

	iter := 0
	for ; iter < maxIter; iter++ {
		p, qIdx := 0, 1
		maxOff := float32(0)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if off := float32(math.Abs(float64(a[i][j]))); off > maxOff {
					maxOff = off
					p, qIdx = i, j
				}
			}
		}
		if maxOff < tol {
			break
		}

		app, aqq, apq := a[p][p], a[qIdx][qIdx], a[p][qIdx]
		theta := (aqq - app) / (2 * apq)
		t := float32(copysign(1.0/(absf(theta)+sqrtf(theta*theta+1)), theta))
		c := 1.0 / sqrtf(t*t+1)
		s := t * c

		for i := 0; i < n; i++ {
			if i != p && i != qIdx {
				aip, aiq := a[i][p], a[i][qIdx]
				a[i][p] = c*aip - s*aiq
				a[p][i] = a[i][p]
				a[i][qIdx] = s*aip + c*aiq
				a[qIdx][i] = a[i][qIdx]
			}
		}
		a[p][p] = c*c*app - 2*c*s*apq + s*s*aqq
		a[qIdx][qIdx] = s*s*app + 2*c*s*apq + c*c*aqq
		a[p][qIdx] = 0
		a[qIdx][p] = 0

		for i := 0; i < n; i++ {
			qip, qiq := q[i][p], q[i][qIdx]
			q[i][p] = c*qip - s*qiq
			q[i][qIdx] = s*qip + c*qiq
		}
	}
	if iter == maxIter {
		return Vec{}, Mat{}, ErrEigenFailed
	}

	var eigs Vec
	for i := 0; i < n; i++ {
		eigs[i] = a[i][i]
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return absf(eigs[order[x]]) > absf(eigs[order[y]])
	})

	var sortedEigs Vec
	var rows Mat
	for rank, idx := range order {
		sortedEigs[rank] = eigs[idx]
		for i := 0; i < n; i++ {
			rows[rank][i] = q[i][idx]
		}
	}

	return sortedEigs, rows, nil
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func sqrtf(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func copysign(mag, sign float32) float32 {
	return float32(math.Copysign(float64(mag), float64(sign)))
}
