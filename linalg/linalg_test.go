package linalg_test

import (
	"testing"

	"github.com/katalvlaran/tilecoord/linalg"
	"github.com/stretchr/testify/require"
)

func TestVecArithmetic(t *testing.T) {
	a := linalg.Vec{1, 2, 3}
	b := linalg.Vec{4, 5, 6}

	require.Equal(t, linalg.Vec{5, 7, 9}, a.Add(b))
	require.Equal(t, linalg.Vec{-3, -3, -3}, a.Sub(b))
	require.Equal(t, linalg.Vec{4, 10, 18}, a.Mul(b))
	require.Equal(t, linalg.Vec{2, 4, 6}, a.Scale(2))
	require.Equal(t, b, a.Max(b))
}

func TestMatAddOuterUpperTriangleOnly(t *testing.T) {
	var m linalg.Mat
	m.AddOuter(linalg.Vec{1, 2, 3})

	require.Equal(t, float32(1), m[0][0])
	require.Equal(t, float32(2), m[0][1])
	require.Equal(t, float32(4), m[1][1])
	// Lower triangle untouched by AddOuter.
	require.Equal(t, float32(0), m[1][0])
	require.Equal(t, float32(0), m[2][0])
}

func TestMatSymmetrize(t *testing.T) {
	var m linalg.Mat
	m.AddOuter(linalg.Vec{1, 2, 3})
	sym := m.Symmetrize()

	require.Equal(t, sym[0][1], sym[1][0])
	require.Equal(t, sym[0][2], sym[2][0])
	require.Equal(t, sym[1][2], sym[2][1])
}

func TestMatIsZero(t *testing.T) {
	var m linalg.Mat
	require.True(t, m.IsZero())
	m.AddOuter(linalg.Vec{1})
	require.False(t, m.IsZero())
}

func TestIdentity(t *testing.T) {
	id := linalg.Identity()
	for i := 0; i < linalg.FeatureDim; i++ {
		for j := 0; j < linalg.FeatureDim; j++ {
			want := float32(0)
			if i == j {
				want = 1
			}
			require.Equal(t, want, id[i][j], "Identity[%d][%d]", i, j)
		}
	}
}

// TestEigenDiagonal checks that Eigen on an already-diagonal matrix returns
// its diagonal entries sorted descending by magnitude, with the identity
// permuted accordingly as the eigenvector basis.
func TestEigenDiagonal(t *testing.T) {
	var m linalg.Mat
	m[0][0] = 3
	m[1][1] = -10
	m[2][2] = 1

	eigs, basis, err := linalg.Eigen(m, 1e-5, 50)
	require.NoError(t, err)

	require.InDelta(t, -10, eigs[0], 1e-3)
	require.InDelta(t, 3, eigs[1], 1e-3)
	require.InDelta(t, 1, eigs[2], 1e-3)

	// The eigenvector for the largest-magnitude eigenvalue (-10) is the
	// second standard basis vector, up to sign.
	require.InDelta(t, 1, absf(basis[0][1]), 1e-3)
}

// TestEigenOrthogonal checks that Eigen's returned basis rows are mutually
// orthonormal for a non-diagonal symmetric input, matching the transform
// builder's orthogonality invariant.
func TestEigenOrthogonal(t *testing.T) {
	var m linalg.Mat
	m.AddOuter(linalg.Vec{1, 2, 0, 0, 0, 0, 0, 0, 0, 0})
	m.AddOuter(linalg.Vec{2, -1, 1, 0, 0, 0, 0, 0, 0, 0})
	m = m.Symmetrize()

	_, basis, err := linalg.Eigen(m, 1e-5, 100)
	require.NoError(t, err)

	for i := 0; i < linalg.FeatureDim; i++ {
		for j := i + 1; j < linalg.FeatureDim; j++ {
			dot := float32(0)
			for k := 0; k < linalg.FeatureDim; k++ {
				dot += basis[i][k] * basis[j][k]
			}
			require.InDelta(t, 0, dot, 1e-3, "rows %d,%d not orthogonal", i, j)
		}
	}
}

func TestEigenNotSymmetric(t *testing.T) {
	var m linalg.Mat
	m[0][1] = 5
	_, _, err := linalg.Eigen(m, 1e-5, 50)
	require.ErrorIs(t, err, linalg.ErrNotSymmetric)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
