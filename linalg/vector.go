// Package linalg provides the small, fixed-dimension linear algebra the
// denoise feature transform builder needs: an F-component feature vector,
// an F×F symmetric matrix (the Gramian), and a Jacobi eigendecomposition of
// that matrix. F is a compile-time constant (the denoiser's feature count,
// typically 10), so every type here is a plain array rather than a
// dynamically-shaped matrix — this module trades that generality for stack
// allocation, since F never varies at runtime.
//
// Single-precision (float32) throughout, matching the accumulation buffer
// the builder reads from.
package linalg

// FeatureDim is F: the number of raw features the transform builder reduces.
const FeatureDim = 10

// Vec is an F-dimensional feature vector.
type Vec [FeatureDim]float32

// Add returns a+b component-wise.
func (a Vec) Add(b Vec) Vec {
	var out Vec
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

// Scale returns a scaled component-wise by s.
func (a Vec) Scale(s float32) Vec {
	var out Vec
	for i := range out {
		out[i] = a[i] * s
	}
	return out
}

// Mul returns a and b multiplied component-wise (Hadamard product).
func (a Vec) Mul(b Vec) Vec {
	var out Vec
	for i := range out {
		out[i] = a[i] * b[i]
	}
	return out
}

// Sub returns a-b component-wise.
func (a Vec) Sub(b Vec) Vec {
	var out Vec
	for i := range out {
		out[i] = a[i] - b[i]
	}
	return out
}

// Max returns the component-wise maximum of a and b.
func (a Vec) Max(b Vec) Vec {
	var out Vec
	for i := range out {
		if a[i] > b[i] {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
	return out
}
