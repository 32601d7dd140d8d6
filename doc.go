// Package tilecoord coordinates tile-based rendering and denoising for an
// offline path tracer — from the tile scheduler's state machine to the
// per-pixel feature transform the denoiser bakes before projection.
//
// 🚀 What is tilecoord?
//
//	A small, dependency-light coordination layer that brings together:
//		• Tile scheduling: a single-threaded arbiter driving tiles through
//		  RENDER → RENDERED → DENOISE → DENOISED → DONE
//		• Work distribution: per-device queues, sliced or pooled, ordered by
//		  CENTER/LEFT_TO_RIGHT/.../HILBERT_SPIRAL
//		• Linear algebra: fixed-size F=10 feature vectors, Gramian
//		  accumulation, Jacobi eigendecomposition
//		• A PCA-style feature transform builder for the denoiser
//
// ✨ Design notes
//
//   - Single mutex per Manager — the scheduler has one arbiter, not many
//   - Stack-allocated linalg types — F is a compile-time constant, not a
//     runtime dimension
//   - Pure Go — no cgo, no hidden deps
//
// Under the hood, everything is organized under independent subpackages:
//
//	tile/      — the scheduler: state machine, queues, traversal orders
//	transform/ — the denoise feature transform builder
//	linalg/    — fixed F×F vectors, matrices, Jacobi eigendecomposition
//	hilbert/   — the Hilbert space-filling curve used by HILBERT_SPIRAL
//	geom/      — integer points, sizes, rectangles
//	config/    — YAML configuration loading for cmd/tilecoord
//	tileerr/   — the shared sentinel error taxonomy
//	cmd/tilecoord/ — a CLI front end driving the scheduler over a simulated image
package tilecoord
