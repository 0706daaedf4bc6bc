// SPDX-License-Identifier: MIT

// Package tensor offers a small row-major N-dimensional float64 container used
// for every kernel-shaped quantity in minweights: transition kernels P[s,a,s'],
// transition bounds L[s,a,s'], policies π[s,a], log-gradients ∇logπ[s,a,d] and
// per-group sufficient statistics.
//
// The package provides:
//
//   - Dense with safe accessors (At/Set/Fiber return sentinel errors).
//   - Saturating clips (Clip, ClipValue) and max reductions (MaxLeading).
//   - Validators (shape, finiteness, range) shared by the higher-level packages.
//
// Dense buffers are allocated once and reused through Fiber slices so that
// hot loops stay allocation-free.
package tensor
