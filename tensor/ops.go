// SPDX-License-Identifier: MIT

// Package tensor - element-wise and reduction kernels.
//
// Purpose:
//   - Saturating clips used by every bound in the estimator (probabilities
//     into [0,1], weights into [0,∞)).
//   - Max reductions over leading axes (per-next-state worst case).
//   - Tolerant comparison for invariance checks.
//
// Determinism:
//   - Fixed loop orders; no allocation beyond the returned tensor.

package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// operation tags
const (
	opMaxLeading = "MaxLeading"
	opAllClose   = "AllClose"
)

// ClipValue clamps v into [lo, hi]. NaN saturates to lo so that floating-point
// drift can never leak a NaN out of a bound.
func ClipValue(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return lo
	case v < lo:
		return lo
	case v > hi:
		return hi
	}

	return v
}

// ClipInPlace clamps every element of xs into [lo, hi].
func ClipInPlace(xs []float64, lo, hi float64) {
	for i, v := range xs {
		xs[i] = ClipValue(v, lo, hi)
	}
}

// Square returns a copy of t with every element squared.
func Square(t *Dense) *Dense {
	out := t.Clone()
	for i, v := range out.data {
		out.data[i] = v * v
	}

	return out
}

// MaxLeading reduces t by taking the maximum over its first k axes.
// The result has shape t.Shape()[k:]. k must satisfy 1 ≤ k < Rank().
//
// Example: for L[s,a,s'] MaxLeading(L, 2) yields L̄[s'] = max_{s,a} L[s,a,s'].
// Complexity: O(Len()).
func MaxLeading(t *Dense, k int) (*Dense, error) {
	if err := ValidateNotNil(t); err != nil {
		return nil, tensorErrorf(opMaxLeading, err)
	}
	if k < 1 || k >= t.Rank() {
		return nil, tensorErrorf(opMaxLeading, ErrOutOfRange)
	}
	out, err := New(t.shape[k:]...)
	if err != nil {
		return nil, tensorErrorf(opMaxLeading, err)
	}
	inner := t.strides[k-1]
	rows := len(t.data) / inner
	copy(out.data, t.data[:inner])
	for r := 1; r < rows; r++ {
		row := t.data[r*inner : (r+1)*inner]
		for j, v := range row {
			if v > out.data[j] {
				out.data[j] = v
			}
		}
	}

	return out, nil
}

// Max returns the largest element of t.
func Max(t *Dense) float64 { return floats.Max(t.data) }

// AllClose reports whether a and b have identical shapes and
// |a-b| ≤ atol + rtol·|b| element-wise.
func AllClose(a, b *Dense, rtol, atol float64) (bool, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return false, tensorErrorf(opAllClose, err)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	for i, av := range a.data {
		bv := b.data[i]
		if av == bv {
			continue
		}
		if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
			return false, nil
		}
	}

	return true, nil
}
