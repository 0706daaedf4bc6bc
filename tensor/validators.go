// SPDX-License-Identifier: MIT
// Package: tensor
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels minimal by delegating nil/shape/finite/range checks here.
//  - Return sentinel errors wrapped with the validator tag so call sites can
//    wrap uniformly and callers can match with errors.Is.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.

package tensor

import "math"

// ValidateNotNil ensures the tensor reference is non-nil.
func ValidateNotNil(t *Dense) error {
	if t == nil {
		return tensorErrorf("ValidateNotNil", ErrNilTensor)
	}

	return nil
}

// ValidateShape ensures t is non-nil and has exactly the given shape.
// Complexity: O(rank).
func ValidateShape(t *Dense, shape ...int) error {
	if err := ValidateNotNil(t); err != nil {
		return tensorErrorf("ValidateShape", err)
	}
	if len(shape) != len(t.shape) {
		return tensorErrorf("ValidateShape", ErrDimensionMismatch)
	}
	for k, d := range shape {
		if t.shape[k] != d {
			return tensorErrorf("ValidateShape", ErrDimensionMismatch)
		}
	}

	return nil
}

// ValidateSameShape – Composite: NotNil(a) → NotNil(b) → equal shapes.
func ValidateSameShape(a, b *Dense) error {
	if err := ValidateNotNil(a); err != nil {
		return tensorErrorf("ValidateSameShape", err)
	}
	if err := ValidateShape(b, a.shape...); err != nil {
		return tensorErrorf("ValidateSameShape", err)
	}

	return nil
}

// ValidateFinite rejects NaN and ±Inf entries.
// Complexity: O(Len()).
func ValidateFinite(t *Dense) error {
	if err := ValidateNotNil(t); err != nil {
		return tensorErrorf("ValidateFinite", err)
	}
	for _, v := range t.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return tensorErrorf("ValidateFinite", ErrNaNInf)
		}
	}

	return nil
}

// ValidateRange ensures every entry is finite and lies in [lo, hi].
// Complexity: O(Len()).
func ValidateRange(t *Dense, lo, hi float64) error {
	if err := ValidateFinite(t); err != nil {
		return tensorErrorf("ValidateRange", err)
	}
	for _, v := range t.data {
		if v < lo || v > hi {
			return tensorErrorf("ValidateRange", ErrOutOfBounds)
		}
	}

	return nil
}
