// SPDX-License-Identifier: MIT
// Package tensor: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the tensor
// package. Kernels return these sentinels (optionally wrapped with a call-site
// tag via tensorErrorf) and tests check them via errors.Is. No kernel panics on
// user-triggered error conditions.

package tensor

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "tensor: ..." for easy grepping across logs.
// If context is essential, wrap with tensorErrorf(tag, ErrX) at the detection
// site; callers still use errors.Is to match.

var (
	// ErrBadShape is returned when a requested shape is invalid (rank 0 or an axis ≤ 0).
	ErrBadShape = errors.New("tensor: invalid shape")

	// ErrOutOfRange indicates that an index is outside valid bounds for its axis,
	// or that the number of indices does not match the rank.
	ErrOutOfRange = errors.New("tensor: index out of range")

	// ErrDimensionMismatch indicates incompatible shapes between operands or a
	// backing slice whose length does not match the product of the shape.
	ErrDimensionMismatch = errors.New("tensor: dimension mismatch")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("tensor: NaN or Inf encountered")

	// ErrNilTensor indicates that a nil *Dense was used.
	ErrNilTensor = errors.New("tensor: nil tensor")

	// ErrOutOfBounds signals a value outside the range required by a validator
	// (e.g., a probability outside [0,1]).
	ErrOutOfBounds = errors.New("tensor: value out of bounds")
)

// tensorErrorf wraps err with an operation tag, preserving the sentinel via %w.
// Use only when err != nil.
func tensorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
