// SPDX-License-Identifier: MIT

// Package tensor - Dense storage (row-major, N-d) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit offset formula
//     Σ idx[k]·stride[k], strides derived from the shape (last axis contiguous).
//   - Guarantee safety at the public surface: At/Set/Fiber return errors instead of panicking.
//   - Keep algorithmic determinism (fixed loop orders, no map iteration).
//
// AI-Hints:
//   - Hot kernels should fetch a contiguous Fiber once per leading index and
//     loop over the returned slice instead of calling At per element.
//   - Data() exposes the backing buffer without copying; treat it as read-only
//     unless you own the tensor.
//
// Complexity quicksheet:
//   - New: O(Π shape) zero-init; At/Set/Offset: O(rank); Fiber: O(rank); Clone: O(Π shape).

package tensor

import (
	"fmt"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxNew    = "New"
	ctxFrom   = "FromSlice"
	ctxAt     = "At"
	ctxSet    = "Set"
	ctxFiber  = "Fiber"
	ctxOffset = "Offset"
)

// Dense is a concrete row-major tensor of float64 values.
//   - shape holds the extent of each axis (all > 0).
//   - strides[k] is the distance in data between consecutive indices on axis k.
//   - data is a flat buffer of length Π shape.
type Dense struct {
	shape   []int     // axis extents
	strides []int     // row-major strides; strides[rank-1] == 1
	data    []float64 // contiguous row-major storage
}

// Compile-time assertion for fmt.Stringer conformance.
var _ fmt.Stringer = (*Dense)(nil)

// New creates a zero tensor with the given shape.
//
// Implementation:
//   - Stage 1: validate rank ≥ 1 and every axis > 0; else ErrBadShape.
//   - Stage 2: derive strides and allocate a zero-filled buffer.
//
// Complexity:
//   - Time O(Π shape), Space O(Π shape).
func New(shape ...int) (*Dense, error) {
	n, err := volume(shape)
	if err != nil {
		return nil, tensorErrorf(ctxNew, err)
	}

	return &Dense{
		shape:   append([]int(nil), shape...),
		strides: rowMajorStrides(shape),
		data:    make([]float64, n),
	}, nil
}

// FromSlice builds a tensor with the given shape from a copy of data.
// Returns ErrDimensionMismatch when len(data) != Π shape.
//
// Complexity: O(len(data)).
func FromSlice(data []float64, shape ...int) (*Dense, error) {
	n, err := volume(shape)
	if err != nil {
		return nil, tensorErrorf(ctxFrom, err)
	}
	if len(data) != n {
		return nil, tensorErrorf(ctxFrom, ErrDimensionMismatch)
	}
	buf := make([]float64, n)
	copy(buf, data)

	return &Dense{
		shape:   append([]int(nil), shape...),
		strides: rowMajorStrides(shape),
		data:    buf,
	}, nil
}

// volume returns Π shape or ErrBadShape.
func volume(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, ErrBadShape
	}
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return 0, ErrBadShape
		}
		n *= d
	}

	return n, nil
}

// rowMajorStrides computes strides with the last axis contiguous.
func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for k := len(shape) - 1; k >= 0; k-- {
		strides[k] = acc
		acc *= shape[k]
	}

	return strides
}

// Rank returns the number of axes.
func (t *Dense) Rank() int { return len(t.shape) }

// Shape returns a copy of the axis extents.
func (t *Dense) Shape() []int { return append([]int(nil), t.shape...) }

// Dim returns the extent of one axis; axis must be in [0, Rank()).
func (t *Dense) Dim(axis int) int { return t.shape[axis] }

// Len returns the total number of elements.
func (t *Dense) Len() int { return len(t.data) }

// Data returns the backing row-major buffer without copying.
//
// AI-Hints:
//   - Use for whole-tensor reductions (floats.Max, floats.Sum) and fast paths.
func (t *Dense) Data() []float64 { return t.data }

// Offset computes the flat offset of idx or returns ErrOutOfRange.
// Complexity: O(rank).
func (t *Dense) Offset(idx ...int) (int, error) {
	if len(idx) != len(t.shape) {
		return 0, tensorErrorf(ctxOffset, ErrOutOfRange)
	}
	off := 0
	for k, i := range idx {
		if i < 0 || i >= t.shape[k] {
			return 0, tensorErrorf(ctxOffset, ErrOutOfRange)
		}
		off += i * t.strides[k]
	}

	return off, nil
}

// At retrieves the element at idx.
// Complexity: O(rank).
func (t *Dense) At(idx ...int) (float64, error) {
	off, err := t.Offset(idx...)
	if err != nil {
		return 0, tensorErrorf(ctxAt, err)
	}

	return t.data[off], nil
}

// Set assigns v at idx.
// Complexity: O(rank).
func (t *Dense) Set(v float64, idx ...int) error {
	off, err := t.Offset(idx...)
	if err != nil {
		return tensorErrorf(ctxSet, err)
	}
	t.data[off] = v

	return nil
}

// Fiber returns the contiguous sub-slice addressed by a prefix of indices.
// With len(prefix) == Rank()-1 this is the innermost row; with an empty
// prefix it is the whole buffer. The slice aliases the tensor storage.
//
// Complexity: O(len(prefix)).
//
// AI-Hints:
//   - Kernel[s,a,:] is Fiber(s, a); fetch it once per (s,a) in hot loops.
func (t *Dense) Fiber(prefix ...int) ([]float64, error) {
	if len(prefix) > len(t.shape) {
		return nil, tensorErrorf(ctxFiber, ErrOutOfRange)
	}
	off := 0
	for k, i := range prefix {
		if i < 0 || i >= t.shape[k] {
			return nil, tensorErrorf(ctxFiber, ErrOutOfRange)
		}
		off += i * t.strides[k]
	}
	span := len(t.data)
	if len(prefix) > 0 {
		span = t.strides[len(prefix)-1]
	}

	return t.data[off : off+span : off+span], nil
}

// Clone returns a deep copy.
// Complexity: O(Len()).
func (t *Dense) Clone() *Dense {
	return &Dense{
		shape:   append([]int(nil), t.shape...),
		strides: append([]int(nil), t.strides...),
		data:    append([]float64(nil), t.data...),
	}
}

// String renders the innermost rows, one per line, prefixed with their index.
// Intended for debugging small tensors.
func (t *Dense) String() string {
	var b strings.Builder
	inner := t.shape[len(t.shape)-1]
	rows := len(t.data) / inner
	idx := make([]int, len(t.shape)-1)
	for r := 0; r < rows; r++ {
		if len(idx) > 0 {
			fmt.Fprintf(&b, "%v ", idx)
		}
		b.WriteString("[")
		for j := 0; j < inner; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", t.data[r*inner+j])
		}
		b.WriteString("]\n")
		// advance the row-major prefix counter
		for k := len(idx) - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < t.shape[k] {
				break
			}
			idx[k] = 0
		}
	}

	return b.String()
}
