// SPDX-License-Identifier: MIT

// Package rootfind provides guaranteed-convergence scalar root finding:
// exponential bracketing followed by bisection.
//
// Every routine in minweights that needs a root (the peak of a bin's density
// difference, noncentrality parameters of a chi distribution, endpoints of a
// highest-density region) goes through this package, so the numeric path is
// always "find a sign change, then halve it" and never an unconstrained solve
// from an arbitrary seed.
//
// Determinism:
//   - Fixed iteration orders; the same inputs always produce the same root.
//
// Complexity:
//   - Bisect: O(log2((hi-lo)/tol)) evaluations, capped by MaxIterations.
//   - Expand: O(log2(limit/start)) evaluations, capped by MaxDoublings.
package rootfind

import (
	"errors"
	"math"
)

// Defaults (single source of truth).
const (
	// DefaultTolerance is the absolute bracket width at which Bisect stops.
	DefaultTolerance = 1e-12

	// MaxIterations caps Bisect; 200 halvings exhaust float64 precision for
	// any finite bracket.
	MaxIterations = 200

	// MaxDoublings caps Expand.
	MaxDoublings = 64
)

var (
	// ErrNoSignChange is returned when f(lo) and f(hi) have the same strict sign.
	ErrNoSignChange = errors.New("rootfind: no sign change on bracket")

	// ErrNoBracket is returned when Expand exhausts its doublings.
	ErrNoBracket = errors.New("rootfind: bracket not found")

	// ErrNaN is returned when f evaluates to NaN inside the search.
	ErrNaN = errors.New("rootfind: function returned NaN")
)

// Func is a scalar function of one variable.
type Func func(x float64) float64

// Bisect returns x in [lo, hi] with f(x) ≈ 0, given f(lo) and f(hi) of opposite
// sign (or one of them zero). The search stops once the bracket is narrower
// than tol (DefaultTolerance when tol ≤ 0) or after MaxIterations halvings.
//
// The returned point is the midpoint of the final bracket.
func Bisect(f Func, lo, hi, tol float64) (float64, error) {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	flo, fhi := f(lo), f(hi)
	if math.IsNaN(flo) || math.IsNaN(fhi) {
		return 0, ErrNaN
	}
	if flo == 0 {
		return lo, nil
	}
	if fhi == 0 {
		return hi, nil
	}
	if (flo > 0) == (fhi > 0) {
		return 0, ErrNoSignChange
	}

	for i := 0; i < MaxIterations && hi-lo > tol; i++ {
		mid := lo + (hi-lo)/2
		if mid == lo || mid == hi {
			break // bracket at float64 resolution
		}
		fm := f(mid)
		if math.IsNaN(fm) {
			return 0, ErrNaN
		}
		if fm == 0 {
			return mid, nil
		}
		if (fm > 0) == (flo > 0) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}

	return lo + (hi-lo)/2, nil
}

// Expand searches for hi ≥ start such that the sign of f(hi) differs from the
// sign of f(from), doubling hi starting at start (start must be > from).
// It returns the last two probe points (lo, hi) so the caller can bisect on
// the tight bracket.
func Expand(f Func, from, start float64) (lo, hi float64, err error) {
	return ExpandLimit(f, from, start, MaxDoublings)
}

// ExpandLimit is Expand with an explicit cap on the number of doublings
// (MaxDoublings when limit ≤ 0).
func ExpandLimit(f Func, from, start float64, limit int) (lo, hi float64, err error) {
	if limit <= 0 {
		limit = MaxDoublings
	}
	if start <= from {
		start = from + 1
	}
	f0 := f(from)
	if math.IsNaN(f0) {
		return 0, 0, ErrNaN
	}
	lo, hi = from, start
	step := start - from
	for i := 0; i < limit; i++ {
		fh := f(hi)
		if math.IsNaN(fh) {
			return 0, 0, ErrNaN
		}
		if fh == 0 || (fh > 0) != (f0 > 0) {
			return lo, hi, nil
		}
		lo = hi
		step *= 2
		hi = from + step
	}

	return 0, 0, ErrNoBracket
}

// Solve composes Expand and Bisect: the root of f above from, searching
// outward from start.
func Solve(f Func, from, start, tol float64) (float64, error) {
	lo, hi, err := Expand(f, from, start)
	if err != nil {
		return 0, err
	}

	return Bisect(f, lo, hi, tol)
}
