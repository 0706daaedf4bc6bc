// SPDX-License-Identifier: MIT

package confint

import "math"

// Defaults (single source of truth).
const (
	// DefaultAlpha gives 90% intervals.
	DefaultAlpha = 0.1

	// MinAlpha is the smallest α accepted by Build.
	MinAlpha = 1e-4

	// DefaultTolerance is the absolute accuracy of every root in the construction.
	DefaultTolerance = 1e-10

	// DefaultMaxDoublings caps each exponential bracket search.
	DefaultMaxDoublings = 64
)

const (
	panicAlpha     = "confint: WithAlpha: alpha must not be NaN"
	panicTolerance = "confint: WithTolerance: tol must be finite and > 0"
	panicDoublings = "confint: WithMaxDoublings: n must be ≥ 1"
)

// Option mutates Options.
type Option func(*Options)

// Options holds the resolved configuration of Build.
type Options struct {
	alpha     float64
	tol       float64
	doublings int
}

// WithAlpha sets the miscoverage α of the 1−α interval. Values outside
// [MinAlpha, 1) are reported by Build as ErrInfeasible; NaN panics.
func WithAlpha(alpha float64) Option {
	if math.IsNaN(alpha) {
		panic(panicAlpha)
	}

	return func(o *Options) { o.alpha = alpha }
}

// WithTolerance sets the root-finding tolerance. Panics unless tol > 0 and finite.
func WithTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic(panicTolerance)
	}

	return func(o *Options) { o.tol = tol }
}

// WithMaxDoublings caps each bracket search. Panics when n < 1.
func WithMaxDoublings(n int) Option {
	if n < 1 {
		panic(panicDoublings)
	}

	return func(o *Options) { o.doublings = n }
}

func gatherOptions(opts ...Option) Options {
	o := Options{alpha: DefaultAlpha, tol: DefaultTolerance, doublings: DefaultMaxDoublings}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
