// SPDX-License-Identifier: MIT

package bound

import (
	"math"
	"runtime"
)

// Defaults (single source of truth).
const (
	// DefaultMinParameter is the lower end of the physical-parameter range.
	DefaultMinParameter = 0.0

	// DefaultMaxParameter is the upper end of the physical-parameter range.
	DefaultMaxParameter = 0.5
)

const (
	panicWorkers = "bound: WithWorkers: n must be ≥ 1"
	panicRange   = "bound: WithParameterRange: need finite min < max"
)

// Option mutates Options.
type Option func(*Options)

// Options holds the resolved configuration of Compute.
type Options struct {
	workers  int
	minParam float64
	maxParam float64
}

// WithWorkers bounds the number of goroutines used across states.
// Panics when n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkers)
	}

	return func(o *Options) { o.workers = n }
}

// WithParameterRange sets the boundary parameters at which Dynamics.Step is
// evaluated. Panics unless both are finite and min < max.
func WithParameterRange(min, max float64) Option {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) || !(min < max) {
		panic(panicRange)
	}

	return func(o *Options) { o.minParam, o.maxParam = min, max }
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		workers:  runtime.GOMAXPROCS(0),
		minParam: DefaultMinParameter,
		maxParam: DefaultMaxParameter,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
