// SPDX-License-Identifier: MIT

package estimator

import (
	"log/slog"
	"math"
	"runtime"

	"github.com/katalvlaran/minweights/bound"
	"github.com/katalvlaran/minweights/confint"
	"github.com/katalvlaran/minweights/discrepancy"
	"github.com/katalvlaran/minweights/optimizer"
)

const (
	panicWorkers = "estimator: WithWorkers: n must be ≥ 1"
	panicRange   = "estimator: WithParameterRange: need finite min < max"
	panicFloor   = "estimator: WithDensityFloor: floor must be finite and ≥ 0"
	panicLogger  = "estimator: WithLogger: logger must not be nil"
	panicAlpha   = "estimator: WithAlpha: alpha must be in (0,1)"
)

// Option mutates Options.
type Option func(*Options)

// Options holds the resolved configuration of an Estimator.
type Options struct {
	gradient bool
	lstdQ    bool
	lstdV    bool

	minParam float64
	maxParam float64
	floor    float64
	workers  int
	alpha    float64

	settings optimizer.Settings
	logger   *slog.Logger
}

// WithGradient toggles the policy-gradient flavor (enabled by default).
func WithGradient(on bool) Option { return func(o *Options) { o.gradient = on } }

// WithLSTDQ toggles the LSTD-Q flavor (enabled by default).
func WithLSTDQ(on bool) Option { return func(o *Options) { o.lstdQ = on } }

// WithLSTDV toggles the LSTD-V flavor (enabled by default).
func WithLSTDV(on bool) Option { return func(o *Options) { o.lstdV = on } }

// WithParameterRange sets the boundary parameters handed to the transition
// bound. Panics unless min < max and both are finite.
func WithParameterRange(min, max float64) Option {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) || !(min < max) {
		panic(panicRange)
	}

	return func(o *Options) { o.minParam, o.maxParam = min, max }
}

// WithDensityFloor sets the source density at or below which a weight bound fails.
func WithDensityFloor(floor float64) Option {
	if math.IsNaN(floor) || math.IsInf(floor, 0) || floor < 0 {
		panic(panicFloor)
	}

	return func(o *Options) { o.floor = floor }
}

// WithWorkers bounds per-task concurrency. Panics when n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkers)
	}

	return func(o *Options) { o.workers = n }
}

// WithLogger replaces the default logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicLogger)
	}

	return func(o *Options) { o.logger = l }
}

// WithOptimizerSettings tunes the weight solver.
func WithOptimizerSettings(s optimizer.Settings) Option {
	return func(o *Options) { o.settings = s }
}

// WithAlpha sets the miscoverage of BuildCI. Panics outside (0,1).
func WithAlpha(alpha float64) Option {
	if !(alpha > 0 && alpha < 1) {
		panic(panicAlpha)
	}

	return func(o *Options) { o.alpha = alpha }
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		gradient: true,
		lstdQ:    true,
		lstdV:    true,
		minParam: bound.DefaultMinParameter,
		maxParam: bound.DefaultMaxParameter,
		floor:    discrepancy.DefaultDensityFloor,
		workers:  runtime.GOMAXPROCS(0),
		alpha:    confint.DefaultAlpha,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
