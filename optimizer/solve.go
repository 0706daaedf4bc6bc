// SPDX-License-Identifier: MIT

package optimizer

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/katalvlaran/minweights/tensor"
)

// Defaults (single source of truth).
const (
	// DefaultGradientThreshold stops L-BFGS when the gradient infinity-norm of
	// the normalized objective falls below it.
	DefaultGradientThreshold = 1e-9

	// DefaultMajorIterations caps L-BFGS iterations.
	DefaultMajorIterations = 1000

	// logitClamp keeps the starting point strictly inside the sigmoid range.
	logitClamp = 1e-12
)

// Status values reported when the solver is not run.
const (
	StatusFixed = "AllFixed"
)

// Settings tunes Solve. Zero fields select the defaults.
type Settings struct {
	GradientThreshold float64
	MajorIterations   int
	FuncEvaluations   int
}

// Result of Solve. W always lies inside the box and Value ≤ Initial.
type Result struct {
	W          []float64
	Value      float64 // f(W)
	Initial    float64 // f(1) after projection onto the box
	Status     string
	Iterations int
	// Improved is false when the solver could not beat the starting point and
	// W is the start itself.
	Improved bool
}

// Solve minimizes obj over its box starting from w = 1 (projected onto the box).
//
// Implementation:
//   - Stage 1: variables with Lower == Upper are fixed; the rest are mapped
//     through w = l + (u−l)·σ(z), so L-BFGS runs unconstrained in z.
//   - Stage 2: the objective is divided by f(w₀) for conditioning.
//   - Stage 3: gonum/optimize L-BFGS with the analytic gradient (chain rule
//     through the sigmoid).
//   - Stage 4: keep the better of the solver's point and w₀.
//
// Non-convergence is reported through Result.Status; it is never an error.
func Solve(obj *Objective, s Settings) *Result {
	lower, upper := obj.Bounds()
	w0 := make([]float64, obj.Dim())
	var free []int
	for i := range w0 {
		w0[i] = tensor.ClipValue(1, lower[i], upper[i])
		if upper[i] > lower[i] {
			free = append(free, i)
		}
	}
	f0, _, _ := obj.Evaluate(w0)
	res := &Result{W: w0, Value: f0, Initial: f0, Status: StatusFixed}
	if len(free) == 0 || f0 == 0 {
		return res
	}

	scale := 1 / f0
	w := append([]float64(nil), w0...)
	toW := func(z []float64) {
		for k, i := range free {
			w[i] = lower[i] + (upper[i]-lower[i])*sigmoid(z[k])
		}
	}
	z0 := make([]float64, len(free))
	for k, i := range free {
		frac := tensor.ClipValue((w0[i]-lower[i])/(upper[i]-lower[i]), logitClamp, 1-logitClamp)
		z0[k] = math.Log(frac / (1 - frac))
	}

	prob := optimize.Problem{
		Func: func(z []float64) float64 {
			toW(z)
			v, _, _ := obj.Evaluate(w)
			return v * scale
		},
		Grad: func(grad, z []float64) {
			toW(z)
			_, g, _ := obj.Evaluate(w)
			for k, i := range free {
				sg := sigmoid(z[k])
				grad[k] = g[i] * (upper[i] - lower[i]) * sg * (1 - sg) * scale
			}
		},
	}
	settings := &optimize.Settings{
		GradientThreshold: s.GradientThreshold,
		MajorIterations:   s.MajorIterations,
		FuncEvaluations:   s.FuncEvaluations,
	}
	if settings.GradientThreshold <= 0 {
		settings.GradientThreshold = DefaultGradientThreshold
	}
	if settings.MajorIterations <= 0 {
		settings.MajorIterations = DefaultMajorIterations
	}

	out, err := optimize.Minimize(prob, z0, settings, &optimize.LBFGS{})
	if out == nil {
		if err != nil {
			res.Status = err.Error()
		}
		return res
	}
	res.Status = out.Status.String()
	res.Iterations = out.Stats.MajorIterations

	toW(out.X)
	cand := append([]float64(nil), w...)
	for i := range cand {
		cand[i] = tensor.ClipValue(cand[i], lower[i], upper[i])
	}
	if v, _, _ := obj.Evaluate(cand); v <= f0 && !math.IsNaN(v) {
		res.W, res.Value, res.Improved = cand, v, v < f0
	}

	return res
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)

	return e / (1 + e)
}
