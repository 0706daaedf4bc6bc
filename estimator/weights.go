// SPDX-License-Identifier: MIT

package estimator

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/minweights/aggregate"
	"github.com/katalvlaran/minweights/discrepancy"
	"github.com/katalvlaran/minweights/optimizer"
	"github.com/katalvlaran/minweights/tensor"
)

// Flavor selects one of the three weight estimators.
type Flavor int

const (
	// Gradient weights samples for the policy-gradient estimate, grouped by (s,a).
	Gradient Flavor = iota
	// LSTDQ weights samples for LSTD-Q, grouped by (s,a,s',a').
	LSTDQ
	// LSTDV weights samples for LSTD-V, grouped by (s,a,s').
	LSTDV
)

// String implements fmt.Stringer.
func (f Flavor) String() string {
	switch f {
	case Gradient:
		return "gradient"
	case LSTDQ:
		return "lstdq"
	case LSTDV:
		return "lstdv"
	}

	return "unknown"
}

// Estimate is the outcome of one EstimateWeights* call.
//   - Weights has one entry per source sample, tasks concatenated in the
//     order they were added, samples in original batch order.
//   - Result is the group-level solver output (W, Value, Initial, Status).
type Estimate struct {
	Weights []float64
	Result  *optimizer.Result
}

// EstimateWeightsGradient solves for gradient weights matching targetGrad,
// the target policy-gradient vector, with targetSize target samples.
// The statistics are scaled by 1/(1−γ).
func (e *Estimator) EstimateWeightsGradient(targetSize int, targetGrad []float64) (*Estimate, error) {
	const tag = "EstimateWeightsGradient"
	if !e.opts.gradient {
		return nil, estimatorErrorf(tag, ErrFlagDisabled)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.sources) == 0 {
		return nil, estimatorErrorf(tag, ErrNoSources)
	}
	if !e.gradReady {
		return nil, estimatorErrorf(tag, ErrNotPrepared)
	}
	if targetSize < 0 || len(targetGrad) != e.sources[0].eta.Dim(1) {
		return nil, estimatorErrorf(tag, ErrMismatch)
	}

	blocks := make([]optimizer.Block, len(e.sources))
	groups := make([]*aggregate.Grouping, len(e.sources))
	for j, st := range e.sources {
		blocks[j] = block(st.GradGroups, st.eta, tensor.Square(st.eta), st.gradBounds)
		groups[j] = st.GradGroups
	}

	est, err := e.solve(Gradient, groups, optimizer.Problem{
		Blocks:     blocks,
		Target:     targetGrad,
		TargetSize: targetSize,
		Scale:      1 / (1 - e.gamma),
	})
	if err != nil {
		return nil, estimatorErrorf(tag, err)
	}

	return est, nil
}

// EstimateWeightsLSTDQ solves for LSTD-Q weights matching the target system
// (A, b); A is K×K and b has K entries, K the number of Q features.
func (e *Estimator) EstimateWeightsLSTDQ(targetSize int, A mat.Matrix, b []float64) (*Estimate, error) {
	const tag = "EstimateWeightsLSTDQ"
	if !e.opts.lstdQ {
		return nil, estimatorErrorf(tag, ErrFlagDisabled)
	}
	est, err := e.estimateLSTD(LSTDQ, targetSize, A, b)
	if err != nil {
		return nil, estimatorErrorf(tag, err)
	}

	return est, nil
}

// EstimateWeightsLSTDV solves for LSTD-V weights matching the target system
// (A, b); A is K×K and b has K entries, K the number of V features.
func (e *Estimator) EstimateWeightsLSTDV(targetSize int, A mat.Matrix, b []float64) (*Estimate, error) {
	const tag = "EstimateWeightsLSTDV"
	if !e.opts.lstdV {
		return nil, estimatorErrorf(tag, ErrFlagDisabled)
	}
	est, err := e.estimateLSTD(LSTDV, targetSize, A, b)
	if err != nil {
		return nil, estimatorErrorf(tag, err)
	}

	return est, nil
}

func (e *Estimator) estimateLSTD(f Flavor, targetSize int, A mat.Matrix, b []float64) (*Estimate, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.sources) == 0 {
		return nil, ErrNoSources
	}
	if !e.lstdReady {
		return nil, ErrNotPrepared
	}
	if A == nil || targetSize < 0 {
		return nil, ErrMismatch
	}
	r, c := A.Dims()
	if r != c || len(b) != r {
		return nil, ErrMismatch
	}
	target := make([]float64, 0, r*r+r)
	for i := 0; i < r; i++ {
		for k := 0; k < r; k++ {
			target = append(target, A.At(i, k))
		}
	}
	target = append(target, b...)

	blocks := make([]optimizer.Block, len(e.sources))
	groups := make([]*aggregate.Grouping, len(e.sources))
	for j, st := range e.sources {
		g, stats, bd := st.QGroups, st.QStats, st.qBounds
		if f == LSTDV {
			g, stats, bd = st.VGroups, st.VStats, st.vBounds
		}
		if stats.Features() != r {
			return nil, ErrMismatch
		}
		x, xsq := stats.Flatten()
		blocks[j] = block(g, x, xsq, bd)
		groups[j] = g
	}

	return e.solve(f, groups, optimizer.Problem{
		Blocks:     blocks,
		Target:     target,
		TargetSize: targetSize,
		Scale:      1,
	})
}

func block(g *aggregate.Grouping, x, xsq *tensor.Dense, bd *discrepancy.Bounds) optimizer.Block {
	return optimizer.Block{
		X:          x,
		XSq:        xsq,
		GroupSizes: g.Sizes,
		Size:       g.Samples(),
		Lower:      bd.Lower,
		Upper:      bd.Upper,
	}
}

// solve runs the optimizer and expands the group weights back to samples.
func (e *Estimator) solve(f Flavor, groups []*aggregate.Grouping, p optimizer.Problem) (*Estimate, error) {
	obj, err := optimizer.NewObjective(p)
	if err != nil {
		return nil, err
	}
	res := optimizer.Solve(obj, e.opts.settings)

	weights := make([]float64, 0, e.size)
	for j, g := range groups {
		w, err := aggregate.Expand(g, obj.Split(res.W, j))
		if err != nil {
			return nil, err
		}
		weights = append(weights, w...)
	}
	e.log.Info("weights estimated",
		slog.String("flavor", f.String()),
		slog.Int("groups", obj.Dim()),
		slog.String("status", res.Status),
		slog.Int("iterations", res.Iterations),
		slog.Float64("objective_initial", res.Initial),
		slog.Float64("objective", res.Value))

	return &Estimate{Weights: weights, Result: res}, nil
}

// SampleBounds returns the per-sample weight bounds of the prepared request
// of flavor f, laid out like Estimate.Weights.
func (e *Estimator) SampleBounds(f Flavor) (lower, upper []float64, err error) {
	const tag = "SampleBounds"
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.sources) == 0 {
		return nil, nil, estimatorErrorf(tag, ErrNoSources)
	}
	if (f == Gradient && !e.gradReady) || (f != Gradient && !e.lstdReady) {
		return nil, nil, estimatorErrorf(tag, ErrNotPrepared)
	}
	for _, st := range e.sources {
		g, bd := st.GradGroups, st.gradBounds
		switch f {
		case LSTDQ:
			g, bd = st.QGroups, st.qBounds
		case LSTDV:
			g, bd = st.VGroups, st.vBounds
		}
		if g == nil || bd == nil {
			return nil, nil, estimatorErrorf(tag, ErrFlagDisabled)
		}
		lo, err := aggregate.Expand(g, bd.Lower)
		if err != nil {
			return nil, nil, estimatorErrorf(tag, err)
		}
		up, err := aggregate.Expand(g, bd.Upper)
		if err != nil {
			return nil, nil, estimatorErrorf(tag, err)
		}
		lower = append(lower, lo...)
		upper = append(upper, up...)
	}

	return lower, upper, nil
}
