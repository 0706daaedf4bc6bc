// SPDX-License-Identifier: MIT

package bound

import (
	"context"
	"math"

	"github.com/sourcegraph/conc/pool"

	"github.com/katalvlaran/minweights/mdp"
	"github.com/katalvlaran/minweights/tensor"
)

// Bound is the transition-sensitivity bound of one task.
//   - L[s,a,s'] ≥ 0 bounds |∂P[s,a,s']/∂θ| over the parameter range.
//   - Max[s'] = max_{s,a} L[s,a,s'] is the state/action-independent reduction.
type Bound struct {
	L   *tensor.Dense
	Max []float64
}

// Compute evaluates the transition bound for every (s, a, s') of grid.
//
// Implementation:
//   - Stage 1: per axis, locate the density-difference peak of each interior bin (rootfind).
//   - Stage 2: per (s,a), evaluate dyn.Step at the two boundary parameters; derive
//     per-axis density bounds M_e and mass bounds M_P for every bin.
//   - Stage 3: L[s,a,(v,p)] = |slope_v|/(√(2π)σ_v)·M_e^v[v]·M_P^p[p]
//     + |slope_p|/(√(2π)σ_p)·M_P^v[v]·M_e^p[p], where slope bounds |∂mean/∂θ|:
//     |action| on both axes, or whatever dyn reports through mdp.SlopeBounder.
//     The secant between the boundary means is not a bound once Step saturates.
//   - Stage 4: reject any non-finite entry (NaN from Step or SlopeBounder)
//     and reduce Max[s'] = max over (s,a).
//
// States are processed concurrently on a bounded pool; each worker owns the
// rows L[s,:,:] so no synchronization is needed. dyn must be safe for
// concurrent use.
//
// Complexity: O(S·A·S) time, O(S·A·S) space.
func Compute(ctx context.Context, grid *mdp.Grid, dyn mdp.Dynamics, opts ...Option) (*Bound, error) {
	const tag = "Compute"
	if grid == nil {
		return nil, boundErrorf(tag, ErrNilGrid)
	}
	if dyn == nil {
		return nil, boundErrorf(tag, ErrNilDynamics)
	}
	o := gatherOptions(opts...)

	pkPos, err := findPeaks(grid.Position)
	if err != nil {
		return nil, boundErrorf(tag, err)
	}
	pkVel, err := findPeaks(grid.Velocity)
	if err != nil {
		return nil, boundErrorf(tag, err)
	}

	nS, nA := grid.NumStates(), grid.NumActions()
	L, err := tensor.New(nS, nA, nS)
	if err != nil {
		return nil, boundErrorf(tag, err)
	}

	p := pool.New().WithMaxGoroutines(o.workers).WithContext(ctx).WithCancelOnError()
	for s := 0; s < nS; s++ {
		s := s
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fillState(grid, dyn, o, pkPos, pkVel, L, s)
		})
	}
	if err = p.Wait(); err != nil {
		return nil, boundErrorf(tag, err)
	}
	if err = tensor.ValidateRange(L, 0, math.Inf(1)); err != nil {
		return nil, boundErrorf(tag, err)
	}

	red, err := tensor.MaxLeading(L, 2)
	if err != nil {
		return nil, boundErrorf(tag, err)
	}

	return &Bound{L: L, Max: red.Data()}, nil
}

// fillState writes L[s,a,:] for every action.
func fillState(grid *mdp.Grid, dyn mdp.Dynamics, o Options, pkPos, pkVel peaks, L *tensor.Dense, s int) error {
	nPos, nVel := grid.Position.Bins(), grid.Velocity.Bins()
	mePos, mpPos := make([]float64, nPos), make([]float64, nPos)
	meVel, mpVel := make([]float64, nVel), make([]float64, nVel)
	cPos := 1 / (math.Sqrt(2*math.Pi) * grid.Position.Noise)
	cVel := 1 / (math.Sqrt(2*math.Pi) * grid.Velocity.Noise)

	rep := grid.StateRep(s)
	for a, act := range grid.Actions {
		lo := dyn.Step(rep, act, o.minParam)
		hi := dyn.Step(rep, act, o.maxParam)
		if len(lo) < 2 || len(hi) < 2 {
			return ErrDynamicsShape
		}
		spPos := span{atMin: lo[0], atMax: hi[0]}
		spVel := span{atMin: lo[1], atMax: hi[1]}
		axisBounds(grid.Position, pkPos, spPos, mePos, mpPos)
		axisBounds(grid.Velocity, pkVel, spVel, meVel, mpVel)

		slPos, slVel := math.Abs(act), math.Abs(act)
		if sb, ok := dyn.(mdp.SlopeBounder); ok {
			slPos, slVel = sb.Slopes(rep, act)
		}
		kPos := math.Abs(slPos) * cPos
		kVel := math.Abs(slVel) * cVel
		row, _ := L.Fiber(s, a)
		for v := 0; v < nVel; v++ {
			for p := 0; p < nPos; p++ {
				row[v*nPos+p] = kVel*meVel[v]*mpPos[p] + kPos*mpVel[v]*mePos[p]
			}
		}
	}

	return nil
}
