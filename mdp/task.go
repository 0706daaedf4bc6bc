// SPDX-License-Identifier: MIT

package mdp

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/minweights/tensor"
)

// Task is an immutable discretized source task: kernel, occupancies under the
// behavior policy that generated its samples, the fixed-point inverse
// (I − γ·P_π)⁻¹ and the physical parameter it was simulated with.
type Task struct {
	grid       *Grid
	policy     *Policy
	kernel     *tensor.Dense // [S,A,S]
	zeta       *tensor.Dense // [S,A] state-action occupancy
	delta      []float64     // [S] state occupancy
	fixedPoint *mat.Dense    // (I − γ·P_π)⁻¹, S×S
	gamma      float64
	parameter  float64
}

// NewTask derives occupancies for kernel under policy.
//
// Implementation:
//   - Stage 1: validate shapes, γ ∈ [0,1) and that initial is a distribution over states.
//   - Stage 2: P_π[s,s'] = Σ_a π[s,a]·P[s,a,s']; invert I − γ·P_π (gonum mat).
//   - Stage 3: δ = (1−γ)·((I−γP_π)⁻¹)ᵀ·μ₀ and ζ[s,a] = δ[s]·π[s,a].
//
// Complexity: O(S²·A + S³).
func NewTask(grid *Grid, kernel *tensor.Dense, policy *Policy, initial []float64, gamma, parameter float64) (*Task, error) {
	const tag = "NewTask"
	if gamma < 0 || gamma >= 1 || math.IsNaN(gamma) {
		return nil, mdpErrorf(tag, ErrBadDiscount)
	}
	if err := ValidateKernel(grid, kernel); err != nil {
		return nil, mdpErrorf(tag, err)
	}
	nS, nA := grid.NumStates(), grid.NumActions()
	if policy.NumStates() != nS || policy.NumActions() != nA || len(initial) != nS {
		return nil, mdpErrorf(tag, ErrShape)
	}
	if err := validateRows(initial, nS); err != nil {
		return nil, mdpErrorf(tag, err)
	}

	op := mat.NewDense(nS, nS, nil)
	for s := 0; s < nS; s++ {
		for a := 0; a < nA; a++ {
			pi := policy.Prob(s, a)
			if pi == 0 {
				continue
			}
			row, _ := kernel.Fiber(s, a)
			for s2, p := range row {
				op.Set(s, s2, op.At(s, s2)-gamma*pi*p)
			}
		}
		op.Set(s, s, op.At(s, s)+1)
	}
	var inv mat.Dense
	if err := inv.Inverse(op); err != nil {
		return nil, mdpErrorf(tag, ErrSingular)
	}

	var d mat.VecDense
	d.MulVec(inv.T(), mat.NewVecDense(nS, append([]float64(nil), initial...)))
	d.ScaleVec(1-gamma, &d)
	delta := make([]float64, nS)
	for s := range delta {
		delta[s] = math.Max(d.AtVec(s), 0)
	}

	zeta, _ := tensor.New(nS, nA)
	for s := 0; s < nS; s++ {
		row, _ := zeta.Fiber(s)
		for a := range row {
			row[a] = delta[s] * policy.Prob(s, a)
		}
	}

	return &Task{
		grid:       grid,
		policy:     policy,
		kernel:     kernel.Clone(),
		zeta:       zeta,
		delta:      delta,
		fixedPoint: &inv,
		gamma:      gamma,
		parameter:  parameter,
	}, nil
}

// Grid returns the task's state-action grid.
func (t *Task) Grid() *Grid { return t.grid }

// Policy returns the behavior policy the occupancies were derived under.
func (t *Task) Policy() *Policy { return t.policy }

// Kernel returns P[s,a,s']. Callers must not modify it.
func (t *Task) Kernel() *tensor.Dense { return t.kernel }

// StateActionOccupancy returns ζ[s,a]. Callers must not modify it.
func (t *Task) StateActionOccupancy() *tensor.Dense { return t.zeta }

// StateOccupancy returns a copy of δ[s].
func (t *Task) StateOccupancy() []float64 { return append([]float64(nil), t.delta...) }

// Gamma returns the discount factor.
func (t *Task) Gamma() float64 { return t.gamma }

// Parameter returns the physical parameter the task was simulated with.
func (t *Task) Parameter() float64 { return t.parameter }

// PropagateOccupancy maps a per-state perturbation v to its effect on the
// state occupancy: (1−γ)·((I−γP_π)⁻¹)ᵀ·v.
func (t *Task) PropagateOccupancy(v []float64) ([]float64, error) {
	n := t.grid.NumStates()
	if len(v) != n {
		return nil, mdpErrorf("PropagateOccupancy", ErrShape)
	}
	var out mat.VecDense
	out.MulVec(t.fixedPoint.T(), mat.NewVecDense(n, append([]float64(nil), v...)))
	out.ScaleVec(1-t.gamma, &out)

	return append([]float64(nil), out.RawVector().Data...), nil
}
