// SPDX-License-Identifier: MIT

package discrepancy

import (
	"math"

	"github.com/katalvlaran/minweights/bound"
	"github.com/katalvlaran/minweights/mdp"
	"github.com/katalvlaran/minweights/tensor"
)

// DefaultDensityFloor is the source density at or below which a weight bound
// is rejected with ErrZeroDensity.
const DefaultDensityFloor = 1e-12

// Input is one source task paired with a target request.
type Input struct {
	Task            *mdp.Task
	Source          *mdp.Policy // behavior policy that generated the task's samples
	Target          *mdp.Policy
	TargetParameter float64
	Bound           *bound.Bound
}

// Propagation holds the per-request discrepancy of one source task. It reads
// but never modifies the cached task and bound.
type Propagation struct {
	task   *mdp.Task
	source *mdp.Policy
	target *mdp.Policy
	L      *tensor.Dense

	dTheta  float64       // |θ_source − θ_target|
	piDiff  *tensor.Dense // |π_s − π_t| [S,A]
	kernelD []float64     // ΔP̄[s'] = max_s ΔP[s,s']
	stateD  []float64     // Δδ[s]
	saD     *tensor.Dense // Δζ[s,a]
}

// Propagate pushes the transition bound and the policy mismatch through the
// occupancy distributions of in.Task.
//
// Implementation:
//   - Stage 1: ΔP[s,s'] = Σ_a (P[s,a,s']·|π_s−π_t|[s,a] + π_t[s,a]·L[s,a,s']·Δθ); ΔP̄ = max_s ΔP.
//   - Stage 2: Δδ = (1−γ)·((I−γP_π)⁻¹)ᵀ·(γ·clip(ΔP̄,0,1)).
//   - Stage 3: Δζ[s,a] = δ[s]·|π_s−π_t|[s,a] + π_t[s,a]·clip(Δδ[s],0,1).
//
// Complexity: O(S²·A + S²).
func Propagate(in Input) (*Propagation, error) {
	const tag = "Propagate"
	if in.Task == nil || in.Source == nil || in.Target == nil || in.Bound == nil || in.Bound.L == nil {
		return nil, discrepancyErrorf(tag, ErrNilInput)
	}
	grid := in.Task.Grid()
	nS, nA := grid.NumStates(), grid.NumActions()
	if err := tensor.ValidateShape(in.Bound.L, nS, nA, nS); err != nil {
		return nil, discrepancyErrorf(tag, ErrShape)
	}
	piDiff, err := in.Source.AbsDiff(in.Target)
	if err != nil || in.Source.NumStates() != nS || in.Source.NumActions() != nA {
		return nil, discrepancyErrorf(tag, ErrShape)
	}

	p := &Propagation{
		task:   in.Task,
		source: in.Source,
		target: in.Target,
		L:      in.Bound.L,
		dTheta: math.Abs(in.Task.Parameter() - in.TargetParameter),
		piDiff: piDiff,
	}

	kernel := in.Task.Kernel()
	p.kernelD = make([]float64, nS)
	row := make([]float64, nS)
	for s := 0; s < nS; s++ {
		for i := range row {
			row[i] = 0
		}
		for a := 0; a < nA; a++ {
			pk, _ := kernel.Fiber(s, a)
			lk, _ := p.L.Fiber(s, a)
			mis := piDiff.Data()[s*nA+a]
			pt := in.Target.Prob(s, a)
			for s2 := range row {
				row[s2] += pk[s2]*mis + pt*lk[s2]*p.dTheta
			}
		}
		for s2, v := range row {
			if v > p.kernelD[s2] {
				p.kernelD[s2] = v
			}
		}
	}

	gamma := in.Task.Gamma()
	push := append([]float64(nil), p.kernelD...)
	tensor.ClipInPlace(push, 0, 1)
	for s2 := range push {
		push[s2] *= gamma
	}
	if p.stateD, err = in.Task.PropagateOccupancy(push); err != nil {
		return nil, discrepancyErrorf(tag, err)
	}

	delta := in.Task.StateOccupancy()
	p.saD, _ = tensor.New(nS, nA)
	for s := 0; s < nS; s++ {
		dd := tensor.ClipValue(p.stateD[s], 0, 1)
		for a := 0; a < nA; a++ {
			i := s*nA + a
			p.saD.Data()[i] = delta[s]*piDiff.Data()[i] + in.Target.Prob(s, a)*dd
		}
	}

	return p, nil
}

// ParameterGap returns |θ_source − θ_target|.
func (p *Propagation) ParameterGap() float64 { return p.dTheta }

// KernelDiscrepancy returns a copy of ΔP̄[s'].
func (p *Propagation) KernelDiscrepancy() []float64 { return append([]float64(nil), p.kernelD...) }

// StateDiscrepancy returns a copy of Δδ[s].
func (p *Propagation) StateDiscrepancy() []float64 { return append([]float64(nil), p.stateD...) }

// StateActionDiscrepancy returns Δζ[s,a].
func (p *Propagation) StateActionDiscrepancy(s, a int) float64 {
	return p.saD.Data()[s*p.saD.Dim(1)+a]
}

// Gradient returns the (discrepancy, source density) pair at key (s,a):
// clip(Δζ[s,a],0,1) and ζ[s,a].
func (p *Propagation) Gradient(s, a int) (disc, dens float64) {
	zeta := p.task.StateActionOccupancy().Data()[s*p.saD.Dim(1)+a]
	return tensor.ClipValue(p.StateActionDiscrepancy(s, a), 0, 1), zeta
}

// transition gathers the quantities shared by the LSTD bounds at (s,a,s').
func (p *Propagation) transition(s, a, s2 int) (zeta, pk, lk, m, dz float64) {
	nA, nS := p.saD.Dim(1), p.saD.Dim(0)
	off := (s*nA+a)*nS + s2
	zeta = p.task.StateActionOccupancy().Data()[s*nA+a]
	pk = p.task.Kernel().Data()[off]
	lk = tensor.ClipValue(p.L.Data()[off]*p.dTheta, 0, 1)
	m = tensor.ClipValue(pk+p.L.Data()[off]*p.dTheta, 0, 1)
	dz = tensor.ClipValue(p.StateActionDiscrepancy(s, a), 0, 1)

	return zeta, pk, lk, m, dz
}

// LSTDV returns the (discrepancy, source density) pair at key (s,a,s'):
//
//	Δd_v = ζ[s,a]·clip(LΔθ,0,1) + M·clip(Δζ[s,a],0,1),  M = clip(P+LΔθ,0,1)
//	dens = ζ[s,a]·P[s,a,s']
func (p *Propagation) LSTDV(s, a, s2 int) (disc, dens float64) {
	zeta, pk, lk, m, dz := p.transition(s, a, s2)
	return zeta*lk + m*dz, zeta * pk
}

// LSTDQ returns the (discrepancy, source density) pair at key (s,a,s',a'):
//
//	Δd_q = ζP·|π_t−π_s|[s',a'] + π_t[s',a']·ζ·clip(LΔθ,0,1) + π_t[s',a']·M·clip(Δζ,0,1)
//	dens = ζ[s,a]·P[s,a,s']·π_s[s',a']
func (p *Propagation) LSTDQ(s, a, s2, a2 int) (disc, dens float64) {
	zeta, pk, lk, m, dz := p.transition(s, a, s2)
	nA := p.saD.Dim(1)
	mis := p.piDiff.Data()[s2*nA+a2]
	pt := p.target.Prob(s2, a2)

	return zeta*pk*mis + pt*zeta*lk + pt*m*dz, zeta * pk * p.source.Prob(s2, a2)
}
