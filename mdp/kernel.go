// SPDX-License-Identifier: MIT

package mdp

import (
	"github.com/katalvlaran/minweights/tensor"
)

// BuildKernel discretizes dyn at the given parameter into P[s,a,s'].
//
// Implementation:
//   - Stage 1: for each (s,a) take the noiseless mean μ = dyn.Step(rep(s), action, parameter).
//   - Stage 2: per axis, bin masses Φ((b2−μ)/σ) − Φ((b1−μ)/σ) with open tails.
//   - Stage 3: P[s,a,(v,p)] = massVel[v]·massPos[p] (axes independent given μ).
//
// Complexity: O(S·A·S).
func BuildKernel(grid *Grid, dyn Dynamics, parameter float64) (*tensor.Dense, error) {
	if dyn == nil {
		return nil, mdpErrorf("BuildKernel", ErrNilDynamics)
	}
	nS, nA := grid.NumStates(), grid.NumActions()
	k, err := tensor.New(nS, nA, nS)
	if err != nil {
		return nil, mdpErrorf("BuildKernel", err)
	}
	nPos, nVel := grid.Position.Bins(), grid.Velocity.Bins()
	pp := make([]float64, nPos)
	pv := make([]float64, nVel)
	for s := 0; s < nS; s++ {
		rep := grid.StateRep(s)
		for a, act := range grid.Actions {
			mu := dyn.Step(rep, act, parameter)
			if len(mu) < 2 {
				return nil, mdpErrorf("BuildKernel", ErrShape)
			}
			grid.Position.BinProbabilities(pp, mu[0])
			grid.Velocity.BinProbabilities(pv, mu[1])
			row, _ := k.Fiber(s, a)
			for v := 0; v < nVel; v++ {
				for p := 0; p < nPos; p++ {
					row[v*nPos+p] = pv[v] * pp[p]
				}
			}
		}
	}

	return k, nil
}

// ValidateKernel checks that k has shape [S,A,S] for the grid and that every
// row P[s,a,:] is a probability distribution.
func ValidateKernel(grid *Grid, k *tensor.Dense) error {
	nS := grid.NumStates()
	if err := tensor.ValidateShape(k, nS, grid.NumActions(), nS); err != nil {
		return mdpErrorf("ValidateKernel", ErrShape)
	}
	if err := validateRows(k.Data(), nS); err != nil {
		return mdpErrorf("ValidateKernel", err)
	}

	return nil
}
