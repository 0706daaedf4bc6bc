// SPDX-License-Identifier: MIT

package mdp

import (
	"math"

	"github.com/katalvlaran/minweights/tensor"
)

// DistributionTolerance is the absolute slack allowed when checking that a
// probability row sums to one.
const DistributionTolerance = 1e-9

// Policy is an immutable state→action probability matrix π[s,a] with an
// optional log-probability gradient ∇logπ[s,a,d]. The gradient is only needed
// on the target policy of a policy-gradient request.
type Policy struct {
	probs   *tensor.Dense // [S,A]
	logGrad *tensor.Dense // [S,A,D] or nil
}

// NewPolicy validates probs (rank 2, rows are distributions) and, when
// non-nil, logGrad (rank 3 sharing the leading [S,A] axes). Both tensors are
// copied.
func NewPolicy(probs, logGrad *tensor.Dense) (*Policy, error) {
	if err := tensor.ValidateNotNil(probs); err != nil {
		return nil, mdpErrorf("NewPolicy", err)
	}
	if probs.Rank() != 2 {
		return nil, mdpErrorf("NewPolicy", ErrShape)
	}
	if err := validateRows(probs.Data(), probs.Dim(1)); err != nil {
		return nil, mdpErrorf("NewPolicy", err)
	}
	p := &Policy{probs: probs.Clone()}
	if logGrad != nil {
		if logGrad.Rank() != 3 || logGrad.Dim(0) != probs.Dim(0) || logGrad.Dim(1) != probs.Dim(1) {
			return nil, mdpErrorf("NewPolicy", ErrShape)
		}
		if err := tensor.ValidateFinite(logGrad); err != nil {
			return nil, mdpErrorf("NewPolicy", err)
		}
		p.logGrad = logGrad.Clone()
	}

	return p, nil
}

// validateRows checks every width-long row of data is a probability vector.
func validateRows(data []float64, width int) error {
	for off := 0; off < len(data); off += width {
		sum := 0.0
		for _, v := range data[off : off+width] {
			if math.IsNaN(v) || v < 0 || v > 1+DistributionTolerance {
				return ErrNotDistribution
			}
			sum += v
		}
		if math.Abs(sum-1) > DistributionTolerance {
			return ErrNotDistribution
		}
	}

	return nil
}

// NumStates returns S.
func (p *Policy) NumStates() int { return p.probs.Dim(0) }

// NumActions returns A.
func (p *Policy) NumActions() int { return p.probs.Dim(1) }

// Prob returns π[s,a]. Indices are not checked.
func (p *Policy) Prob(s, a int) float64 { return p.probs.Data()[s*p.probs.Dim(1)+a] }

// Probs returns the [S,A] probability tensor. Callers must not modify it.
func (p *Policy) Probs() *tensor.Dense { return p.probs }

// HasGradient reports whether a log-probability gradient is attached.
func (p *Policy) HasGradient() bool { return p.logGrad != nil }

// GradDim returns D, or 0 when no gradient is attached.
func (p *Policy) GradDim() int {
	if p.logGrad == nil {
		return 0
	}

	return p.logGrad.Dim(2)
}

// LogGrad returns ∇logπ[s,a,:] aliasing the policy storage, or nil when no
// gradient is attached. Indices are not checked.
func (p *Policy) LogGrad(s, a int) []float64 {
	if p.logGrad == nil {
		return nil
	}
	d := p.logGrad.Dim(2)
	off := (s*p.logGrad.Dim(1) + a) * d

	return p.logGrad.Data()[off : off+d : off+d]
}

// AbsDiff returns |π_p − π_q| element-wise as an [S,A] tensor.
func (p *Policy) AbsDiff(q *Policy) (*tensor.Dense, error) {
	if err := tensor.ValidateSameShape(p.probs, q.probs); err != nil {
		return nil, mdpErrorf("AbsDiff", ErrShape)
	}
	out := p.probs.Clone()
	qd := q.probs.Data()
	for i, v := range out.Data() {
		out.Data()[i] = math.Abs(v - qd[i])
	}

	return out, nil
}
