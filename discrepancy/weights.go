// SPDX-License-Identifier: MIT

package discrepancy

import (
	"math"

	"github.com/katalvlaran/minweights/aggregate"
	"github.com/katalvlaran/minweights/tensor"
)

// WeightBound turns a discrepancy and a source density into a weight interval:
//
//	l = clip(1 − clip(disc,0,1)/dens, 0, 1),  u = 1 + clip(disc,0,1)/dens.
//
// dens ≤ floor (or NaN) yields ErrZeroDensity. l ≤ 1 ≤ u always holds.
func WeightBound(disc, dens, floor float64) (l, u float64, err error) {
	if math.IsNaN(dens) || dens <= floor {
		return 0, 0, ErrZeroDensity
	}
	r := tensor.ClipValue(disc, 0, 1) / dens

	return tensor.ClipValue(1-r, 0, 1), 1 + r, nil
}

// Bounds are per-group weight intervals aligned with a Grouping.
type Bounds struct {
	Lower []float64
	Upper []float64
}

// GradientBounds evaluates the (s,a) weight bounds of every group of g.
func (p *Propagation) GradientBounds(g *aggregate.Grouping, floor float64) (*Bounds, error) {
	if g.Key != aggregate.ByStateAction {
		return nil, discrepancyErrorf("GradientBounds", ErrKey)
	}
	b, err := p.groupBounds(g, floor, func(k aggregate.Tuple) (float64, float64) {
		return p.Gradient(k.State, k.Action)
	})
	if err != nil {
		return nil, discrepancyErrorf("GradientBounds", err)
	}

	return b, nil
}

// LSTDQBounds evaluates the (s,a,s',a') weight bounds of every group of g.
// Only sampled keys are evaluated, never the full [S,A,S,A] tensor.
func (p *Propagation) LSTDQBounds(g *aggregate.Grouping, floor float64) (*Bounds, error) {
	if g.Key != aggregate.ByTransitionAction {
		return nil, discrepancyErrorf("LSTDQBounds", ErrKey)
	}
	b, err := p.groupBounds(g, floor, func(k aggregate.Tuple) (float64, float64) {
		return p.LSTDQ(k.State, k.Action, k.NextState, k.NextAction)
	})
	if err != nil {
		return nil, discrepancyErrorf("LSTDQBounds", err)
	}

	return b, nil
}

// LSTDVBounds evaluates the (s,a,s') weight bounds of every group of g.
func (p *Propagation) LSTDVBounds(g *aggregate.Grouping, floor float64) (*Bounds, error) {
	if g.Key != aggregate.ByTransition {
		return nil, discrepancyErrorf("LSTDVBounds", ErrKey)
	}
	b, err := p.groupBounds(g, floor, func(k aggregate.Tuple) (float64, float64) {
		return p.LSTDV(k.State, k.Action, k.NextState)
	})
	if err != nil {
		return nil, discrepancyErrorf("LSTDVBounds", err)
	}

	return b, nil
}

func (p *Propagation) groupBounds(g *aggregate.Grouping, floor float64, at func(aggregate.Tuple) (float64, float64)) (*Bounds, error) {
	nS, nA := p.saD.Dim(0), p.saD.Dim(1)
	b := &Bounds{Lower: make([]float64, g.Len()), Upper: make([]float64, g.Len())}
	for gi, k := range g.Keys {
		if k.State < 0 || k.State >= nS || k.Action < 0 || k.Action >= nA ||
			k.NextState >= nS || k.NextAction >= nA {
			return nil, ErrShape
		}
		disc, dens := at(k)
		l, u, err := WeightBound(disc, dens, floor)
		if err != nil {
			return nil, err
		}
		b.Lower[gi], b.Upper[gi] = l, u
	}

	return b, nil
}
