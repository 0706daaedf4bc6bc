// SPDX-License-Identifier: MIT

package confint

import (
	"math"

	"github.com/katalvlaran/minweights/rootfind"
)

// solver carries the options through the nested root searches.
type solver struct {
	alpha     float64
	tol       float64
	doublings int
}

// mode returns the mode of PDF(·; λ): 0 for λ ≤ 1, otherwise the positive
// root of u = λ·tanh(u·λ), which lies in (0, λ].
func (sv solver) mode(lambda float64) (float64, error) {
	if lambda <= 1 {
		return 0, nil
	}
	g := func(u float64) float64 { return lambda*math.Tanh(u*lambda) - u }

	return rootfind.Bisect(g, 1e-300, lambda, sv.tol)
}

// upperEqual returns b ≥ m with PDF(b) = PDF(a) for a ≤ m, the mode.
func (sv solver) upperEqual(a, m, lambda float64) (float64, error) {
	fa := PDF(a, lambda)
	if a >= m || PDF(m, lambda) <= fa {
		return m, nil
	}
	g := func(b float64) float64 { return PDF(b, lambda) - fa }
	lo, hi, err := rootfind.ExpandLimit(g, m, m+1, sv.doublings)
	if err != nil {
		return 0, err
	}

	return rootfind.Bisect(g, lo, hi, sv.tol)
}

// quantile solves CDF(q; λ) = p for q ≥ 0.
func (sv solver) quantile(p, lambda float64) (float64, error) {
	g := func(q float64) float64 { return CDF(q, lambda) - p }
	lo, hi, err := rootfind.ExpandLimit(g, 0, math.Max(1, lambda), sv.doublings)
	if err != nil {
		return 0, err
	}

	return rootfind.Bisect(g, lo, hi, sv.tol)
}

// Region returns the highest-density acceptance region [a, b] of mass 1−α
// under noncentrality λ.
//
// Implementation:
//   - Stage 1: locate the mode m.
//   - Stage 2: M(a) = CDF(b(a)) − CDF(a) with PDF(b(a)) = PDF(a), b(a) ≥ m.
//     M decreases from M(0) to 0 on [0, m].
//   - Stage 3: if M(0) < 1−α the region touches zero: [0, F⁻¹(1−α)];
//     otherwise bisect M(a) = 1−α on [0, m].
func (sv solver) region(lambda float64) (a, b float64, err error) {
	m, err := sv.mode(lambda)
	if err != nil {
		return 0, 0, err
	}
	mass := func(a float64) (float64, float64, error) {
		b, err := sv.upperEqual(a, m, lambda)
		if err != nil {
			return 0, 0, err
		}
		return CDF(b, lambda) - CDF(a, lambda), b, nil
	}
	cover := 1 - sv.alpha
	m0, _, err := mass(0)
	if err != nil {
		return 0, 0, err
	}
	if m0 < cover {
		q, err := sv.quantile(cover, lambda)
		return 0, q, err
	}

	var inner error
	g := func(a float64) float64 {
		v, _, err := mass(a)
		if err != nil {
			inner = err
			return math.NaN()
		}
		return v - cover
	}
	a, err = rootfind.Bisect(g, 0, m, sv.tol)
	if inner != nil {
		return 0, 0, inner
	}
	if err != nil {
		return 0, 0, err
	}
	_, b, err = mass(a)

	return a, b, err
}

// Region is the exported form of the acceptance region used by Build: the
// highest-density interval [a, b] of mass 1−α of the chi(1) distribution with
// noncentrality lambda.
func Region(lambda float64, opts ...Option) (a, b float64, err error) {
	o := gatherOptions(opts...)
	if o.alpha < MinAlpha || o.alpha >= 1 || lambda < 0 || math.IsNaN(lambda) {
		return 0, 0, confintErrorf("Region", ErrInfeasible)
	}
	sv := solver{alpha: o.alpha, tol: o.tol, doublings: o.doublings}
	a, b, err = sv.region(lambda)
	if err != nil {
		return 0, 0, confintErrorf("Region", err)
	}

	return a, b, nil
}
