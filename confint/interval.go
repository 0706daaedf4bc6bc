// SPDX-License-Identifier: MIT

package confint

import (
	"math"

	"github.com/katalvlaran/minweights/rootfind"
)

// Interval is a confidence interval [Lower, Upper] on a noncentrality parameter.
type Interval struct {
	Lower float64
	Upper float64
}

// Build inverts the family of highest-density acceptance regions A(λ) = [a(λ), b(λ)]
// at the observed statistic y: the interval is {λ : y ∈ A(λ)}.
//
// Implementation:
//   - Lower: 0 when y ≤ u₀ = √(χ²₁ quantile(1−α)). Otherwise λ* solves
//     CDF(y; λ*) = 1−α (doubling from 1, then bisection); if PDF(0; λ*) ≥ PDF(y; λ*)
//     the region at λ* is [0, y] and Lower = λ*, else Lower solves b(λ) = y on [0, λ*].
//   - Upper: the λ at which a(λ) crosses y, by doubling then bisection.
//
// Errors:
//   - ErrInvalidStatistic for y < 0 or NaN.
//   - ErrInfeasible for α outside [MinAlpha, 1), or CDF(y; 0) < 1−α on the λ* path.
//   - ErrNoBracket when a bracket search exceeds its cap.
func Build(y float64, opts ...Option) (Interval, error) {
	const tag = "Build"
	if math.IsNaN(y) || y < 0 || math.IsInf(y, 0) {
		return Interval{}, confintErrorf(tag, ErrInvalidStatistic)
	}
	o := gatherOptions(opts...)
	if o.alpha < MinAlpha || o.alpha >= 1 {
		return Interval{}, confintErrorf(tag, ErrInfeasible)
	}
	sv := solver{alpha: o.alpha, tol: o.tol, doublings: o.doublings}

	lower, err := sv.lower(y)
	if err != nil {
		return Interval{}, confintErrorf(tag, err)
	}
	upper, err := sv.upper(y)
	if err != nil {
		return Interval{}, confintErrorf(tag, err)
	}

	return Interval{Lower: lower, Upper: math.Max(upper, lower)}, nil
}

// lambdaStar solves CDF(y; λ) = 1−α; CDF is decreasing in λ.
func (sv solver) lambdaStar(y float64) (float64, error) {
	cover := 1 - sv.alpha
	if CDF(y, 0) < cover {
		return 0, ErrInfeasible
	}
	g := func(l float64) float64 { return CDF(y, l) - cover }
	lo, hi, err := rootfind.ExpandLimit(g, 0, 1, sv.doublings)
	if err != nil {
		return 0, err
	}

	return rootfind.Bisect(g, lo, hi, sv.tol)
}

func (sv solver) lower(y float64) (float64, error) {
	if y <= Quantile0(sv.alpha) {
		return 0, nil
	}
	ls, err := sv.lambdaStar(y)
	if err != nil {
		return 0, err
	}
	if PDF(0, ls) >= PDF(y, ls) {
		return ls, nil
	}

	// b(λ) < y at λ = 0 and b(λ*) > y
	return sv.crossing(y, 0, ls, func(_, b float64) float64 { return b })
}

func (sv solver) upper(y float64) (float64, error) {
	// a(λ) ≤ y near zero; find a λ with a(λ) > y first
	var inner error
	g := func(l float64) float64 {
		a, _, err := sv.region(l)
		if err != nil {
			inner = err
			return math.NaN()
		}
		if a > y {
			return 1
		}
		return -1
	}
	lo, hi, err := rootfind.ExpandLimit(g, 0, math.Max(1, y), sv.doublings)
	if inner != nil {
		return 0, inner
	}
	if err != nil {
		return 0, err
	}

	return sv.crossing(y, lo, hi, func(a, _ float64) float64 { return a })
}

// crossing bisects λ ∈ [lo, hi] for the point where edge(region(λ)) passes y.
func (sv solver) crossing(y, lo, hi float64, edge func(a, b float64) float64) (float64, error) {
	var inner error
	g := func(l float64) float64 {
		a, b, err := sv.region(l)
		if err != nil {
			inner = err
			return math.NaN()
		}
		if edge(a, b) > y {
			return 1
		}
		return -1
	}
	l, err := rootfind.Bisect(g, lo, hi, sv.tol)
	if inner != nil {
		return 0, inner
	}

	return l, err
}
