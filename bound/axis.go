// SPDX-License-Identifier: MIT

package bound

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/minweights/mdp"
	"github.com/katalvlaran/minweights/rootfind"
)

// peaks caches, per interior bin, the offset d* > 0 such that the density
// difference |e^{-(b1−μ)²/2σ²} − e^{-(b2−μ)²/2σ²}| is maximal at μ = b1 − d*
// (and, mirrored, at μ = b2 + d*). Entries for the two tail bins are unused.
type peaks []float64

// findPeaks solves ln(1 + w/d) = w(2d + w)/(2σ²) for every interior bin of ax.
// The left side minus the right is strictly decreasing in d, +∞ at 0⁺.
func findPeaks(ax mdp.Axis) (peaks, error) {
	n := ax.Bins()
	out := make(peaks, n)
	s2 := 2 * ax.Noise * ax.Noise
	for i := 1; i < n-1; i++ {
		w := ax.Edges[i+1] - ax.Edges[i]
		f := func(d float64) float64 {
			return math.Log1p(w/d) - w*(2*d+w)/s2
		}
		d, err := rootfind.Solve(f, 0, ax.Noise, 0)
		if err != nil {
			return nil, boundErrorf("findPeaks", ErrPeak)
		}
		out[i] = d
	}

	return out, nil
}

// span is the range of noiseless next values reachable on one axis while the
// parameter sweeps [minParam, maxParam]. Step is continuous and monotone in
// the parameter, so a value x is reached for some θ in the range exactly when
// x lies between the two boundary means. A flat axis has no feasible crossing.
type span struct {
	atMin, atMax float64
}

func (sp span) feasible(x float64) bool {
	if sp.atMin == sp.atMax {
		return false
	}
	lo, hi := math.Min(sp.atMin, sp.atMax), math.Max(sp.atMin, sp.atMax)

	return x >= lo && x <= hi
}

// axisBounds fills me (density bound) and mp (mass bound) for every bin of ax
// given the boundary means on this axis.
func axisBounds(ax mdp.Axis, pk peaks, sp span, me, mp []float64) {
	n := ax.Bins()
	e := ax.Edges
	sigma := ax.Noise
	s2 := 2 * sigma * sigma
	gauss := func(x, mu float64) float64 { return math.Exp(-(x - mu) * (x - mu) / s2) }
	cdf := func(z float64) float64 { return distuv.UnitNormal.CDF(z) }
	bothMax := func(f func(mu float64) float64) float64 {
		return math.Max(f(sp.atMin), f(sp.atMax))
	}

	// lower tail (−∞, e[1]]
	if sp.feasible(e[1]) {
		me[0] = 1
	} else {
		me[0] = bothMax(func(mu float64) float64 { return gauss(e[1], mu) })
	}
	// tail masses are monotone in μ, so the boundary means give the exact
	// supremum; it dominates Φ((e[1]−e[0])/σ) whenever e[0] is reachable
	mp[0] = bothMax(func(mu float64) float64 { return cdf((e[1] - mu) / sigma) })

	// upper tail [e[n−1], +∞)
	if sp.feasible(e[n-1]) {
		me[n-1] = 1
	} else {
		me[n-1] = bothMax(func(mu float64) float64 { return gauss(e[n-1], mu) })
	}
	mp[n-1] = bothMax(func(mu float64) float64 { return 1 - cdf((e[n-1]-mu)/sigma) })

	for i := 1; i < n-1; i++ {
		b1, b2 := e[i], e[i+1]
		diff := func(mu float64) float64 { return math.Abs(gauss(b1, mu) - gauss(b2, mu)) }
		mass := func(mu float64) float64 { return cdf((b2-mu)/sigma) - cdf((b1-mu)/sigma) }

		low, high := b1-pk[i], b2+pk[i]
		if sp.feasible(low) || sp.feasible(high) {
			me[i] = diff(low)
		} else {
			me[i] = bothMax(diff)
		}

		mid := b1 + (b2-b1)/2
		if sp.feasible(mid) {
			mp[i] = mass(mid)
		} else {
			mp[i] = bothMax(mass)
		}
	}
}
