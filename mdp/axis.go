// SPDX-License-Identifier: MIT

package mdp

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// MinBins is the smallest number of bins an Axis may carry: the two open tails.
const MinBins = 2

// Axis discretizes one continuous state coordinate.
//
// Bins are delimited by Edges[0] < Edges[1] < … < Edges[n]. The first and last
// bins are open-ended tails: bin 0 is (−∞, Edges[1]] and bin n−1 is
// [Edges[n−1], +∞). Reps holds one representative value per bin; Noise is the
// standard deviation of the Gaussian discretization noise on this coordinate.
type Axis struct {
	Edges []float64
	Reps  []float64
	Noise float64
}

// NewAxis builds an Axis whose representatives are the bin midpoints.
func NewAxis(edges []float64, noise float64) (Axis, error) {
	if len(edges) < MinBins+1 {
		return Axis{}, mdpErrorf("NewAxis", ErrBadAxis)
	}
	reps := make([]float64, len(edges)-1)
	for i := range reps {
		reps[i] = edges[i] + (edges[i+1]-edges[i])/2
	}
	ax := Axis{Edges: append([]float64(nil), edges...), Reps: reps, Noise: noise}
	if err := ax.Validate(); err != nil {
		return Axis{}, mdpErrorf("NewAxis", err)
	}

	return ax, nil
}

// Validate checks edge ordering, representative count and noise.
func (ax Axis) Validate() error {
	n := len(ax.Edges) - 1
	if n < MinBins || len(ax.Reps) != n {
		return ErrBadAxis
	}
	if !(ax.Noise > 0) || math.IsInf(ax.Noise, 0) {
		return ErrBadAxis
	}
	for i := 1; i < len(ax.Edges); i++ {
		if !(ax.Edges[i] > ax.Edges[i-1]) {
			return ErrBadAxis
		}
	}

	return nil
}

// Bins returns the number of bins.
func (ax Axis) Bins() int { return len(ax.Edges) - 1 }

// Locate returns the bin containing x. Interior bin i is (Edges[i], Edges[i+1]].
func (ax Axis) Locate(x float64) int {
	n := ax.Bins()
	// first interior edge ≥ x; values beyond Edges[n-1] land in the upper tail
	return sort.SearchFloat64s(ax.Edges[1:n], x)
}

// BinProbabilities fills dst (len Bins()) with the probability that mean + noise
// lands in each bin. Tails absorb the open ends, so dst sums to one.
func (ax Axis) BinProbabilities(dst []float64, mean float64) {
	n := ax.Bins()
	prev := 0.0
	for i := 0; i < n-1; i++ {
		c := distuv.UnitNormal.CDF((ax.Edges[i+1] - mean) / ax.Noise)
		dst[i] = c - prev
		prev = c
	}
	dst[n-1] = 1 - prev
}
