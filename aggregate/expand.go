// SPDX-License-Identifier: MIT

package aggregate

// Expand broadcasts one weight per group back to one weight per original row:
// weights are repeated over group sizes in sorted order, then scattered through
// the sort permutation. The result is a pure function of (w, Order, Sizes).
//
// Complexity: O(N).
func Expand(g *Grouping, w []float64) ([]float64, error) {
	if len(w) != g.Len() {
		return nil, aggregateErrorf("Expand", ErrShape)
	}
	sorted := make([]float64, 0, g.Samples())
	for gi, size := range g.Sizes {
		for k := 0; k < size; k++ {
			sorted = append(sorted, w[gi])
		}
	}
	out := make([]float64, g.Samples())
	for p, v := range sorted {
		out[g.Order[p]] = v
	}

	return out, nil
}

// Reduce is the left inverse of Expand: it returns the common value of each
// group's rows, or ErrNotConstant when a group's rows disagree.
//
// Complexity: O(N).
func Reduce(g *Grouping, perRow []float64) ([]float64, error) {
	if len(perRow) != g.Samples() {
		return nil, aggregateErrorf("Reduce", ErrShape)
	}
	out := make([]float64, g.Len())
	for gi := range out {
		members := g.Members(gi)
		v := perRow[members[0]]
		for _, row := range members[1:] {
			if perRow[row] != v {
				return nil, aggregateErrorf("Reduce", ErrNotConstant)
			}
		}
		out[gi] = v
	}

	return out, nil
}
