// SPDX-License-Identifier: MIT

package bound

import "github.com/katalvlaran/minweights/mdp"

// FindPeaksForTest exposes the per-bin peak offsets to bound_test.
func FindPeaksForTest(ax mdp.Axis) ([]float64, error) {
	pk, err := findPeaks(ax)
	return pk, err
}
