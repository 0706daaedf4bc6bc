// SPDX-License-Identifier: MIT

package confint

// ModeForTest exposes the mode of PDF(·; λ) to black-box tests.
func ModeForTest(lambda float64) (float64, error) {
	return solver{alpha: DefaultAlpha, tol: DefaultTolerance, doublings: DefaultMaxDoublings}.mode(lambda)
}
