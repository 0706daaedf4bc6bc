// SPDX-License-Identifier: MIT

package confint

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// CDF is the distribution function of a noncentral chi variable with one
// degree of freedom, |λ + Z| with Z standard normal:
//
//	F(u; λ) = Φ(u − λ) − Φ(−u − λ),  u ≥ 0.
func CDF(u, lambda float64) float64 {
	if u <= 0 {
		return 0
	}

	return distuv.UnitNormal.CDF(u-lambda) - distuv.UnitNormal.CDF(-u-lambda)
}

// PDF is the matching density φ(u − λ) + φ(u + λ) for u ≥ 0, zero below.
func PDF(u, lambda float64) float64 {
	if u < 0 {
		return 0
	}

	return distuv.UnitNormal.Prob(u-lambda) + distuv.UnitNormal.Prob(u+lambda)
}

// Quantile0 is the (1−α)-quantile of the central chi(1) distribution:
// √(χ²₁ quantile).
func Quantile0(alpha float64) float64 {
	return math.Sqrt(distuv.ChiSquared{K: 1}.Quantile(1 - alpha))
}
