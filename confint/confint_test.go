// SPDX-License-Identifier: MIT

package confint_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/minweights/confint"
)

func TestDistribution(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.95, confint.CDF(1.959964, 0), 1e-6)
	assert.Equal(t, 0.0, confint.CDF(0, 3))
	assert.Equal(t, 0.0, confint.CDF(-1, 3))
	assert.InDelta(t, 2/math.Sqrt(2*math.Pi), confint.PDF(0, 0), 1e-12)
	assert.Equal(t, 0.0, confint.PDF(-0.5, 1))
	assert.InDelta(t, 1.644854, confint.Quantile0(0.1), 1e-5)

	// CDF decreases in λ at fixed u
	prev := 1.0
	for _, l := range []float64{0, 0.5, 1, 2, 4} {
		c := confint.CDF(2, l)
		assert.Less(t, c, prev)
		prev = c
	}
}

func TestMode(t *testing.T) {
	t.Parallel()

	for _, l := range []float64{0, 0.5, 1} {
		m, err := confint.ModeForTest(l)
		require.NoError(t, err)
		assert.Equal(t, 0.0, m)
	}
	for _, l := range []float64{1.5, 3, 8} {
		m, err := confint.ModeForTest(l)
		require.NoError(t, err)
		assert.InDelta(t, m, l*math.Tanh(m*l), 1e-8)
		assert.Greater(t, confint.PDF(m, l), confint.PDF(m-0.01, l))
		assert.Greater(t, confint.PDF(m, l), confint.PDF(m+0.01, l))
	}
}

func TestRegion(t *testing.T) {
	t.Parallel()

	a, b, err := confint.Region(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, a)
	assert.InDelta(t, 1.644854, b, 1e-5)

	// far from the origin the reflected component vanishes
	a, b, err = confint.Region(10)
	require.NoError(t, err)
	assert.InDelta(t, 10-1.644854, a, 1e-4)
	assert.InDelta(t, 10+1.644854, b, 1e-4)

	for _, l := range []float64{0.3, 1.2, 2, 3.5} {
		a, b, err := confint.Region(l)
		require.NoError(t, err)
		assert.InDelta(t, 0.9, confint.CDF(b, l)-confint.CDF(a, l), 1e-6, "λ=%v", l)
		if a > 0 {
			assert.InDelta(t, confint.PDF(a, l), confint.PDF(b, l), 1e-6, "λ=%v", l)
		}
	}

	_, _, err = confint.Region(-1)
	require.ErrorIs(t, err, confint.ErrInfeasible)
}

func TestBuildInvertsRegions(t *testing.T) {
	t.Parallel()

	for _, y := range []float64{0.5, 2, 3, 6} {
		iv, err := confint.Build(y)
		require.NoError(t, err)
		assert.LessOrEqual(t, iv.Lower, iv.Upper)

		// y sits on the upper edge of A(Lower) and the lower edge of A(Upper)
		if iv.Lower > 0 {
			_, b, err := confint.Region(iv.Lower)
			require.NoError(t, err)
			assert.InDelta(t, y, b, 1e-4, "y=%v", y)
		}
		a, _, err := confint.Region(iv.Upper)
		require.NoError(t, err)
		assert.InDelta(t, y, a, 1e-4, "y=%v", y)
	}
}

func TestBuildSmallStatistic(t *testing.T) {
	t.Parallel()

	for _, y := range []float64{0, 1, 1.6} {
		iv, err := confint.Build(y)
		require.NoError(t, err)
		assert.Equal(t, 0.0, iv.Lower)
		assert.Greater(t, iv.Upper, 0.0)
	}
}

func TestBuildMonotone(t *testing.T) {
	t.Parallel()

	var prev confint.Interval
	for i, y := range []float64{0, 1, 2, 3, 4, 5} {
		iv, err := confint.Build(y, confint.WithTolerance(1e-8))
		require.NoError(t, err)
		if i > 0 {
			assert.GreaterOrEqual(t, iv.Lower, prev.Lower)
			assert.Greater(t, iv.Upper, prev.Upper)
		}
		prev = iv
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	_, err := confint.Build(-1)
	require.ErrorIs(t, err, confint.ErrInvalidStatistic)
	_, err = confint.Build(math.NaN())
	require.ErrorIs(t, err, confint.ErrInvalidStatistic)
	_, err = confint.Build(1, confint.WithAlpha(1))
	require.ErrorIs(t, err, confint.ErrInfeasible)
	_, err = confint.Build(1, confint.WithAlpha(1e-5))
	require.ErrorIs(t, err, confint.ErrInfeasible)
	_, err = confint.Build(50, confint.WithMaxDoublings(1))
	require.ErrorIs(t, err, confint.ErrNoBracket)
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, "confint: WithAlpha: alpha must not be NaN", func() { confint.WithAlpha(math.NaN()) })
	assert.Panics(t, func() { confint.WithTolerance(0) })
	assert.Panics(t, func() { confint.WithTolerance(math.Inf(1)) })
	assert.Panics(t, func() { confint.WithMaxDoublings(0) })
}

func TestCoverage(t *testing.T) {
	if testing.Short() {
		t.Skip("calibration run")
	}
	t.Parallel()

	const (
		draws  = 1000
		lambda = 2.0
	)
	rng := rand.New(rand.NewSource(11))
	hit := 0
	for i := 0; i < draws; i++ {
		y := math.Abs(lambda + rng.NormFloat64())
		iv, err := confint.Build(y, confint.WithTolerance(1e-6))
		require.NoError(t, err)
		if iv.Lower <= lambda && lambda <= iv.Upper {
			hit++
		}
	}
	assert.InDelta(t, 0.9, float64(hit)/draws, 0.03)
}
