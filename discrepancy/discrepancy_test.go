// SPDX-License-Identifier: MIT

package discrepancy_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/minweights/aggregate"
	"github.com/katalvlaran/minweights/bound"
	"github.com/katalvlaran/minweights/discrepancy"
	"github.com/katalvlaran/minweights/mdp"
	"github.com/katalvlaran/minweights/mdp/mdptest"
)

type setup struct {
	grid  *mdp.Grid
	task  *mdp.Task
	pol   *mdp.Policy
	bnd   *bound.Bound
	batch *mdp.SampleBatch
}

func newSetup(t *testing.T, power float64) setup {
	t.Helper()
	g, err := mdptest.Grid()
	require.NoError(t, err)
	pol, err := mdptest.SoftmaxPolicy(g, [2]float64{2, 0.3})
	require.NoError(t, err)
	task, err := mdptest.Task(g, pol, power)
	require.NoError(t, err)
	b, err := bound.Compute(context.Background(), g, mdptest.NewMountainCar())
	require.NoError(t, err)

	return setup{grid: g, task: task, pol: pol, bnd: b, batch: mdptest.Sample(mdptest.RNG(3), task, pol, 300)}
}

func allBounds(t *testing.T, p *discrepancy.Propagation, b *mdp.SampleBatch) map[aggregate.Key]*discrepancy.Bounds {
	t.Helper()
	out := make(map[aggregate.Key]*discrepancy.Bounds)
	for _, key := range []aggregate.Key{aggregate.ByStateAction, aggregate.ByTransitionAction, aggregate.ByTransition} {
		g, err := aggregate.Group(b, key)
		require.NoError(t, err)
		var bd *discrepancy.Bounds
		switch key {
		case aggregate.ByStateAction:
			bd, err = p.GradientBounds(g, discrepancy.DefaultDensityFloor)
		case aggregate.ByTransitionAction:
			bd, err = p.LSTDQBounds(g, discrepancy.DefaultDensityFloor)
		default:
			bd, err = p.LSTDVBounds(g, discrepancy.DefaultDensityFloor)
		}
		require.NoError(t, err)
		require.Len(t, bd.Lower, g.Len())
		out[key] = bd
	}

	return out
}

func TestIdenticalTaskHasNoDiscrepancy(t *testing.T) {
	t.Parallel()

	st := newSetup(t, 0.3)
	p, err := discrepancy.Propagate(discrepancy.Input{
		Task: st.task, Source: st.pol, Target: st.pol, TargetParameter: 0.3, Bound: st.bnd,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.ParameterGap())
	for _, v := range p.KernelDiscrepancy() {
		assert.Equal(t, 0.0, v)
	}
	for _, v := range p.StateDiscrepancy() {
		assert.Equal(t, 0.0, v)
	}
	for key, bd := range allBounds(t, p, st.batch) {
		for i := range bd.Lower {
			assert.Equalf(t, 1.0, bd.Lower[i], "key %v", key)
			assert.Equalf(t, 1.0, bd.Upper[i], "key %v", key)
		}
	}
}

func TestBoundsMonotoneInParameterGap(t *testing.T) {
	t.Parallel()

	st := newSetup(t, 0.1)
	var prev map[aggregate.Key]*discrepancy.Bounds
	// gaps shrinking towards zero
	for _, target := range []float64{0.4, 0.25, 0.15, 0.11, 0.1} {
		p, err := discrepancy.Propagate(discrepancy.Input{
			Task: st.task, Source: st.pol, Target: st.pol, TargetParameter: target, Bound: st.bnd,
		})
		require.NoError(t, err)
		cur := allBounds(t, p, st.batch)
		if prev != nil {
			for key, bd := range cur {
				for i := range bd.Upper {
					assert.LessOrEqual(t, bd.Upper[i], prev[key].Upper[i]+1e-12)
					assert.GreaterOrEqual(t, bd.Lower[i], prev[key].Lower[i]-1e-12)
				}
			}
		}
		prev = cur
	}
}

func TestScenarioBoundsBracketOne(t *testing.T) {
	t.Parallel()

	sc, err := mdptest.NewScenario(5, 300)
	require.NoError(t, err)
	b, err := bound.Compute(context.Background(), sc.Grid, sc.Dynamics)
	require.NoError(t, err)
	for j, task := range sc.Tasks {
		p, err := discrepancy.Propagate(discrepancy.Input{
			Task: task, Source: sc.Policies[j], Target: sc.TargetPolicy,
			TargetParameter: sc.TargetPower, Bound: b,
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.15, p.ParameterGap(), 1e-12)
		for _, bd := range allBounds(t, p, sc.Batches[j]) {
			for i := range bd.Lower {
				assert.GreaterOrEqual(t, bd.Lower[i], 0.0)
				assert.LessOrEqual(t, bd.Lower[i], 1.0)
				assert.GreaterOrEqual(t, bd.Upper[i], 1.0)
				assert.False(t, math.IsInf(bd.Upper[i], 0))
			}
		}
	}
}

func TestLSTDQFactorsThroughLSTDVForEqualPolicies(t *testing.T) {
	t.Parallel()

	st := newSetup(t, 0.2)
	p, err := discrepancy.Propagate(discrepancy.Input{
		Task: st.task, Source: st.pol, Target: st.pol, TargetParameter: 0.35, Bound: st.bnd,
	})
	require.NoError(t, err)
	for _, k := range [][4]int{{0, 0, 1, 2}, {5, 1, 5, 0}, {11, 2, 7, 1}} {
		dq, densQ := p.LSTDQ(k[0], k[1], k[2], k[3])
		dv, densV := p.LSTDV(k[0], k[1], k[2])
		pi := st.pol.Prob(k[2], k[3])
		assert.InDelta(t, pi*dv, dq, 1e-12)
		assert.InDelta(t, pi*densV, densQ, 1e-12)
	}
}

func TestWeightBound(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		disc, dens float64
		l, u       float64
		err        error
	}{
		{"zero discrepancy", 0, 0.2, 1, 1, nil},
		{"small", 0.01, 0.1, 0.9, 1.1, nil},
		{"lower saturates", 0.5, 0.1, 0, 6, nil},
		{"discrepancy clipped to one", 3, 0.5, 0, 3, nil},
		{"negative discrepancy clipped", -1, 0.5, 1, 1, nil},
		{"zero density", 0.1, 0, 0, 0, discrepancy.ErrZeroDensity},
		{"below floor", 0.1, 1e-13, 0, 0, discrepancy.ErrZeroDensity},
		{"nan density", 0.1, math.NaN(), 0, 0, discrepancy.ErrZeroDensity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, u, err := discrepancy.WeightBound(tc.disc, tc.dens, discrepancy.DefaultDensityFloor)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.l, l, 1e-12)
			assert.InDelta(t, tc.u, u, 1e-12)
		})
	}
}

func TestPropagateErrors(t *testing.T) {
	t.Parallel()

	st := newSetup(t, 0.2)
	_, err := discrepancy.Propagate(discrepancy.Input{Task: st.task, Source: st.pol, Target: st.pol})
	require.ErrorIs(t, err, discrepancy.ErrNilInput)

	p, err := discrepancy.Propagate(discrepancy.Input{
		Task: st.task, Source: st.pol, Target: st.pol, TargetParameter: 0.3, Bound: st.bnd,
	})
	require.NoError(t, err)
	g, err := aggregate.Group(st.batch, aggregate.ByTransition)
	require.NoError(t, err)
	_, err = p.GradientBounds(g, discrepancy.DefaultDensityFloor)
	require.ErrorIs(t, err, discrepancy.ErrKey)

	// an absurd floor makes every density degenerate
	_, err = p.LSTDVBounds(g, 10)
	require.ErrorIs(t, err, discrepancy.ErrZeroDensity)
}
