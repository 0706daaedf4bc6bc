// SPDX-License-Identifier: MIT

package estimator_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/minweights/aggregate"
	"github.com/katalvlaran/minweights/confint"
	"github.com/katalvlaran/minweights/estimator"
	"github.com/katalvlaran/minweights/mdp"
	"github.com/katalvlaran/minweights/mdp/mdptest"
	"github.com/katalvlaran/minweights/optimizer"
)

func quiet() estimator.Option {
	return estimator.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func scenarioSources(sc *mdptest.Scenario) []estimator.Source {
	out := make([]estimator.Source, len(sc.Tasks))
	for j := range sc.Tasks {
		out[j] = estimator.Source{Task: sc.Tasks[j], Policy: sc.Policies[j], Batch: sc.Batches[j]}
	}

	return out
}

// targetSystem is the sample-mean LSTD system of a target batch.
func targetSystem(t *testing.T, b *mdp.SampleBatch, phi *mat.Dense, q bool, nActions int) (*mat.Dense, []float64) {
	t.Helper()
	key := aggregate.ByTransition
	if q {
		key = aggregate.ByTransitionAction
	}
	g, err := aggregate.Group(b, key)
	require.NoError(t, err)
	var st *aggregate.Stats
	if q {
		st, err = aggregate.QStats(b, g, phi, nActions, mdptest.Gamma)
	} else {
		st, err = aggregate.VStats(b, g, phi, mdptest.Gamma)
	}
	require.NoError(t, err)
	k := st.Features()
	A := mat.NewDense(k, k, nil)
	vec := make([]float64, k)
	n := float64(b.Len())
	for gi := 0; gi < g.Len(); gi++ {
		vp, _ := st.VarPhi.Fiber(gi)
		rh, _ := st.Rho.Fiber(gi)
		for i := 0; i < k; i++ {
			for c := 0; c < k; c++ {
				A.Set(i, c, A.At(i, c)+vp[i*k+c]/n)
			}
			vec[i] += rh[i] / n
		}
	}

	return A, vec
}

func checkEstimate(t *testing.T, est *estimator.Estimator, f estimator.Flavor, res *estimator.Estimate) {
	t.Helper()
	lo, up, err := est.SampleBounds(f)
	require.NoError(t, err)
	require.Len(t, res.Weights, est.Samples())
	require.Len(t, lo, est.Samples())
	for i, w := range res.Weights {
		assert.LessOrEqual(t, lo[i], 1.0)
		assert.GreaterOrEqual(t, up[i], 1.0)
		assert.GreaterOrEqual(t, w, lo[i])
		assert.LessOrEqual(t, w, up[i])
	}
	assert.LessOrEqual(t, res.Result.Value, res.Result.Initial)
}

func TestScenario(t *testing.T) {
	t.Parallel()

	sc, err := mdptest.NewScenario(5, 300)
	require.NoError(t, err)
	est, err := estimator.New(mdptest.Gamma, sc.Dynamics, quiet(), estimator.WithWorkers(2))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, est.AddSources(ctx, scenarioSources(sc), sc.PhiQ, sc.PhiV))
	assert.Equal(t, 2, est.NumSources())
	assert.Equal(t, 600, est.Samples())

	targetTask, err := mdptest.Task(sc.Grid, sc.TargetPolicy, sc.TargetPower)
	require.NoError(t, err)
	targetBatch := mdptest.Sample(mdptest.RNG(17), targetTask, sc.TargetPolicy, 200)

	require.NoError(t, est.PrepareLSTD(ctx, sc.TargetPolicy, sc.TargetPower))
	A, b := targetSystem(t, targetBatch, sc.PhiQ, true, sc.Grid.NumActions())
	res, err := est.EstimateWeightsLSTDQ(targetBatch.Len(), A, b)
	require.NoError(t, err)
	checkEstimate(t, est, estimator.LSTDQ, res)

	A, b = targetSystem(t, targetBatch, sc.PhiV, false, sc.Grid.NumActions())
	res, err = est.EstimateWeightsLSTDV(targetBatch.Len(), A, b)
	require.NoError(t, err)
	checkEstimate(t, est, estimator.LSTDV, res)

	rng := mdptest.RNG(23)
	q := make([]float64, est.Samples())
	v := make([]float64, est.Samples())
	for i := range q {
		q[i], v[i] = rng.NormFloat64(), rng.NormFloat64()
	}
	require.NoError(t, est.PrepareGradient(ctx, sc.TargetPolicy, sc.TargetPower, q, v))
	res, err = est.EstimateWeightsGradient(targetBatch.Len(), []float64{0.05, -0.02})
	require.NoError(t, err)
	checkEstimate(t, est, estimator.Gradient, res)
}

func TestIdenticalSourceKeepsUnitWeights(t *testing.T) {
	t.Parallel()

	grid, err := mdptest.Grid()
	require.NoError(t, err)
	pol, err := mdptest.SoftmaxPolicy(grid, [2]float64{1, 0.5})
	require.NoError(t, err)
	task, err := mdptest.Task(grid, pol, 0.25)
	require.NoError(t, err)
	batch := mdptest.Sample(mdptest.RNG(2), task, pol, 250)

	est, err := estimator.New(mdptest.Gamma, mdptest.NewMountainCar(), quiet())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, est.AddSources(ctx, []estimator.Source{{Task: task, Policy: pol, Batch: batch}},
		mdptest.QFeatures(grid), mdptest.VFeatures(grid)))
	require.NoError(t, est.PrepareLSTD(ctx, pol, 0.25))

	A, b := targetSystem(t, batch, mdptest.QFeatures(grid), true, grid.NumActions())
	res, err := est.EstimateWeightsLSTDQ(100, A, b)
	require.NoError(t, err)
	assert.Equal(t, optimizer.StatusFixed, res.Result.Status)
	for _, w := range res.Weights {
		assert.Equal(t, 1.0, w)
	}

	q := make([]float64, batch.Len())
	require.NoError(t, est.PrepareGradient(ctx, pol, 0.25, q, q))
	res, err = est.EstimateWeightsGradient(100, []float64{1, 1})
	require.NoError(t, err)
	for _, w := range res.Weights {
		assert.Equal(t, 1.0, w)
	}
}

func TestLifecycleErrors(t *testing.T) {
	t.Parallel()

	sc, err := mdptest.NewScenario(1, 100)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = estimator.New(1, sc.Dynamics)
	require.ErrorIs(t, err, mdp.ErrBadDiscount)
	_, err = estimator.New(0.9, nil)
	require.ErrorIs(t, err, mdp.ErrNilDynamics)

	est, err := estimator.New(mdptest.Gamma, sc.Dynamics, quiet())
	require.NoError(t, err)
	require.ErrorIs(t, est.PrepareLSTD(ctx, sc.TargetPolicy, 0.25), estimator.ErrNoSources)
	require.ErrorIs(t, est.AddSources(ctx, nil, sc.PhiQ, sc.PhiV), estimator.ErrNoSources)
	require.ErrorIs(t, est.AddSources(ctx, scenarioSources(sc), nil, sc.PhiV), estimator.ErrMismatch)

	require.NoError(t, est.AddSources(ctx, scenarioSources(sc), sc.PhiQ, sc.PhiV))
	_, err = est.EstimateWeightsLSTDQ(10, mat.NewDense(9, 9, nil), make([]float64, 9))
	require.ErrorIs(t, err, estimator.ErrNotPrepared)
	_, _, err = est.SampleBounds(estimator.Gradient)
	require.ErrorIs(t, err, estimator.ErrNotPrepared)

	require.ErrorIs(t, est.PrepareGradient(ctx, sc.TargetPolicy, 0.25, make([]float64, 3), make([]float64, 3)), estimator.ErrMismatch)
	require.NoError(t, est.PrepareLSTD(ctx, sc.TargetPolicy, 0.25))
	_, err = est.EstimateWeightsLSTDQ(10, mat.NewDense(3, 3, nil), make([]float64, 3))
	require.ErrorIs(t, err, estimator.ErrMismatch)

	st, err := est.Source(1)
	require.NoError(t, err)
	assert.Equal(t, sc.Batches[1], st.Batch)
	assert.NotNil(t, st.QStats)
	_, err = est.Source(5)
	require.ErrorIs(t, err, mdp.ErrIndex)

	est.ClearSources()
	assert.Equal(t, 0, est.NumSources())
	assert.Equal(t, 0, est.Samples())
	_, err = est.EstimateWeightsLSTDV(10, mat.NewDense(3, 3, nil), make([]float64, 3))
	require.ErrorIs(t, err, estimator.ErrNoSources)
}

func TestAddSourcesRejectsForeignPolicy(t *testing.T) {
	t.Parallel()

	sc, err := mdptest.NewScenario(1, 50)
	require.NoError(t, err)
	est, err := estimator.New(mdptest.Gamma, sc.Dynamics, quiet())
	require.NoError(t, err)

	// task 0 was built under policy 0; its occupancies disagree with policy 1
	sources := scenarioSources(sc)
	sources[0].Policy = sc.Policies[1]
	require.ErrorIs(t, est.AddSources(context.Background(), sources, sc.PhiQ, sc.PhiV), estimator.ErrMismatch)
	assert.Equal(t, 0, est.NumSources())

	// an equal but distinct policy value is accepted
	twin, err := mdptest.SoftmaxPolicy(sc.Grid, mdptest.SourceThetas[0])
	require.NoError(t, err)
	sources[0].Policy = twin
	require.NoError(t, est.AddSources(context.Background(), sources, sc.PhiQ, sc.PhiV))
}

func TestTransitionBoundSharedPerGrid(t *testing.T) {
	t.Parallel()

	sc, err := mdptest.NewScenario(3, 50)
	require.NoError(t, err)
	est, err := estimator.New(mdptest.Gamma, sc.Dynamics, quiet())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, est.AddSources(ctx, scenarioSources(sc), sc.PhiQ, sc.PhiV))

	first, err := est.Source(0)
	require.NoError(t, err)
	second, err := est.Source(1)
	require.NoError(t, err)
	require.NotNil(t, first.Bound)
	assert.Same(t, first.Bound, second.Bound)

	// a later call on the same grid reuses the cached bound
	require.NoError(t, est.AddSources(ctx, scenarioSources(sc)[:1], sc.PhiQ, sc.PhiV))
	third, err := est.Source(2)
	require.NoError(t, err)
	assert.Same(t, first.Bound, third.Bound)

	// clearing drops the cache
	est.ClearSources()
	require.NoError(t, est.AddSources(ctx, scenarioSources(sc)[:1], sc.PhiQ, sc.PhiV))
	fresh, err := est.Source(0)
	require.NoError(t, err)
	assert.NotSame(t, first.Bound, fresh.Bound)
	assert.Equal(t, first.Bound.Max, fresh.Bound.Max)
}

func TestDisabledFlavors(t *testing.T) {
	t.Parallel()

	sc, err := mdptest.NewScenario(1, 100)
	require.NoError(t, err)
	est, err := estimator.New(mdptest.Gamma, sc.Dynamics, quiet(),
		estimator.WithLSTDQ(false), estimator.WithLSTDV(false))
	require.NoError(t, err)
	ctx := context.Background()
	// feature matrices are not needed without LSTD
	require.NoError(t, est.AddSources(ctx, scenarioSources(sc), nil, nil))
	require.ErrorIs(t, est.PrepareLSTD(ctx, sc.TargetPolicy, 0.25), estimator.ErrFlagDisabled)
	_, err = est.EstimateWeightsLSTDV(1, mat.NewDense(3, 3, nil), make([]float64, 3))
	require.ErrorIs(t, err, estimator.ErrFlagDisabled)

	st, err := est.Source(0)
	require.NoError(t, err)
	assert.Nil(t, st.QGroups)
	assert.NotNil(t, st.GradGroups)
}

func TestBuildCI(t *testing.T) {
	t.Parallel()

	est, err := estimator.New(mdptest.Gamma, mdptest.NewMountainCar(), quiet(), estimator.WithAlpha(0.05))
	require.NoError(t, err)
	iv, err := est.BuildCI(1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, iv.Lower)
	assert.Greater(t, iv.Upper, 1.0)
	_, err = est.BuildCI(-2)
	require.ErrorIs(t, err, confint.ErrInvalidStatistic)
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { estimator.WithWorkers(0) })
	assert.Panics(t, func() { estimator.WithParameterRange(1, 0) })
	assert.Panics(t, func() { estimator.WithDensityFloor(-1) })
	assert.Panics(t, func() { estimator.WithLogger(nil) })
	assert.Panics(t, func() { estimator.WithAlpha(1) })
}
