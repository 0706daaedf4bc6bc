// SPDX-License-Identifier: MIT

package estimator

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/minweights/aggregate"
	"github.com/katalvlaran/minweights/bound"
	"github.com/katalvlaran/minweights/confint"
	"github.com/katalvlaran/minweights/discrepancy"
	"github.com/katalvlaran/minweights/mdp"
	"github.com/katalvlaran/minweights/tensor"
)

// Source is one source task handed to AddSources: the task, the behavior
// policy that generated its samples and the samples themselves. Policy must
// agree with the policy Task was built under.
type Source struct {
	Task   *mdp.Task
	Policy *mdp.Policy
	Batch  *mdp.SampleBatch
}

// SourceTaskState is everything the estimator keeps for one source task.
// The cached part is computed once by AddSources; the request part is
// replaced by every Prepare* call.
type SourceTaskState struct {
	Source
	Bound *bound.Bound

	// nil when the matching flavor is disabled
	GradGroups *aggregate.Grouping // (s,a)
	QGroups    *aggregate.Grouping // (s,a,s',a')
	VGroups    *aggregate.Grouping // (s,a,s')
	QStats     *aggregate.Stats
	VStats     *aggregate.Stats

	// current request
	gradBounds *discrepancy.Bounds
	qBounds    *discrepancy.Bounds
	vBounds    *discrepancy.Bounds
	eta        *tensor.Dense // [G,D] per-group gradient statistic
}

// Estimator chooses bias/variance-minimizing importance weights for samples
// of several source tasks evaluated on a target task. It is safe for
// concurrent use; requests serialize with AddSources and Prepare*.
type Estimator struct {
	mu sync.RWMutex

	gamma float64
	dyn   mdp.Dynamics
	opts  Options
	log   *slog.Logger

	sources []*SourceTaskState
	size    int                        // Σ batch sizes
	bounds  map[*mdp.Grid]*bound.Bound // shared by every task on the same grid

	gradReady bool
	lstdReady bool
}

// New creates an estimator for tasks discounted by gamma whose reference
// dynamics is dyn. dyn is only evaluated at the two boundary parameters.
func New(gamma float64, dyn mdp.Dynamics, opts ...Option) (*Estimator, error) {
	if dyn == nil {
		return nil, estimatorErrorf("New", mdp.ErrNilDynamics)
	}
	if !(gamma >= 0 && gamma < 1) {
		return nil, estimatorErrorf("New", mdp.ErrBadDiscount)
	}
	o := gatherOptions(opts...)

	return &Estimator{
		gamma: gamma,
		dyn:   dyn,
		opts:  o,
		log:   o.logger.With("component", "minweights"),
	}, nil
}

// Gamma returns the discount factor.
func (e *Estimator) Gamma() float64 { return e.gamma }

// NumSources returns the number of cached source tasks.
func (e *Estimator) NumSources() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.sources)
}

// Samples returns the total number of source samples, the length of every
// weight vector returned by EstimateWeights*.
func (e *Estimator) Samples() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.size
}

// AddSources validates and caches new source tasks: the transition bound,
// the groupings of every enabled flavor and the LSTD sufficient statistics.
// phiQ (rows s·A+a) is required when LSTD-Q is enabled, phiV (rows s) when
// LSTD-V is; either may be nil otherwise. Appending sources invalidates
// prepared requests.
//
// Implementation:
//   - Stage 1: validate every source (dimensions, discount, policy, batch indices).
//   - Stage 2: bound.Compute once per grid not seen before; tasks sharing a
//     grid share the Bound.
//   - Stage 3: per task on a bounded pool: aggregate.Group,
//     aggregate.QStats/VStats.
//   - Stage 4: append under the write lock.
func (e *Estimator) AddSources(ctx context.Context, sources []Source, phiQ, phiV mat.Matrix) error {
	const tag = "AddSources"
	if len(sources) == 0 {
		return estimatorErrorf(tag, ErrNoSources)
	}
	if (e.opts.lstdQ && phiQ == nil) || (e.opts.lstdV && phiV == nil) {
		return estimatorErrorf(tag, ErrMismatch)
	}
	for _, src := range sources {
		if err := e.validate(src); err != nil {
			return estimatorErrorf(tag, err)
		}
	}

	bounds, err := e.gridBounds(ctx, sources)
	if err != nil {
		return estimatorErrorf(tag, err)
	}

	states := make([]*SourceTaskState, len(sources))
	p := pool.New().WithMaxGoroutines(e.opts.workers).WithContext(ctx).WithCancelOnError()
	for j, src := range sources {
		j, src := j, src
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			st, err := e.cache(src, bounds[src.Task.Grid()], phiQ, phiV)
			if err != nil {
				return err
			}
			states[j] = st
			e.log.Debug("source cached",
				slog.Int("task", j),
				slog.Int("samples", src.Batch.Len()),
				slog.Float64("parameter", src.Task.Parameter()))
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return estimatorErrorf(tag, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, st := range states {
		e.size += st.Batch.Len()
	}
	if e.bounds == nil {
		e.bounds = make(map[*mdp.Grid]*bound.Bound, len(bounds))
	}
	for g, b := range bounds {
		if _, ok := e.bounds[g]; !ok {
			e.bounds[g] = b
		}
	}
	e.sources = append(e.sources, states...)
	e.gradReady, e.lstdReady = false, false
	e.log.Info("sources added", slog.Int("added", len(states)), slog.Int("tasks", len(e.sources)), slog.Int("samples", e.size))

	return nil
}

func (e *Estimator) validate(src Source) error {
	if src.Task == nil || src.Policy == nil || src.Batch == nil {
		return ErrMismatch
	}
	grid := src.Task.Grid()
	if src.Task.Gamma() != e.gamma {
		return ErrMismatch
	}
	if src.Policy.NumStates() != grid.NumStates() || src.Policy.NumActions() != grid.NumActions() {
		return ErrMismatch
	}
	// ζ was derived under the task's policy; the source policy must match it
	same, err := tensor.AllClose(src.Policy.Probs(), src.Task.Policy().Probs(), 0, mdp.DistributionTolerance)
	if err != nil || !same {
		return ErrMismatch
	}

	return src.Batch.Validate(grid)
}

// gridBounds returns the transition bound of every grid used by sources,
// reusing cached ones and computing the rest.
func (e *Estimator) gridBounds(ctx context.Context, sources []Source) (map[*mdp.Grid]*bound.Bound, error) {
	out := make(map[*mdp.Grid]*bound.Bound)
	var missing []*mdp.Grid
	e.mu.RLock()
	for _, src := range sources {
		g := src.Task.Grid()
		if _, ok := out[g]; ok {
			continue
		}
		out[g] = e.bounds[g]
		if out[g] == nil {
			missing = append(missing, g)
		}
	}
	e.mu.RUnlock()

	for _, g := range missing {
		b, err := bound.Compute(ctx, g, e.dyn,
			bound.WithParameterRange(e.opts.minParam, e.opts.maxParam),
			bound.WithWorkers(e.opts.workers))
		if err != nil {
			return nil, err
		}
		out[g] = b
		e.log.Debug("transition bound computed",
			slog.Int("states", g.NumStates()),
			slog.Float64("max", tensor.Max(b.L)))
	}

	return out, nil
}

func (e *Estimator) cache(src Source, b *bound.Bound, phiQ, phiV mat.Matrix) (*SourceTaskState, error) {
	grid := src.Task.Grid()
	st := &SourceTaskState{Source: src, Bound: b}
	var err error
	if e.opts.gradient {
		if st.GradGroups, err = aggregate.Group(src.Batch, aggregate.ByStateAction); err != nil {
			return nil, err
		}
	}
	if e.opts.lstdQ {
		if st.QGroups, err = aggregate.Group(src.Batch, aggregate.ByTransitionAction); err != nil {
			return nil, err
		}
		if st.QStats, err = aggregate.QStats(src.Batch, st.QGroups, phiQ, grid.NumActions(), e.gamma); err != nil {
			return nil, err
		}
	}
	if e.opts.lstdV {
		if st.VGroups, err = aggregate.Group(src.Batch, aggregate.ByTransition); err != nil {
			return nil, err
		}
		if st.VStats, err = aggregate.VStats(src.Batch, st.VGroups, phiV, e.gamma); err != nil {
			return nil, err
		}
	}

	return st, nil
}

// ClearSources drops every cached source and prepared request.
func (e *Estimator) ClearSources() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sources = nil
	e.bounds = nil
	e.size = 0
	e.gradReady, e.lstdReady = false, false
	e.log.Debug("sources cleared")
}

// Source returns a snapshot of the cached state of task j.
func (e *Estimator) Source(j int) (SourceTaskState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if j < 0 || j >= len(e.sources) {
		return SourceTaskState{}, estimatorErrorf("Source", mdp.ErrIndex)
	}

	return *e.sources[j], nil
}

// BuildCI returns the confidence interval on the noncentrality of a chi(1)
// statistic y at the configured α.
func (e *Estimator) BuildCI(y float64) (confint.Interval, error) {
	iv, err := confint.Build(y, confint.WithAlpha(e.opts.alpha))
	if err != nil {
		return confint.Interval{}, estimatorErrorf("BuildCI", err)
	}

	return iv, nil
}
