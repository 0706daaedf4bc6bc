// SPDX-License-Identifier: MIT

package estimator

import (
	"context"
	"log/slog"

	"github.com/sourcegraph/conc/pool"

	"github.com/katalvlaran/minweights/aggregate"
	"github.com/katalvlaran/minweights/discrepancy"
	"github.com/katalvlaran/minweights/mdp"
	"github.com/katalvlaran/minweights/tensor"
)

// PrepareLSTD computes the LSTD-Q and LSTD-V weight bounds of every source
// for the target policy and parameter. Cached bounds and statistics are read,
// never modified.
func (e *Estimator) PrepareLSTD(ctx context.Context, target *mdp.Policy, targetParameter float64) error {
	const tag = "PrepareLSTD"
	if !e.opts.lstdQ && !e.opts.lstdV {
		return estimatorErrorf(tag, ErrFlagDisabled)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkTarget(target); err != nil {
		return estimatorErrorf(tag, err)
	}
	e.lstdReady = false

	type result struct{ q, v *discrepancy.Bounds }
	out := make([]result, len(e.sources))
	err := e.forEach(ctx, target, targetParameter, func(j int, st *SourceTaskState, prop *discrepancy.Propagation) error {
		var r result
		var err error
		if st.QGroups != nil {
			if r.q, err = prop.LSTDQBounds(st.QGroups, e.opts.floor); err != nil {
				return err
			}
		}
		if st.VGroups != nil {
			if r.v, err = prop.LSTDVBounds(st.VGroups, e.opts.floor); err != nil {
				return err
			}
		}
		out[j] = r
		return nil
	})
	if err != nil {
		return estimatorErrorf(tag, err)
	}
	for j, st := range e.sources {
		st.qBounds, st.vBounds = out[j].q, out[j].v
	}
	e.lstdReady = true
	e.log.Info("lstd prepared", slog.Float64("target_parameter", targetParameter), slog.Int("tasks", len(e.sources)))

	return nil
}

// PrepareGradient computes the policy-gradient weight bounds and the per-group
// statistic η_g = Σ_{i∈g} ∇log π_t(a_i|s_i)·(Q_i − V_i) of every source.
// targetQ and targetV are per-sample values in source order, concatenated
// over tasks (length Samples()). target must carry a log-gradient.
func (e *Estimator) PrepareGradient(ctx context.Context, target *mdp.Policy, targetParameter float64, targetQ, targetV []float64) error {
	const tag = "PrepareGradient"
	if !e.opts.gradient {
		return estimatorErrorf(tag, ErrFlagDisabled)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkTarget(target); err != nil {
		return estimatorErrorf(tag, err)
	}
	if !target.HasGradient() || len(targetQ) != e.size || len(targetV) != e.size {
		return estimatorErrorf(tag, ErrMismatch)
	}
	e.gradReady = false

	offsets := make([]int, len(e.sources))
	for j := 1; j < len(e.sources); j++ {
		offsets[j] = offsets[j-1] + e.sources[j-1].Batch.Len()
	}

	type result struct {
		b   *discrepancy.Bounds
		eta *tensor.Dense
	}
	out := make([]result, len(e.sources))
	err := e.forEach(ctx, target, targetParameter, func(j int, st *SourceTaskState, prop *discrepancy.Propagation) error {
		b, err := prop.GradientBounds(st.GradGroups, e.opts.floor)
		if err != nil {
			return err
		}
		n, d := st.Batch.Len(), target.GradDim()
		adv, err := tensor.New(n, d)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			row, _ := adv.Fiber(i)
			k := offsets[j] + i
			scale := targetQ[k] - targetV[k]
			for c, g := range target.LogGrad(st.Batch.States[i], st.Batch.Actions[i]) {
				row[c] = g * scale
			}
		}
		eta, err := aggregate.GroupSums(st.GradGroups, adv)
		if err != nil {
			return err
		}
		out[j] = result{b: b, eta: eta}
		return nil
	})
	if err != nil {
		return estimatorErrorf(tag, err)
	}
	for j, st := range e.sources {
		st.gradBounds, st.eta = out[j].b, out[j].eta
	}
	e.gradReady = true
	e.log.Info("gradient prepared", slog.Float64("target_parameter", targetParameter), slog.Int("tasks", len(e.sources)))

	return nil
}

func (e *Estimator) checkTarget(target *mdp.Policy) error {
	if len(e.sources) == 0 {
		return ErrNoSources
	}
	if target == nil {
		return ErrMismatch
	}
	for _, st := range e.sources {
		grid := st.Task.Grid()
		if target.NumStates() != grid.NumStates() || target.NumActions() != grid.NumActions() {
			return ErrMismatch
		}
	}

	return nil
}

// forEach propagates the discrepancy of every source on a bounded pool and
// hands it to fn. Callers hold the write lock.
func (e *Estimator) forEach(ctx context.Context, target *mdp.Policy, targetParameter float64,
	fn func(j int, st *SourceTaskState, prop *discrepancy.Propagation) error) error {
	p := pool.New().WithMaxGoroutines(e.opts.workers).WithContext(ctx).WithCancelOnError()
	for j, st := range e.sources {
		j, st := j, st
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			prop, err := discrepancy.Propagate(discrepancy.Input{
				Task:            st.Task,
				Source:          st.Policy,
				Target:          target,
				TargetParameter: targetParameter,
				Bound:           st.Bound,
			})
			if err != nil {
				return err
			}
			e.log.Debug("discrepancy propagated", slog.Int("task", j), slog.Float64("parameter_gap", prop.ParameterGap()))
			return fn(j, st, prop)
		})
	}

	return p.Wait()
}
