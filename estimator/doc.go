// SPDX-License-Identifier: MIT

// Package estimator is the entry point of minweights: it caches source tasks
// and answers weight requests for a target task.
//
// Lifecycle:
//
//	est, _ := estimator.New(gamma, dynamics)
//	_ = est.AddSources(ctx, sources, phiQ, phiV)   // bounds, groupings, LSTD statistics
//	_ = est.PrepareLSTD(ctx, targetPolicy, targetParameter)
//	res, _ := est.EstimateWeightsLSTDQ(targetSize, A, b)
//	res.Weights                                     // one weight per source sample
//
// AddSources is the expensive step and runs once per set of sources.
// Prepare* runs once per (target policy, target parameter) and
// EstimateWeights* once per estimator request; neither touches the cache.
// Flavors can be switched off with WithGradient, WithLSTDQ and WithLSTDV.
//
// Logging goes through log/slog with component=minweights: per-task progress
// at debug level and one summary per request at info level.
package estimator
