// SPDX-License-Identifier: MIT

// Package minweights estimates importance weights that let samples from
// several source reinforcement-learning tasks be reused on a target task
// whose dynamics differ by a scalar physical parameter and whose behavior
// policy may differ too.
//
// The work is split into small packages:
//
//	tensor/      row-major N-d float64 storage, clips and reductions
//	rootfind/    exponential bracketing + bisection
//	mdp/         axes, grids, kernels, policies, tasks and sample batches
//	bound/       sensitivity of the transition kernel to the parameter
//	aggregate/   grouping of duplicate samples and LSTD statistics
//	discrepancy/ per-group weight intervals for a target request
//	optimizer/   bias²+variance minimization over group weights (L-BFGS)
//	confint/     Neyman intervals for a noncentral chi(1) statistic
//	estimator/   the facade tying everything together
//
// Typical use goes through estimator: AddSources once, then Prepare* and
// EstimateWeights* per target request. See examples/ for a runnable program.
package minweights
