// SPDX-License-Identifier: MIT

// Package bound computes, for a discretized task, an upper bound on the
// sensitivity of its transition kernel to the physical parameter.
//
// The kernel puts mass Φ((b2−μ)/σ) − Φ((b1−μ)/σ) on bin [b1,b2] of each axis,
// μ being the noiseless next value. Moving the parameter moves μ, so the
// derivative of that mass is bounded by the Gaussian density difference at the
// bin edges times |dμ/dθ|. For each bin the package finds where that
// difference peaks (a bracket-and-bisect root, package rootfind) and uses the
// peak value when the peak is reachable inside the parameter range, otherwise
// the larger of the two boundary evaluations. Tail bins use one-sided bounds.
// Position and velocity bounds combine through an outer product.
//
// Inputs are only a Grid and an mdp.Dynamics evaluated at the two boundary
// parameters (defaults 0 and 0.5); no environment simulation is needed.
//
// Concurrency:
//   - Compute fans out across states on a github.com/sourcegraph/conc pool
//     (WithWorkers, default GOMAXPROCS).
package bound
