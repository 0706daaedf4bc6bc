// SPDX-License-Identifier: MIT

// Package aggregate deduplicates transition samples into groups that share a
// key and computes per-group sufficient statistics, so that every later stage
// scales with the number of distinct keys rather than the number of samples.
//
// Keys: ByStateAction (policy gradient), ByTransitionAction (LSTD-Q),
// ByTransition (LSTD-V).
//
// Expand broadcasts group weights back to rows in original order; Reduce is
// its exact left inverse.
//
// Invariants:
//   - Σ Sizes = N.
//   - Σ_g Rho[g] = Σ_i φ(x_i)·r_i up to floating-point reassociation.
//   - Reduce(g, Expand(g, w)) == w bit for bit.
package aggregate
