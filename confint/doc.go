// SPDX-License-Identifier: MIT

// Package confint builds confidence intervals on the noncentrality λ of a
// chi distribution with one degree of freedom from a single observation y.
//
// The interval is a Neyman construction: for each λ the acceptance region is
// the highest-density interval A(λ) of mass 1−α, and the confidence set is
// every λ whose region contains y. Every root in the construction is found by
// exponential bracketing followed by bisection (package rootfind), so no
// solve depends on a heuristic starting point.
//
// Options: WithAlpha (default 0.1), WithTolerance, WithMaxDoublings.
package confint
