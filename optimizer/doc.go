// SPDX-License-Identifier: MIT

// Package optimizer chooses one importance weight per sample group by
// minimizing squared bias plus variance of the weighted estimate, subject to
// per-group box constraints l ≤ w ≤ u.
//
// The same Objective serves all three estimator flavors: each group carries a
// D-vector statistic (the policy-gradient contribution η_g, or the flattened
// LSTD statistics [vec(VarPhi_g), Rho_g]); the target vector t is the
// corresponding target-task quantity.
//
// Evaluate returns (value, gradient, bias) explicitly; the bias used by the
// gradient is always the one computed from the same w.
//
// Solve uses gonum/optimize L-BFGS on a sigmoid reparametrization of the box.
// Starting from w = 1, it never returns a point worse than the start;
// non-convergence is reported as a status, not an error.
package optimizer
