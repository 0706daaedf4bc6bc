// SPDX-License-Identifier: MIT

// Package discrepancy turns a cached transition bound into per-group weight
// intervals for one (target policy, target parameter) request.
//
// The kernel discrepancy combines the policy mismatch |π_s − π_t| with the
// parameter sensitivity L·|Δθ|; it is propagated through (I − γ·P_π)⁻¹ to the
// state occupancy and then to state-action, transition and
// transition-action occupancies. A sample's weight may then range over
//
//	[clip(1 − Δ/d, 0, 1), 1 + Δ/d]
//
// where Δ is the clipped discrepancy and d the source density at the sample's
// key. All quantities are evaluated per group key, so memory scales with the
// number of distinct keys instead of O(S²·A²).
//
// Errors:
//   - ErrZeroDensity when d ≤ floor (default DefaultDensityFloor).
//   - ErrShape, ErrNilInput, ErrKey for malformed requests.
package discrepancy
