// SPDX-License-Identifier: MIT

// Package mdp models the discretized tasks whose samples are transferred:
// a position × velocity Grid with Gaussian bin noise, an injected one-step
// Dynamics capability, behavior Policies, transition kernels, occupancy
// distributions and raw SampleBatches.
//
// What:
//   - Axis/Grid: bin edges, representatives and the velocity-major state layout
//     s = vel·nPos + pos.
//   - BuildKernel: P[s,a,s'] from a Dynamics at a fixed physical parameter.
//   - NewTask: state occupancy δ, state-action occupancy ζ and the fixed-point
//     inverse (I − γ·P_π)⁻¹, computed with gonum/mat.
//   - SampleBatch: parallel (s, a, s', a', r) arrays with validation.
//
// Errors:
//   - ErrEmptyBatch, ErrShape, ErrIndex, ErrNotDistribution, ErrBadAxis,
//     ErrBadDiscount, ErrSingular, ErrNilDynamics (match with errors.Is).
//
// Determinism:
//   - Every constructor is a pure function of its inputs.
package mdp
