// SPDX-License-Identifier: MIT

package mdp

// Dynamics is the reference one-step transition capability. Step returns the
// noiseless next continuous state [position, velocity] reached from state
// under action when the physical parameter (actuator power) equals parameter.
//
// Contract:
//   - Step is pure; the bound computer calls it concurrently and only at the
//     two boundary parameters of the configured range.
//   - Each coordinate of Step is continuous and monotone in parameter, so the
//     means reachable over the range lie between the two boundary means.
//     Clamping (saturation) is allowed; resets that jump are not.
//   - |∂Step_k/∂parameter| ≤ |action| on both axes, unless the dynamics also
//     implements SlopeBounder.
type Dynamics interface {
	Step(state []float64, action, parameter float64) []float64
}

// SlopeBounder is implemented by dynamics whose next-state mean can move
// faster than |action| per unit of parameter. Slopes returns the supremum of
// |∂Step_k/∂parameter| over the parameter range for position and velocity.
type SlopeBounder interface {
	Slopes(state []float64, action float64) (pos, vel float64)
}

// DynamicsFunc adapts an ordinary function to the Dynamics interface.
type DynamicsFunc func(state []float64, action, parameter float64) []float64

// Step calls f(state, action, parameter).
func (f DynamicsFunc) Step(state []float64, action, parameter float64) []float64 {
	return f(state, action, parameter)
}
