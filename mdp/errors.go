// SPDX-License-Identifier: MIT
// Package mdp: sentinel error set.
// Constructors and validators return these sentinels wrapped with a call-site
// tag via mdpErrorf; callers match with errors.Is.

package mdp

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBatch is returned for a sample batch with no transitions.
	ErrEmptyBatch = errors.New("mdp: empty sample batch")

	// ErrShape indicates inconsistent lengths or tensor shapes between inputs.
	ErrShape = errors.New("mdp: shape mismatch")

	// ErrIndex indicates a state or action index outside the grid.
	ErrIndex = errors.New("mdp: index out of range")

	// ErrNotDistribution indicates a probability row that is negative or does
	// not sum to one within DistributionTolerance.
	ErrNotDistribution = errors.New("mdp: not a probability distribution")

	// ErrBadAxis indicates non-increasing bin edges, too few bins, or a
	// non-positive noise scale.
	ErrBadAxis = errors.New("mdp: invalid axis")

	// ErrBadDiscount indicates a discount factor outside [0, 1).
	ErrBadDiscount = errors.New("mdp: discount must lie in [0,1)")

	// ErrSingular is returned when I − γ·P_π cannot be inverted.
	ErrSingular = errors.New("mdp: fixed-point operator is singular")

	// ErrNilDynamics is returned when no Dynamics capability was supplied.
	ErrNilDynamics = errors.New("mdp: nil dynamics")
)

// mdpErrorf wraps err with a call-site tag, preserving the sentinel via %w.
func mdpErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
