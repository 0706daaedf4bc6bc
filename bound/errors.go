// SPDX-License-Identifier: MIT

package bound

import (
	"errors"
	"fmt"
)

var (
	// ErrNilGrid is returned when Compute receives a nil grid.
	ErrNilGrid = errors.New("bound: nil grid")

	// ErrNilDynamics is returned when Compute receives nil dynamics.
	ErrNilDynamics = errors.New("bound: nil dynamics")

	// ErrDynamicsShape is returned when Dynamics.Step yields fewer than two coordinates.
	ErrDynamicsShape = errors.New("bound: dynamics returned malformed state")

	// ErrPeak is returned when the density-difference peak of a bin cannot be located.
	ErrPeak = errors.New("bound: peak root not found")
)

func boundErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
