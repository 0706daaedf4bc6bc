// SPDX-License-Identifier: MIT

package discrepancy

import (
	"errors"
	"fmt"
)

var (
	// ErrNilInput is returned when a task, policy or bound is missing.
	ErrNilInput = errors.New("discrepancy: nil input")

	// ErrShape indicates policies or bounds that do not match the task grid.
	ErrShape = errors.New("discrepancy: shape mismatch")

	// ErrZeroDensity is returned when the source density at a sampled key is
	// at or below the density floor, so no finite weight bound exists.
	ErrZeroDensity = errors.New("discrepancy: source density at sample is (near) zero")

	// ErrKey is returned when a grouping was built with a key the requested
	// bound does not use.
	ErrKey = errors.New("discrepancy: grouping key does not match estimator")
)

func discrepancyErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
