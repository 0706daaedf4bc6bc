// SPDX-License-Identifier: MIT

package estimator

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSources is returned when a request is made before any source was added.
	ErrNoSources = errors.New("estimator: no source tasks")

	// ErrNotPrepared is returned by EstimateWeights* before the matching Prepare* call.
	ErrNotPrepared = errors.New("estimator: request not prepared")

	// ErrFlagDisabled is returned when a flavor was switched off at construction.
	ErrFlagDisabled = errors.New("estimator: estimator flavor disabled")

	// ErrMismatch is returned when inputs disagree in size, discount or features.
	ErrMismatch = errors.New("estimator: inconsistent inputs")
)

func estimatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
