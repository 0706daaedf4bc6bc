// SPDX-License-Identifier: MIT

package aggregate

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKey is returned for a Key outside the declared constants.
	ErrUnknownKey = errors.New("aggregate: unknown grouping key")

	// ErrShape indicates a weight, value or feature array of the wrong size.
	ErrShape = errors.New("aggregate: shape mismatch")

	// ErrFeatureIndex indicates a sample whose feature row is outside the feature matrix.
	ErrFeatureIndex = errors.New("aggregate: feature row out of range")

	// ErrNotConstant is returned by Reduce when members of a group disagree.
	ErrNotConstant = errors.New("aggregate: group values differ")
)

func aggregateErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
