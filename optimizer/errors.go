// SPDX-License-Identifier: MIT

package optimizer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBlocks is returned for a problem without source blocks.
	ErrNoBlocks = errors.New("optimizer: no blocks")

	// ErrShape indicates statistics, sizes, bounds or target of inconsistent size.
	ErrShape = errors.New("optimizer: shape mismatch")

	// ErrEmptyBlock is returned for a block whose sample count is not positive.
	ErrEmptyBlock = errors.New("optimizer: block without samples")

	// ErrBounds indicates lower > upper or a bound that is NaN.
	ErrBounds = errors.New("optimizer: invalid box bounds")

	// ErrScale indicates a non-finite or non-positive statistic scale.
	ErrScale = errors.New("optimizer: invalid scale")
)

func optimizerErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
