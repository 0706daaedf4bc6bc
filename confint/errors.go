// SPDX-License-Identifier: MIT

package confint

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/minweights/rootfind"
)

var (
	// ErrInfeasible is returned when α is outside [MinAlpha, 1) or the
	// observed statistic cannot reach the requested coverage.
	ErrInfeasible = errors.New("confint: infeasible confidence level for statistic")

	// ErrInvalidStatistic is returned for a negative or NaN statistic.
	ErrInvalidStatistic = errors.New("confint: statistic must be finite and non-negative")

	// ErrNoBracket is returned when exponential bracketing exceeds its cap.
	ErrNoBracket = rootfind.ErrNoBracket
)

func confintErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
