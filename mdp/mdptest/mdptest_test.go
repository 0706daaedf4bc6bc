// SPDX-License-Identifier: MIT

package mdptest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/minweights/mdp/mdptest"
)

// From every grid representative the car stays off the left wall for all
// powers in [0, 0.5], so the velocity reset never introduces a jump in θ.
func TestMountainCarNeverHitsWallFromGrid(t *testing.T) {
	t.Parallel()

	g, err := mdptest.Grid()
	require.NoError(t, err)
	car := mdptest.NewMountainCar()
	for s := 0; s < g.NumStates(); s++ {
		rep := g.StateRep(s)
		for _, act := range g.Actions {
			for i := 0; i <= 50; i++ {
				power := 0.01 * float64(i)
				next := car.Step(rep, act, power)
				assert.Greaterf(t, next[0], car.MinPosition, "s=%d a=%g θ=%g", s, act, power)
			}
		}
	}
}

func TestMountainCarVelocityIsMonotoneInPower(t *testing.T) {
	t.Parallel()

	g, err := mdptest.Grid()
	require.NoError(t, err)
	car := mdptest.NewMountainCar()
	for s := 0; s < g.NumStates(); s++ {
		rep := g.StateRep(s)
		for _, act := range g.Actions {
			prev := car.Step(rep, act, 0)
			for i := 1; i <= 50; i++ {
				next := car.Step(rep, act, 0.01*float64(i))
				switch {
				case act > 0:
					assert.GreaterOrEqual(t, next[1], prev[1])
				case act < 0:
					assert.LessOrEqual(t, next[1], prev[1])
				default:
					assert.Equal(t, prev, next)
				}
				assert.LessOrEqual(t, next[1], car.MaxSpeed)
				assert.GreaterOrEqual(t, next[1], -car.MaxSpeed)
				prev = next
			}
		}
	}
}
