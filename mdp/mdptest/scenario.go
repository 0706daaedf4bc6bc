// SPDX-License-Identifier: MIT

package mdptest

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/minweights/mdp"
)

// Scenario parameters: two sources bracketing the target power.
var (
	SourcePowers = []float64{0.1, 0.4}
	SourceThetas = [][2]float64{{2, 0.3}, {-1, -0.2}}
)

// TargetPower is the physical parameter of the evaluated task.
const TargetPower = 0.25

// Scenario is a ready-to-use transfer problem: source tasks with their
// behavior policies and batches, plus a target policy equal to the first
// source's policy.
type Scenario struct {
	Grid         *mdp.Grid
	Dynamics     mdp.Dynamics
	Tasks        []*mdp.Task
	Policies     []*mdp.Policy
	Batches      []*mdp.SampleBatch
	TargetPolicy *mdp.Policy
	TargetPower  float64
	PhiQ         *mat.Dense
	PhiV         *mat.Dense
}

// NewScenario builds the two-source scenario with samplesPerTask transitions
// drawn per source from a generator seeded with seed.
func NewScenario(seed int64, samplesPerTask int) (*Scenario, error) {
	grid, err := Grid()
	if err != nil {
		return nil, err
	}
	sc := &Scenario{
		Grid:        grid,
		Dynamics:    NewMountainCar(),
		TargetPower: TargetPower,
		PhiQ:        QFeatures(grid),
		PhiV:        VFeatures(grid),
	}
	rng := RNG(seed)
	for j, power := range SourcePowers {
		pol, err := SoftmaxPolicy(grid, SourceThetas[j])
		if err != nil {
			return nil, err
		}
		task, err := Task(grid, pol, power)
		if err != nil {
			return nil, err
		}
		sc.Tasks = append(sc.Tasks, task)
		sc.Policies = append(sc.Policies, pol)
		sc.Batches = append(sc.Batches, Sample(rng, task, pol, samplesPerTask))
	}
	sc.TargetPolicy = sc.Policies[0]

	return sc, nil
}
