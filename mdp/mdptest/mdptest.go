// SPDX-License-Identifier: MIT

// Package mdptest provides deterministic fixtures shared by tests, examples and
// benchmarks: a small mountain-car grid, reference dynamics, softmax policies
// with analytic log-gradients, linear features and a seeded sampler.
//
// Concurrency:
//   - *rand.Rand is not goroutine-safe; use one RNG per goroutine.
package mdptest

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/minweights/mdp"
	"github.com/katalvlaran/minweights/tensor"
)

// Fixture constants.
const (
	Gamma         = 0.9
	PositionNoise = 0.25
	VelocityNoise = 0.05
	MinPower      = 0.0
	MaxPower      = 0.5

	// DefaultSeed is used when a caller passes seed==0.
	DefaultSeed int64 = 1
)

// Fixture axes and actions.
var (
	PositionEdges = []float64{-1, -0.5, 0, 0.5, 1}
	VelocityEdges = []float64{-0.2, -0.05, 0.05, 0.2}
	Actions       = []float64{-1, 0, 1}
)

// RNG returns a deterministic generator; seed==0 selects DefaultSeed.
func RNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// Grid returns the 4×3 position × velocity grid with three actions.
func Grid() (*mdp.Grid, error) {
	pos, err := mdp.NewAxis(PositionEdges, PositionNoise)
	if err != nil {
		return nil, err
	}
	vel, err := mdp.NewAxis(VelocityEdges, VelocityNoise)
	if err != nil {
		return nil, err
	}

	return mdp.NewGrid(pos, vel, Actions)
}

// MountainCar is the classic under-powered car on a sinusoidal hill. Power
// scales the action's push on velocity.
type MountainCar struct {
	MinPosition float64
	MaxPosition float64
	MaxSpeed    float64
	Gravity     float64
}

// NewMountainCar returns the car matching the fixture grid.
func NewMountainCar() MountainCar {
	return MountainCar{MinPosition: -1, MaxPosition: 1, MaxSpeed: 0.2, Gravity: 0.0025}
}

// Step implements mdp.Dynamics.
func (m MountainCar) Step(state []float64, action, power float64) []float64 {
	pos, vel := state[0], state[1]
	vel = tensor.ClipValue(vel+action*power-m.Gravity*math.Cos(3*pos), -m.MaxSpeed, m.MaxSpeed)
	pos = tensor.ClipValue(pos+vel, m.MinPosition, m.MaxPosition)
	if pos == m.MinPosition && vel < 0 {
		vel = 0
	}

	return []float64{pos, vel}
}

// SoftmaxPolicy returns π(a|s) ∝ exp(θ₀·a·v + θ₁·a), v the velocity
// representative of s, together with ∇_θ logπ (D = 2).
func SoftmaxPolicy(grid *mdp.Grid, theta [2]float64) (*mdp.Policy, error) {
	nS, nA := grid.NumStates(), grid.NumActions()
	probs, _ := tensor.New(nS, nA)
	grad, _ := tensor.New(nS, nA, 2)
	feat := make([][2]float64, nA)
	for s := 0; s < nS; s++ {
		v := grid.StateRep(s)[1]
		row, _ := probs.Fiber(s)
		norm := 0.0
		for a, act := range grid.Actions {
			feat[a] = [2]float64{act * v, act}
			row[a] = math.Exp(theta[0]*feat[a][0] + theta[1]*feat[a][1])
			norm += row[a]
		}
		var mean [2]float64
		for a := range row {
			row[a] /= norm
			mean[0] += row[a] * feat[a][0]
			mean[1] += row[a] * feat[a][1]
		}
		for a := range row {
			g, _ := grad.Fiber(s, a)
			g[0] = feat[a][0] - mean[0]
			g[1] = feat[a][1] - mean[1]
		}
	}

	return mdp.NewPolicy(probs, grad)
}

// UniformInitial returns the uniform distribution over states.
func UniformInitial(grid *mdp.Grid) []float64 {
	n := grid.NumStates()
	mu := make([]float64, n)
	for i := range mu {
		mu[i] = 1 / float64(n)
	}

	return mu
}

// Task builds the mountain-car task at the given power under policy.
func Task(grid *mdp.Grid, policy *mdp.Policy, power float64) (*mdp.Task, error) {
	k, err := mdp.BuildKernel(grid, NewMountainCar(), power)
	if err != nil {
		return nil, err
	}

	return mdp.NewTask(grid, k, policy, UniformInitial(grid), Gamma, power)
}

// QFeatures returns φ_Q with rows s·A+a: the action one-hot ⊗ [1, pos, vel].
func QFeatures(grid *mdp.Grid) *mat.Dense {
	nS, nA := grid.NumStates(), grid.NumActions()
	phi := mat.NewDense(nS*nA, 3*nA, nil)
	for s := 0; s < nS; s++ {
		rep := grid.StateRep(s)
		for a := 0; a < nA; a++ {
			phi.Set(s*nA+a, 3*a, 1)
			phi.Set(s*nA+a, 3*a+1, rep[0])
			phi.Set(s*nA+a, 3*a+2, rep[1])
		}
	}

	return phi
}

// VFeatures returns φ_V with rows s: [1, pos, vel].
func VFeatures(grid *mdp.Grid) *mat.Dense {
	nS := grid.NumStates()
	phi := mat.NewDense(nS, 3, nil)
	for s := 0; s < nS; s++ {
		rep := grid.StateRep(s)
		phi.Set(s, 0, 1)
		phi.Set(s, 1, rep[0])
		phi.Set(s, 2, rep[1])
	}

	return phi
}

// Reward is the fixture reward: the position reached minus a small action cost.
func Reward(grid *mdp.Grid, a, next int) float64 {
	return grid.StateRep(next)[0] - 0.1*math.Abs(grid.Actions[a])
}

// Sample draws n transitions: s ~ δ, a ~ π(s), s' ~ P(s,a), a' ~ π(s').
func Sample(rng *rand.Rand, task *mdp.Task, policy *mdp.Policy, n int) *mdp.SampleBatch {
	grid := task.Grid()
	delta := task.StateOccupancy()
	b := &mdp.SampleBatch{
		States:      make([]int, n),
		Actions:     make([]int, n),
		NextStates:  make([]int, n),
		NextActions: make([]int, n),
		Rewards:     make([]float64, n),
	}
	for i := 0; i < n; i++ {
		s := draw(rng, delta)
		pi, _ := policy.Probs().Fiber(s)
		a := draw(rng, pi)
		row, _ := task.Kernel().Fiber(s, a)
		s2 := draw(rng, row)
		pi2, _ := policy.Probs().Fiber(s2)
		b.States[i], b.Actions[i], b.NextStates[i] = s, a, s2
		b.NextActions[i] = draw(rng, pi2)
		b.Rewards[i] = Reward(grid, a, s2)
	}

	return b
}

// draw samples an index from the (possibly slightly unnormalized) weights p.
func draw(rng *rand.Rand, p []float64) int {
	total := 0.0
	for _, v := range p {
		total += v
	}
	u := rng.Float64() * total
	acc := 0.0
	for i, v := range p {
		acc += v
		if u < acc {
			return i
		}
	}

	return len(p) - 1
}
