// SPDX-License-Identifier: MIT

package mdp

// Grid is the discretized state-action space: position × velocity bins and a
// finite set of scalar action values.
//
// State layout is velocity-major: s = vel·nPos + pos. A next-state vector
// indexed by s' is therefore the row-major flattening of the outer product
// velocity ⊗ position.
type Grid struct {
	Position Axis
	Velocity Axis
	Actions  []float64
}

// NewGrid validates both axes and the action set.
func NewGrid(position, velocity Axis, actions []float64) (*Grid, error) {
	if err := position.Validate(); err != nil {
		return nil, mdpErrorf("NewGrid", err)
	}
	if err := velocity.Validate(); err != nil {
		return nil, mdpErrorf("NewGrid", err)
	}
	if len(actions) == 0 {
		return nil, mdpErrorf("NewGrid", ErrShape)
	}

	return &Grid{
		Position: position,
		Velocity: velocity,
		Actions:  append([]float64(nil), actions...),
	}, nil
}

// NumStates returns nPos·nVel.
func (g *Grid) NumStates() int { return g.Position.Bins() * g.Velocity.Bins() }

// NumActions returns the number of discrete actions.
func (g *Grid) NumActions() int { return len(g.Actions) }

// StateIndex maps (pos, vel) bin indices to the flat state index.
func (g *Grid) StateIndex(pos, vel int) int { return vel*g.Position.Bins() + pos }

// Split is the inverse of StateIndex.
func (g *Grid) Split(s int) (pos, vel int) {
	n := g.Position.Bins()
	return s % n, s / n
}

// StateRep returns the continuous representative [position, velocity] of s.
func (g *Grid) StateRep(s int) []float64 {
	pos, vel := g.Split(s)
	return []float64{g.Position.Reps[pos], g.Velocity.Reps[vel]}
}

// Locate returns the state index containing the continuous state [position, velocity].
func (g *Grid) Locate(state []float64) int {
	return g.StateIndex(g.Position.Locate(state[0]), g.Velocity.Locate(state[1]))
}

// CheckState returns ErrIndex unless 0 ≤ s < NumStates().
func (g *Grid) CheckState(s int) error {
	if s < 0 || s >= g.NumStates() {
		return ErrIndex
	}

	return nil
}

// CheckAction returns ErrIndex unless 0 ≤ a < NumActions().
func (g *Grid) CheckAction(a int) error {
	if a < 0 || a >= g.NumActions() {
		return ErrIndex
	}

	return nil
}
