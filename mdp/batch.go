// SPDX-License-Identifier: MIT

package mdp

// SampleBatch holds one source task's transitions as parallel arrays. Row i is
// the transition (States[i], Actions[i]) → NextStates[i] followed by
// NextActions[i], with reward Rewards[i]. Batches are never mutated by the
// estimator; derived orderings are returned separately.
type SampleBatch struct {
	States      []int
	Actions     []int
	NextStates  []int
	NextActions []int
	Rewards     []float64
}

// Len returns the number of transitions.
func (b *SampleBatch) Len() int { return len(b.States) }

// Validate rejects empty batches, ragged columns and indices outside grid.
func (b *SampleBatch) Validate(grid *Grid) error {
	n := b.Len()
	if n == 0 {
		return mdpErrorf("Validate", ErrEmptyBatch)
	}
	if len(b.Actions) != n || len(b.NextStates) != n || len(b.NextActions) != n || len(b.Rewards) != n {
		return mdpErrorf("Validate", ErrShape)
	}
	for i := 0; i < n; i++ {
		if grid.CheckState(b.States[i]) != nil || grid.CheckState(b.NextStates[i]) != nil ||
			grid.CheckAction(b.Actions[i]) != nil || grid.CheckAction(b.NextActions[i]) != nil {
			return mdpErrorf("Validate", ErrIndex)
		}
	}

	return nil
}
