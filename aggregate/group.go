// SPDX-License-Identifier: MIT

package aggregate

import (
	"cmp"
	"slices"

	"github.com/katalvlaran/minweights/mdp"
)

// Key selects the tuple that defines group membership.
type Key int

const (
	// ByStateAction groups by (s, a); used by the policy-gradient estimator.
	ByStateAction Key = iota
	// ByTransitionAction groups by (s, a, s', a'); used by LSTD-Q.
	ByTransitionAction
	// ByTransition groups by (s, a, s'); used by LSTD-V.
	ByTransition
)

// String implements fmt.Stringer.
func (k Key) String() string {
	switch k {
	case ByStateAction:
		return "(s,a)"
	case ByTransitionAction:
		return "(s,a,s',a')"
	case ByTransition:
		return "(s,a,s')"
	}

	return "unknown"
}

// Tuple is a group key. Fields not covered by the Key are −1.
type Tuple struct {
	State, Action, NextState, NextAction int
}

// Grouping is the deduplicated view of a SampleBatch. The batch itself is left
// untouched.
//   - Order[p] is the original row at sorted position p (stable sort by key).
//   - Group g occupies Order[Starts[g] : Starts[g]+Sizes[g]].
//   - Groups appear in ascending key order.
type Grouping struct {
	Key    Key
	Order  []int
	Starts []int
	Sizes  []int
	Keys   []Tuple
}

// Group sorts the rows of b by key and splits them into groups of equal key.
//
// Implementation:
//   - Stage 1: stable sort of row indices by the key fields (lexicographic).
//   - Stage 2: one linear scan records group starts, sizes and key tuples.
//
// Complexity: O(N log N) time, O(N) space.
func Group(b *mdp.SampleBatch, key Key) (*Grouping, error) {
	const tag = "Group"
	if key < ByStateAction || key > ByTransition {
		return nil, aggregateErrorf(tag, ErrUnknownKey)
	}
	n := b.Len()
	if n == 0 {
		return nil, aggregateErrorf(tag, mdp.ErrEmptyBatch)
	}
	tupleOf := func(i int) Tuple {
		t := Tuple{State: b.States[i], Action: b.Actions[i], NextState: -1, NextAction: -1}
		if key != ByStateAction {
			t.NextState = b.NextStates[i]
		}
		if key == ByTransitionAction {
			t.NextAction = b.NextActions[i]
		}
		return t
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int {
		return compareTuple(tupleOf(i), tupleOf(j))
	})

	g := &Grouping{Key: key, Order: order}
	prev := tupleOf(order[0])
	g.Starts = append(g.Starts, 0)
	g.Keys = append(g.Keys, prev)
	for p := 1; p < n; p++ {
		cur := tupleOf(order[p])
		if cur != prev {
			g.Sizes = append(g.Sizes, p-g.Starts[len(g.Starts)-1])
			g.Starts = append(g.Starts, p)
			g.Keys = append(g.Keys, cur)
			prev = cur
		}
	}
	g.Sizes = append(g.Sizes, n-g.Starts[len(g.Starts)-1])

	return g, nil
}

func compareTuple(a, b Tuple) int {
	if c := cmp.Compare(a.State, b.State); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Action, b.Action); c != 0 {
		return c
	}
	if c := cmp.Compare(a.NextState, b.NextState); c != 0 {
		return c
	}

	return cmp.Compare(a.NextAction, b.NextAction)
}

// Len returns the number of groups.
func (g *Grouping) Len() int { return len(g.Sizes) }

// Samples returns the number of rows covered.
func (g *Grouping) Samples() int { return len(g.Order) }

// Members returns the original rows of group gi in sorted order. The slice
// aliases Order.
func (g *Grouping) Members(gi int) []int {
	return g.Order[g.Starts[gi] : g.Starts[gi]+g.Sizes[gi]]
}

// Inverse returns inv with inv[Order[p]] = p, i.e. the sorted position of
// each original row.
func (g *Grouping) Inverse() []int {
	inv := make([]int, len(g.Order))
	for p, row := range g.Order {
		inv[row] = p
	}

	return inv
}
