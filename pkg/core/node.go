// Package core provides the fundamental data structures for the BeliefDB engine.
//
// This file defines the Node type: a single boolean random variable inside a
// belief network, together with its conditional probability table (CPT) and
// its adjacency to parent and child variables. Nodes are plain data plus pure
// lookup logic; all locking and identifier management lives in Network.
package core

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInconsistentParentLink is returned when a parent link is added twice for
// the same pair of nodes. The adjacency lists are maintained pairwise by the
// caller (AddEdge), so a duplicate parent means the two sides went out of sync.
var ErrInconsistentParentLink = errors.New("parent link already recorded")

// Sample is a truth assignment over the network variables: the set of variable
// identifiers currently assigned true. Absence means false.
type Sample map[int]struct{}

// Has reports whether the variable id is assigned true in the sample.
func (s Sample) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Set assigns the variable id to true.
func (s Sample) Set(id int) {
	s[id] = struct{}{}
}

// Unset assigns the variable id to false.
func (s Sample) Unset(id int) {
	delete(s, id)
}

// Clone returns an independent copy of the sample.
func (s Sample) Clone() Sample {
	out := make(Sample, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Node is a boolean random variable in a belief network.
//
// The CPT maps a parent-assignment index to P(node = true | that assignment).
// The index is a bitmask over the node's parents in insertion order: bit i is
// set iff parent i is true. Entries missing from the table default to 0.5.
// Because the bitmask depends on parent order, the parent list order is stable
// for the lifetime of the node.
type Node struct {
	id       int
	parents  []*Node
	children []*Node
	cpt      map[int]float64
}

// NewNode creates a detached node with the given identifier and an empty CPT.
// Normally nodes are created through Network.AddNode.
func NewNode(id int) *Node {
	return &Node{
		id:  id,
		cpt: make(map[int]float64),
	}
}

// ID returns the variable identifier of the node.
func (n *Node) ID() int {
	return n.id
}

// Parents returns the parent list in insertion order.
// The returned slice is the node's own; callers must not modify it.
func (n *Node) Parents() []*Node {
	return n.parents
}

// Children returns the child list in insertion order.
// The returned slice is the node's own; callers must not modify it.
func (n *Node) Children() []*Node {
	return n.children
}

// AddChild records child as a child of this node.
// It returns false without mutating anything if child is the node itself or
// is already recorded. The caller is responsible for the symmetric AddParent
// call on the child.
func (n *Node) AddChild(child *Node) bool {
	if child == n {
		return false
	}
	for _, c := range n.children {
		if c == child {
			return false
		}
	}
	n.children = append(n.children, child)
	return true
}

// AddParent records parent as a parent of this node.
// A duplicate parent is a data inconsistency (the child list on the other
// side rejects duplicates first) and is surfaced as ErrInconsistentParentLink
// without corrupting the list.
func (n *Node) AddParent(parent *Node) error {
	for _, p := range n.parents {
		if p == parent {
			return fmt.Errorf("node %d -> %d: %w", parent.id, n.id, ErrInconsistentParentLink)
		}
	}
	n.parents = append(n.parents, parent)
	return nil
}

// RemoveChild removes child from the child list. Removing a node that is not
// a child is a no-op.
func (n *Node) RemoveChild(child *Node) {
	out := n.children[:0]
	for _, c := range n.children {
		if c != child {
			out = append(out, c)
		}
	}
	n.children = out
}

// RemoveParent removes parent from the parent list. Removing a node that is
// not a parent is a no-op.
func (n *Node) RemoveParent(parent *Node) {
	out := n.parents[:0]
	for _, p := range n.parents {
		if p != parent {
			out = append(out, p)
		}
	}
	n.parents = out
}

// IsChild reports whether other is a recorded child of this node.
func (n *Node) IsChild(other *Node) bool {
	for _, c := range n.children {
		if c == other {
			return true
		}
	}
	return false
}

// IsParent reports whether other is a recorded parent of this node.
func (n *Node) IsParent(other *Node) bool {
	for _, p := range n.parents {
		if p == other {
			return true
		}
	}
	return false
}

// ParentCount returns the number of parents, which bounds the CPT size at
// 1 << ParentCount entries.
func (n *Node) ParentCount() int {
	return len(n.parents)
}

// SetProbability stores P(node = true | assignment index) in the CPT.
// The index must lie in [0, 1<<len(parents)) and p in [0, 1].
func (n *Node) SetProbability(index int, p float64) error {
	if index < 0 || index >= 1<<len(n.parents) {
		return fmt.Errorf("cpt index %d out of range for %d parents", index, len(n.parents))
	}
	if p < 0 || p > 1 {
		return fmt.Errorf("probability %v out of range [0,1]", p)
	}
	n.cpt[index] = p
	return nil
}

// CPT returns a copy of the explicitly set table entries.
func (n *Node) CPT() map[int]float64 {
	out := make(map[int]float64, len(n.cpt))
	for k, v := range n.cpt {
		out[k] = v
	}
	return out
}

// assignmentIndex computes the CPT bitmask for the given truth assignment:
// bit i is set iff parent i (in insertion order) is true in the sample.
func (n *Node) assignmentIndex(assignment Sample) int {
	index := 0
	bit := 1
	for _, p := range n.parents {
		if assignment.Has(p.id) {
			index += bit
		}
		bit *= 2
	}
	return index
}

// Probability returns P(node = true | assignment) by CPT lookup, defaulting
// to 0.5 for entries that were never set. Pure; no side effects.
func (n *Node) Probability(assignment Sample) float64 {
	if p, ok := n.cpt[n.assignmentIndex(assignment)]; ok {
		return p
	}
	return 0.5
}

// Draw samples a truth value for the node: true with probability
// Probability(assignment). This is the single nondeterministic primitive in
// the inference subsystem; the random source is always injected.
func (n *Node) Draw(assignment Sample, rng *rand.Rand) bool {
	return rng.Float64() < n.Probability(assignment)
}

// FlipProbability returns the probability used by the Gibbs sampler to toggle
// this node's value in state. For the node itself and for every child, the
// contributed factor is 1-p when the variable is currently true in state and
// p when false, where p is that variable's CPT probability under state.
//
// The product is NOT renormalised over the Markov blanket, so the result is
// only meaningful as a Bernoulli parameter for the single-site flip update,
// not as a conditional probability.
func (n *Node) FlipProbability(state Sample) float64 {
	p := n.Probability(state)
	result := p
	if state.Has(n.id) {
		result = 1.0 - p
	}
	for _, c := range n.children {
		cp := c.Probability(state)
		if state.Has(c.id) {
			result *= 1.0 - cp
		} else {
			result *= cp
		}
	}
	return result
}
