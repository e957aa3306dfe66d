// Package inference implements the query side of BeliefDB: the d-separation
// independence check and the three stochastic sampling engines (rejection,
// likelihood-weighted, Gibbs) that estimate P(query | evidence) over a
// belief network.
//
// The network is treated as a read-only substrate; callers must not mutate it
// while a check or a sampling run is in flight (the engine package serialises
// this). Every random draw goes through an injected *rand.Rand so runs are
// reproducible under a fixed seed.
package inference

import (
	"fmt"

	"github.com/sanonone/beliefdb/pkg/core"
)

// Checker decides conditional independence between two variables by
// d-separation: it enumerates every simple undirected path between them and
// classifies each path as active or blocked under the evidence. This is an
// exhaustive check meant for the small networks an interactive tool builds,
// not a scalable criterion.
type Checker struct {
	net *core.Network
}

// NewChecker creates a Checker over the given network.
func NewChecker(net *core.Network) *Checker {
	return &Checker{net: net}
}

// IsIndependent reports whether variables a and b are conditionally
// independent given the evidence set (signed literals; only the magnitudes
// matter here, since observing a variable false still blocks or opens paths
// the same way).
//
// a and b must name live nodes (ErrInvalidQuery) and every evidence magnitude
// must name a live node (ErrInvalidEvidence). a == b is reported independent
// by convention, as is the case where no path connects the two.
func (c *Checker) IsIndependent(a, b int, evidence []int) (bool, error) {
	if !c.net.Has(a) || !c.net.Has(b) {
		return false, fmt.Errorf("independence of %d and %d: %w", a, b, ErrInvalidQuery)
	}
	observed := make(core.Sample, len(evidence))
	for _, lit := range evidence {
		id := lit
		if id < 0 {
			id = -id
		}
		if !c.net.Has(id) {
			return false, fmt.Errorf("evidence literal %d: %w", lit, ErrInvalidEvidence)
		}
		observed.Set(id)
	}

	if a == b {
		return true, nil
	}

	for _, path := range c.paths(a, b) {
		if !c.pathBlocked(path, observed) {
			return false, nil // one fully active path makes them dependent
		}
	}
	return true, nil
}

// paths enumerates every simple undirected path from a to b. It runs a
// breadth-first traversal over the undirected view of the graph (neighbours =
// children plus parents), carrying the path taken to each queue entry, and
// keeps going until the queue is exhausted so that longer paths are found
// too, not just shortest ones. A neighbour already on the current path is
// skipped, which is exactly the simple-path constraint.
func (c *Checker) paths(a, b int) [][]int {
	type entry struct {
		node *core.Node
		path []int
	}

	start, ok := c.net.Node(a)
	if !ok {
		return nil
	}

	var found [][]int
	queue := []entry{{node: start, path: []int{a}}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.node.ID() == b {
			found = append(found, cur.path)
			continue
		}

		neighbours := append(append([]*core.Node{}, cur.node.Children()...), cur.node.Parents()...)
		for _, n := range neighbours {
			if onPath(cur.path, n.ID()) {
				continue
			}
			next := make([]int, len(cur.path), len(cur.path)+1)
			copy(next, cur.path)
			queue = append(queue, entry{node: n, path: append(next, n.ID())})
		}
	}
	return found
}

func onPath(path []int, id int) bool {
	for _, p := range path {
		if p == id {
			return true
		}
	}
	return false
}

// pathBlocked reports whether the path contains at least one inactive middle
// triple. A path shorter than three nodes has no middle triple and is active
// by definition.
func (c *Checker) pathBlocked(path []int, observed core.Sample) bool {
	for i := 0; i+2 < len(path); i++ {
		if !c.tripleActive(path[i], path[i+1], path[i+2], observed) {
			return true
		}
	}
	return false
}

// tripleActive applies the active-path rule to the consecutive triple
// (x, y, z): a causal chain or common cause is active iff y is unobserved; a
// common effect (collider) is active iff y or one of its descendants is
// observed.
func (c *Checker) tripleActive(x, y, z int, observed core.Sample) bool {
	nx, _ := c.net.Node(x)
	ny, _ := c.net.Node(y)
	nz, _ := c.net.Node(z)

	chainOrCause := c.isCausalChain(nx, ny, nz) || isCommonCause(nx, ny, nz)
	if observed.Has(y) {
		if chainOrCause {
			return false
		}
	} else if chainOrCause {
		return true
	}

	// Common effect: x -> y <- z.
	return c.descendantObserved(ny, observed)
}

// isCausalChain reports x -> y -> z or z -> y -> x.
func (c *Checker) isCausalChain(x, y, z *core.Node) bool {
	if x.IsChild(y) && y.IsChild(z) {
		return true
	}
	if x.IsParent(y) && y.IsParent(z) {
		return true
	}
	return false
}

// isCommonCause reports x <- y -> z.
func isCommonCause(x, y, z *core.Node) bool {
	return x.IsParent(y) && z.IsParent(y)
}

// descendantObserved reports whether n or any descendant of n is in the
// observed set. The walk is an explicit stack rather than recursion, with a
// visited set so that a structurally cyclic graph cannot hang the check.
func (c *Checker) descendantObserved(n *core.Node, observed core.Sample) bool {
	visited := make(map[int]struct{})
	stack := []*core.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[cur.ID()]; seen {
			continue
		}
		visited[cur.ID()] = struct{}{}

		if observed.Has(cur.ID()) {
			return true
		}
		stack = append(stack, cur.Children()...)
	}
	return false
}
