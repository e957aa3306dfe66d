package core

// This file implements the Network: the thread-safe container that owns all
// live nodes, allocates variable identifiers, and applies structural edits
// (add/remove node, add/remove edge, CPT updates). It uses a read-write mutex
// to allow concurrent reads while ensuring exclusive access for mutations.

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tidwall/btree"
)

// Structural edit errors.
var (
	// ErrUnknownNode is returned when an operation names an identifier with
	// no live node behind it.
	ErrUnknownNode = errors.New("unknown node")

	// ErrEdgeRejected is returned when an edge would violate an invariant:
	// a self-loop, or a second edge over the same ordered pair.
	ErrEdgeRejected = errors.New("edge rejected")
)

// Network is a directed graph of Nodes forming a belief network.
//
// Identifiers are positive integers, unique among currently-live nodes.
// Deleted identifiers go to a free list and the smallest freed identifier is
// reused first, so identifiers are stable per session but not unique across
// time. The node table is a B-Tree ordered by identifier, which gives every
// full scan (readiness ordering in the samplers, SHOW listings) a
// deterministic ascending order.
//
// All methods are safe for concurrent use. Higher layers that need a stable
// view across several calls (the inference engines) must serialise edits
// externally; see the engine package.
type Network struct {
	mu      sync.RWMutex
	nodes   *btree.BTreeG[*Node]
	nextID  int
	freeIDs []int
}

func nodeLess(a, b *Node) bool {
	return a.id < b.id
}

// NewNetwork creates an empty network. The first allocated identifier is 1.
func NewNetwork() *Network {
	return &Network{
		nodes:  btree.NewBTreeG[*Node](nodeLess),
		nextID: 1,
	}
}

// allocID hands out the smallest free identifier, falling back to the
// monotonic counter. Caller must hold the write lock.
func (net *Network) allocID() int {
	if len(net.freeIDs) > 0 {
		id := net.freeIDs[0]
		net.freeIDs = net.freeIDs[1:]
		return id
	}
	id := net.nextID
	net.nextID++
	return id
}

// releaseID returns an identifier to the free list, keeping it sorted so the
// smallest is reused first. Caller must hold the write lock.
func (net *Network) releaseID(id int) {
	net.freeIDs = append(net.freeIDs, id)
	sort.Ints(net.freeIDs)
}

// AddNode creates a new node with an empty CPT and returns its identifier.
func (net *Network) AddNode() int {
	net.mu.Lock()
	defer net.mu.Unlock()

	id := net.allocID()
	net.nodes.Set(NewNode(id))
	return id
}

// RemoveNode deletes a node, detaches every incident edge from both
// endpoints, and releases the identifier for reuse.
func (net *Network) RemoveNode(id int) error {
	net.mu.Lock()
	defer net.mu.Unlock()

	node, ok := net.nodes.Get(&Node{id: id})
	if !ok {
		return fmt.Errorf("remove node %d: %w", id, ErrUnknownNode)
	}

	for _, c := range node.Children() {
		c.RemoveParent(node)
	}
	for _, p := range node.Parents() {
		p.RemoveChild(node)
	}
	net.nodes.Delete(node)
	net.releaseID(id)
	return nil
}

// AddEdge creates the directed edge from -> to. It returns ErrEdgeRejected
// for self-loops and duplicate edges, leaving the graph unchanged.
func (net *Network) AddEdge(from, to int) error {
	net.mu.Lock()
	defer net.mu.Unlock()

	src, ok := net.nodes.Get(&Node{id: from})
	if !ok {
		return fmt.Errorf("edge %d->%d: %w %d", from, to, ErrUnknownNode, from)
	}
	dst, ok := net.nodes.Get(&Node{id: to})
	if !ok {
		return fmt.Errorf("edge %d->%d: %w %d", from, to, ErrUnknownNode, to)
	}

	if !src.AddChild(dst) {
		return fmt.Errorf("edge %d->%d: %w", from, to, ErrEdgeRejected)
	}
	if err := dst.AddParent(src); err != nil {
		// Keep the two lists in sync before surfacing the inconsistency.
		src.RemoveChild(dst)
		return fmt.Errorf("edge %d->%d: %w", from, to, err)
	}
	return nil
}

// RemoveEdge deletes the directed edge from -> to. Removing an edge that does
// not exist is a no-op, as long as both endpoints are live.
func (net *Network) RemoveEdge(from, to int) error {
	net.mu.Lock()
	defer net.mu.Unlock()

	src, ok := net.nodes.Get(&Node{id: from})
	if !ok {
		return fmt.Errorf("unlink %d->%d: %w %d", from, to, ErrUnknownNode, from)
	}
	dst, ok := net.nodes.Get(&Node{id: to})
	if !ok {
		return fmt.Errorf("unlink %d->%d: %w %d", from, to, ErrUnknownNode, to)
	}

	src.RemoveChild(dst)
	dst.RemoveParent(src)
	return nil
}

// SetProbability stores one CPT entry on the identified node.
func (net *Network) SetProbability(id, index int, p float64) error {
	net.mu.Lock()
	defer net.mu.Unlock()

	node, ok := net.nodes.Get(&Node{id: id})
	if !ok {
		return fmt.Errorf("set probability on %d: %w", id, ErrUnknownNode)
	}
	return node.SetProbability(index, p)
}

// Node returns the live node with the given identifier.
func (net *Network) Node(id int) (*Node, bool) {
	net.mu.RLock()
	defer net.mu.RUnlock()
	return net.nodes.Get(&Node{id: id})
}

// Has reports whether a live node exists for the identifier.
func (net *Network) Has(id int) bool {
	_, ok := net.Node(id)
	return ok
}

// Len returns the number of live nodes.
func (net *Network) Len() int {
	net.mu.RLock()
	defer net.mu.RUnlock()
	return net.nodes.Len()
}

// Nodes returns all live nodes in ascending identifier order.
func (net *Network) Nodes() []*Node {
	net.mu.RLock()
	defer net.mu.RUnlock()

	out := make([]*Node, 0, net.nodes.Len())
	net.nodes.Scan(func(n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}
