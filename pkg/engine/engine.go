// Package engine provides the high-level, embedded interface for BeliefDB.
//
// It wraps the in-memory belief network (pkg/core) and the inference
// algorithms (pkg/inference) behind a single thread-safe facade, which is
// what every front end (HTTP API, REPL, MCP tools, tests) drives.
//
// Basic usage:
//
//	eng := engine.New()
//	a := eng.AddNode()
//	b := eng.AddNode()
//	eng.AddEdge(a, b)
//	eng.SetProbability(b, 1, 0.9)
//	res, err := eng.RunSampler(inference.Rejection, []int{b}, []int{a}, 10000, 42)
package engine

import (
	"sync"

	"github.com/sanonone/beliefdb/pkg/core"
)

// Engine is the main entry point for BeliefDB.
//
// Structural edits take the write lock; independence checks and sampling runs
// take the read lock for their whole duration, so the network is guaranteed
// read-only while inference is in flight. There is no cancellation primitive:
// a sampling run holds its read lock until all iterations complete, and a
// caller that needs responsiveness must run it off its interactive goroutine
// (the HTTP server's async task endpoint does exactly that).
type Engine struct {
	mu  sync.RWMutex
	net *core.Network
}

// New creates an engine over an empty network.
func New() *Engine {
	return &Engine{net: core.NewNetwork()}
}

// Network exposes the underlying network for read-only callers that format
// or describe it (REPL SHOW, the HTTP GET /network handler). Callers must not
// mutate it directly; edits go through the Engine so that locking and
// metrics stay correct.
func (e *Engine) Network() *core.Network {
	return e.net
}
