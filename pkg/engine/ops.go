package engine

// This file implements the operational methods of the Engine: structural
// edits on the network and the two query operations (independence check,
// sampling run). Every method takes the engine lock, so edits are serialised
// against running inference, and records workload metrics.

import (
	"fmt"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/sanonone/beliefdb/pkg/inference"
	"github.com/sanonone/beliefdb/pkg/metrics"
)

// --- Structural edits ---

// AddNode creates a node and returns its identifier.
func (e *Engine) AddNode() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.net.AddNode()
	metrics.NetworkNodes.Set(float64(e.net.Len()))
	return id
}

// RemoveNode deletes a node and every incident edge; the identifier becomes
// reusable.
func (e *Engine) RemoveNode(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.net.RemoveNode(id); err != nil {
		return err
	}
	metrics.NetworkNodes.Set(float64(e.net.Len()))
	return nil
}

// AddEdge creates the directed edge from -> to.
func (e *Engine) AddEdge(from, to int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.net.AddEdge(from, to)
}

// RemoveEdge deletes the directed edge from -> to.
func (e *Engine) RemoveEdge(from, to int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.net.RemoveEdge(from, to)
}

// SetProbability stores P(node=true | assignment index) in the node's CPT.
func (e *Engine) SetProbability(id, index int, p float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.net.SetProbability(id, index, p)
}

// --- Introspection ---

// NodeInfo is the public description of one node, for listings and API
// responses.
type NodeInfo struct {
	ID       int             `json:"id"`
	Parents  []int           `json:"parents"`
	Children []int           `json:"children"`
	CPT      map[int]float64 `json:"cpt"`
}

// Describe returns every live node in ascending identifier order.
func (e *Engine) Describe() []NodeInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	nodes := e.net.Nodes()
	out := make([]NodeInfo, 0, len(nodes))
	for _, n := range nodes {
		info := NodeInfo{
			ID:       n.ID(),
			Parents:  make([]int, 0, len(n.Parents())),
			Children: make([]int, 0, len(n.Children())),
			CPT:      n.CPT(),
		}
		for _, p := range n.Parents() {
			info.Parents = append(info.Parents, p.ID())
		}
		for _, c := range n.Children() {
			info.Children = append(info.Children, c.ID())
		}
		out = append(out, info)
	}
	return out
}

// --- Queries ---

// CheckIndependence decides d-separation of a and b given the evidence
// literals. Unlike the checker underneath, the engine enforces the interface
// contract that a query names exactly two distinct live variables.
func (e *Engine) CheckIndependence(a, b int, evidence []int) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if a == b {
		return false, fmt.Errorf("query must name two distinct variables: %w", ErrInvalidQuery)
	}
	independent, err := inference.NewChecker(e.net).IsIndependent(a, b, evidence)
	if err != nil {
		metrics.IndependenceChecksTotal.WithLabelValues("error").Inc()
		return false, err
	}
	if independent {
		metrics.IndependenceChecksTotal.WithLabelValues("independent").Inc()
	} else {
		metrics.IndependenceChecksTotal.WithLabelValues("dependent").Inc()
	}
	return independent, nil
}

// TraceSummary condenses the trailing half of a run's diagnostic trace, as a
// cheap stability indicator: a wide spread over the trailing window means the
// run had not settled by its final iteration.
type TraceSummary struct {
	Window int     `json:"window"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Result is the outcome of a sampling run at the engine surface.
type Result struct {
	inference.Result

	// Seed is the seed actually used, echoed back so a caller that passed 0
	// can reproduce the run.
	Seed int64 `json:"seed"`

	Summary TraceSummary `json:"summary"`
}

// RunSampler estimates P(query | evidence) with the given strategy and
// iteration count. A zero seed picks a time-based one; either way the seed
// used is reported in the Result. The network stays read-locked for the
// whole run.
func (e *Engine) RunSampler(strategy inference.Strategy, query, evidence []int, iterations int, seed int64) (Result, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	start := time.Now()
	res, err := inference.Run(strategy, e.net, query, evidence, iterations, rng)
	if err != nil {
		metrics.SamplingRunsTotal.WithLabelValues(string(strategy), "error").Inc()
		return Result{}, err
	}

	metrics.SamplingDuration.WithLabelValues(string(strategy)).Observe(time.Since(start).Seconds())
	metrics.SamplingIterationsTotal.WithLabelValues(string(strategy)).Add(float64(iterations))
	outcome := "estimated"
	if !res.Matched {
		outcome = "no_matching_samples"
	}
	metrics.SamplingRunsTotal.WithLabelValues(string(strategy), outcome).Inc()

	return Result{Result: res, Seed: seed, Summary: summarise(res.Trace)}, nil
}

// summarise computes mean and standard deviation over the trailing half of
// the trace.
func summarise(trace []float64) TraceSummary {
	if len(trace) == 0 {
		return TraceSummary{}
	}
	window := trace[len(trace)/2:]
	mean, std := stat.MeanStdDev(window, nil)
	if len(window) < 2 {
		std = 0 // MeanStdDev yields NaN for a single sample
	}
	return TraceSummary{Window: len(window), Mean: mean, StdDev: std}
}
