package inference

import (
	"fmt"
	"math/rand"

	"github.com/sanonone/beliefdb/pkg/core"
)

// Strategy names a sampling algorithm.
type Strategy string

const (
	Rejection          Strategy = "rejection"
	LikelihoodWeighted Strategy = "likelihood"
	Gibbs              Strategy = "gibbs"
)

// ParseStrategy maps the user-facing names (including the short forms the
// REPL uses) onto a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "rejection", "rs":
		return Rejection, nil
	case "likelihood", "lws":
		return LikelihoodWeighted, nil
	case "gibbs":
		return Gibbs, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownStrategy)
}

// sampler is one per-iteration draw strategy. Each call returns a weighted
// sample from (an approximation of) the joint distribution of the network.
type sampler interface {
	draw() (float64, core.Sample)
}

// Result is the outcome of a sampling run.
type Result struct {
	// Estimate is numerator/denominator of the evaluator. Only meaningful
	// when Matched is true.
	Estimate float64

	// Matched is false when no sample was consistent with the evidence, a
	// reportable outcome rather than an error.
	Matched bool

	// Trace holds the running estimate after each evidence-consistent
	// sample, for plotting.
	Trace []float64
}

// Run executes iterations draws of the chosen strategy over the network and
// aggregates them into a Result. Validation happens up front: every query and
// evidence literal must name a live variable. The network must not be
// mutated for the duration of the call.
func Run(strategy Strategy, net *core.Network, query, evidence []int, iterations int, rng *rand.Rand) (Result, error) {
	if err := validateLiterals(net, query, ErrInvalidQuery); err != nil {
		return Result{}, err
	}
	if err := validateLiterals(net, evidence, ErrInvalidEvidence); err != nil {
		return Result{}, err
	}
	if iterations < 0 {
		return Result{}, fmt.Errorf("iterations %d: %w", iterations, ErrInvalidQuery)
	}

	nodes := net.Nodes()
	var s sampler
	switch strategy {
	case Rejection:
		s = &rejectionSampler{nodes: nodes, rng: rng}
	case LikelihoodWeighted:
		s = &likelihoodSampler{nodes: nodes, evidence: evidence, rng: rng}
	case Gibbs:
		s = newGibbsSampler(nodes, evidence, rng)
	default:
		return Result{}, fmt.Errorf("%q: %w", strategy, ErrUnknownStrategy)
	}

	ev := NewEvaluator(query, evidence)
	for i := 0; i < iterations; i++ {
		weight, sample := s.draw()
		ev.Add(weight, sample)
	}

	est, matched := ev.Estimate()
	return Result{Estimate: est, Matched: matched, Trace: ev.Trace()}, nil
}

func validateLiterals(net *core.Network, literals []int, kind error) error {
	for _, lit := range literals {
		id := lit
		if id < 0 {
			id = -id
		}
		if !net.Has(id) {
			return fmt.Errorf("literal %d: %w", lit, kind)
		}
	}
	return nil
}

// readyNodes returns, in the deterministic order of the node list, every node
// that has not been sampled yet but whose parents all have. Repeatedly
// draining this set visits each node exactly once per full draw, provided the
// graph is acyclic; on a cyclic graph some nodes stay unready forever and the
// resulting partial sample reflects the user's input error rather than a
// crash.
func readyNodes(nodes []*core.Node, sampled map[int]struct{}) []*core.Node {
	var ready []*core.Node
	for _, n := range nodes {
		if _, done := sampled[n.ID()]; done {
			continue
		}
		ok := true
		for _, p := range n.Parents() {
			if _, done := sampled[p.ID()]; !done {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, n)
		}
	}
	return ready
}

func containsLiteral(literals []int, lit int) bool {
	for _, l := range literals {
		if l == lit {
			return true
		}
	}
	return false
}
