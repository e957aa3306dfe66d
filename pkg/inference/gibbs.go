package inference

import (
	"math/rand"

	"github.com/sanonone/beliefdb/pkg/core"
)

// gibbsSampler runs a single-site Markov chain over the non-evidence
// variables. The state persists across draws: it starts at the positive
// evidence literals, and each draw picks one free variable uniformly and
// toggles it with probability Node.FlipProbability. Evidence variables stay
// clamped for the whole run. There is no burn-in; the iteration count is a
// raw draw count and early draws are as biased as the starting state.
type gibbsSampler struct {
	state     core.Sample
	variables []*core.Node
	rng       *rand.Rand
}

func newGibbsSampler(nodes []*core.Node, evidence []int, rng *rand.Rand) *gibbsSampler {
	state := make(core.Sample)
	for _, lit := range evidence {
		if lit > 0 {
			state.Set(lit)
		}
	}

	var variables []*core.Node
	for _, n := range nodes {
		if containsLiteral(evidence, n.ID()) || containsLiteral(evidence, -n.ID()) {
			continue
		}
		variables = append(variables, n)
	}

	return &gibbsSampler{state: state, variables: variables, rng: rng}
}

func (g *gibbsSampler) draw() (float64, core.Sample) {
	if len(g.variables) == 0 {
		// Everything is evidence; the chain has nothing to move.
		return 1, g.state
	}

	node := g.variables[g.rng.Intn(len(g.variables))]
	if g.rng.Float64() < node.FlipProbability(g.state) {
		if g.state.Has(node.ID()) {
			g.state.Unset(node.ID())
		} else {
			g.state.Set(node.ID())
		}
	}
	return 1, g.state
}
