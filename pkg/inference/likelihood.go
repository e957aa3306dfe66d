package inference

import (
	"math/rand"

	"github.com/sanonone/beliefdb/pkg/core"
)

// likelihoodSampler draws forward samples with the evidence variables
// clamped. A variable observed true is forced true and the sample weight is
// multiplied by its CPT probability; observed false is forced false with
// weight 1-p. Unobserved variables are drawn normally and contribute no
// weight.
type likelihoodSampler struct {
	nodes    []*core.Node
	evidence []int
	rng      *rand.Rand
}

func (l *likelihoodSampler) draw() (float64, core.Sample) {
	sampled := make(map[int]struct{}, len(l.nodes))
	values := make(core.Sample, len(l.nodes))
	weight := 1.0

	queue := readyNodes(l.nodes, sampled)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if _, done := sampled[node.ID()]; done {
			continue
		}
		switch {
		case containsLiteral(l.evidence, node.ID()):
			weight *= node.Probability(values)
			values.Set(node.ID())
		case containsLiteral(l.evidence, -node.ID()):
			weight *= 1.0 - node.Probability(values)
		default:
			if node.Draw(values, l.rng) {
				values.Set(node.ID())
			}
		}
		sampled[node.ID()] = struct{}{}
		queue = append(queue, readyNodes(l.nodes, sampled)...)
	}
	return weight, values
}
