package inference

import (
	"math/rand"

	"github.com/sanonone/beliefdb/pkg/core"
)

// rejectionSampler draws full joint samples by forward sampling in readiness
// order. Every sample carries weight 1; evidence filtering is left entirely
// to the Evaluator, which is what makes this rejection sampling.
type rejectionSampler struct {
	nodes []*core.Node
	rng   *rand.Rand
}

func (r *rejectionSampler) draw() (float64, core.Sample) {
	return 1, forwardSample(r.nodes, r.rng)
}

// forwardSample assigns every node a value drawn from its CPT, using the
// values already assigned during this draw as the conditioning assignment.
// The queue is refilled with newly ready nodes after each assignment, so a
// node can be enqueued more than once; the sampled set keeps each from being
// drawn twice.
func forwardSample(nodes []*core.Node, rng *rand.Rand) core.Sample {
	sampled := make(map[int]struct{}, len(nodes))
	values := make(core.Sample, len(nodes))

	queue := readyNodes(nodes, sampled)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if _, done := sampled[node.ID()]; done {
			continue
		}
		if node.Draw(values, rng) {
			values.Set(node.ID())
		}
		sampled[node.ID()] = struct{}{}
		queue = append(queue, readyNodes(nodes, sampled)...)
	}
	return values
}
