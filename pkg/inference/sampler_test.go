package inference

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/sanonone/beliefdb/pkg/core"
)

// buildTwoNode returns the reference network 1 -> 2 with P(1)=0.5,
// P(2|1)=0.9 and P(2|!1)=0.1.
func buildTwoNode(t *testing.T) *core.Network {
	t.Helper()
	net := core.NewNetwork()
	net.AddNode()
	net.AddNode()
	if err := net.AddEdge(1, 2); err != nil {
		t.Fatal(err)
	}
	if err := net.SetProbability(1, 0, 0.5); err != nil {
		t.Fatal(err)
	}
	if err := net.SetProbability(2, 0, 0.1); err != nil {
		t.Fatal(err)
	}
	if err := net.SetProbability(2, 1, 0.9); err != nil {
		t.Fatal(err)
	}
	return net
}

// Convergence of all three strategies on the reference network. Statistical
// assertions, made repeatable by fixed seeds.
func TestSamplerConvergence(t *testing.T) {
	const iterations = 20000
	const tolerance = 0.05

	cases := []struct {
		name     string
		strategy Strategy
		evidence []int
		want     float64
	}{
		{"rejection evidence true", Rejection, []int{1}, 0.9},
		{"rejection evidence false", Rejection, []int{-1}, 0.1},
		{"likelihood evidence true", LikelihoodWeighted, []int{1}, 0.9},
		{"likelihood evidence false", LikelihoodWeighted, []int{-1}, 0.1},
		{"gibbs evidence true", Gibbs, []int{1}, 0.9},
		{"gibbs evidence false", Gibbs, []int{-1}, 0.1},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			net := buildTwoNode(t)
			rng := rand.New(rand.NewSource(int64(1000 + i)))

			res, err := Run(tc.strategy, net, []int{2}, tc.evidence, iterations, rng)
			if err != nil {
				t.Fatal(err)
			}
			if !res.Matched {
				t.Fatal("expected matching samples")
			}
			if math.Abs(res.Estimate-tc.want) > tolerance {
				t.Errorf("estimate = %v, want %v +/- %v", res.Estimate, tc.want, tolerance)
			}
			if len(res.Trace) == 0 {
				t.Error("trace should not be empty")
			}
			// The trace ends at the final running estimate.
			if last := res.Trace[len(res.Trace)-1]; last != res.Estimate {
				t.Errorf("trace ends at %v, estimate is %v", last, res.Estimate)
			}
		})
	}
}

// With an unconditioned prior the unset CPT entries default to 0.5, so an
// empty two-node network estimates P(2)=0.5.
func TestSamplerDefaultsToHalf(t *testing.T) {
	net := core.NewNetwork()
	net.AddNode()
	net.AddNode()
	if err := net.AddEdge(1, 2); err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(99))
	res, err := Run(Rejection, net, []int{2}, nil, 20000, rng)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Estimate-0.5) > 0.05 {
		t.Errorf("estimate = %v, want ~0.5", res.Estimate)
	}
}

// Likelihood weighting reproduces the prior P(2) = 0.5*0.9 + 0.5*0.1 = 0.5
// when the evidence clamps nothing, and weights correctly when it does.
func TestLikelihoodWeighting(t *testing.T) {
	net := buildTwoNode(t)
	rng := rand.New(rand.NewSource(4242))

	// Evidence {2}: every draw is kept with weight P(2|drawn parent value).
	res, err := Run(LikelihoodWeighted, net, []int{1}, []int{2}, 20000, rng)
	if err != nil {
		t.Fatal(err)
	}
	// P(1|2) = 0.5*0.9 / (0.5*0.9 + 0.5*0.1) = 0.9 by Bayes.
	if math.Abs(res.Estimate-0.9) > 0.05 {
		t.Errorf("P(1|2) estimate = %v, want ~0.9", res.Estimate)
	}
}

func TestRejectionReportsNoMatches(t *testing.T) {
	// Node 2 is impossible when 1 is false and certain when true; condition
	// on an evidence assignment with probability zero.
	net := core.NewNetwork()
	net.AddNode()
	net.AddNode()
	if err := net.AddEdge(1, 2); err != nil {
		t.Fatal(err)
	}
	if err := net.SetProbability(1, 0, 1.0); err != nil { // 1 always true
		t.Fatal(err)
	}
	if err := net.SetProbability(2, 0, 0.0); err != nil {
		t.Fatal(err)
	}
	if err := net.SetProbability(2, 1, 1.0); err != nil { // 2 always true given 1
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(1))
	res, err := Run(Rejection, net, []int{1}, []int{-2}, 500, rng)
	if err != nil {
		t.Fatal(err)
	}
	if res.Matched {
		t.Errorf("impossible evidence must report no matching samples, got estimate %v", res.Estimate)
	}
}

func TestGibbsClampsEvidence(t *testing.T) {
	net := buildTwoNode(t)
	rng := rand.New(rand.NewSource(5))

	// Every emitted state must satisfy the positive evidence literal; with
	// both variables in evidence the chain cannot move at all.
	res, err := Run(Gibbs, net, []int{2}, []int{1, 2}, 100, rng)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Matched || res.Estimate != 1.0 {
		t.Errorf("fully clamped chain: estimate = %v matched = %v, want 1.0 true", res.Estimate, res.Matched)
	}
}

func TestRunValidation(t *testing.T) {
	net := buildTwoNode(t)
	rng := rand.New(rand.NewSource(1))

	if _, err := Run(Rejection, net, []int{7}, nil, 10, rng); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("unknown query literal error = %v, want ErrInvalidQuery", err)
	}
	if _, err := Run(Rejection, net, []int{1}, []int{-9}, 10, rng); !errors.Is(err, ErrInvalidEvidence) {
		t.Errorf("unknown evidence literal error = %v, want ErrInvalidEvidence", err)
	}
	if _, err := Run(Strategy("annealing"), net, []int{1}, nil, 10, rng); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("unknown strategy error = %v, want ErrUnknownStrategy", err)
	}
}

func TestParseStrategy(t *testing.T) {
	cases := map[string]Strategy{
		"rs":         Rejection,
		"rejection":  Rejection,
		"lws":        LikelihoodWeighted,
		"likelihood": LikelihoodWeighted,
		"gibbs":      Gibbs,
	}
	for in, want := range cases {
		got, err := ParseStrategy(in)
		if err != nil || got != want {
			t.Errorf("ParseStrategy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseStrategy("exact"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("ParseStrategy(exact) error = %v, want ErrUnknownStrategy", err)
	}
}

func TestReadinessOrderingVisitsEveryNodeOnce(t *testing.T) {
	// Diamond 1 -> {2,3} -> 4: a forward sample must assign all four nodes.
	net := core.NewNetwork()
	for i := 0; i < 4; i++ {
		net.AddNode()
	}
	for _, e := range [][2]int{{1, 2}, {1, 3}, {2, 4}, {3, 4}} {
		if err := net.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	// Deterministic values so the full assignment is visible in the sample.
	for id := 1; id <= 4; id++ {
		n, _ := net.Node(id)
		for idx := 0; idx < 1<<n.ParentCount(); idx++ {
			if err := n.SetProbability(idx, 1.0); err != nil {
				t.Fatal(err)
			}
		}
	}

	rng := rand.New(rand.NewSource(3))
	sample := forwardSample(net.Nodes(), rng)
	for id := 1; id <= 4; id++ {
		if !sample.Has(id) {
			t.Errorf("node %d missing from forward sample %v", id, sample)
		}
	}
	if len(sample) != 4 {
		t.Errorf("sample has %d entries, want 4", len(sample))
	}
}
