package inference

import (
	"testing"

	"github.com/sanonone/beliefdb/pkg/core"
)

func TestEvaluatorExactRatio(t *testing.T) {
	// Query {1}, evidence {2, -3}: samples must contain 2 and not 3.
	ev := NewEvaluator([]int{1}, []int{2, -3})

	stream := []struct {
		weight float64
		sample core.Sample
	}{
		{1.0, core.Sample{1: {}, 2: {}}},         // evidence + query
		{0.5, core.Sample{2: {}}},                // evidence only
		{2.0, core.Sample{1: {}, 2: {}, 3: {}}},  // violates -3, dropped
		{0.25, core.Sample{1: {}, 2: {}}},        // evidence + query
		{1.0, core.Sample{1: {}}},                // violates 2, dropped
	}
	for _, s := range stream {
		ev.Add(s.weight, s.sample)
	}

	// numerator = 1.0 + 0.25, denominator = 1.0 + 0.5 + 0.25.
	got, matched := ev.Estimate()
	if !matched {
		t.Fatal("Estimate reported no matching samples")
	}
	want := 1.25 / 1.75
	if got != want {
		t.Errorf("Estimate = %v, want exactly %v", got, want)
	}

	// One trace point per evidence-consistent sample.
	if len(ev.Trace()) != 3 {
		t.Errorf("trace length = %d, want 3", len(ev.Trace()))
	}
	// First consistent sample matched the query: running estimate 1.
	if ev.Trace()[0] != 1.0 {
		t.Errorf("trace[0] = %v, want 1.0", ev.Trace()[0])
	}
}

func TestEvaluatorNoMatchingSamples(t *testing.T) {
	ev := NewEvaluator([]int{1}, []int{2})

	// Every sample violates the evidence.
	for i := 0; i < 10; i++ {
		ev.Add(1, core.Sample{1: {}})
	}

	if _, matched := ev.Estimate(); matched {
		t.Error("all-violating stream must report no matching samples, not a number")
	}
	if len(ev.Trace()) != 0 {
		t.Errorf("trace should be empty, got %d points", len(ev.Trace()))
	}
}

func TestMatches(t *testing.T) {
	sample := core.Sample{1: {}, 3: {}}

	cases := []struct {
		literals []int
		want     bool
	}{
		{nil, true},
		{[]int{1}, true},
		{[]int{2}, false},
		{[]int{-2}, true},
		{[]int{-1}, false},
		{[]int{1, 3, -2}, true},
		{[]int{1, -3}, false},
	}
	for _, tc := range cases {
		if got := Matches(sample, tc.literals); got != tc.want {
			t.Errorf("Matches(%v, %v) = %v, want %v", sample, tc.literals, got, tc.want)
		}
	}
}
