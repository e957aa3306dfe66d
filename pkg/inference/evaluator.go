package inference

import "github.com/sanonone/beliefdb/pkg/core"

// Evaluator turns a stream of weighted samples into a running estimate of
// P(query | evidence). All three sampling strategies feed it identically;
// rejection of evidence-inconsistent samples happens here, not in the
// strategies.
//
// Query and evidence are sets of signed literals: a positive literal requires
// the variable true, a negative literal requires it false.
type Evaluator struct {
	query    []int
	evidence []int

	numerator   float64
	denominator float64
	trace       []float64
}

// NewEvaluator creates an evaluator for the given query and evidence literal
// sets.
func NewEvaluator(query, evidence []int) *Evaluator {
	return &Evaluator{query: query, evidence: evidence}
}

// Matches reports whether a sample satisfies every literal: positive literals
// must be present in the sample, negated literals' magnitudes must be absent.
func Matches(sample core.Sample, literals []int) bool {
	for _, lit := range literals {
		if lit > 0 {
			if !sample.Has(lit) {
				return false
			}
		} else if sample.Has(-lit) {
			return false
		}
	}
	return true
}

// Add feeds one weighted sample into the accumulator. Samples inconsistent
// with the evidence contribute nothing; consistent ones add their weight to
// the denominator, and to the numerator too when they also satisfy the query.
// Each consistent sample appends the current running estimate to the
// diagnostic trace.
func (ev *Evaluator) Add(weight float64, sample core.Sample) {
	if !Matches(sample, ev.evidence) {
		return
	}
	if Matches(sample, ev.query) {
		ev.numerator += weight
	}
	ev.denominator += weight
	if ev.denominator > 0 {
		ev.trace = append(ev.trace, ev.numerator/ev.denominator)
	}
}

// Estimate returns the final ratio. The boolean is false when no sample
// matched the evidence (zero denominator), which is a valid terminal outcome
// of a sampling run, distinct from an estimate of zero.
func (ev *Evaluator) Estimate() (float64, bool) {
	if ev.denominator == 0 {
		return 0, false
	}
	return ev.numerator / ev.denominator, true
}

// Trace returns one running-estimate point per evidence-consistent sample,
// in arrival order. Intended for convergence plots and diagnostics only.
func (ev *Evaluator) Trace() []float64 {
	return ev.trace
}
