package server

// This file defines the JSON request and response bodies of the HTTP API.

import "github.com/sanonone/beliefdb/pkg/engine"

// --- Requests ---

// EdgeRequest names a directed edge by its endpoints.
type EdgeRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// CPTRequest sets one conditional probability table entry.
type CPTRequest struct {
	Node        int     `json:"node"`
	Index       int     `json:"index"`
	Probability float64 `json:"probability"`
}

// IndependenceRequest asks whether A and B are d-separated given the
// evidence literals.
type IndependenceRequest struct {
	A        int   `json:"a"`
	B        int   `json:"b"`
	Evidence []int `json:"evidence"`
}

// SampleRequest configures one sampling run. Query and Evidence are signed
// literal sets; a zero Iterations falls back to the server default and a zero
// Seed picks a time-based one.
type SampleRequest struct {
	Strategy   string `json:"strategy"` // "rejection", "likelihood" or "gibbs"
	Query      []int  `json:"query"`
	Evidence   []int  `json:"evidence"`
	Iterations int    `json:"iterations"`
	Seed       int64  `json:"seed"`
}

// --- Responses ---

// NodeResponse reports a freshly created node.
type NodeResponse struct {
	ID int `json:"id"`
}

// NetworkResponse lists the whole network.
type NetworkResponse struct {
	Nodes []engine.NodeInfo `json:"nodes"`
}

// IndependenceResponse reports the verdict of a d-separation check.
type IndependenceResponse struct {
	Independent bool `json:"independent"`
}

// SampleResponse reports a finished sampling run. Estimate is omitted when
// Matched is false: "no samples matched the evidence" is a distinct outcome,
// not an estimate of zero.
type SampleResponse struct {
	Matched  bool                `json:"matched"`
	Estimate *float64            `json:"estimate,omitempty"`
	Seed     int64               `json:"seed"`
	Trace    []float64           `json:"trace,omitempty"`
	Summary  engine.TraceSummary `json:"summary"`
}

// newSampleResponse converts an engine result into the API shape.
func newSampleResponse(res engine.Result) SampleResponse {
	out := SampleResponse{
		Matched: res.Matched,
		Seed:    res.Seed,
		Trace:   res.Trace,
		Summary: res.Summary,
	}
	if res.Matched {
		est := res.Estimate
		out.Estimate = &est
	}
	return out
}

// TaskResponse reports the state of an async sampling run.
type TaskResponse struct {
	ID     string          `json:"id"`
	Status TaskStatus      `json:"status"`
	Error  string          `json:"error,omitempty"`
	Result *SampleResponse `json:"result,omitempty"`
}
