// Package client provides a Go client for interacting with the BeliefDB API.
//
// It offers a type-safe way to perform all major operations, including:
//   - Network construction (AddNode, RemoveNode, AddEdge, RemoveEdge, SetProbability).
//   - Network introspection (Describe).
//   - Independence queries via d-separation (CheckIndependence).
//   - Probability estimation by sampling, synchronous or as a polled task.
//
// The client handles HTTP communication, JSON serialization/deserialization, and
// standardized error handling.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// --- Custom Errors ---

// APIError represents an error returned by the BeliefDB API (status >= 400).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// --- JSON Response Structs ---

// NodeInfo models one variable of the network for the introspection API.
type NodeInfo struct {
	ID       int             `json:"id"`
	Parents  []int           `json:"parents"`
	Children []int           `json:"children"`
	CPT      map[int]float64 `json:"cpt"`
}

// TraceSummary models the convergence statistics of a sampling run.
type TraceSummary struct {
	Window int     `json:"window"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// SampleResult models a finished sampling run. Estimate is nil when no
// sample matched the evidence.
type SampleResult struct {
	Matched  bool         `json:"matched"`
	Estimate *float64     `json:"estimate,omitempty"`
	Seed     int64        `json:"seed"`
	Trace    []float64    `json:"trace,omitempty"`
	Summary  TraceSummary `json:"summary"`
}

// SampleOptions configures a sampling run. A zero Iterations falls back to
// the server default and a zero Seed lets the server pick one.
type SampleOptions struct {
	Strategy   string
	Query      []int
	Evidence   []int
	Iterations int
	Seed       int64
}

// nodeResponse models the response for node creation.
type nodeResponse struct {
	ID int `json:"id"`
}

// networkResponse models the response for Describe.
type networkResponse struct {
	Nodes []NodeInfo `json:"nodes"`
}

// independenceResponse models the response for CheckIndependence.
type independenceResponse struct {
	Independent bool `json:"independent"`
}

// Task represents an asynchronous sampling run on the BeliefDB server.
type Task struct {
	ID     string        `json:"id"`
	Status string        `json:"status"`
	Error  string        `json:"error,omitempty"`
	Result *SampleResult `json:"result,omitempty"`

	client *Client // Reference to the client for polling.
}

// --- Client ---

// Client is the Go client for interacting with BeliefDB.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new BeliefDB client.
func New(host string, port int) *Client {
	return &Client{
		baseURL:    fmt.Sprintf("http://%s:%d", host, port),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// jsonRequest is a helper method to execute all requests to the API.
// It handles JSON serialization, HTTP calls, and error management.
func (c *Client) jsonRequest(method, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if json.Unmarshal(respBody, &errResp) == nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp["error"]}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	return respBody, nil
}

// Refresh updates the task's status by querying the server.
func (t *Task) Refresh() error {
	if t.client == nil {
		return fmt.Errorf("client is not associated with the task")
	}
	updatedTask, err := t.client.GetTaskStatus(t.ID)
	if err != nil {
		return err
	}
	t.Status = updatedTask.Status
	t.Error = updatedTask.Error
	t.Result = updatedTask.Result
	return nil
}

// Wait blocks until the task is completed, checking its status at regular intervals.
func (t *Task) Wait(interval, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-timer.C:
			return fmt.Errorf("timeout exceeded while waiting for task %s", t.ID)
		case <-ticker.C:
			if err := t.Refresh(); err != nil {
				return err
			}
			switch t.Status {
			case "completed":
				return nil
			case "failed":
				return fmt.Errorf("task %s failed with error: %s", t.ID, t.Error)
			case "running", "started":
				// Continue waiting.
			default:
				return fmt.Errorf("unknown task status: %s", t.Status)
			}
		}
	}
}

// --- Network Methods ---

// AddNode creates a new variable and returns its assigned id.
func (c *Client) AddNode() (int, error) {
	respBody, err := c.jsonRequest(http.MethodPost, "/network/nodes", nil)
	if err != nil {
		return 0, err
	}
	var resp nodeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return 0, fmt.Errorf("invalid JSON response for AddNode: %w", err)
	}
	return resp.ID, nil
}

// RemoveNode deletes a variable and every edge touching it.
func (c *Client) RemoveNode(id int) error {
	_, err := c.jsonRequest(http.MethodDelete, fmt.Sprintf("/network/nodes/%d", id), nil)
	return err
}

// AddEdge makes from a parent of to.
func (c *Client) AddEdge(from, to int) error {
	payload := map[string]int{"from": from, "to": to}
	_, err := c.jsonRequest(http.MethodPost, "/network/edges", payload)
	return err
}

// RemoveEdge removes the directed edge between two variables.
func (c *Client) RemoveEdge(from, to int) error {
	payload := map[string]int{"from": from, "to": to}
	_, err := c.jsonRequest(http.MethodDelete, "/network/edges", payload)
	return err
}

// SetProbability sets one conditional probability table entry:
// P(node=true | parent configuration index).
func (c *Client) SetProbability(node, index int, probability float64) error {
	payload := map[string]any{
		"node":        node,
		"index":       index,
		"probability": probability,
	}
	_, err := c.jsonRequest(http.MethodPut, "/network/cpt", payload)
	return err
}

// Describe returns every variable with its parents, children and table.
func (c *Client) Describe() ([]NodeInfo, error) {
	respBody, err := c.jsonRequest(http.MethodGet, "/network", nil)
	if err != nil {
		return nil, err
	}
	var resp networkResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON response for Describe: %w", err)
	}
	return resp.Nodes, nil
}

// --- Query Methods ---

// CheckIndependence asks whether a and b are conditionally independent given
// the observed evidence variables.
func (c *Client) CheckIndependence(a, b int, evidence []int) (bool, error) {
	payload := map[string]any{"a": a, "b": b}
	if len(evidence) > 0 {
		payload["evidence"] = evidence
	}
	respBody, err := c.jsonRequest(http.MethodPost, "/query/independence", payload)
	if err != nil {
		return false, err
	}
	var resp independenceResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return false, fmt.Errorf("invalid JSON response for CheckIndependence: %w", err)
	}
	return resp.Independent, nil
}

// Sample runs a sampling estimate synchronously and returns the result.
func (c *Client) Sample(opts SampleOptions) (*SampleResult, error) {
	respBody, err := c.jsonRequest(http.MethodPost, "/query/sample", samplePayload(opts))
	if err != nil {
		return nil, err
	}
	var resp SampleResult
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON response for Sample: %w", err)
	}
	return &resp, nil
}

// SampleAsync starts a sampling run on the server and returns a Task to poll.
func (c *Client) SampleAsync(opts SampleOptions) (*Task, error) {
	respBody, err := c.jsonRequest(http.MethodPost, "/query/sample-async", samplePayload(opts))
	if err != nil {
		return nil, err
	}

	var task Task
	if err := json.Unmarshal(respBody, &task); err != nil {
		return nil, fmt.Errorf("invalid JSON response for SampleAsync: %w", err)
	}
	task.client = c // Inject the client to allow polling.
	return &task, nil
}

// GetTaskStatus retrieves the status of a long-running sampling task.
func (c *Client) GetTaskStatus(taskID string) (*Task, error) {
	respBody, err := c.jsonRequest(http.MethodGet, "/tasks/"+taskID, nil)
	if err != nil {
		return nil, err
	}

	var task Task
	if err := json.Unmarshal(respBody, &task); err != nil {
		return nil, fmt.Errorf("invalid JSON response for GetTaskStatus: %w", err)
	}
	task.client = c
	return &task, nil
}

func samplePayload(opts SampleOptions) map[string]any {
	payload := map[string]any{
		"strategy": opts.Strategy,
		"query":    opts.Query,
	}
	if len(opts.Evidence) > 0 {
		payload["evidence"] = opts.Evidence
	}
	if opts.Iterations > 0 {
		payload["iterations"] = opts.Iterations
	}
	if opts.Seed != 0 {
		payload["seed"] = opts.Seed
	}
	return payload
}
