package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/sanonone/beliefdb/pkg/engine"
)

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHTTPEndpoints(t *testing.T) {
	eng := engine.New()

	cfg := DefaultConfig()
	cfg.Addr = ":9093"
	s := NewServer(eng, cfg)

	errCh := make(chan error)
	go func() {
		errCh <- s.Run()
	}()

	time.Sleep(500 * time.Millisecond)

	base := "http://localhost:9093"

	resp, err := http.Get(base + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("healthz expected 200, got %d", resp.StatusCode)
	}

	// Build a two node network: 1 -> 2.
	for i := 0; i < 2; i++ {
		resp = postJSON(t, base+"/network/nodes", nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add node expected 201, got %d", resp.StatusCode)
		}
	}
	resp = postJSON(t, base+"/network/edges", EdgeRequest{From: 1, To: 2})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add edge expected 201, got %d", resp.StatusCode)
	}

	// CPT on a node that does not exist must 404.
	req, err := http.NewRequest("PUT", base+"/network/cpt", bytes.NewReader(mustMarshal(t, CPTRequest{Node: 99, Index: 0, Probability: 0.5})))
	if err != nil {
		t.Fatal(err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cpt on missing node expected 404, got %d", resp.StatusCode)
	}

	// Independence: with no evidence 1 and 2 are directly linked.
	resp = postJSON(t, base+"/query/independence", IndependenceRequest{A: 1, B: 2})
	var ir IndependenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if ir.Independent {
		t.Error("linked nodes reported independent")
	}

	// Synchronous sampling with a fixed seed.
	resp = postJSON(t, base+"/query/sample", SampleRequest{
		Strategy:   "rejection",
		Query:      []int{2},
		Iterations: 500,
		Seed:       42,
	})
	var sr SampleResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if !sr.Matched {
		t.Error("unconditional query should match samples")
	}
	if sr.Seed != 42 {
		t.Errorf("seed not echoed, got %d", sr.Seed)
	}

	// Unknown strategy must 400.
	resp = postJSON(t, base+"/query/sample", SampleRequest{Strategy: "bogus", Query: []int{2}})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bogus strategy expected 400, got %d", resp.StatusCode)
	}

	// Async run: poll the task until it finishes.
	resp = postJSON(t, base+"/query/sample-async", SampleRequest{
		Strategy:   "likelihood",
		Query:      []int{2},
		Iterations: 500,
		Seed:       7,
	})
	var tr TaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if tr.ID == "" {
		t.Fatal("async sample returned no task id")
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err = http.Get(base + "/tasks/" + tr.ID)
		if err != nil {
			t.Fatal(err)
		}
		if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if tr.Status == TaskStatusCompleted || tr.Status == TaskStatusFailed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("task %s did not finish, status %s", tr.ID, tr.Status)
		}
		time.Sleep(50 * time.Millisecond)
	}
	if tr.Status != TaskStatusCompleted {
		t.Fatalf("task failed: %s", tr.Error)
	}
	if tr.Result == nil || !tr.Result.Matched {
		t.Error("completed task missing result")
	}

	s.Shutdown()
	<-errCh
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
