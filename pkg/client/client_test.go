package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/sanonone/beliefdb/internal/server"
	"github.com/sanonone/beliefdb/pkg/engine"
)

// startTestServer runs a full HTTP server on a fixed local port and returns
// a client pointed at it.
func startTestServer(t *testing.T) *Client {
	t.Helper()

	cfg := server.DefaultConfig()
	cfg.Addr = ":9094"
	s := server.NewServer(engine.New(), cfg)

	errCh := make(chan error)
	go func() {
		errCh <- s.Run()
	}()
	t.Cleanup(func() {
		s.Shutdown()
		<-errCh
	})

	time.Sleep(500 * time.Millisecond)
	return New("localhost", 9094)
}

func TestClientIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}

	client := startTestServer(t)

	var rain, sprinkler, wet int

	t.Run("A - Network Construction", func(t *testing.T) {
		var err error
		if rain, err = client.AddNode(); err != nil {
			t.Fatalf("AddNode failed: %v", err)
		}
		if sprinkler, err = client.AddNode(); err != nil {
			t.Fatalf("AddNode failed: %v", err)
		}
		if wet, err = client.AddNode(); err != nil {
			t.Fatalf("AddNode failed: %v", err)
		}
		if rain != 1 || sprinkler != 2 || wet != 3 {
			t.Fatalf("expected sequential ids 1,2,3 got %d,%d,%d", rain, sprinkler, wet)
		}
		t.Log(" -> AddNode OK")

		for _, edge := range [][2]int{{rain, wet}, {sprinkler, wet}} {
			if err := client.AddEdge(edge[0], edge[1]); err != nil {
				t.Fatalf("AddEdge %v failed: %v", edge, err)
			}
		}
		t.Log(" -> AddEdge OK")

		// P(rain)=0.2, P(sprinkler)=0.5, wet depends on both.
		cpts := []struct {
			node, index int
			p           float64
		}{
			{rain, 0, 0.2},
			{sprinkler, 0, 0.5},
			{wet, 0, 0.05},
			{wet, 1, 0.8},
			{wet, 2, 0.9},
			{wet, 3, 0.99},
		}
		for _, c := range cpts {
			if err := client.SetProbability(c.node, c.index, c.p); err != nil {
				t.Fatalf("SetProbability %+v failed: %v", c, err)
			}
		}
		t.Log(" -> SetProbability OK")

		nodes, err := client.Describe()
		if err != nil {
			t.Fatalf("Describe failed: %v", err)
		}
		if len(nodes) != 3 {
			t.Fatalf("Describe should return 3 nodes, got %d", len(nodes))
		}
		if got := nodes[2].Parents; len(got) != 2 {
			t.Errorf("wet should have 2 parents, got %v", got)
		}
		t.Log(" -> Describe OK")

		// Errors surface as APIError with the right status.
		err = client.SetProbability(99, 0, 0.5)
		if apiErr, ok := err.(*APIError); !ok || apiErr.StatusCode != http.StatusNotFound {
			t.Errorf("expected a 404 APIError for missing node, got: %v", err)
		}
	})

	t.Run("B - Independence", func(t *testing.T) {
		// rain and sprinkler share only the collider wet: marginally
		// independent, dependent once wet is observed.
		independent, err := client.CheckIndependence(rain, sprinkler, nil)
		if err != nil {
			t.Fatalf("CheckIndependence failed: %v", err)
		}
		if !independent {
			t.Error("rain and sprinkler should be marginally independent")
		}

		independent, err = client.CheckIndependence(rain, sprinkler, []int{wet})
		if err != nil {
			t.Fatalf("CheckIndependence with evidence failed: %v", err)
		}
		if independent {
			t.Error("rain and sprinkler should be dependent given wet")
		}
		t.Log(" -> CheckIndependence OK")
	})

	t.Run("C - Sampling", func(t *testing.T) {
		res, err := client.Sample(SampleOptions{
			Strategy:   "rejection",
			Query:      []int{wet},
			Evidence:   []int{rain},
			Iterations: 5000,
			Seed:       11,
		})
		if err != nil {
			t.Fatalf("Sample failed: %v", err)
		}
		if !res.Matched || res.Estimate == nil {
			t.Fatal("conditional query produced no estimate")
		}
		// Exact value is 0.8*0.5 + 0.99*0.5 = 0.895.
		if *res.Estimate < 0.8 || *res.Estimate > 0.98 {
			t.Errorf("P(wet|rain) estimate out of range: %v", *res.Estimate)
		}
		if res.Seed != 11 {
			t.Errorf("seed not echoed, got %d", res.Seed)
		}
		t.Log(" -> Sample OK")
	})

	t.Run("D - Async Task", func(t *testing.T) {
		task, err := client.SampleAsync(SampleOptions{
			Strategy:   "gibbs",
			Query:      []int{rain},
			Evidence:   []int{wet},
			Iterations: 10000,
			Seed:       13,
		})
		if err != nil {
			t.Fatalf("SampleAsync failed to start task: %v", err)
		}
		if err := task.Wait(50*time.Millisecond, 30*time.Second); err != nil {
			t.Fatalf("SampleAsync failed while waiting for task: %v", err)
		}
		if task.Result == nil || !task.Result.Matched {
			t.Fatal("completed task has no result")
		}
		t.Log(" -> SampleAsync OK")
	})
}
