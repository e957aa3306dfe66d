package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sanonone/beliefdb/pkg/engine"
	"github.com/sanonone/beliefdb/pkg/inference"
)

// registerHTTPHandlers sets up the API routes.
func (s *Server) registerHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /network", s.handleGetNetwork)
	mux.HandleFunc("POST /network/nodes", s.handleAddNode)
	mux.HandleFunc("DELETE /network/nodes/{id}", s.handleRemoveNode)
	mux.HandleFunc("POST /network/edges", s.handleAddEdge)
	mux.HandleFunc("DELETE /network/edges", s.handleRemoveEdge)
	mux.HandleFunc("PUT /network/cpt", s.handleSetCPT)
	mux.HandleFunc("POST /query/independence", s.handleIndependence)
	mux.HandleFunc("POST /query/sample", s.handleSample)
	mux.HandleFunc("POST /query/sample-async", s.handleSampleAsync)
	mux.HandleFunc("GET /tasks/{id}", s.handleGetTask)
}

func (s *Server) handleGetNetwork(w http.ResponseWriter, r *http.Request) {
	s.writeHTTPResponse(w, http.StatusOK, NetworkResponse{Nodes: s.Engine.Describe()})
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	id := s.Engine.AddNode()
	s.writeHTTPResponse(w, http.StatusCreated, NodeResponse{ID: id})
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "node id must be an integer")
		return
	}
	if err := s.Engine.RemoveNode(id); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	var req EdgeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.Engine.AddEdge(req.From, req.To); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusCreated, map[string]string{"status": "linked"})
}

func (s *Server) handleRemoveEdge(w http.ResponseWriter, r *http.Request) {
	var req EdgeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.Engine.RemoveEdge(req.From, req.To); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "unlinked"})
}

func (s *Server) handleSetCPT(w http.ResponseWriter, r *http.Request) {
	var req CPTRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.Engine.SetProbability(req.Node, req.Index, req.Probability); err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "set"})
}

func (s *Server) handleIndependence(w http.ResponseWriter, r *http.Request) {
	var req IndependenceRequest
	if !s.decode(w, r, &req) {
		return
	}
	independent, err := s.Engine.CheckIndependence(req.A, req.B, req.Evidence)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, IndependenceResponse{Independent: independent})
}

// prepareSample validates and normalises a sample request.
func (s *Server) prepareSample(req *SampleRequest) (inference.Strategy, error) {
	strategy, err := inference.ParseStrategy(req.Strategy)
	if err != nil {
		return "", err
	}
	if req.Iterations <= 0 {
		req.Iterations = s.config.DefaultIterations
	}
	if s.config.MaxIterations > 0 && req.Iterations > s.config.MaxIterations {
		req.Iterations = s.config.MaxIterations
	}
	return strategy, nil
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	var req SampleRequest
	if !s.decode(w, r, &req) {
		return
	}
	strategy, err := s.prepareSample(&req)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	res, err := s.Engine.RunSampler(strategy, req.Query, req.Evidence, req.Iterations, req.Seed)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeHTTPResponse(w, http.StatusOK, newSampleResponse(res))
}

// handleSampleAsync starts the run on its own goroutine and returns a task id
// to poll, so a large iteration count does not tie up the request.
func (s *Server) handleSampleAsync(w http.ResponseWriter, r *http.Request) {
	var req SampleRequest
	if !s.decode(w, r, &req) {
		return
	}
	strategy, err := s.prepareSample(&req)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	task := s.taskManager.NewTask()
	go func() {
		task.SetRunning()
		res, err := s.Engine.RunSampler(strategy, req.Query, req.Evidence, req.Iterations, req.Seed)
		if err != nil {
			task.Fail(err)
			return
		}
		task.Complete(res)
	}()

	s.writeHTTPResponse(w, http.StatusAccepted, TaskResponse{ID: task.ID, Status: TaskStatusStarted})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, found := s.taskManager.GetTask(r.PathValue("id"))
	if !found {
		s.writeHTTPError(w, http.StatusNotFound, "task not found")
		return
	}
	status, errMsg, result := task.Snapshot()
	resp := TaskResponse{ID: task.ID, Status: status, Error: errMsg}
	if result != nil {
		sr := newSampleResponse(*result)
		resp.Result = &sr
	}
	s.writeHTTPResponse(w, http.StatusOK, resp)
}

// --- helpers ---

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// writeEngineError maps engine error kinds onto HTTP status codes.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrUnknownNode):
		s.writeHTTPError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrEdgeRejected),
		errors.Is(err, engine.ErrInvalidQuery),
		errors.Is(err, engine.ErrInvalidEvidence),
		errors.Is(err, engine.ErrUnknownStrategy):
		s.writeHTTPError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeHTTPError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) writeHTTPResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeHTTPError(w http.ResponseWriter, statusCode int, message string) {
	s.writeHTTPResponse(w, statusCode, map[string]string{"error": message})
}
