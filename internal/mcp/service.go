package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sanonone/beliefdb/pkg/engine"
	"github.com/sanonone/beliefdb/pkg/inference"
)

type Service struct {
	engine *engine.Engine
}

func NewService(eng *engine.Engine) *Service {
	return &Service{engine: eng}
}

// --- Tool Handlers ---

func (s *Service) CreateNode(ctx context.Context, req *mcp.CallToolRequest, args CreateNodeArgs) (*mcp.CallToolResult, CreateNodeResult, error) {
	count := args.Count
	if count <= 0 {
		count = 1
	}
	ids := make([]int, 0, count)
	for i := 0; i < count; i++ {
		ids = append(ids, s.engine.AddNode())
	}
	return nil, CreateNodeResult{IDs: ids}, nil
}

func (s *Service) RemoveNode(ctx context.Context, req *mcp.CallToolRequest, args RemoveNodeArgs) (*mcp.CallToolResult, StatusResult, error) {
	if err := s.engine.RemoveNode(args.ID); err != nil {
		return nil, StatusResult{}, err
	}
	return nil, StatusResult{Status: "removed"}, nil
}

func (s *Service) Connect(ctx context.Context, req *mcp.CallToolRequest, args ConnectArgs) (*mcp.CallToolResult, StatusResult, error) {
	if err := s.engine.AddEdge(args.From, args.To); err != nil {
		return nil, StatusResult{}, err
	}
	return nil, StatusResult{Status: "linked"}, nil
}

func (s *Service) Disconnect(ctx context.Context, req *mcp.CallToolRequest, args ConnectArgs) (*mcp.CallToolResult, StatusResult, error) {
	if err := s.engine.RemoveEdge(args.From, args.To); err != nil {
		return nil, StatusResult{}, err
	}
	return nil, StatusResult{Status: "unlinked"}, nil
}

func (s *Service) SetProbability(ctx context.Context, req *mcp.CallToolRequest, args SetProbabilityArgs) (*mcp.CallToolResult, StatusResult, error) {
	if err := s.engine.SetProbability(args.Node, args.Index, args.Probability); err != nil {
		return nil, StatusResult{}, err
	}
	return nil, StatusResult{Status: "set"}, nil
}

func (s *Service) Describe(ctx context.Context, req *mcp.CallToolRequest, args DescribeArgs) (*mcp.CallToolResult, DescribeResult, error) {
	infos := s.engine.Describe()
	nodes := make([]NodeDescription, 0, len(infos))
	for _, info := range infos {
		nodes = append(nodes, NodeDescription{
			ID:       info.ID,
			Parents:  info.Parents,
			Children: info.Children,
			CPT:      info.CPT,
		})
	}
	return nil, DescribeResult{Nodes: nodes}, nil
}

func (s *Service) CheckIndependence(ctx context.Context, req *mcp.CallToolRequest, args CheckIndependenceArgs) (*mcp.CallToolResult, CheckIndependenceResult, error) {
	independent, err := s.engine.CheckIndependence(args.A, args.B, args.Evidence)
	if err != nil {
		return nil, CheckIndependenceResult{}, err
	}

	verdict := "dependent"
	if independent {
		verdict = "independent"
	}
	expl := fmt.Sprintf("variables %d and %d are %s", args.A, args.B, verdict)
	if len(args.Evidence) > 0 {
		expl += fmt.Sprintf(" given %v", args.Evidence)
	}
	return nil, CheckIndependenceResult{Independent: independent, Explanation: expl}, nil
}

func (s *Service) Estimate(ctx context.Context, req *mcp.CallToolRequest, args EstimateArgs) (*mcp.CallToolResult, EstimateResult, error) {
	name := args.Strategy
	if name == "" {
		name = string(inference.Rejection)
	}
	strategy, err := inference.ParseStrategy(name)
	if err != nil {
		return nil, EstimateResult{}, err
	}

	iterations := args.Iterations
	if iterations <= 0 {
		iterations = 1000
	}

	res, err := s.engine.RunSampler(strategy, args.Query, args.Evidence, iterations, args.Seed)
	if err != nil {
		return nil, EstimateResult{}, err
	}

	out := EstimateResult{Matched: res.Matched, Seed: res.Seed}
	if !res.Matched {
		out.Summary = "no samples matched the evidence"
		return nil, out, nil
	}
	out.Estimate = res.Estimate
	out.Summary = fmt.Sprintf("estimate %.4f over %d iterations, trailing mean %.4f (std dev %.4f over last %d points)",
		res.Estimate, iterations, res.Summary.Mean, res.Summary.StdDev, res.Summary.Window)
	return nil, out, nil
}
