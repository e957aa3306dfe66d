package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sanonone/beliefdb/pkg/engine"
)

func NewMCPServer(eng *engine.Engine) *mcp.Server {
	service := NewService(eng)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "BeliefDB",
		Version: "0.1.0",
	}, nil)

	// Register Tools using the Generic AddTool which inspects structs!

	mcp.AddTool(s, &mcp.Tool{
		Name:        "create_node",
		Description: "Create one or more boolean variables in the belief network. Returns the assigned ids.",
	}, service.CreateNode)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "remove_node",
		Description: "Remove a variable and all edges touching it. Its id becomes reusable.",
	}, service.RemoveNode)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "connect_nodes",
		Description: "Add a directed dependency edge: the 'from' variable becomes a parent of 'to'.",
	}, service.Connect)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "disconnect_nodes",
		Description: "Remove the directed edge between two variables, if present.",
	}, service.Disconnect)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "set_probability",
		Description: "Set one conditional probability table entry: P(node=true | parent configuration index).",
	}, service.SetProbability)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "describe_network",
		Description: "List every variable with its parents, children and probability table.",
	}, service.Describe)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "check_independence",
		Description: "Test whether two variables are conditionally independent given observed evidence (d-separation).",
	}, service.CheckIndependence)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "estimate_probability",
		Description: "Estimate P(query | evidence) by sampling. Strategies: rejection, likelihood weighting, Gibbs.",
	}, service.Estimate)

	return s
}
