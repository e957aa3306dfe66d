package mcp

// --- Tool Arguments ---

type CreateNodeArgs struct {
	Count int `json:"count,omitempty" jsonschema:"How many variables to create (default 1)"`
}

type CreateNodeResult struct {
	IDs []int `json:"ids"`
}

type RemoveNodeArgs struct {
	ID int `json:"id" jsonschema:"The variable id to remove,required"`
}

type ConnectArgs struct {
	From int `json:"from" jsonschema:"Parent variable id,required"`
	To   int `json:"to" jsonschema:"Child variable id,required"`
}

type SetProbabilityArgs struct {
	Node        int     `json:"node" jsonschema:"The variable id whose table to update,required"`
	Index       int     `json:"index" jsonschema:"Parent configuration index: bit i set means parent i (in link order) is true,required"`
	Probability float64 `json:"probability" jsonschema:"P(node=true | configuration); must be in [0 1],required"`
}

type StatusResult struct {
	Status string `json:"status"`
}

type DescribeArgs struct{}

type NodeDescription struct {
	ID       int             `json:"id"`
	Parents  []int           `json:"parents"`
	Children []int           `json:"children"`
	CPT      map[int]float64 `json:"cpt"`
}

type DescribeResult struct {
	Nodes []NodeDescription `json:"nodes"`
}

type CheckIndependenceArgs struct {
	A        int   `json:"a" jsonschema:"First variable id,required"`
	B        int   `json:"b" jsonschema:"Second variable id,required"`
	Evidence []int `json:"evidence,omitempty" jsonschema:"Observed variable ids (positive integers only)"`
}

type CheckIndependenceResult struct {
	Independent bool   `json:"independent"`
	Explanation string `json:"explanation"`
}

type EstimateArgs struct {
	Strategy   string `json:"strategy,omitempty" jsonschema:"Sampling strategy: 'rejection' 'likelihood' or 'gibbs'. Defaults to 'rejection'"`
	Query      []int  `json:"query" jsonschema:"Query literals: positive id means variable true, negative means false,required"`
	Evidence   []int  `json:"evidence,omitempty" jsonschema:"Evidence literals, same sign convention as query"`
	Iterations int    `json:"iterations,omitempty" jsonschema:"Number of samples to draw (default 1000)"`
	Seed       int64  `json:"seed,omitempty" jsonschema:"RNG seed for reproducible runs; 0 picks one"`
}

type EstimateResult struct {
	Matched  bool    `json:"matched"`
	Estimate float64 `json:"estimate"`
	Seed     int64   `json:"seed"`
	Summary  string  `json:"summary"`
}
