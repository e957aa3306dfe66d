// Package repl implements the interactive line-driven front end for building
// a belief network and running queries against it: structural edits, a
// persistent query/evidence/iterations state, and the two query actions.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/sanonone/beliefdb/internal/protocol"
	"github.com/sanonone/beliefdb/pkg/engine"
	"github.com/sanonone/beliefdb/pkg/inference"
)

const helpText = `commands:
  ADD                 create a node, prints its id
  DEL <id>            remove a node and its edges
  LINK <from> <to>    add the directed edge from -> to
  UNLINK <from> <to>  remove an edge
  PROB <id> <index> <p>  set P(id=true | parent assignment index)
  SHOW                list nodes, edges and CPTs
  QUERY <literals>    set the query literals (e.g. QUERY 2 -3)
  EVIDENCE <literals> set the evidence literals
  ITER <n>            set the iteration count (default 100)
  SEED <n>            fix the random seed (0 = time-based)
  INDEP               d-separation check of the two query variables
  SAMPLE <rs|lws|gibbs>  estimate P(query | evidence)
  HELP                this text
  QUIT                leave`

// REPL drives one engine from a line-oriented input stream.
type REPL struct {
	eng *engine.Engine
	out io.Writer

	query      []int
	evidence   []int
	iterations int
	seed       int64
}

// New creates a REPL writing its results to out.
func New(eng *engine.Engine, out io.Writer) *REPL {
	return &REPL{eng: eng, out: out, iterations: 100}
}

// Run reads commands until EOF or QUIT. Malformed input is reported and the
// loop continues; only I/O failure ends it with an error.
func (r *REPL) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, err := protocol.Parse(line)
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
			continue
		}
		if cmd.Name == "QUIT" || cmd.Name == "EXIT" {
			return nil
		}
		if err := r.dispatch(cmd); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func (r *REPL) dispatch(cmd *protocol.Command) error {
	switch cmd.Name {
	case "ADD":
		fmt.Fprintf(r.out, "node %d\n", r.eng.AddNode())
		return nil
	case "DEL":
		id, err := intArg(cmd, 0)
		if err != nil {
			return err
		}
		return r.eng.RemoveNode(id)
	case "LINK":
		from, to, err := pairArgs(cmd)
		if err != nil {
			return err
		}
		return r.eng.AddEdge(from, to)
	case "UNLINK":
		from, to, err := pairArgs(cmd)
		if err != nil {
			return err
		}
		return r.eng.RemoveEdge(from, to)
	case "PROB":
		return r.setProbability(cmd)
	case "SHOW":
		r.show()
		return nil
	case "QUERY":
		r.query = protocol.ParseLiterals(strings.Join(cmd.Args, " "))
		fmt.Fprintf(r.out, "query = %s\n", literalString(r.query))
		return nil
	case "EVIDENCE":
		r.evidence = protocol.ParseLiterals(strings.Join(cmd.Args, " "))
		fmt.Fprintf(r.out, "evidence = %s\n", literalString(r.evidence))
		return nil
	case "ITER":
		n, err := intArg(cmd, 0)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("iterations must be non-negative")
		}
		r.iterations = n
		return nil
	case "SEED":
		n, err := intArg(cmd, 0)
		if err != nil {
			return err
		}
		r.seed = int64(n)
		return nil
	case "INDEP":
		return r.independence()
	case "SAMPLE":
		return r.sample(cmd)
	case "HELP":
		fmt.Fprintln(r.out, helpText)
		return nil
	}
	return fmt.Errorf("unknown command %q (try HELP)", cmd.Name)
}

func (r *REPL) setProbability(cmd *protocol.Command) error {
	if len(cmd.Args) != 3 {
		return fmt.Errorf("usage: PROB <id> <index> <p>")
	}
	id, err := strconv.Atoi(cmd.Args[0])
	if err != nil {
		return fmt.Errorf("bad id %q", cmd.Args[0])
	}
	index, err := strconv.Atoi(cmd.Args[1])
	if err != nil {
		return fmt.Errorf("bad index %q", cmd.Args[1])
	}
	p, err := strconv.ParseFloat(cmd.Args[2], 64)
	if err != nil {
		return fmt.Errorf("bad probability %q", cmd.Args[2])
	}
	return r.eng.SetProbability(id, index, p)
}

func (r *REPL) show() {
	infos := r.eng.Describe()
	if len(infos) == 0 {
		fmt.Fprintln(r.out, "(empty network)")
		return
	}
	for _, info := range infos {
		fmt.Fprintf(r.out, "node %d: parents=%v children=%v", info.ID, info.Parents, info.Children)
		if len(info.CPT) > 0 {
			indexes := make([]int, 0, len(info.CPT))
			for idx := range info.CPT {
				indexes = append(indexes, idx)
			}
			sort.Ints(indexes)
			fmt.Fprint(r.out, " cpt={")
			for i, idx := range indexes {
				if i > 0 {
					fmt.Fprint(r.out, " ")
				}
				fmt.Fprintf(r.out, "%d:%g", idx, info.CPT[idx])
			}
			fmt.Fprint(r.out, "}")
		}
		fmt.Fprintln(r.out)
	}
}

// independence checks the two query variables. The query field must hold
// exactly two literals; signs are ignored, matching the original tool where
// the independence action reads the same query box the samplers use.
func (r *REPL) independence() error {
	if len(r.query) != 2 {
		return fmt.Errorf("INDEP needs exactly two query literals, have %d: %w", len(r.query), engine.ErrInvalidQuery)
	}
	a, b := abs(r.query[0]), abs(r.query[1])
	independent, err := r.eng.CheckIndependence(a, b, r.evidence)
	if err != nil {
		return err
	}
	verdict := "dependent"
	if independent {
		verdict = "independent"
	}
	if len(r.evidence) > 0 {
		fmt.Fprintf(r.out, "nodes %d and %d are %s given %s\n", a, b, verdict, literalString(r.evidence))
	} else {
		fmt.Fprintf(r.out, "nodes %d and %d are %s\n", a, b, verdict)
	}
	return nil
}

func (r *REPL) sample(cmd *protocol.Command) error {
	if len(cmd.Args) != 1 {
		return fmt.Errorf("usage: SAMPLE <rs|lws|gibbs>")
	}
	strategy, err := inference.ParseStrategy(strings.ToLower(cmd.Args[0]))
	if err != nil {
		return err
	}
	res, err := r.eng.RunSampler(strategy, r.query, r.evidence, r.iterations, r.seed)
	if err != nil {
		return err
	}
	if !res.Matched {
		fmt.Fprintln(r.out, "no samples matched the evidence")
		return nil
	}
	fmt.Fprintf(r.out, "%s = %g  (seed %d, %d trace points, trailing mean %.4f)\n",
		queryString(r.query, r.evidence), res.Estimate, res.Seed, len(res.Trace), res.Summary.Mean)
	return nil
}

func intArg(cmd *protocol.Command, i int) (int, error) {
	if i >= len(cmd.Args) {
		return 0, fmt.Errorf("%s: missing argument", cmd.Name)
	}
	n, err := strconv.Atoi(cmd.Args[i])
	if err != nil {
		return 0, fmt.Errorf("%s: bad argument %q", cmd.Name, cmd.Args[i])
	}
	return n, nil
}

func pairArgs(cmd *protocol.Command) (int, int, error) {
	a, err := intArg(cmd, 0)
	if err != nil {
		return 0, 0, err
	}
	b, err := intArg(cmd, 1)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func literalString(literals []int) string {
	if len(literals) == 0 {
		return "(none)"
	}
	parts := make([]string, len(literals))
	for i, l := range literals {
		parts[i] = strconv.Itoa(l)
	}
	return strings.Join(parts, ",")
}

func queryString(query, evidence []int) string {
	if len(evidence) == 0 {
		return fmt.Sprintf("P(%s)", literalString(query))
	}
	return fmt.Sprintf("P(%s|%s)", literalString(query), literalString(evidence))
}
