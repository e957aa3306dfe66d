package protocol

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// ParseLiterals parses a free-form list of signed variable literals, the
// syntax both the query and the evidence fields use: integers separated by
// whitespace and/or commas, with a leading '-' meaning "variable is false".
//
// A token that does not parse as an integer is skipped with a diagnostic
// rather than failing the whole input; malformed literals are recoverable by
// the user retyping them. Duplicates are collapsed and the result is sorted
// for deterministic output.
func ParseLiterals(raw string) []int {
	seen := make(map[int]struct{})
	for _, field := range strings.Fields(raw) {
		for _, tok := range strings.Split(field, ",") {
			if tok == "" {
				continue
			}
			lit, err := strconv.Atoi(tok)
			if err != nil {
				slog.Warn("skipping malformed literal", "token", tok)
				continue
			}
			seen[lit] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for lit := range seen {
		out = append(out, lit)
	}
	sort.Ints(out)
	return out
}
