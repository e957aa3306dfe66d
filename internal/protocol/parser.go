// Package protocol parses the textual input the interactive front ends
// accept: REPL command lines and the free-form query/evidence literal lists
// typed by a user.
package protocol

import (
	"fmt"
	"strings"
)

// Command is one parsed REPL line.
type Command struct {
	Name string // upper-cased, e.g. "ADD", "LINK", "SAMPLE"
	Args []string
}

// Parse splits a raw line into a command name and its arguments. Whitespace
// of any kind separates tokens; the name is upper-cased so command dispatch
// is case-insensitive.
func Parse(raw string) (*Command, error) {
	parts := strings.Fields(strings.TrimSpace(raw))
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return &Command{
		Name: strings.ToUpper(parts[0]),
		Args: parts[1:],
	}, nil
}
