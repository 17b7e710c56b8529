package strategy

import (
	"fmt"
	"strings"
)

// Action is a play recommendation or a simulated first action.
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	default:
		return "?"
	}
}

// ParseAction parses an action name as used on the wire and the CLI.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hit":
		return Hit, nil
	case "stand":
		return Stand, nil
	case "double":
		return Double, nil
	case "split":
		return Split, nil
	default:
		return 0, fmt.Errorf("invalid action %q", s)
	}
}
