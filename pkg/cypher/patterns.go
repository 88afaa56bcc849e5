// Match-pattern rendering for node, relationship, and variable-length path
// fragments. Pure string templating: no state is shared between calls, and
// identical inputs always render identical output.

package cypher

import (
	"fmt"
	"strings"

	"github.com/skaldic/ogm/pkg/convert"
)

// Direction is the traversal direction of a relationship pattern.
type Direction string

const (
	// DirectionIncoming matches relationships pointing at the start node.
	DirectionIncoming Direction = "INCOMING"
	// DirectionOutgoing matches relationships pointing away from the start
	// node.
	DirectionOutgoing Direction = "OUTGOING"
	// DirectionBoth matches relationships in either direction.
	DirectionBoth Direction = "BOTH"
)

// HopsWildcard is the token accepted for an unbounded maximum hop count.
const HopsWildcard = "*"

// NodePattern renders a node match pattern like (n:Person:Actor). Empty
// labels are filtered out, an empty ref renders an anonymous node, and an
// empty label set renders no label suffix.
func NodePattern(ref string, labels []string) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(ref)
	for _, label := range labels {
		if label == "" {
			continue
		}
		sb.WriteString(":")
		sb.WriteString(label)
	}
	sb.WriteString(")")
	return sb.String()
}

// Pattern describes one relationship match pattern between two node
// patterns, optionally variable-length. MinHops and MaxHops are loosely
// typed because they arrive from decoded filter documents: any integer kind
// is accepted, and MaxHops additionally accepts the "*" wildcard. The zero
// value renders an anonymous undirected pattern ()-[]-().
type Pattern struct {
	Ref         string
	Type        string
	Direction   Direction
	StartRef    string
	StartLabels []string
	EndRef      string
	EndLabels   []string
	MinHops     interface{}
	MaxHops     interface{}
}

// Render produces the match-pattern fragment, e.g. (n)-[r:KNOWS*1..3]->(m).
// It returns ErrInvalidHops for a negative or non-integer hop bound and
// ErrInvalidDirection for an unknown direction token. An unset direction
// renders undirected, same as DirectionBoth.
func (p Pattern) Render() (string, error) {
	hops, err := p.hopSuffix()
	if err != nil {
		return "", err
	}

	var rel strings.Builder
	rel.WriteString("[")
	rel.WriteString(p.Ref)
	if p.Type != "" {
		rel.WriteString(":")
		rel.WriteString(p.Type)
	}
	rel.WriteString(hops)
	rel.WriteString("]")

	start := NodePattern(p.StartRef, p.StartLabels)
	end := NodePattern(p.EndRef, p.EndLabels)

	switch p.Direction {
	case DirectionIncoming:
		return start + "<-" + rel.String() + "-" + end, nil
	case DirectionOutgoing:
		return start + "-" + rel.String() + "->" + end, nil
	case DirectionBoth, "":
		return start + "-" + rel.String() + "-" + end, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, p.Direction)
	}
}

// hopSuffix validates the hop bounds and renders the variable-length suffix.
// Bounds are checked before anything is rendered so an invalid bound never
// produces partial output.
func (p Pattern) hopSuffix() (string, error) {
	var (
		min      int64
		max      int64
		minSet   = p.MinHops != nil
		maxSet   = p.MaxHops != nil
		wildcard bool
	)

	if minSet {
		v, ok := convert.ToInt64(p.MinHops)
		if !ok || v < 0 {
			return "", fmt.Errorf("%w: $minHops must be a non-negative integer, got %v", ErrInvalidHops, p.MinHops)
		}
		min = v
	}
	if maxSet {
		if s, isString := p.MaxHops.(string); isString {
			if s != HopsWildcard {
				return "", fmt.Errorf("%w: $maxHops must be an integer or %q, got %q", ErrInvalidHops, HopsWildcard, s)
			}
			wildcard = true
		} else {
			v, ok := convert.ToInt64(p.MaxHops)
			if !ok || v < 0 {
				return "", fmt.Errorf("%w: $maxHops must be a non-negative integer or %q, got %v", ErrInvalidHops, HopsWildcard, p.MaxHops)
			}
			max = v
		}
	}

	switch {
	case !minSet && !maxSet:
		return "", nil
	case !minSet && wildcard:
		return "*", nil
	case minSet && maxSet && !wildcard:
		return fmt.Sprintf("*%d..%d", min, max), nil
	case minSet:
		// Only a minimum, or a minimum with a wildcard maximum.
		return fmt.Sprintf("*%d..", min), nil
	default:
		return fmt.Sprintf("*..%d", max), nil
	}
}
