package cypher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodePattern(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		labels   []string
		expected string
	}{
		{name: "anonymous", expected: "()"},
		{name: "ref only", ref: "n", expected: "(n)"},
		{name: "single label", ref: "n", labels: []string{"Person"}, expected: "(n:Person)"},
		{name: "multiple labels", ref: "n", labels: []string{"Person", "Actor"}, expected: "(n:Person:Actor)"},
		{name: "empty labels filtered", ref: "n", labels: []string{"", "Person", ""}, expected: "(n:Person)"},
		{name: "labels without ref", labels: []string{"Person"}, expected: "(:Person)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, NodePattern(tt.ref, tt.labels))
		})
	}
}

func TestPatternHopSuffix(t *testing.T) {
	tests := []struct {
		name     string
		min      interface{}
		max      interface{}
		expected string
	}{
		{name: "no bounds", expected: "()-[r]-()"},
		{name: "wildcard max only", max: "*", expected: "()-[r*]-()"},
		{name: "both bounds", min: 3, max: 10, expected: "()-[r*3..10]-()"},
		{name: "min only", min: 3, expected: "()-[r*3..]-()"},
		{name: "max only", max: 10, expected: "()-[r*..10]-()"},
		{name: "min with wildcard max", min: 2, max: "*", expected: "()-[r*2..]-()"},
		{name: "zero min", min: 0, max: 2, expected: "()-[r*0..2]-()"},
		{name: "float bounds from decoded JSON", min: float64(1), max: float64(5), expected: "()-[r*1..5]-()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered, err := Pattern{Ref: "r", MinHops: tt.min, MaxHops: tt.max}.Render()
			require.NoError(t, err)
			require.Equal(t, tt.expected, rendered)
		})
	}
}

func TestPatternInvalidHops(t *testing.T) {
	tests := []struct {
		name string
		min  interface{}
		max  interface{}
	}{
		{name: "negative min", min: -1},
		{name: "negative max", max: -1},
		{name: "non-wildcard string max", max: "many"},
		{name: "fractional min", min: 1.5},
		{name: "non-numeric min", min: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Pattern{Ref: "r", MinHops: tt.min, MaxHops: tt.max}.Render()
			require.ErrorIs(t, err, ErrInvalidHops)
		})
	}
}

func TestPatternDirection(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		expected  string
	}{
		{name: "outgoing", direction: DirectionOutgoing, expected: "()-[r]->()"},
		{name: "incoming", direction: DirectionIncoming, expected: "()<-[r]-()"},
		{name: "both", direction: DirectionBoth, expected: "()-[r]-()"},
		{name: "unspecified", direction: "", expected: "()-[r]-()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered, err := Pattern{Ref: "r", Direction: tt.direction}.Render()
			require.NoError(t, err)
			require.Equal(t, tt.expected, rendered)
		})
	}

	_, err := Pattern{Ref: "r", Direction: "SIDEWAYS"}.Render()
	require.ErrorIs(t, err, ErrInvalidDirection)
}

func TestPatternFull(t *testing.T) {
	rendered, err := Pattern{
		Ref:         "r",
		Type:        "KNOWS",
		Direction:   DirectionOutgoing,
		StartRef:    "n",
		StartLabels: []string{"Person"},
		EndRef:      "m",
		EndLabels:   []string{"Person", "Actor"},
		MinHops:     1,
		MaxHops:     3,
	}.Render()
	require.NoError(t, err)
	require.Equal(t, "(n:Person)-[r:KNOWS*1..3]->(m:Person:Actor)", rendered)
}

func TestPatternPure(t *testing.T) {
	p := Pattern{Ref: "r", Type: "KNOWS", Direction: DirectionIncoming, MinHops: 2}
	first, err := p.Render()
	require.NoError(t, err)
	second, err := p.Render()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestPatternInvalidHopsBeforeRendering(t *testing.T) {
	// Bound validation runs before any output is produced, even when the
	// direction would also fail.
	_, err := Pattern{Ref: "r", Direction: "SIDEWAYS", MinHops: -2}.Render()
	require.ErrorIs(t, err, ErrInvalidHops)
}
