package cypher

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// goldenOutput is the serialized form the golden fixtures pin down.
type goldenOutput struct {
	Match      string                 `json:"match,omitempty"`
	Clause     string                 `json:"clause"`
	Parameters map[string]interface{} `json:"parameters"`
}

func marshalGolden(t *testing.T, v goldenOutput) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	require.NoError(t, enc.Encode(v))
	return buf.Bytes()
}

func TestGoldenNodeFilters(t *testing.T) {
	b := NewBuilder("n")
	compiled, err := b.NodeFilters(map[string]interface{}{
		"age":  map[string]interface{}{"$gte": 21, "$lt": 65},
		"name": map[string]interface{}{"$istartsWith": "al"},
		"$or": []interface{}{
			map[string]interface{}{"active": true},
			map[string]interface{}{"deleted": map[string]interface{}{"$exists": false}},
		},
	})
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "node_filters", marshalGolden(t, goldenOutput{
		Clause:     compiled.Clause,
		Parameters: compiled.Parameters,
	}))
}

func TestGoldenMultiHopFilters(t *testing.T) {
	b := NewBuilder("n")
	compiled, err := b.MultiHopFilters(map[string]interface{}{
		"$node":      map[string]interface{}{"name": "Alice"},
		"$direction": "OUTGOING",
		"$minHops":   2,
		"$maxHops":   4,
		"$relationships": []interface{}{
			map[string]interface{}{
				"$type": "KNOWS",
				"since": map[string]interface{}{"$gt": 2010},
			},
		},
	})
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "multi_hop_filters", marshalGolden(t, goldenOutput{
		Match:      compiled.Match,
		Clause:     compiled.Clause,
		Parameters: compiled.Parameters,
	}))
}
