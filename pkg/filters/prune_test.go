package filters

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPruneDeadBranchesPropagate(t *testing.T) {
	// The empty $or prunes away; the raw scalar property below the root is
	// structurally invalid and prunes too; the emptied $and goes with them.
	input := map[string]interface{}{
		"$and": []interface{}{
			map[string]interface{}{"$or": []interface{}{}},
			map[string]interface{}{"name": "John"},
		},
	}
	require.Empty(t, Prune(input, 0))
}

func TestPruneKeepsNormalizedProperties(t *testing.T) {
	input := map[string]interface{}{
		"$and": []interface{}{
			map[string]interface{}{"$or": []interface{}{}},
			map[string]interface{}{"name": map[string]interface{}{"$eq": "John"}},
		},
	}
	// The singleton combinator list stays wrapped rather than collapsing to
	// its only element.
	expected := map[string]interface{}{
		"$and": []interface{}{
			map[string]interface{}{"name": map[string]interface{}{"$eq": "John"}},
		},
	}
	require.Equal(t, expected, Prune(input, 0))
}

func TestPruneTable(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]interface{}
		expected map[string]interface{}
	}{
		{
			name:     "empty nested map removed",
			input:    map[string]interface{}{"age": map[string]interface{}{}},
			expected: map[string]interface{}{},
		},
		{
			name:     "empty list removed",
			input:    map[string]interface{}{"$patterns": []interface{}{}},
			expected: map[string]interface{}{},
		},
		{
			name: "scalar property kept at root",
			input: map[string]interface{}{
				"name": "John",
			},
			expected: map[string]interface{}{"name": "John"},
		},
		{
			name: "operator scalars kept below root",
			input: map[string]interface{}{
				"$node": map[string]interface{}{
					"$direction": "OUTGOING",
					"name":       map[string]interface{}{"$eq": "A"},
				},
			},
			expected: map[string]interface{}{
				"$node": map[string]interface{}{
					"$direction": "OUTGOING",
					"name":       map[string]interface{}{"$eq": "A"},
				},
			},
		},
		{
			name: "operand lists of scalars survive",
			input: map[string]interface{}{
				"age": map[string]interface{}{"$in": []interface{}{1, 2, 3}},
			},
			expected: map[string]interface{}{
				"age": map[string]interface{}{"$in": []interface{}{1, 2, 3}},
			},
		},
		{
			name: "empty list elements removed",
			input: map[string]interface{}{
				"$or": []interface{}{
					map[string]interface{}{},
					map[string]interface{}{"age": map[string]interface{}{"$gt": 1}},
				},
			},
			expected: map[string]interface{}{
				"$or": []interface{}{
					map[string]interface{}{"age": map[string]interface{}{"$gt": 1}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Prune(tt.input, 0))
		})
	}
}

func TestPruneDoesNotMutateInput(t *testing.T) {
	input := map[string]interface{}{
		"$and": []interface{}{
			map[string]interface{}{"$or": []interface{}{}},
		},
	}
	Prune(input, 0)
	require.Len(t, input["$and"], 1)
}

func TestPruneNonMapping(t *testing.T) {
	require.Equal(t, "x", Prune("x", 0))
	require.Nil(t, Prune(nil, 0))
}
