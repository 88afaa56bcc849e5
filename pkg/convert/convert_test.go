package convert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected float64
		ok       bool
	}{
		{name: "int", input: 3, expected: 3, ok: true},
		{name: "int64", input: int64(3), expected: 3, ok: true},
		{name: "float64", input: 3.5, expected: 3.5, ok: true},
		{name: "uint8", input: uint8(7), expected: 7, ok: true},
		{name: "string", input: "3"},
		{name: "bool", input: true},
		{name: "nil", input: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.input)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected int64
		ok       bool
	}{
		{name: "int", input: 3, expected: 3, ok: true},
		{name: "negative int", input: -3, expected: -3, ok: true},
		{name: "whole float", input: float64(3), expected: 3, ok: true},
		{name: "fractional float", input: 3.5},
		{name: "nan", input: math.NaN()},
		{name: "max uint64 overflows", input: uint64(math.MaxUint64)},
		{name: "string", input: "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToInt64(tt.input)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestToStringSlice(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected []string
		ok       bool
	}{
		{name: "bare string", input: "Person", expected: []string{"Person"}, ok: true},
		{name: "string slice", input: []string{"a", "b"}, expected: []string{"a", "b"}, ok: true},
		{
			name:     "interface slice of strings",
			input:    []interface{}{"a", "b"},
			expected: []string{"a", "b"},
			ok:       true,
		},
		{name: "mixed slice", input: []interface{}{"a", 1}},
		{name: "number", input: 1},
		{name: "empty interface slice", input: []interface{}{}, expected: []string{}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToStringSlice(tt.input)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.expected, got)
		})
	}
}
