// Package filters canonicalizes and validates MongoDB-style filter documents
// before they are compiled to Cypher.
//
// A filter document is a nested structure of maps, lists, and scalars using
// `$`-prefixed operator keys, e.g.:
//
//	{"age": {"$gte": 21}, "$or": [{"name": "Alice"}, {"name": "Bob"}]}
//
// The package exposes the three passes the compiler runs in order:
//
//  1. Normalize — rewrite implicit equality ({"age": 30} becomes
//     {"age": {"$eq": 30}}) and multi-operator maps below the root into an
//     explicit {"$and": [...]} conjunction. Idempotent.
//  2. Validate — enforce which structural keys are legal for the filter's
//     context and drop unknown operators. Dropping is deliberate: filter
//     documents are forward-compatible and extra keys are ignored rather than
//     rejected. Structurally required fields (a multi-hop filter without
//     $node) fail loudly with ErrInvalidFilter.
//  3. Prune — remove empty branches left over by validation so that no empty
//     combinator reaches the compiler.
//
// All three passes return new values and never mutate their input.
package filters

import (
	"errors"
	"strings"
)

// ErrInvalidFilter reports a structural schema violation in a filter
// document, such as a multi-hop filter missing its required $node key. Shape
// problems that merely make a branch meaningless (unknown operators, empty
// combinators) are dropped silently instead.
var ErrInvalidFilter = errors.New("invalid filter")

// Context identifies the structural position a filter document applies to.
// It decides which structural keys ($patterns, $labels, $minHops, ...) are
// legal during validation.
type Context int

const (
	// ContextNode validates a filter applied to a matched node.
	ContextNode Context = iota
	// ContextRelationship validates a filter applied to a matched
	// relationship.
	ContextRelationship
	// ContextRelationshipProperty validates a node filter that may carry a
	// nested $relationship filter for the connecting relationship.
	ContextRelationshipProperty
	// ContextMultiHop validates a variable-length path filter with $node,
	// $relationships and hop bounds.
	ContextMultiHop
	// ContextPatternNode validates the $node sub-filter of a pattern clause.
	ContextPatternNode
	// ContextPatternRelationship validates the $relationship sub-filter of a
	// pattern clause.
	ContextPatternRelationship
)

// Operator keys understood by the compiler. Anything `$`-prefixed outside
// this set and the structural keys is dropped by Validate.
const (
	OpEq          = "$eq"
	OpNeq         = "$neq"
	OpGt          = "$gt"
	OpGte         = "$gte"
	OpLt          = "$lt"
	OpLte         = "$lte"
	OpIn          = "$in"
	OpNin         = "$nin"
	OpAll         = "$all"
	OpContains    = "$contains"
	OpIContains   = "$icontains"
	OpStartsWith  = "$startsWith"
	OpIStartsWith = "$istartsWith"
	OpEndsWith    = "$endsWith"
	OpIEndsWith   = "$iendsWith"
	OpRegex       = "$regex"
	OpNot         = "$not"
	OpAnd         = "$and"
	OpOr          = "$or"
	OpXor         = "$xor"
	OpExists      = "$exists"
	OpSize        = "$size"
)

// Structural keys. Which of these are legal depends on the Context.
const (
	KeyElementID     = "$elementId"
	KeyID            = "$id"
	KeyPatterns      = "$patterns"
	KeyRelationship  = "$relationship"
	KeyRelationships = "$relationships"
	KeyNode          = "$node"
	KeyLabels        = "$labels"
	KeyType          = "$type"
	KeyMinHops       = "$minHops"
	KeyMaxHops       = "$maxHops"
	KeyDirection     = "$direction"
	KeyExists        = "$exists"
)

// comparisonOperators are the only operators allowed inside a $size operand.
var comparisonOperators = map[string]bool{
	OpEq:  true,
	OpNeq: true,
	OpGt:  true,
	OpGte: true,
	OpLt:  true,
	OpLte: true,
}

// propertyOperators is the full known operator set.
var propertyOperators = map[string]bool{
	OpEq: true, OpNeq: true, OpGt: true, OpGte: true, OpLt: true, OpLte: true,
	OpIn: true, OpNin: true, OpAll: true,
	OpContains: true, OpIContains: true,
	OpStartsWith: true, OpIStartsWith: true,
	OpEndsWith: true, OpIEndsWith: true,
	OpRegex: true, OpNot: true,
	OpAnd: true, OpOr: true, OpXor: true,
	OpExists: true, OpSize: true,
}

// structuralByContext maps each Context to the structural keys it accepts at
// the filter root.
var structuralByContext = map[Context]map[string]bool{
	ContextNode: {
		KeyElementID: true, KeyID: true, KeyPatterns: true, KeyLabels: true,
	},
	ContextRelationship: {
		KeyElementID: true, KeyID: true, KeyType: true,
	},
	ContextRelationshipProperty: {
		KeyElementID: true, KeyID: true, KeyPatterns: true, KeyLabels: true,
		KeyRelationship: true,
	},
	ContextMultiHop: {
		KeyNode: true, KeyRelationships: true,
		KeyMinHops: true, KeyMaxHops: true, KeyDirection: true,
	},
	ContextPatternNode: {
		KeyElementID: true, KeyID: true, KeyPatterns: true, KeyLabels: true,
	},
	ContextPatternRelationship: {
		KeyElementID: true, KeyID: true, KeyType: true,
	},
}

// IsOperator reports whether the key uses the `$` operator sigil.
func IsOperator(key string) bool {
	return strings.HasPrefix(key, "$")
}

// isScalar reports whether v is neither a mapping nor a sequence.
func isScalar(v interface{}) bool {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return false
	}
	return true
}
