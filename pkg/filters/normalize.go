package filters

import "sort"

// structuralContainers are recursed into as fresh sub-filter roots: the
// multi-key-to-$and rule never applies to their own key set.
var structuralContainers = map[string]bool{
	KeyNode:          true,
	KeyRelationship:  true,
	KeyRelationships: true,
	KeyPatterns:      true,
}

// Normalize canonicalizes a raw filter document into an explicit operator
// tree. Level 0 is the filter root; nested calls increase the level.
//
// Two rewrites happen:
//
//   - Implicit equality: a property, $not, or $size key holding a bare scalar
//     is rewritten to hold {"$eq": scalar}.
//   - Multi-operator maps: a map with more than one key below the root is
//     rewritten into {"$and": [{k1: v1}, {k2: v2}, ...]}, resolving
//     "multiple constraints on one property" into an explicit conjunction.
//
// Structural containers ($node, $relationship, $relationships, $patterns)
// restart at level 0 so their own key sets are never folded into $and;
// $direction values pass through untouched. Keys are visited in lexicographic
// order so normalization is deterministic, and the whole pass is idempotent:
// normalizing an already-normalized document returns an equal document. The
// input is never mutated.
func Normalize(expression interface{}, level int) interface{} {
	switch expr := expression.(type) {
	case map[string]interface{}:
		return normalizeMap(expr, level)
	case []interface{}:
		out := make([]interface{}, len(expr))
		for i, item := range expr {
			out[i] = Normalize(item, level+1)
		}
		return out
	default:
		return expression
	}
}

func normalizeMap(expr map[string]interface{}, level int) interface{} {
	keys := sortedKeys(expr)

	// Implicit $eq for scalar-valued property keys and for $not/$size.
	rewritten := make(map[string]interface{}, len(expr))
	for _, key := range keys {
		value := expr[key]
		if (key == OpNot || key == OpSize || !IsOperator(key)) && isScalar(value) {
			value = map[string]interface{}{OpEq: value}
		}
		rewritten[key] = value
	}

	// Below the root, sibling keys are ambiguous ("$gt AND $lt"? "$gt OR
	// $lt"?) and resolve to an explicit conjunction.
	if len(rewritten) > 1 && level > 0 {
		split := make([]interface{}, 0, len(rewritten))
		for _, key := range keys {
			split = append(split, Normalize(map[string]interface{}{key: rewritten[key]}, level))
		}
		return map[string]interface{}{OpAnd: split}
	}

	out := make(map[string]interface{}, len(rewritten))
	for _, key := range keys {
		value := rewritten[key]
		switch {
		case key == KeyDirection:
			out[key] = value
		case structuralContainers[key]:
			if list, ok := value.([]interface{}); ok {
				normalized := make([]interface{}, len(list))
				for i, item := range list {
					normalized[i] = Normalize(item, 0)
				}
				out[key] = normalized
			} else {
				out[key] = Normalize(value, 0)
			}
		default:
			out[key] = Normalize(value, level+1)
		}
	}
	return out
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
