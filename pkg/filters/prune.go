package filters

// Prune removes branches that cannot contribute a clause: empty nested maps,
// empty lists, list elements that become empty after pruning, and (below the
// root) non-operator keys holding bare scalars. Emptiness propagates upward,
// so a combinator whose whole operand prunes away is removed with it and a
// document can prune to an empty map, which compiles to no constraint.
//
// Prune runs after Normalize and Validate; leftover empty combinators would
// otherwise compile to malformed fragments like "AND ()". The input is never
// mutated. A combinator list reduced to a single element stays wrapped.
func Prune(expression interface{}, level int) interface{} {
	switch expr := expression.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(expr))
		for _, key := range sortedKeys(expr) {
			switch value := expr[key].(type) {
			case map[string]interface{}:
				pruned := Prune(value, level+1).(map[string]interface{})
				if len(pruned) > 0 {
					out[key] = pruned
				}
			case []interface{}:
				pruned := pruneList(value, level)
				if len(pruned) > 0 {
					out[key] = pruned
				}
			default:
				// A raw property key below the root holds a scalar the
				// compiler cannot attach an operator to.
				if IsOperator(key) || level == 0 {
					out[key] = value
				}
			}
		}
		return out
	case []interface{}:
		return pruneList(expr, level)
	default:
		return expression
	}
}

func pruneList(list []interface{}, level int) []interface{} {
	out := make([]interface{}, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			pruned := Prune(m, level+1).(map[string]interface{})
			if len(pruned) > 0 {
				out = append(out, pruned)
			}
			continue
		}
		out = append(out, item)
	}
	return out
}
