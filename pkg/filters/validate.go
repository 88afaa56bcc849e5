package filters

import (
	"fmt"

	"github.com/skaldic/ogm/pkg/convert"
)

// rootCombinators may appear at the root of any filter context and recurse
// with root semantics (their elements may again name properties).
var rootCombinators = map[string]bool{
	OpAnd: true,
	OpOr:  true,
	OpXor: true,
	OpNot: true,
}

// Validate filters a normalized document down to the keys that are legal for
// the given context. Unknown operators and misplaced structural keys are
// dropped, never rejected: filter documents are allowed to carry keys this
// compiler does not understand. Only structural schema violations fail, with
// an error wrapping ErrInvalidFilter:
//
//   - a multi-hop filter without a $node sub-filter,
//   - a $relationships element without a $type string,
//   - a $patterns element whose $exists value is not a boolean.
//
// A non-mapping document validates to nil without error; compiling nil
// yields no constraint, which is the documented behavior for degenerate
// input. The input is never mutated.
func Validate(expression interface{}, ctx Context) (map[string]interface{}, error) {
	m, ok := expression.(map[string]interface{})
	if !ok {
		return nil, nil
	}

	out, err := validateRoot(m, ctx)
	if err != nil {
		return nil, err
	}
	if ctx == ContextMultiHop {
		if _, ok := out[KeyNode]; !ok {
			return nil, fmt.Errorf("%w: multi-hop filter requires %s", ErrInvalidFilter, KeyNode)
		}
	}
	return out, nil
}

func validateRoot(m map[string]interface{}, ctx Context) (map[string]interface{}, error) {
	allowed := structuralByContext[ctx]
	out := make(map[string]interface{}, len(m))

	for _, key := range sortedKeys(m) {
		value := m[key]
		switch {
		case !IsOperator(key):
			// Property name. Properties at the root of a multi-hop filter
			// have nothing to apply to and are dropped.
			if ctx == ContextMultiHop {
				continue
			}
			out[key] = validateOperatorTree(value)

		case rootCombinators[key]:
			if key == OpNot {
				if sub, ok := value.(map[string]interface{}); ok {
					validated, err := validateRoot(sub, ctx)
					if err != nil {
						return nil, err
					}
					out[key] = validated
				}
				continue
			}
			list, ok := value.([]interface{})
			if !ok {
				continue
			}
			validated := make([]interface{}, 0, len(list))
			for _, item := range list {
				sub, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				v, err := validateRoot(sub, ctx)
				if err != nil {
					return nil, err
				}
				validated = append(validated, v)
			}
			out[key] = validated

		case allowed[key]:
			v, err := validateStructural(key, value)
			if err != nil {
				return nil, err
			}
			if v != nil {
				out[key] = v
			}

		default:
			// Unknown or misplaced structural/operator key.
		}
	}
	return out, nil
}

// validateStructural checks one structural key's operand. A nil, nil return
// drops the key.
func validateStructural(key string, value interface{}) (interface{}, error) {
	switch key {
	case KeyPatterns:
		list, ok := value.([]interface{})
		if !ok {
			return nil, nil
		}
		validated := make([]interface{}, 0, len(list))
		for _, item := range list {
			pattern, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			v, err := validatePattern(pattern)
			if err != nil {
				return nil, err
			}
			validated = append(validated, v)
		}
		return validated, nil

	case KeyNode:
		v, err := Validate(value, ContextPatternNode)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, nil
		}
		return v, nil

	case KeyRelationship:
		v, err := Validate(value, ContextRelationship)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, nil
		}
		return v, nil

	case KeyRelationships:
		list, ok := value.([]interface{})
		if !ok {
			return nil, nil
		}
		validated := make([]interface{}, 0, len(list))
		for _, item := range list {
			sub, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			v, err := Validate(sub, ContextPatternRelationship)
			if err != nil {
				return nil, err
			}
			if _, ok := v[KeyType].(string); !ok {
				return nil, fmt.Errorf("%w: %s elements require a %s string", ErrInvalidFilter, KeyRelationships, KeyType)
			}
			validated = append(validated, v)
		}
		return validated, nil

	case KeyLabels:
		if _, ok := convert.ToStringSlice(value); !ok {
			return nil, nil
		}
		return value, nil

	case KeyType:
		if _, ok := convert.ToStringSlice(value); !ok {
			return nil, nil
		}
		return value, nil

	default:
		// $elementId, $id, $minHops, $maxHops, $direction carry their
		// operand through; bounds and direction tokens are checked when the
		// pattern is rendered.
		return value, nil
	}
}

// validatePattern checks one $patterns element against its schema: $exists
// (boolean), $direction, $node, and $relationship. Unknown keys are dropped.
func validatePattern(pattern map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(pattern))
	for _, key := range sortedKeys(pattern) {
		value := pattern[key]
		switch key {
		case KeyExists:
			if _, ok := value.(bool); !ok {
				return nil, fmt.Errorf("%w: pattern %s must be a boolean, got %v", ErrInvalidFilter, KeyExists, value)
			}
			out[key] = value
		case KeyDirection:
			out[key] = value
		case KeyNode:
			v, err := Validate(value, ContextPatternNode)
			if err != nil {
				return nil, err
			}
			if v != nil {
				out[key] = v
			}
		case KeyRelationship:
			v, err := Validate(value, ContextPatternRelationship)
			if err != nil {
				return nil, err
			}
			if v != nil {
				out[key] = v
			}
		}
	}
	return out, nil
}

// validateOperatorTree filters a property's operator subtree, dropping
// unknown operators, malformed combinator operands, and raw property keys
// that have no meaning below the root.
func validateOperatorTree(value interface{}) interface{} {
	m, ok := value.(map[string]interface{})
	if !ok {
		return value
	}

	out := make(map[string]interface{}, len(m))
	for _, key := range sortedKeys(m) {
		v := m[key]
		switch {
		case key == OpAnd || key == OpOr || key == OpXor:
			list, ok := v.([]interface{})
			if !ok {
				continue
			}
			validated := make([]interface{}, 0, len(list))
			for _, item := range list {
				validated = append(validated, validateOperatorTree(item))
			}
			out[key] = validated

		case key == OpNot:
			out[key] = validateOperatorTree(v)

		case key == OpSize:
			sub, ok := v.(map[string]interface{})
			if !ok {
				continue
			}
			// $size resolves to exactly one numeric comparison. Anything
			// else is an unknown shape and is dropped.
			if len(sub) != 1 {
				continue
			}
			inner := sortedKeys(sub)[0]
			if !comparisonOperators[inner] {
				continue
			}
			if _, ok := convert.ToFloat64(sub[inner]); !ok {
				continue
			}
			out[key] = validateOperatorTree(v)

		case key == OpExists:
			if _, ok := v.(bool); !ok {
				continue
			}
			out[key] = v

		case propertyOperators[key]:
			out[key] = v

		default:
			// Unknown operator or a raw property key below the root.
		}
	}
	return out
}
