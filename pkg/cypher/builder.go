// Package cypher compiles validated filter documents into parameterized
// Cypher WHERE fragments and renders the match patterns they refer to.
//
// The entry points (NodeFilters, RelationshipFilters,
// RelationshipPropertyFilters, MultiHopFilters) run the full pipeline:
// normalize, validate for the matching context, prune, then compile. The
// result is a clause string meant to be spliced after WHERE or inside an
// EXISTS block, plus the parameter map to bind when issuing the query. No
// operand value is ever interpolated into the clause text; everything flows
// through named parameters.
//
//	builder := cypher.NewBuilder("n")
//	compiled, err := builder.NodeFilters(map[string]interface{}{
//		"age": map[string]interface{}{"$gte": 21},
//	})
//	// compiled.Clause     == "n.age >= $_n_0"
//	// compiled.Parameters == map[string]interface{}{"_n_0": 21}
//
// A Builder carries per-pass state (the parameter counter, the parameter
// map, the current property) and resets it at the start of every entry-point
// call, so a single Builder can compile many filters sequentially. It is not
// safe for concurrent use; give each goroutine its own Builder.
package cypher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/skaldic/ogm/pkg/convert"
	"github.com/skaldic/ogm/pkg/filters"
)

// CompiledClause is the output of one compilation pass: a boolean-valued
// Cypher fragment and the parameters it references. Parameter names are
// unique within the pass and every placeholder in the clause resolves to a
// map entry.
type CompiledClause struct {
	Clause     string
	Parameters map[string]interface{}
}

// MultiHopClause is the output of compiling a multi-hop filter: the
// variable-length path pattern to splice after MATCH, and the WHERE fragment
// constraining the end node and the per-type relationship properties.
type MultiHopClause struct {
	Match string
	CompiledClause
}

// References used by multi-hop compilation: the path is bound so its
// relationships can be constrained, the end node gets a stable name, and
// per-type property constraints run over a lambda variable.
const (
	pathRef       = "path"
	multiHopEnd   = "m"
	relLambdaVar  = "r"
	refNameLength = 12
)

// Builder compiles filter documents against one target reference. The zero
// value is not usable; construct with NewBuilder.
type Builder struct {
	ref             string
	relationshipRef string

	// Per-pass state, reset by every entry point.
	property     string
	propertyExpr string // overrides ref.property while compiling $size operands
	paramCount   int
	params       map[string]interface{}

	// newRef allocates opaque reference names for pattern sub-queries.
	// Swappable so tests can pin deterministic names.
	newRef func() string
}

// NewBuilder returns a Builder that compiles clauses against the given
// reference name. An empty ref defaults to "n".
func NewBuilder(ref string) *Builder {
	if ref == "" {
		ref = "n"
	}
	b := &Builder{ref: ref, newRef: opaqueRef}
	b.reset()
	return b
}

// opaqueRef derives a fresh pattern reference from a UUID. The leading
// letter keeps it a valid Cypher identifier.
func opaqueRef() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "a" + hex[:refNameLength]
}

// Reset clears all per-pass state and retargets the builder at ref. Entry
// points reset implicitly; Reset exists for callers driving compile passes
// manually against a shared builder.
func (b *Builder) Reset(ref string) {
	if ref != "" {
		b.ref = ref
	}
	b.relationshipRef = ""
	b.reset()
}

func (b *Builder) reset() {
	b.property = ""
	b.propertyExpr = ""
	b.paramCount = 0
	b.params = make(map[string]interface{})
}

// Ref returns the reference name the builder compiles against.
func (b *Builder) Ref() string {
	return b.ref
}

// NodeFilters compiles a node filter document.
func (b *Builder) NodeFilters(filter interface{}) (CompiledClause, error) {
	return b.compileFiltered(filter, filters.ContextNode)
}

// RelationshipFilters compiles a relationship filter document.
func (b *Builder) RelationshipFilters(filter interface{}) (CompiledClause, error) {
	return b.compileFiltered(filter, filters.ContextRelationship)
}

// RelationshipPropertyFilters compiles a node filter that may carry a
// nested $relationship filter; the nested filter compiles against relRef.
func (b *Builder) RelationshipPropertyFilters(filter interface{}, relRef string) (CompiledClause, error) {
	b.Reset("")
	b.relationshipRef = relRef
	return b.compileValidated(filter, filters.ContextRelationshipProperty)
}

// compileFiltered is the shared entry-point pipeline.
func (b *Builder) compileFiltered(filter interface{}, ctx filters.Context) (CompiledClause, error) {
	b.Reset("")
	return b.compileValidated(filter, ctx)
}

func (b *Builder) compileValidated(filter interface{}, ctx filters.Context) (CompiledClause, error) {
	validated, err := filters.Validate(filters.Normalize(filter, 0), ctx)
	if err != nil {
		return CompiledClause{}, err
	}
	pruned, _ := filters.Prune(validated, 0).(map[string]interface{})
	clause, err := b.compile(pruned)
	if err != nil {
		return CompiledClause{}, err
	}
	return CompiledClause{Clause: clause, Parameters: b.params}, nil
}

// MultiHopFilters compiles a multi-hop filter into a bound path pattern and
// its WHERE fragment. The $node sub-filter constrains the end node (bound to
// "m"); each $relationships element constrains relationships of its $type
// along the path. A missing $node fails with filters.ErrInvalidFilter.
func (b *Builder) MultiHopFilters(filter interface{}) (MultiHopClause, error) {
	b.Reset("")

	validated, err := filters.Validate(filters.Normalize(filter, 0), filters.ContextMultiHop)
	if err != nil {
		return MultiHopClause{}, err
	}
	pruned, _ := filters.Prune(validated, 0).(map[string]interface{})

	pattern := Pattern{
		StartRef: b.ref,
		EndRef:   multiHopEnd,
		MinHops:  pruned[filters.KeyMinHops],
		MaxHops:  pruned[filters.KeyMaxHops],
	}
	if dir, ok := pruned[filters.KeyDirection].(string); ok {
		pattern.Direction = Direction(dir)
	}
	rendered, err := pattern.Render()
	if err != nil {
		return MultiHopClause{}, err
	}

	fragments := make([]string, 0, 2)

	nodeClause, err := b.compileWithRef(pruned[filters.KeyNode], multiHopEnd)
	if err != nil {
		return MultiHopClause{}, err
	}
	if nodeClause != "" {
		fragments = append(fragments, nodeClause)
	}

	if rels, ok := pruned[filters.KeyRelationships].([]interface{}); ok {
		for _, item := range rels {
			rel, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			fragment, err := b.compileRelationshipDispatch(rel)
			if err != nil {
				return MultiHopClause{}, err
			}
			if fragment != "" {
				fragments = append(fragments, fragment)
			}
		}
	}

	return MultiHopClause{
		Match: fmt.Sprintf("%s = %s", pathRef, rendered),
		CompiledClause: CompiledClause{
			Clause:     strings.Join(fragments, " AND "),
			Parameters: b.params,
		},
	}, nil
}

// compileRelationshipDispatch emits the per-type constraint for one
// $relationships element: every relationship of the given type along the
// path must satisfy the element's property operators. Relationships of other
// types pass through the CASE unexamined.
func (b *Builder) compileRelationshipDispatch(rel map[string]interface{}) (string, error) {
	relType, _ := rel[filters.KeyType].(string)

	props := make(map[string]interface{}, len(rel))
	for k, v := range rel {
		if k != filters.KeyType {
			props[k] = v
		}
	}

	// The props clause compiles first; the type parameter is allocated only
	// once there is a fragment to reference it, so an element that compiles
	// to nothing leaves no parameter behind.
	propsClause, err := b.compileWithRef(props, relLambdaVar)
	if err != nil {
		return "", err
	}
	if propsClause == "" {
		return "", nil
	}
	return fmt.Sprintf(
		"ALL(%s IN relationships(%s) WHERE CASE WHEN type(%s) = $%s THEN (%s) ELSE true END)",
		relLambdaVar, pathRef, relLambdaVar, b.param(relType), propsClause,
	), nil
}

// compileWithRef compiles a sub-filter against a temporary reference,
// preserving the parameter counter and map.
func (b *Builder) compileWithRef(expression interface{}, ref string) (string, error) {
	prevRef, prevProperty := b.ref, b.property
	b.ref = ref
	b.property = ""
	clause, err := b.compile(expression)
	b.ref, b.property = prevRef, prevProperty
	return clause, err
}

// compile walks one map of the operator tree, compiles each key, and joins
// the non-empty fragments with AND. Non-mapping input is a no-op: degenerate
// filter shapes compile to no constraint rather than erroring.
func (b *Builder) compile(expression interface{}) (string, error) {
	m, ok := expression.(map[string]interface{})
	if !ok {
		return "", nil
	}

	fragments := make([]string, 0, len(m))
	for _, key := range sortedKeys(m) {
		fragment, err := b.compileKey(key, m[key])
		if err != nil {
			return "", err
		}
		if fragment != "" {
			fragments = append(fragments, fragment)
		}
	}
	return strings.Join(fragments, " AND "), nil
}

// compileKey dispatches one operator or property key to its clause
// template. Unrecognized sigil keys compile to nothing; validation drops
// them in the normal pipeline but the compiler tolerates stragglers.
func (b *Builder) compileKey(key string, value interface{}) (string, error) {
	switch key {
	case filters.OpAnd, filters.OpOr, filters.OpXor:
		return b.compileCombinator(key, value)

	case filters.OpNot:
		inner, err := b.compile(value)
		if err != nil || inner == "" {
			return "", err
		}
		return "NOT(" + inner + ")", nil

	case filters.OpExists:
		exists, ok := value.(bool)
		if !ok {
			return "", nil
		}
		if exists {
			return b.propertyExpression() + " IS NOT NULL", nil
		}
		return b.propertyExpression() + " IS NULL", nil

	case filters.OpSize:
		b.propertyExpr = fmt.Sprintf("SIZE(%s.%s)", b.ref, b.property)
		clause, err := b.compile(value)
		b.propertyExpr = ""
		return clause, err

	case filters.KeyLabels:
		labels, ok := convert.ToStringSlice(value)
		if !ok {
			return "", nil
		}
		return fmt.Sprintf("ALL(i IN $%s WHERE i IN labels(%s))", b.param(labels), b.ref), nil

	case filters.KeyType:
		if s, ok := value.(string); ok {
			return fmt.Sprintf("type(%s) = $%s", b.ref, b.param(s)), nil
		}
		return fmt.Sprintf("type(%s) IN $%s", b.ref, b.param(value)), nil

	case filters.KeyID:
		return fmt.Sprintf("ID(%s) = $%s", b.ref, b.param(value)), nil

	case filters.KeyElementID:
		return fmt.Sprintf("elementId(%s) = $%s", b.ref, b.param(value)), nil

	case filters.KeyPatterns:
		return b.compilePatterns(value)

	case filters.KeyRelationship:
		if b.relationshipRef == "" {
			return "", nil
		}
		return b.compileWithRef(value, b.relationshipRef)

	default:
		if fragment, ok := b.compileComparison(key, value); ok {
			return fragment, nil
		}
		if filters.IsOperator(key) {
			return "", nil
		}
		// Property name: later sibling operators apply to it.
		prevProperty := b.property
		b.property = key
		clause, err := b.compile(value)
		b.property = prevProperty
		return clause, err
	}
}

// compileComparison maps the scalar property operators onto their clause
// templates. The boolean result reports whether the key was one of them.
func (b *Builder) compileComparison(op string, value interface{}) (string, bool) {
	expr := b.propertyExpression()
	switch op {
	case filters.OpEq:
		return fmt.Sprintf("%s = $%s", expr, b.param(value)), true
	case filters.OpNeq:
		return fmt.Sprintf("%s <> $%s", expr, b.param(value)), true
	case filters.OpGt:
		return fmt.Sprintf("%s > $%s", expr, b.param(value)), true
	case filters.OpGte:
		return fmt.Sprintf("%s >= $%s", expr, b.param(value)), true
	case filters.OpLt:
		return fmt.Sprintf("%s < $%s", expr, b.param(value)), true
	case filters.OpLte:
		return fmt.Sprintf("%s <= $%s", expr, b.param(value)), true
	case filters.OpIn:
		// Membership tests the stored list, like $all: the operand values
		// are looked up in the property, not the other way around.
		return fmt.Sprintf("ANY(i IN %s WHERE i IN $%s)", expr, b.param(value)), true
	case filters.OpNin:
		return fmt.Sprintf("NONE(i IN %s WHERE i IN $%s)", expr, b.param(value)), true
	case filters.OpAll:
		return fmt.Sprintf("ALL(i IN $%s WHERE i IN %s)", b.param(value), expr), true
	case filters.OpContains:
		return fmt.Sprintf("%s CONTAINS $%s", expr, b.param(value)), true
	case filters.OpIContains:
		return fmt.Sprintf("toLower(%s) CONTAINS toLower($%s)", expr, b.param(value)), true
	case filters.OpStartsWith:
		return fmt.Sprintf("%s STARTS WITH $%s", expr, b.param(value)), true
	case filters.OpIStartsWith:
		return fmt.Sprintf("toLower(%s) STARTS WITH toLower($%s)", expr, b.param(value)), true
	case filters.OpEndsWith:
		return fmt.Sprintf("%s ENDS WITH $%s", expr, b.param(value)), true
	case filters.OpIEndsWith:
		return fmt.Sprintf("toLower(%s) ENDS WITH toLower($%s)", expr, b.param(value)), true
	case filters.OpRegex:
		return fmt.Sprintf("%s =~ $%s", expr, b.param(value)), true
	}
	return "", false
}

// compileCombinator compiles a $and/$or/$xor operand list, dropping empty
// sub-clauses and parenthesizing the joined group. A list whose every
// element compiled to nothing contributes nothing.
func (b *Builder) compileCombinator(op string, value interface{}) (string, error) {
	list, ok := value.([]interface{})
	if !ok {
		return "", nil
	}

	fragments := make([]string, 0, len(list))
	for _, item := range list {
		fragment, err := b.compile(item)
		if err != nil {
			return "", err
		}
		if fragment != "" {
			fragments = append(fragments, fragment)
		}
	}
	if len(fragments) == 0 {
		return "", nil
	}

	var joiner string
	switch op {
	case filters.OpAnd:
		joiner = " AND "
	case filters.OpOr:
		joiner = " OR "
	default:
		joiner = " XOR "
	}
	return "(" + strings.Join(fragments, joiner) + ")", nil
}

// compilePatterns compiles a $patterns operand list and AND-joins the
// resulting existence sub-queries.
func (b *Builder) compilePatterns(value interface{}) (string, error) {
	list, ok := value.([]interface{})
	if !ok {
		return "", nil
	}

	fragments := make([]string, 0, len(list))
	for _, item := range list {
		pattern, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		fragment, err := b.compilePattern(pattern)
		if err != nil {
			return "", err
		}
		if fragment != "" {
			fragments = append(fragments, fragment)
		}
	}
	return strings.Join(fragments, " AND "), nil
}

// compilePattern compiles one pattern-existence clause into an
// EXISTS {MATCH ... WHERE ...} sub-query anchored at the builder's own
// reference. The relationship and far node get fresh opaque references so
// nested sub-clauses never collide with the outer pass.
func (b *Builder) compilePattern(pattern map[string]interface{}) (string, error) {
	exists := true
	if v, ok := pattern[filters.KeyExists].(bool); ok {
		exists = v
	}

	relRef := b.newRef()
	nodeRef := b.newRef()

	nodeClause, err := b.compileWithRef(pattern[filters.KeyNode], nodeRef)
	if err != nil {
		return "", err
	}
	relClause, err := b.compileWithRef(pattern[filters.KeyRelationship], relRef)
	if err != nil {
		return "", err
	}

	p := Pattern{
		Ref:      relRef,
		StartRef: b.ref,
		EndRef:   nodeRef,
	}
	if dir, ok := pattern[filters.KeyDirection].(string); ok {
		p.Direction = Direction(dir)
	}
	rendered, err := p.Render()
	if err != nil {
		return "", err
	}

	where := make([]string, 0, 2)
	if nodeClause != "" {
		where = append(where, nodeClause)
	}
	if relClause != "" {
		where = append(where, relClause)
	}

	var sb strings.Builder
	if !exists {
		sb.WriteString("NOT ")
	}
	sb.WriteString("EXISTS {MATCH ")
	sb.WriteString(rendered)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString("}")
	return sb.String(), nil
}

// propertyExpression is the left-hand side scalar operators compile
// against: the $size override when set, otherwise ref.property.
func (b *Builder) propertyExpression() string {
	if b.propertyExpr != "" {
		return b.propertyExpr
	}
	return b.ref + "." + b.property
}

// param allocates the next parameter name for value. The counter is scoped
// to one compilation pass and never resets mid-pass, which is what keeps
// names unique across recursive sub-query compilation.
func (b *Builder) param(value interface{}) string {
	name := fmt.Sprintf("_n_%d", b.paramCount)
	b.paramCount++
	b.params[name] = value
	return name
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
