package cypher

import (
	"fmt"
	"strings"

	"github.com/skaldic/ogm/pkg/convert"
)

// Order is the sort order token appended to an ORDER BY fragment.
type Order string

const (
	// OrderAscending sorts ascending.
	OrderAscending Order = "ASC"
	// OrderDescending sorts descending.
	OrderDescending Order = "DESC"
)

// QueryOptions describes the result-shaping options of one query. Fields
// are loosely typed to accept decoded option documents directly: Sort takes
// a property name or a list of property names, Skip and Limit take any
// integer kind. Unset fields render nothing.
type QueryOptions struct {
	Limit interface{}
	Skip  interface{}
	Sort  interface{}
	Order Order
}

// Render builds the ORDER BY / SKIP / LIMIT fragment for the given
// reference, independent of any WHERE clause. With both Sort and Order set
// the order token follows the sort list; with only Order set it applies to
// the bare reference. A non-positive Limit and a negative Skip render
// nothing.
func (o QueryOptions) Render(ref string) string {
	parts := make([]string, 0, 3)

	sorts, ok := convert.ToStringSlice(o.Sort)
	switch {
	case ok && len(sorts) > 0:
		props := make([]string, len(sorts))
		for i, s := range sorts {
			props[i] = ref + "." + s
		}
		clause := "ORDER BY " + strings.Join(props, ", ")
		if o.Order != "" {
			clause += " " + string(o.Order)
		}
		parts = append(parts, clause)
	case o.Order != "":
		parts = append(parts, fmt.Sprintf("ORDER BY %s %s", ref, o.Order))
	}

	if skip, ok := convert.ToInt64(o.Skip); ok && skip >= 0 {
		parts = append(parts, fmt.Sprintf("SKIP %d", skip))
	}
	if limit, ok := convert.ToInt64(o.Limit); ok && limit > 0 {
		parts = append(parts, fmt.Sprintf("LIMIT %d", limit))
	}
	return strings.Join(parts, " ")
}
