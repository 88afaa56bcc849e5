package cypher

import "errors"

// Errors returned while rendering match patterns. Both indicate a caller
// programming error rather than a malformed filter document, so they are
// always fatal to the compilation pass that hit them.
var (
	// ErrInvalidHops reports a negative hop bound or a non-wildcard string
	// where a hop count was expected.
	ErrInvalidHops = errors.New("invalid hop range")

	// ErrInvalidDirection reports an unsupported direction token.
	ErrInvalidDirection = errors.New("invalid direction")
)
