package ast

import "underware/internal/source"

// File is the parse result for one source file: the outermost macro
// invocations in source order. Nested invocations are reachable through
// their parents' arguments only.
type File struct {
	Span        source.Span
	Invocations []ExprID
}
