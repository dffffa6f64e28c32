// Package testkit holds assertions shared by the parser, macro and driver
// test suites.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"underware/internal/ast"
	"underware/internal/source"
)

// CheckSpanInvariants verifies a parsed tree against its source file:
//  1. every invocation span is non-empty and inside the file content
//  2. invocations are in source order and do not overlap
//  3. every parsed child span lies within its parent span
func CheckSpanInvariants(b *ast.Builder, f ast.File, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}

	var prev source.Span
	for i, id := range f.Invocations {
		sp := b.Span(id)
		if sp.Empty() {
			return fmt.Errorf("invocation %d has empty span %v", i, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("invocation %d span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("invocation %d span %v beyond content (%d bytes)", i, sp, lenContent)
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("invocation %d span %v overlaps or precedes %v", i, sp, prev)
		}
		prev = sp
		if err := checkChildren(b, id); err != nil {
			return fmt.Errorf("invocation %d: %w", i, err)
		}
	}
	return nil
}

func checkChildren(b *ast.Builder, root ast.ExprID) error {
	var walkErr error
	b.Walk(root, func(id ast.ExprID) bool {
		parent := b.Span(id)
		for _, c := range b.Children(id) {
			if !parent.Contains(b.Span(c)) {
				walkErr = fmt.Errorf("child %s span %v outside parent %s span %v",
					b.Get(c).Kind, b.Span(c), b.Get(id).Kind, parent)
				return false
			}
		}
		return walkErr == nil
	})
	return walkErr
}
