package ast

import (
	"underware/internal/source"
)

type Hints struct{ Exprs uint }

// Builder owns the arenas of one tree. A source-backed Builder is produced by
// the parser and is read-only afterwards; a synthetic Builder (see
// NewSyntheticBuilder) holds nodes created by an expansion.
type Builder struct {
	Exprs   *Exprs
	Strings *source.Interner

	file *source.File
}

// NewBuilder creates a Builder whose nodes point into file.
func NewBuilder(file *source.File, hints Hints) *Builder {
	return &Builder{
		Exprs:   NewExprs(hints.Exprs),
		Strings: source.NewInterner(),
		file:    file,
	}
}

// NewSyntheticBuilder creates a Builder without source text.
// Every node allocated through it is Synthetic.
func NewSyntheticBuilder(hints Hints) *Builder {
	b := &Builder{
		Exprs:   NewExprs(hints.Exprs),
		Strings: source.NewInterner(),
	}
	b.Exprs.synthetic = true
	return b
}

// File returns the backing source file, nil for synthetic trees.
func (b *Builder) File() *source.File {
	return b.file
}

// Get is a shorthand for b.Exprs.Get.
func (b *Builder) Get(id ExprID) *Expr {
	return b.Exprs.Get(id)
}

// Member returns the member access payload of id, or false when id is
// anything other than a member access.
func (b *Builder) Member(id ExprID) (*ExprMemberData, bool) {
	return b.Exprs.Member(id)
}

// Name resolves an interned name.
func (b *Builder) Name(id source.StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}

// Text returns the trimmed text of the node: the exact source bytes for
// parsed nodes (inner comments and spacing included), the rendering for
// synthetic ones.
func (b *Builder) Text(id ExprID) string {
	expr := b.Get(id)
	if expr == nil {
		return ""
	}
	if expr.Synthetic || b.file == nil || expr.Kind == ExprVerbatim {
		return Render(b, id)
	}
	return b.file.Text(expr.Span)
}

// Span returns the source span of id, zero for synthetic or unknown nodes.
func (b *Builder) Span(id ExprID) source.Span {
	expr := b.Get(id)
	if expr == nil {
		return source.Span{}
	}
	return expr.Span
}
