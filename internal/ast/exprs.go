package ast

import (
	"slices"

	"underware/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena        *Arena[Expr]
	Idents       *Arena[ExprIdentData]
	Literals     *Arena[ExprLiteralData]
	Members      *Arena[ExprMemberData]
	Calls        *Arena[ExprCallData]
	Subscripts   *Arena[ExprSubscriptData]
	Generics     *Arena[ExprGenericData]
	Postfixes    *Arena[ExprPostfixData]
	Tuples       *Arena[ExprTupleData]
	Arrays       *Arena[ExprArrayData]
	Labeled      *Arena[ExprLabeledData]
	Placeholders *Arena[ExprPlaceholderData]
	Macros       *Arena[ExprMacroData]
	Verbatims    *Arena[ExprVerbatimData]

	synthetic bool
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint.
// If capHint is 0, a default capacity of 1<<6 is used.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 6
	}
	small := max(capHint/4, 1)
	return &Exprs{
		Arena:        NewArena[Expr](capHint),
		Idents:       NewArena[ExprIdentData](capHint),
		Literals:     NewArena[ExprLiteralData](small),
		Members:      NewArena[ExprMemberData](capHint),
		Calls:        NewArena[ExprCallData](small),
		Subscripts:   NewArena[ExprSubscriptData](small),
		Generics:     NewArena[ExprGenericData](small),
		Postfixes:    NewArena[ExprPostfixData](small),
		Tuples:       NewArena[ExprTupleData](small),
		Arrays:       NewArena[ExprArrayData](small),
		Labeled:      NewArena[ExprLabeledData](small),
		Placeholders: NewArena[ExprPlaceholderData](small),
		Macros:       NewArena[ExprMacroData](small),
		Verbatims:    NewArena[ExprVerbatimData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	if e.synthetic {
		span = source.Span{}
	}
	return ExprID(e.Arena.Allocate(Expr{
		Kind:      kind,
		Span:      span,
		Payload:   PayloadID(payload),
		Synthetic: e.synthetic,
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return 0, false
	}
	return uint32(expr.Payload), true
}

// NewIdent creates a new identifier expression.
func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

// Ident returns the identifier data for the given expression ID.
func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

// NewLiteral creates a new literal expression.
func (e *Exprs) NewLiteral(span source.Span, kind ExprLitKind, value source.StringID) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(ExprLiteralData{Kind: kind, Value: value}))
}

// Literal returns the literal data for the given expression ID.
func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

// NewMember creates a new member access expression.
func (e *Exprs) NewMember(span source.Span, base ExprID, name source.StringID, nameSpan source.Span) ExprID {
	return e.new(ExprMember, span, e.Members.Allocate(ExprMemberData{Base: base, Name: name, NameSpan: nameSpan}))
}

// Member returns the member access data for the given expression ID.
func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	p, ok := e.payload(id, ExprMember)
	if !ok {
		return nil, false
	}
	return e.Members.Get(p), true
}

// NewCall creates a new call expression.
func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID, lparen, rparen source.Span) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{
		Callee: callee,
		Args:   slices.Clone(args),
		LParen: lparen,
		RParen: rparen,
	}))
}

// Call returns the call data for the given expression ID.
func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

// NewSubscript creates a new subscript expression.
func (e *Exprs) NewSubscript(span source.Span, base ExprID, args []ExprID, lbracket, rbracket source.Span) ExprID {
	return e.new(ExprSubscript, span, e.Subscripts.Allocate(ExprSubscriptData{
		Base:     base,
		Args:     slices.Clone(args),
		LBracket: lbracket,
		RBracket: rbracket,
	}))
}

// Subscript returns the subscript data for the given expression ID.
func (e *Exprs) Subscript(id ExprID) (*ExprSubscriptData, bool) {
	p, ok := e.payload(id, ExprSubscript)
	if !ok {
		return nil, false
	}
	return e.Subscripts.Get(p), true
}

// NewGeneric creates a new generic specialisation expression.
func (e *Exprs) NewGeneric(span source.Span, base ExprID, typeArgs []ExprID) ExprID {
	return e.new(ExprGeneric, span, e.Generics.Allocate(ExprGenericData{Base: base, TypeArgs: slices.Clone(typeArgs)}))
}

// Generic returns the generic specialisation data for the given expression ID.
func (e *Exprs) Generic(id ExprID) (*ExprGenericData, bool) {
	p, ok := e.payload(id, ExprGeneric)
	if !ok {
		return nil, false
	}
	return e.Generics.Get(p), true
}

// NewPostfix creates a new postfix `?`/`!` expression.
func (e *Exprs) NewPostfix(span source.Span, operand ExprID, op source.StringID) ExprID {
	return e.new(ExprPostfix, span, e.Postfixes.Allocate(ExprPostfixData{Operand: operand, Op: op}))
}

// Postfix returns the postfix data for the given expression ID.
func (e *Exprs) Postfix(id ExprID) (*ExprPostfixData, bool) {
	p, ok := e.payload(id, ExprPostfix)
	if !ok {
		return nil, false
	}
	return e.Postfixes.Get(p), true
}

// NewTuple creates a new parenthesised tuple expression.
func (e *Exprs) NewTuple(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprTuple, span, e.Tuples.Allocate(ExprTupleData{Elems: slices.Clone(elems)}))
}

// Tuple returns the tuple data for the given expression ID.
func (e *Exprs) Tuple(id ExprID) (*ExprTupleData, bool) {
	p, ok := e.payload(id, ExprTuple)
	if !ok {
		return nil, false
	}
	return e.Tuples.Get(p), true
}

// NewArray creates a new array or dictionary-ish bracket literal.
func (e *Exprs) NewArray(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprArray, span, e.Arrays.Allocate(ExprArrayData{Elems: slices.Clone(elems)}))
}

// Array returns the array data for the given expression ID.
func (e *Exprs) Array(id ExprID) (*ExprArrayData, bool) {
	p, ok := e.payload(id, ExprArray)
	if !ok {
		return nil, false
	}
	return e.Arrays.Get(p), true
}

// NewLabeled creates a new `label: value` element.
func (e *Exprs) NewLabeled(span source.Span, label source.StringID, labelSpan source.Span, value ExprID) ExprID {
	return e.new(ExprLabeled, span, e.Labeled.Allocate(ExprLabeledData{Label: label, LabelSpan: labelSpan, Value: value}))
}

// LabeledElem returns the labeled element data for the given expression ID.
func (e *Exprs) LabeledElem(id ExprID) (*ExprLabeledData, bool) {
	p, ok := e.payload(id, ExprLabeled)
	if !ok {
		return nil, false
	}
	return e.Labeled.Get(p), true
}

// NewPlaceholder creates a new editor placeholder expression.
func (e *Exprs) NewPlaceholder(span source.Span, text source.StringID) ExprID {
	return e.new(ExprPlaceholder, span, e.Placeholders.Allocate(ExprPlaceholderData{Text: text}))
}

// Placeholder returns the placeholder data for the given expression ID.
func (e *Exprs) Placeholder(id ExprID) (*ExprPlaceholderData, bool) {
	p, ok := e.payload(id, ExprPlaceholder)
	if !ok {
		return nil, false
	}
	return e.Placeholders.Get(p), true
}

// NewMacro creates a new freestanding macro invocation.
func (e *Exprs) NewMacro(span source.Span, data ExprMacroData) ExprID {
	data.Args = slices.Clone(data.Args)
	return e.new(ExprMacro, span, e.Macros.Allocate(data))
}

// Macro returns the invocation data for the given expression ID.
func (e *Exprs) Macro(id ExprID) (*ExprMacroData, bool) {
	p, ok := e.payload(id, ExprMacro)
	if !ok {
		return nil, false
	}
	return e.Macros.Get(p), true
}

// NewOpaque creates a node that only remembers its source span.
func (e *Exprs) NewOpaque(span source.Span) ExprID {
	return e.new(ExprOpaque, span, 0)
}

// NewVerbatim creates a node that renders as text unchanged.
func (e *Exprs) NewVerbatim(text string) ExprID {
	return e.new(ExprVerbatim, source.Span{}, e.Verbatims.Allocate(ExprVerbatimData{Text: text}))
}

// Verbatim returns the verbatim data for the given expression ID.
func (e *Exprs) Verbatim(id ExprID) (*ExprVerbatimData, bool) {
	p, ok := e.payload(id, ExprVerbatim)
	if !ok {
		return nil, false
	}
	return e.Verbatims.Get(p), true
}
