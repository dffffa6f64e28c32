package ast

import (
	"underware/internal/source"
)

// ExprKind enumerates the expression shapes the argument parser distinguishes.
type ExprKind uint8

const (
	// ExprIdent is a bare name: Foo, `self`, $0.
	ExprIdent ExprKind = iota
	// ExprLit is a number, string, bool or nil literal.
	ExprLit
	// ExprMember is `base.name`, or `.name` with no base.
	ExprMember
	// ExprCall is `callee(args)`.
	ExprCall
	// ExprSubscript is `base[args]`.
	ExprSubscript
	// ExprGeneric is `Base<Args>` when the angle brackets parse as type arguments.
	ExprGeneric
	// ExprPostfix is `operand?` or `operand!` with no space before the operator.
	ExprPostfix
	ExprTuple
	ExprArray
	// ExprLabeled is `label: value` inside an argument or tuple list.
	ExprLabeled
	// ExprPlaceholder is an editor placeholder <#...#>.
	ExprPlaceholder
	// ExprMacro is a freestanding macro invocation `#name` or `#name(args)`.
	ExprMacro
	// ExprOpaque covers tokens the argument grammar does not model.
	ExprOpaque
	// ExprVerbatim is synthetic text copied byte-for-byte into a fragment.
	ExprVerbatim
)

var exprKindNames = [...]string{
	ExprIdent:       "Ident",
	ExprLit:         "Lit",
	ExprMember:      "Member",
	ExprCall:        "Call",
	ExprSubscript:   "Subscript",
	ExprGeneric:     "Generic",
	ExprPostfix:     "Postfix",
	ExprTuple:       "Tuple",
	ExprArray:       "Array",
	ExprLabeled:     "Labeled",
	ExprPlaceholder: "Placeholder",
	ExprMacro:       "Macro",
	ExprOpaque:      "Opaque",
	ExprVerbatim:    "Verbatim",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "ExprKind(?)"
}

// Expr represents an expression node. Span of a parsed node excludes
// leading and trailing trivia; Synthetic nodes have no source and a zero Span.
type Expr struct {
	Kind      ExprKind
	Span      source.Span
	Payload   PayloadID
	Synthetic bool
}

type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota
	ExprLitFloat
	ExprLitString
	ExprLitBool
	ExprLitNil
)

type ExprIdentData struct {
	Name source.StringID
}

// ExprLiteralData keeps the literal exactly as written (quotes included).
type ExprLiteralData struct {
	Kind  ExprLitKind
	Value source.StringID
}

type ExprMemberData struct {
	Base     ExprID // NoExprID для `.name`
	Name     source.StringID
	NameSpan source.Span
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
	LParen source.Span
	RParen source.Span
}

type ExprSubscriptData struct {
	Base     ExprID
	Args     []ExprID
	LBracket source.Span
	RBracket source.Span
}

type ExprGenericData struct {
	Base     ExprID
	TypeArgs []ExprID
}

type ExprPostfixData struct {
	Operand ExprID
	Op      source.StringID
}

type ExprTupleData struct {
	Elems []ExprID
}

type ExprArrayData struct {
	Elems []ExprID
}

type ExprLabeledData struct {
	Label     source.StringID
	LabelSpan source.Span
	Value     ExprID
}

type ExprPlaceholderData struct {
	Text source.StringID // вместе с <# #>
}

// ExprMacroData describes `#name(args)`. HasArgs is false for a bare `#name`.
// Args holds Labeled or plain expressions in source order. Malformed is set
// when the invocation contains lexical or syntax errors; RParen is then an
// empty span after the last consumed token if the list was never closed.
type ExprMacroData struct {
	Name      source.StringID
	NameSpan  source.Span
	HasArgs   bool
	Args      []ExprID
	LParen    source.Span
	RParen    source.Span
	Malformed bool
}

// ArgListSpan returns the span strictly between the parentheses, or an empty
// span right after the name when the invocation has no argument list.
func (m *ExprMacroData) ArgListSpan() source.Span {
	if !m.HasArgs {
		return m.NameSpan.EndPoint()
	}
	return source.Span{File: m.LParen.File, Start: m.LParen.End, End: m.RParen.Start}
}

type ExprVerbatimData struct {
	Text string
}
