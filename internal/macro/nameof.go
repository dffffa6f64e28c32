package macro

import (
	"underware/internal/ast"
	"underware/internal/token"
)

const (
	// sourceNameKey labels the string element of the replacement tuple and
	// is the member selected from it.
	sourceNameKey = "sourceName"
	expressionKey = "expression"

	examplePlaceholder = "ExampleType.self"
)

// NameOf expands `#name(of: T.self)` into
//
//	(sourceName: "T", expression: T.self).sourceName
//
// The string is T exactly as written. The argument is kept verbatim so the
// compiler still type-checks it. Only the first argument is looked at, and
// its label is not checked.
type NameOf struct{}

func (NameOf) Expand(_ Context, inv Invocation) (Expansion, error) {
	tree := inv.Tree
	m, ok := inv.Macro()
	if !ok {
		return Expansion{}, errNotInvocation(inv)
	}

	expr, ok := inv.FirstArgument()
	if !ok {
		return Expansion{}, fail(Diagnostic{
			Anchor:  inv.Node,
			Span:    tree.Span(inv.Node),
			Message: MissingParameter{},
			FixIts:  []FixIt{insertOfParameter(m)},
		})
	}

	access, ok := tree.Member(expr)
	if !ok || !access.Base.IsValid() || tree.Name(access.Name) != token.KwSelf.String() {
		return Expansion{}, fail(Diagnostic{
			Anchor:  expr,
			Span:    tree.Span(expr),
			Message: NonTypeLiteral{Expression: tree.Text(expr)},
		})
	}

	out := ast.NewSyntheticBuilder(ast.Hints{Exprs: 8})
	tuple := out.SynthTuple(
		out.SynthLabeled(sourceNameKey, out.SynthStringLiteral(tree.Text(access.Base))),
		out.SynthLabeled(expressionKey, out.SynthVerbatim(tree.Text(expr))),
	)
	root := out.SynthMember(tuple, sourceNameKey)
	return Expansion{Replacement: ast.Fragment{Tree: out, Root: root}}, nil
}

// insertOfParameter replaces the empty argument list with
// `of: <#ExampleType.self#>`; a bare `#name` gets the parentheses too.
func insertOfParameter(m *ast.ExprMacroData) FixIt {
	b := ast.NewSyntheticBuilder(ast.Hints{Exprs: 4})
	arg := b.SynthLabeled("of", b.SynthPlaceholder(examplePlaceholder))
	if !m.HasArgs {
		arg = b.SynthTuple(arg)
	}
	return FixIt{
		Message: InsertOfParameter{},
		Changes: []Change{{Old: m.ArgListSpan(), New: ast.Fragment{Tree: b, Root: arg}}},
	}
}
