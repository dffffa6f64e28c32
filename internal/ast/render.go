package ast

import (
	"strings"
)

// Render prints the node. Parsed nodes are copied from source unchanged;
// synthetic nodes are printed in canonical spacing: `a: b`, `, ` between
// elements, nothing around `.`.
func Render(b *Builder, id ExprID) string {
	var sb strings.Builder
	renderExpr(&sb, b, id)
	return sb.String()
}

func renderExpr(sb *strings.Builder, b *Builder, id ExprID) {
	expr := b.Get(id)
	if expr == nil {
		return
	}
	if !expr.Synthetic && b.file != nil && expr.Kind != ExprVerbatim {
		sb.WriteString(b.file.Text(expr.Span))
		return
	}

	switch expr.Kind {
	case ExprIdent:
		d, _ := b.Exprs.Ident(id)
		sb.WriteString(b.Name(d.Name))
	case ExprLit:
		d, _ := b.Exprs.Literal(id)
		sb.WriteString(b.Name(d.Value))
	case ExprMember:
		d, _ := b.Exprs.Member(id)
		renderExpr(sb, b, d.Base)
		sb.WriteByte('.')
		sb.WriteString(b.Name(d.Name))
	case ExprCall:
		d, _ := b.Exprs.Call(id)
		renderExpr(sb, b, d.Callee)
		renderList(sb, b, "(", d.Args, ")")
	case ExprSubscript:
		d, _ := b.Exprs.Subscript(id)
		renderExpr(sb, b, d.Base)
		renderList(sb, b, "[", d.Args, "]")
	case ExprGeneric:
		d, _ := b.Exprs.Generic(id)
		renderExpr(sb, b, d.Base)
		renderList(sb, b, "<", d.TypeArgs, ">")
	case ExprPostfix:
		d, _ := b.Exprs.Postfix(id)
		renderExpr(sb, b, d.Operand)
		sb.WriteString(b.Name(d.Op))
	case ExprTuple:
		d, _ := b.Exprs.Tuple(id)
		renderList(sb, b, "(", d.Elems, ")")
	case ExprArray:
		d, _ := b.Exprs.Array(id)
		renderList(sb, b, "[", d.Elems, "]")
	case ExprLabeled:
		d, _ := b.Exprs.LabeledElem(id)
		if label := b.Name(d.Label); label != "" {
			sb.WriteString(label)
			sb.WriteString(": ")
		}
		renderExpr(sb, b, d.Value)
	case ExprPlaceholder:
		d, _ := b.Exprs.Placeholder(id)
		sb.WriteString(b.Name(d.Text))
	case ExprMacro:
		d, _ := b.Exprs.Macro(id)
		sb.WriteByte('#')
		sb.WriteString(b.Name(d.Name))
		if d.HasArgs {
			renderList(sb, b, "(", d.Args, ")")
		}
	case ExprVerbatim:
		d, _ := b.Exprs.Verbatim(id)
		sb.WriteString(d.Text)
	case ExprOpaque:
		// у синтетического opaque нет текста
	}
}

func renderList(sb *strings.Builder, b *Builder, open string, ids []ExprID, closing string) {
	sb.WriteString(open)
	for i, id := range ids {
		if i > 0 {
			sb.WriteString(", ")
		}
		renderExpr(sb, b, id)
	}
	sb.WriteString(closing)
}
