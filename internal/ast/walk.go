package ast

// Children returns the direct sub-expressions of id in source order.
func (b *Builder) Children(id ExprID) []ExprID {
	expr := b.Get(id)
	if expr == nil {
		return nil
	}
	var out []ExprID
	add := func(ids ...ExprID) {
		for _, c := range ids {
			if c.IsValid() {
				out = append(out, c)
			}
		}
	}
	switch expr.Kind {
	case ExprMember:
		d, _ := b.Exprs.Member(id)
		add(d.Base)
	case ExprCall:
		d, _ := b.Exprs.Call(id)
		add(d.Callee)
		add(d.Args...)
	case ExprSubscript:
		d, _ := b.Exprs.Subscript(id)
		add(d.Base)
		add(d.Args...)
	case ExprGeneric:
		d, _ := b.Exprs.Generic(id)
		add(d.Base)
		add(d.TypeArgs...)
	case ExprPostfix:
		d, _ := b.Exprs.Postfix(id)
		add(d.Operand)
	case ExprTuple:
		d, _ := b.Exprs.Tuple(id)
		add(d.Elems...)
	case ExprArray:
		d, _ := b.Exprs.Array(id)
		add(d.Elems...)
	case ExprLabeled:
		d, _ := b.Exprs.LabeledElem(id)
		add(d.Value)
	case ExprMacro:
		d, _ := b.Exprs.Macro(id)
		add(d.Args...)
	}
	return out
}

// Walk visits id and its descendants depth-first, pre-order. Returning false
// from fn skips the children of that node.
func (b *Builder) Walk(id ExprID, fn func(ExprID) bool) {
	if !id.IsValid() || !fn(id) {
		return
	}
	for _, c := range b.Children(id) {
		b.Walk(c, fn)
	}
}
