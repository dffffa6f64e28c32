package ast

// Fragment is a standalone expression tree produced outside the parser, such
// as a macro expansion or a Fix-It replacement node.
type Fragment struct {
	Tree *Builder
	Root ExprID
}

// IsZero reports whether the fragment holds no expression.
func (f Fragment) IsZero() bool {
	return f.Tree == nil || !f.Root.IsValid()
}

// String renders the fragment as source text.
func (f Fragment) String() string {
	if f.IsZero() {
		return ""
	}
	return Render(f.Tree, f.Root)
}
