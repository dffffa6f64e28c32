package macro

import (
	"underware/internal/ast"
	"underware/internal/diag"
	"underware/internal/fix"
	"underware/internal/source"
)

// Diagnostic is one expansion failure, anchored at a node of the invocation
// tree.
type Diagnostic struct {
	Anchor  ast.ExprID
	Span    source.Span
	Message Message
	FixIts  []FixIt
}

// FixIt suggests replacing source ranges with synthetic nodes.
type FixIt struct {
	Message FixItMessage
	Changes []Change
}

// Change replaces Old (possibly empty, meaning insertion) with New.
type Change struct {
	Old source.Span
	New ast.Fragment
}

// Lower converts d into the host diagnostic model. file supplies the guard
// text for each edit; it may be nil.
func (d Diagnostic) Lower(file *source.File) *diag.Diagnostic {
	desc := Describe(d.Message)
	out := &diag.Diagnostic{
		Severity: desc.Severity,
		Code:     desc.Code,
		ID:       desc.ID,
		Message:  desc.Text,
		Primary:  d.Span,
	}
	for i, fixIt := range d.FixIts {
		title, id := DescribeFixIt(fixIt.Message)
		opts := []fix.Option{fix.WithID(id)}
		if i == 0 {
			opts = append(opts, fix.Preferred())
		}
		out.Fixes = append(out.Fixes, lowerFixIt(file, title, fixIt.Changes, opts))
	}
	return out
}

func lowerFixIt(file *source.File, title string, changes []Change, opts []fix.Option) diag.Fix {
	if len(changes) == 1 {
		ch := changes[0]
		if ch.Old.Empty() {
			return fix.InsertText(title, ch.Old, ch.New.String(), opts...)
		}
		guard := ""
		if file != nil {
			guard = file.Text(ch.Old)
		}
		return fix.ReplaceSpan(title, ch.Old, ch.New.String(), guard, opts...)
	}
	edits := make([]diag.TextEdit, 0, len(changes))
	for _, ch := range changes {
		edit := diag.TextEdit{Span: ch.Old, NewText: ch.New.String()}
		if file != nil && !ch.Old.Empty() {
			edit.OldText = file.Text(ch.Old)
		}
		edits = append(edits, edit)
	}
	return fix.Compose(title, edits, opts...)
}
