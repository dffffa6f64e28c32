package diag

import "underware/internal/source"

func New(sev Severity, code Code, primary source.Span, msg string) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) *Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d *Diagnostic) WithNote(sp source.Span, msg string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithFix appends a quick fix that is always safe to apply.
func (d *Diagnostic) WithFix(title string, edits ...TextEdit) *Diagnostic {
	d.Fixes = append(d.Fixes, Fix{
		Title:         title,
		Kind:          FixKindQuickFix,
		Applicability: FixApplicabilityAlwaysSafe,
		Edits:         edits,
	})
	return d
}

// WithFixSuggestion appends a fully configured fix.
func (d *Diagnostic) WithFixSuggestion(fix Fix) *Diagnostic {
	d.Fixes = append(d.Fixes, fix)
	return d
}

// WithID overrides the stable identifier.
func (d *Diagnostic) WithID(id MessageID) *Diagnostic {
	d.ID = id
	return d
}
