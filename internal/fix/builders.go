package fix

import (
	"underware/internal/diag"
	"underware/internal/source"
)

// Option mutates a fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) {
		f.Applicability = app
	}
}

// WithKind overrides fix classification.
func WithKind(kind diag.FixKind) Option {
	return func(f *diag.Fix) {
		f.Kind = kind
	}
}

// Preferred marks the fix as the suggestion to apply first.
func Preferred() Option {
	return func(f *diag.Fix) {
		f.IsPreferred = true
	}
}

// WithID sets the selection identifier used by ApplyModeID.
func WithID(id diag.MessageID) Option {
	return func(f *diag.Fix) {
		f.ID = id.String()
	}
}

func quickFix(title string, edits ...diag.TextEdit) diag.Fix {
	return diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         edits,
	}
}

func build(f diag.Fix, opts []Option) diag.Fix {
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// InsertText inserts text at an empty span. A non-empty span is collapsed to
// its start.
func InsertText(title string, at source.Span, text string, opts ...Option) diag.Fix {
	return build(quickFix(title, diag.TextEdit{Span: at.StartPoint(), NewText: text}), opts)
}

// ReplaceSpan replaces span with newText. expect, when non-empty, must match
// the current text for the edit to apply.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) diag.Fix {
	return build(quickFix(title, diag.TextEdit{Span: span, NewText: newText, OldText: expect}), opts)
}

// Compose builds a quick fix from several edits applied together.
func Compose(title string, edits []diag.TextEdit, opts ...Option) diag.Fix {
	return build(quickFix(title, edits...), opts)
}
