package diag

import (
	"underware/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// TextEdit replaces the bytes of Span with NewText. A non-empty OldText acts
// as a guard: the edit is only applied when the current text matches it.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// FixKind classifies a fix suggestion.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactor
	FixKindRefactorRewrite
	FixKindSourceAction
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindRefactor:
		return "refactor"
	case FixKindRefactorRewrite:
		return "refactor.rewrite"
	case FixKindSourceAction:
		return "source"
	}
	return "unknown"
}

// FixApplicability describes how confident the producer is about a fix.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	Edits         []TextEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	// ID is the domain-qualified stable identifier; zero means Code.MessageID().
	ID      MessageID
	Message string
	Primary source.Span
	Notes   []Note
	Fixes   []Fix
}

// MessageID returns the stable identifier of the diagnostic.
func (d *Diagnostic) MessageID() MessageID {
	if d == nil {
		return MessageID{}
	}
	if !d.ID.IsZero() {
		return d.ID
	}
	return d.Code.MessageID()
}
