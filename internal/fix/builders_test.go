package fix

import (
	"testing"

	"underware/internal/diag"
	"underware/internal/source"
)

func TestInsertTextCollapsesSpan(t *testing.T) {
	span := source.Span{File: 1, Start: 4, End: 9}
	f := InsertText("Insert", span, "x", Preferred())

	if len(f.Edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(f.Edits))
	}
	if got := f.Edits[0].Span; got.Start != 4 || got.End != 4 {
		t.Fatalf("insert span = %v, want empty at 4", got)
	}
	if !f.IsPreferred {
		t.Errorf("Preferred option not applied")
	}
	if f.Kind != diag.FixKindQuickFix || f.Applicability != diag.FixApplicabilityAlwaysSafe {
		t.Errorf("unexpected defaults: %s / %s", f.Kind, f.Applicability)
	}
}

func TestReplaceSpanGuards(t *testing.T) {
	span := source.Span{File: 1, Start: 0, End: 3}
	id := diag.MacMissingParameter.MessageID()

	r := ReplaceSpan("Replace", span, "var", "let", WithID(id), WithKind(diag.FixKindRefactorRewrite))
	if r.ID != "underware.missing-parameter" {
		t.Errorf("ID = %q", r.ID)
	}
	if r.Kind != diag.FixKindRefactorRewrite {
		t.Errorf("Kind = %s", r.Kind)
	}
	if e := r.Edits[0]; e.NewText != "var" || e.OldText != "let" {
		t.Errorf("edit = %+v", e)
	}

	d := ReplaceSpan("Delete", span, "", "let", WithApplicability(diag.FixApplicabilityManualReview))
	if e := d.Edits[0]; e.NewText != "" || e.OldText != "let" {
		t.Errorf("delete edit = %+v", e)
	}
	if d.Applicability != diag.FixApplicabilityManualReview {
		t.Errorf("Applicability = %s", d.Applicability)
	}
}

func TestComposeKeepsEditOrder(t *testing.T) {
	edits := []diag.TextEdit{
		{Span: source.Span{Start: 0, End: 1}, NewText: "a"},
		{Span: source.Span{Start: 5, End: 5}, NewText: "b"},
	}
	f := Compose("Both", edits, WithApplicability(diag.FixApplicabilityManualReview))
	if len(f.Edits) != 2 || f.Edits[1].NewText != "b" {
		t.Fatalf("edits = %+v", f.Edits)
	}
	if f.Applicability != diag.FixApplicabilityManualReview || f.Title != "Both" {
		t.Errorf("unexpected fix: %+v", f)
	}
}
