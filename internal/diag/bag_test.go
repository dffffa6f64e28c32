package diag

import (
	"testing"

	"underware/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(SynUnexpectedToken, source.Span{File: 0, Start: 10, End: 11}, "late")) {
		t.Fatalf("first add rejected")
	}
	if !b.Add(New(SevWarning, LexUnknownChar, source.Span{File: 0, Start: 2, End: 3}, "early")) {
		t.Fatalf("second add rejected")
	}
	if b.Add(NewError(MacNonTypeLiteral, source.Span{}, "over")) {
		t.Fatalf("limit not honoured")
	}
	if b.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", b.Dropped())
	}
	b.Sort()
	if got := b.Items()[0].Message; got != "early" {
		t.Fatalf("first after sort = %q", got)
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("expected errors and warnings")
	}
}

func TestBagDedupAndFilter(t *testing.T) {
	b := NewBag(0)
	sp := source.Span{File: 1, Start: 4, End: 8}
	b.Add(NewError(MacMissingParameter, sp, "dup"))
	b.Add(NewError(MacMissingParameter, sp, "dup"))
	b.Add(New(SevInfo, ObsTimings, sp, "timings"))
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("len after dedup = %d, want 2", b.Len())
	}
	b.Filter(func(d *Diagnostic) bool { return d.Severity == SevError })
	if b.Len() != 1 || b.Items()[0].Code != MacMissingParameter {
		t.Fatalf("unexpected items after filter: %+v", b.Items())
	}
}

func TestMessageIDs(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{MacMissingParameter, "underware.missing-parameter"},
		{MacNonTypeLiteral, "underware.non-type-literal"},
		{LexUnterminatedString, "underware.unterminated-string"},
		{ObsInfo, "underware.OBS6000"},
	}
	for _, tc := range cases {
		if got := tc.code.MessageID().String(); got != tc.want {
			t.Errorf("%s: MessageID = %q, want %q", tc.code.ID(), got, tc.want)
		}
	}

	d := NewError(MacNonTypeLiteral, source.Span{}, "x")
	if d.MessageID() != MacNonTypeLiteral.MessageID() {
		t.Fatalf("default id mismatch")
	}
	custom := MessageID{Domain: "other", ID: "thing"}
	if d.WithID(custom).MessageID() != custom {
		t.Fatalf("override ignored")
	}
}

func TestCodeIDPrefixes(t *testing.T) {
	for code, want := range map[Code]string{
		LexUnknownChar:      "LEX1001",
		SynUnclosedParen:    "SYN2002",
		MacMissingParameter: "MAC3001",
		IOLoadFileError:     "IO4001",
		ObsTimings:          "OBS6001",
		UnknownCode:         "E0000",
	} {
		if got := code.ID(); got != want {
			t.Errorf("ID() = %q, want %q", got, want)
		}
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	ReportError(r, SynUnexpectedToken, sp, "boom").Emit()
	ReportError(r, SynUnexpectedToken, sp, "boom").Emit()
	NewReportBuilder(r, SevWarning, SynUnexpectedToken, sp, "other").WithNote(sp, "here").Emit()
	if bag.Len() != 2 {
		t.Fatalf("bag len = %d, want 2", bag.Len())
	}
	if len(bag.Items()[1].Notes) != 1 {
		t.Fatalf("note lost")
	}
	if r.Suppressed() != 1 {
		t.Fatalf("suppressed = %d, want 1", r.Suppressed())
	}
}
