package testkit

import (
	"context"
	"slices"
	"strings"
	"testing"

	"underware/internal/diag"
	"underware/internal/driver"
	"underware/internal/macro"
	"underware/internal/parser"
)

// DiagnosticSpec describes one expected diagnostic. Line and Column are
// 1-based; an empty Severity means "error".
type DiagnosticSpec struct {
	ID       string
	Message  string
	Line     uint32
	Column   uint32
	Severity string
	FixIts   []string
}

// AssertMacroExpansion expands src with macros registered under their map
// keys and checks the expanded text and the diagnostics, in source order.
// It also checks the parse tree of src with CheckSpanInvariants.
func AssertMacroExpansion(t testing.TB, src, expected string, diags []DiagnosticSpec, macros map[string]macro.Expander) {
	t.Helper()

	defs := make([]macro.Definition, 0, len(macros))
	for name, exp := range macros {
		defs = append(defs, macro.Definition{Name: name, Expander: exp})
	}
	reg, err := macro.NewRegistry(defs...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	res, err := driver.ExpandSource(context.Background(), "test.swift", []byte(src), driver.Options{Registry: reg, Jobs: 1})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	file := res.Files[0]
	if file.Err != nil {
		t.Fatalf("expand: %v", file.Err)
	}
	sf := res.FileSet.Get(file.FileID)
	parsed := parser.ParseFile(sf, parser.Options{})
	if err := CheckSpanInvariants(parsed.Tree, parsed.File, sf); err != nil {
		t.Errorf("span invariants: %v", err)
	}

	if got := string(file.Output); got != expected {
		t.Errorf("expanded source mismatch\n--- got ---\n%s\n--- want ---\n%s", got, expected)
	}

	got := file.Bag.Items()
	if len(got) != len(diags) {
		t.Errorf("got %d diagnostics, want %d:\n%s", len(got), len(diags),
			diag.FormatShortDiagnostics(got, res.FileSet, false))
		return
	}
	for i, want := range diags {
		d := got[i]
		pos := sf.Position(d.Primary.Start)
		sev := want.Severity
		if sev == "" {
			sev = "error"
		}
		if want.ID != "" && d.MessageID().String() != want.ID {
			t.Errorf("diagnostic %d: id %q, want %q", i, d.MessageID(), want.ID)
		}
		if d.Message != want.Message {
			t.Errorf("diagnostic %d: message %q, want %q", i, d.Message, want.Message)
		}
		if pos.Line != want.Line || pos.Col != want.Column {
			t.Errorf("diagnostic %d: at %d:%d, want %d:%d", i, pos.Line, pos.Col, want.Line, want.Column)
		}
		if label := diag.SeverityLabel(d.Severity); label != sev {
			t.Errorf("diagnostic %d: severity %s, want %s", i, label, sev)
		}
		titles := make([]string, 0, len(d.Fixes))
		for _, f := range d.Fixes {
			titles = append(titles, f.Title)
		}
		if !slices.Equal(titles, want.FixIts) && (len(titles) > 0 || len(want.FixIts) > 0) {
			t.Errorf("diagnostic %d: fix-its [%s], want [%s]", i,
				strings.Join(titles, ", "), strings.Join(want.FixIts, ", "))
		}
	}
}
