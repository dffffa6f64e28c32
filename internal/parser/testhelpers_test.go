package parser

import (
	"fmt"
	"strings"
	"testing"

	"underware/internal/ast"
	"underware/internal/diag"
	"underware/internal/source"
)

func parseSource(t *testing.T, src string) (Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.swift", []byte(src))
	bag := diag.NewBag(32)
	res := ParseFile(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	return res, bag
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// singleInvocation parses src and returns the only invocation found.
func singleInvocation(t *testing.T, src string) (*ast.Builder, ast.ExprID, *ast.ExprMacroData, *diag.Bag) {
	t.Helper()
	res, bag := parseSource(t, src)
	if len(res.File.Invocations) != 1 {
		t.Fatalf("expected 1 invocation, got %d (diags: %s)", len(res.File.Invocations), diagnosticsSummary(bag))
	}
	id := res.File.Invocations[0]
	m, ok := res.Tree.Exprs.Macro(id)
	if !ok {
		t.Fatalf("invocation is %v, not a macro", res.Tree.Get(id).Kind)
	}
	return res.Tree, id, m, bag
}

// firstValue returns the first argument with its label stripped.
func firstValue(t *testing.T, tree *ast.Builder, m *ast.ExprMacroData) ast.ExprID {
	t.Helper()
	if len(m.Args) == 0 {
		t.Fatalf("invocation has no arguments")
	}
	arg := m.Args[0]
	if l, ok := tree.Exprs.LabeledElem(arg); ok {
		return l.Value
	}
	return arg
}

func requireNoDiagnostics(t *testing.T, bag *diag.Bag) {
	t.Helper()
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
}
