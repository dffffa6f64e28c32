package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"underware/internal/diag"
	"underware/internal/source"
)

const twoMissing = "let a = #name()\nlet b = #name()\n"

// missingParam mimics the lowered diagnostic of an empty `#name()`.
func missingParam(file source.FileID, open uint32) *diag.Diagnostic {
	at := source.At(file, open+1)
	d := diag.NewError(diag.MacMissingParameter, source.Span{File: file, Start: open - 5, End: open + 2}, "Missing value for target metatype parameter")
	d.WithFixSuggestion(InsertText(`Insert parameter "of:"`, at, "of: <#ExampleType.self#>",
		WithID(diag.MacMissingParameter.MessageID()), Preferred()))
	return d
}

func loadFile(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.swift")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs, id, path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestApplyAllWritesFile(t *testing.T) {
	fs, id, path := loadFile(t, twoMissing)
	diags := []*diag.Diagnostic{missingParam(id, 13), missingParam(id, 29)}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 {
		t.Fatalf("applied %d fixes, want 2 (skipped: %+v)", len(res.Applied), res.Skipped)
	}
	want := "let a = #name(of: <#ExampleType.self#>)\nlet b = #name(of: <#ExampleType.self#>)\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("file content:\n%s\nwant:\n%s", got, want)
	}
	if len(res.FileChanges) != 1 || res.FileChanges[0].EditCount != 2 || res.FileChanges[0].Path != "main.swift" {
		t.Fatalf("file changes = %+v", res.FileChanges)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("permissions changed to %v", info.Mode().Perm())
	}
}

func TestApplyOnceTakesFirstInSourceOrder(t *testing.T) {
	fs, id, path := loadFile(t, twoMissing)
	diags := []*diag.Diagnostic{missingParam(id, 29), missingParam(id, 13)}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeOnce})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("applied %d, want 1", len(res.Applied))
	}
	want := "let a = #name(of: <#ExampleType.self#>)\nlet b = #name()\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("file content:\n%s\nwant:\n%s", got, want)
	}
}

func TestApplyByIDSelectsEveryMatch(t *testing.T) {
	fs, id, _ := loadFile(t, twoMissing)
	other := diag.NewError(diag.MacNonTypeLiteral, source.Span{File: id, Start: 0, End: 3}, "other")
	other.WithFixSuggestion(ReplaceSpan("Rename", source.Span{File: id, Start: 0, End: 3}, "var", "let"))
	diags := []*diag.Diagnostic{missingParam(id, 13), other, missingParam(id, 29)}

	res, err := Preview(fs, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "underware.missing-parameter"})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(res.Applied) != 2 {
		t.Fatalf("applied %d, want 2", len(res.Applied))
	}
	got := string(res.FileChanges[0].After)
	want := "let a = #name(of: <#ExampleType.self#>)\nlet b = #name(of: <#ExampleType.self#>)\n"
	if got != want {
		t.Fatalf("preview:\n%s\nwant:\n%s", got, want)
	}
	if string(res.FileChanges[0].Before) != twoMissing {
		t.Errorf("Before must be the original content")
	}

	_, err = Apply(fs, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "nope", DryRun: true})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("unknown id: err = %v, want ErrNoFixes", err)
	}
}

func TestPreviewDoesNotTouchDisk(t *testing.T) {
	fs, id, path := loadFile(t, twoMissing)
	if _, err := Preview(fs, []*diag.Diagnostic{missingParam(id, 13)}, ApplyOptions{Mode: ApplyModeAll}); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if got := readFile(t, path); got != twoMissing {
		t.Fatalf("dry run modified the file:\n%s", got)
	}
}

func TestApplySkipsVirtualFilesUnlessDryRun(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("mem.swift", []byte(twoMissing))
	diags := []*diag.Diagnostic{missingParam(id, 13)}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("skipped = %+v", res.Skipped)
	}

	res, err = Preview(fs, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(res.FileChanges) != 1 {
		t.Fatalf("file changes = %+v", res.FileChanges)
	}
}

func TestApplySkipsConflictsAndGuardMismatch(t *testing.T) {
	fs, id, _ := loadFile(t, "let a = 1\n")
	whole := source.Span{File: id, Start: 0, End: 9}
	inner := source.Span{File: id, Start: 4, End: 5}

	d := diag.NewError(diag.MacNonTypeLiteral, whole, "x")
	d.WithFixSuggestion(ReplaceSpan("Whole", whole, "let b = 2", "let a = 1"))
	d2 := diag.NewError(diag.MacNonTypeLiteral, inner, "y")
	d2.WithFixSuggestion(ReplaceSpan("Inner", inner, "c", "a"))
	d3 := diag.NewError(diag.MacNonTypeLiteral, inner, "z")
	d3.WithFixSuggestion(ReplaceSpan("Guarded", source.Span{File: id, Start: 9, End: 10}, ";", "7"))

	res, err := Preview(fs, []*diag.Diagnostic{d, d2, d3}, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].Title != "Whole" {
		t.Fatalf("applied = %+v", res.Applied)
	}
	reasons := map[string]string{}
	for _, s := range res.Skipped {
		reasons[s.Title] = s.Reason
	}
	if reasons["Guarded"] != "existing text does not match expected content" {
		t.Errorf("guard skip = %q", reasons["Guarded"])
	}
	if reasons["Inner"] == "" {
		t.Errorf("overlapping fix must be skipped: %+v", res.Skipped)
	}
}

func TestSpansConflict(t *testing.T) {
	edit := func(start, end uint32) diag.TextEdit {
		return diag.TextEdit{Span: source.Span{Start: start, End: end}}
	}
	cases := []struct {
		a, b diag.TextEdit
		want bool
	}{
		{edit(3, 3), edit(3, 3), false},
		{edit(3, 3), edit(1, 5), true},
		{edit(1, 3), edit(3, 3), false},
		{edit(1, 3), edit(2, 6), true},
		{edit(1, 3), edit(3, 6), false},
	}
	for i, c := range cases {
		if got := spansConflict(c.a, c.b); got != c.want {
			t.Errorf("case %d: spansConflict(%v, %v) = %v, want %v", i, c.a.Span, c.b.Span, got, c.want)
		}
	}
}
