package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"underware/internal/diag"
	"underware/internal/source"
)

const fixtureSource = "let n = #name()\nlet m = #name(of: 1)\n"

func fixtureBag(t *testing.T) (*source.FileSet, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.swift", []byte(fixtureSource))

	bag := diag.NewBag(10)
	missing := diag.NewError(diag.MacMissingParameter, source.Span{File: id, Start: 8, End: 15},
		"Missing value for target metatype parameter").
		WithNote(source.Span{File: id, Start: 13, End: 15}, "argument list is empty").
		WithFixSuggestion(diag.Fix{
			ID:          "underware.missing-parameter",
			Title:       `Insert parameter "of:"`,
			IsPreferred: true,
			Edits: []diag.TextEdit{{
				Span:    source.Span{File: id, Start: 13, End: 15},
				NewText: "(of: <#ExampleType.self#>)",
				OldText: "()",
			}},
		})
	literal := diag.NewError(diag.MacNonTypeLiteral, source.Span{File: id, Start: 34, End: 35},
		`Expression "1" was not a type literal`)
	bag.Add(literal)
	bag.Add(missing)
	bag.Sort()
	return fs, bag
}

func TestPrettyIncludesLocationSnippetAndFix(t *testing.T) {
	fs, bag := fixtureBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, ShowFixes: true, ShowPreview: true})
	out := buf.String()

	for _, want := range []string{
		"main.swift:1:9: ERROR MAC3001: Missing value for target metatype parameter",
		" 1 | let n = #name()",
		"        ^~~~~~~",
		"note: main.swift:1:14: argument list is empty",
		`fix #1: Insert parameter "of:"`,
		"id=underware.missing-parameter",
		`apply="(of: <#ExampleType.self#>)"`,
		"preview:",
		"- let n = #name()",
		"+ let n = #name(of: <#ExampleType.self#>)",
		"main.swift:2:19: ERROR MAC3002: Expression \"1\" was not a type literal",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Index(out, "MAC3001") > strings.Index(out, "MAC3002") {
		t.Errorf("diagnostics not in source order:\n%s", out)
	}
}

func TestPrettyHidesOptionalSections(t *testing.T) {
	fs, bag := fixtureBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	out := buf.String()
	for _, unwanted := range []string{"note:", "fix #", "preview:"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("unexpected %q in output:\n%s", unwanted, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("colour escapes with Color=false:\n%q", out)
	}
}

func TestPrettyContextAndWidth(t *testing.T) {
	fs, bag := fixtureBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, Width: 10})
	out := buf.String()
	if !strings.Contains(out, " 2 | let m = #…") {
		t.Errorf("expected truncated context line:\n%s", out)
	}
}

func TestPrettyPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/work")
	id := fs.Add("/work/Sources/App/main.swift", []byte("#name()\n"), 0)
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.MacMissingParameter, source.Span{File: id, Start: 0, End: 7}, "missing"))

	cases := []struct {
		mode PathMode
		want string
	}{
		{PathModeAbsolute, "/work/Sources/App/main.swift:1:1"},
		{PathModeRelative, "Sources/App/main.swift:1:1"},
		{PathModeBasename, "main.swift:1:1"},
		{PathModeAuto, "/work/Sources/App/main.swift:1:1"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		Pretty(&buf, bag, fs, PrettyOpts{PathMode: tc.mode})
		if !strings.HasPrefix(buf.String(), tc.want+":") {
			t.Errorf("mode %d: got %q, want prefix %q", tc.mode, buf.String(), tc.want)
		}
	}
}

func TestParsePathMode(t *testing.T) {
	for in, want := range map[string]PathMode{
		"":         PathModeAuto,
		"auto":     PathModeAuto,
		"absolute": PathModeAbsolute,
		"relative": PathModeRelative,
		"basename": PathModeBasename,
	} {
		got, err := ParsePathMode(in)
		if err != nil || got != want {
			t.Errorf("ParsePathMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePathMode("full"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestJSONOutput(t *testing.T) {
	fs, bag := fixtureBag(t)
	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, IncludeFixes: true, IncludePreviews: true})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d, diagnostics = %d", out.Count, len(out.Diagnostics))
	}
	first := out.Diagnostics[0]
	if first.Code != "MAC3001" || first.ID != "underware.missing-parameter" || first.Severity != "error" {
		t.Errorf("unexpected header: %+v", first)
	}
	if first.Location.File != "main.swift" || first.Location.StartLine != 1 || first.Location.StartCol != 9 {
		t.Errorf("unexpected location: %+v", first.Location)
	}
	if len(first.Notes) != 1 || len(first.Fixes) != 1 {
		t.Fatalf("notes = %d, fixes = %d", len(first.Notes), len(first.Fixes))
	}
	edit := first.Fixes[0].Edits[0]
	if edit.NewText != "(of: <#ExampleType.self#>)" || edit.OldText != "()" {
		t.Errorf("unexpected edit: %+v", edit)
	}
	if len(edit.AfterPreview) != 1 || edit.AfterPreview[0] != "let n = #name(of: <#ExampleType.self#>)" {
		t.Errorf("unexpected preview: %v", edit.AfterPreview)
	}
	if first.Fixes[0].Kind != "quickfix" || first.Fixes[0].Applicability != "always-safe" {
		t.Errorf("unexpected fix meta: %+v", first.Fixes[0])
	}
}

func TestJSONKeepsPlaceholdersReadable(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.swift", []byte("#name(of: <#ExampleType.self#>)\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.MacNonTypeLiteral, source.Span{File: id, Start: 10, End: 30},
		`Expression "<#ExampleType.self#>" was not a type literal`))

	for name, write := range map[string]func(*bytes.Buffer) error{
		"json":  func(b *bytes.Buffer) error { return JSON(b, bag, fs, JSONOpts{}) },
		"sarif": func(b *bytes.Buffer) error { return Sarif(b, bag, fs, SarifRunMeta{ToolName: "underware"}) },
	} {
		var buf bytes.Buffer
		if err := write(&buf); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !strings.Contains(buf.String(), `Expression \"<#ExampleType.self#>\" was not a type literal`) {
			t.Errorf("%s output escapes the placeholder:\n%s", name, buf.String())
		}
		if strings.Contains(buf.String(), `\u003c`) {
			t.Errorf("%s output contains HTML escapes", name)
		}
	}
}

func TestJSONMaxAndOmissions(t *testing.T) {
	fs, bag := fixtureBag(t)
	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || out.Dropped != 1 {
		t.Errorf("count = %d, dropped = %d", out.Count, out.Dropped)
	}
	d := out.Diagnostics[0]
	if d.Notes != nil || d.Fixes != nil || d.Location.StartLine != 0 {
		t.Errorf("optional sections should be omitted: %+v", d)
	}
	if d.Location.StartByte != 8 || d.Location.EndByte != 15 {
		t.Errorf("byte offsets always present: %+v", d.Location)
	}
}

func TestYAMLMatchesJSONDocument(t *testing.T) {
	fs, bag := fixtureBag(t)
	opts := JSONOpts{IncludePositions: true, IncludeFixes: true}
	var buf bytes.Buffer
	if err := YAML(&buf, bag, fs, opts); err != nil {
		t.Fatalf("YAML: %v", err)
	}
	var got DiagnosticsOutput
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	want, err := BuildDiagnosticsOutput(bag, fs, opts)
	if err != nil {
		t.Fatal(err)
	}
	if got.Count != want.Count || got.Diagnostics[1].Message != want.Diagnostics[1].Message {
		t.Errorf("yaml round trip differs:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "code: MAC3002") {
		t.Errorf("expected block style yaml:\n%s", buf.String())
	}
}

func TestShortOutput(t *testing.T) {
	fs, bag := fixtureBag(t)
	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, false); err != nil {
		t.Fatal(err)
	}
	want := "error MAC3001 main.swift:1:9 Missing value for target metatype parameter\n" +
		"error MAC3002 main.swift:2:19 Expression \"1\" was not a type literal\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := Short(&buf, diag.NewBag(1), fs, false); err != nil || buf.Len() != 0 {
		t.Errorf("empty bag should print nothing, got %q (%v)", buf.String(), err)
	}
}

func TestSarifOutput(t *testing.T) {
	fs, bag := fixtureBag(t)
	var buf bytes.Buffer
	err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "underware", ToolVersion: "test", InvocationArgs: []string{"diag", "."}})
	if err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header: %+v", log)
	}
	run := log.Runs[0]
	if len(run.Tool.Driver.Rules) != 2 || len(run.Results) != 2 {
		t.Fatalf("rules = %d, results = %d", len(run.Tool.Driver.Rules), len(run.Results))
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Error("run with errors reported as successful")
	}
	res := run.Results[0]
	if res.RuleID != "MAC3001" || res.Level != "error" {
		t.Errorf("unexpected result: %+v", res)
	}
	region := res.Locations[0].PhysicalLocation.Region
	if region.StartLine != 1 || region.StartColumn != 9 || region.ByteLength != 7 {
		t.Errorf("unexpected region: %+v", region)
	}
	repl := res.Fixes[0].ArtifactChanges[0].Replacements[0]
	if repl.InsertedContent.Text != "(of: <#ExampleType.self#>)" {
		t.Errorf("unexpected replacement: %+v", repl)
	}
}
