package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"underware/internal/diag"
	"underware/internal/macro"
	"underware/internal/observ"
)

func builtins(t *testing.T) *macro.Registry {
	t.Helper()
	reg, err := macro.NewRegistry(macro.Builtins()...)
	require.NoError(t, err)
	return reg
}

func expandString(t *testing.T, src string, opts Options) *FileResult {
	t.Helper()
	if opts.Registry == nil {
		opts.Registry = builtins(t)
	}
	res, err := ExpandSource(context.Background(), "/work/main.swift", []byte(src), opts)
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	return res.Files[0]
}

func shortDiags(t *testing.T, src string) string {
	t.Helper()
	res, err := ExpandSource(context.Background(), "/work/main.swift", []byte(src), Options{Registry: builtins(t)})
	require.NoError(t, err)
	return diag.FormatShortDiagnostics(res.Diagnostics(), res.FileSet, false)
}

func TestExpandSplicesReplacements(t *testing.T) {
	src := "let a = #name(of: Foo.self)\n" +
		"let s = #selector(tap)\n" +
		"let b = #name(of: Swift.Array<Int>.self) + \"!\"\n"
	res := expandString(t, src, Options{})

	want := "let a = (sourceName: \"Foo\", expression: Foo.self).sourceName\n" +
		"let s = #selector(tap)\n" +
		"let b = (sourceName: \"Swift.Array<Int>\", expression: Swift.Array<Int>.self).sourceName + \"!\"\n"
	require.Equal(t, want, string(res.Output))
	require.Len(t, res.Sites, 2)
	require.Equal(t, "#name(of: Foo.self)", res.Sites[0].Original)
	require.Equal(t, "name", res.Sites[1].Macro)
	require.Zero(t, res.Bag.Len())
}

func TestFailedInvocationsStayVerbatim(t *testing.T) {
	src := "let a = #name(of: 1)\nlet b = #name()\nlet c = #name(of: Int.self)\n"
	res := expandString(t, src, Options{})

	lines := strings.Split(string(res.Output), "\n")
	require.Equal(t, "let a = #name(of: 1)", lines[0])
	require.Equal(t, "let b = #name()", lines[1])
	require.True(t, strings.HasPrefix(lines[2], "let c = (sourceName: \"Int\""))

	require.Equal(t, 2, res.Bag.Len())
	missing := res.Bag.Items()[1]
	require.Equal(t, diag.MacMissingParameter, missing.Code)
	require.Len(t, missing.Fixes, 1)
	require.Equal(t, "underware.missing-parameter", missing.Fixes[0].ID)
}

func TestGoldenDiagnostics(t *testing.T) {
	got := shortDiags(t, "let a = #name(of: 1)\n#name()\nlet c = #name(of: Type.someMethod())\n")
	want := strings.Join([]string{
		`error MAC3002 main.swift:1:19 Expression "1" was not a type literal`,
		`error MAC3001 main.swift:2:1 Missing value for target metatype parameter`,
		`error MAC3002 main.swift:3:19 Expression "Type.someMethod()" was not a type literal`,
	}, "\n")
	require.Equal(t, want, strings.TrimSpace(got))
}

func TestStringsCommentsAndMalformedAreSkipped(t *testing.T) {
	src := "let s = \"#name(of: X.self)\"\n" +
		"// #name(of: Y.self)\n" +
		"/* #name() */\n" +
		"let z = #name(of: Z.self\n"
	res := expandString(t, src, Options{})
	require.Equal(t, src, string(res.Output))
	require.Empty(t, res.Sites)

	for _, d := range res.Bag.Items() {
		require.True(t, strings.HasPrefix(d.Code.ID(), "SYN"), "unexpected %s: %s", d.Code.ID(), d.Message)
	}
	require.True(t, res.Bag.HasErrors())
}

func TestExpanderPanicBecomesDiagnostic(t *testing.T) {
	reg, err := macro.NewRegistry(macro.Definition{
		Name: "boom",
		Expander: macro.ExpanderFunc(func(macro.Context, macro.Invocation) (macro.Expansion, error) {
			panic("no")
		}),
	})
	require.NoError(t, err)

	res := expandString(t, "let x = #boom(1)\n", Options{Registry: reg})
	require.Equal(t, "let x = #boom(1)\n", string(res.Output))
	require.Equal(t, 1, res.Bag.Len())
	require.Equal(t, diag.MacExpansionFailed, res.Bag.Items()[0].Code)
}

func TestAliasesResolve(t *testing.T) {
	reg, err := builtins(t).WithAliases(map[string]string{"nameOf": "name"})
	require.NoError(t, err)
	res := expandString(t, "#nameOf(of: A.self)", Options{Registry: reg})
	require.Equal(t, `(sourceName: "A", expression: A.self).sourceName`, string(res.Output))
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestExpandDirIsDeterministic(t *testing.T) {
	files := map[string]string{
		".build/skip.swift": "#name(of: Hidden.self)",
		"README.md":         "#name(of: Doc.self)",
	}
	for i := range 12 {
		files[fmt.Sprintf("Sources/F%02d.swift", i)] = fmt.Sprintf("let v = #name(of: T%d.self)\nlet w = #name(of: %d)\n", i, i)
	}
	dir := writeTree(t, files)

	run := func(jobs int) (string, string) {
		res, err := ExpandDir(context.Background(), dir, Options{Registry: builtins(t), Jobs: jobs})
		require.NoError(t, err)
		require.Len(t, res.Files, 12)
		var out strings.Builder
		for _, f := range res.Files {
			out.WriteString(f.Path + "\n")
			out.Write(f.Output)
		}
		return out.String(), diag.FormatShortDiagnostics(res.Diagnostics(), res.FileSet, false)
	}
	out1, diags1 := run(1)
	out8, diags8 := run(8)
	require.Equal(t, out1, out8)
	require.Equal(t, diags1, diags8)
	require.Contains(t, out1, "Sources/F00.swift\n")
	require.NotContains(t, out1, "Hidden")
	require.Contains(t, diags1, `error MAC3002 Sources/F11.swift:2:19 Expression "11" was not a type literal`)
}

func TestExpandDirWithoutSources(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.txt": "#name(of: A.self)"})
	_, err := ExpandDir(context.Background(), dir, Options{Registry: builtins(t)})
	require.True(t, errors.Is(err, ErrNoSources))
}

func TestDiskCacheRoundTrip(t *testing.T) {
	dir := writeTree(t, map[string]string{"main.swift": "let a = #name(of: A.self)\nlet b = #name()\n"})
	cache, err := NewDiskCache(t.TempDir())
	require.NoError(t, err)
	opts := Options{Registry: builtins(t), Cache: cache}

	first, err := ExpandDir(context.Background(), dir, opts)
	require.NoError(t, err)
	require.False(t, first.Files[0].Cached)

	second, err := ExpandDir(context.Background(), dir, opts)
	require.NoError(t, err)
	got := second.Files[0]
	require.True(t, got.Cached)
	require.Equal(t, first.Files[0].Output, got.Output)
	require.Equal(t, first.Files[0].Sites[0].Replacement, got.Sites[0].Replacement)
	require.Equal(t,
		diag.FormatShortDiagnostics(first.Diagnostics(), first.FileSet, true),
		diag.FormatShortDiagnostics(second.Diagnostics(), second.FileSet, true))
	require.Equal(t, first.Files[0].Bag.Items()[0].Fixes, got.Bag.Items()[0].Fixes)

	aliased, err := opts.Registry.WithAliases(map[string]string{"nameOf": "name"})
	require.NoError(t, err)
	opts.Registry = aliased
	third, err := ExpandDir(context.Background(), dir, opts)
	require.NoError(t, err)
	require.False(t, third.Files[0].Cached, "registry change must invalidate")

	require.NoError(t, cache.DropAll())
}

func TestProgressTimingsAndWriteBack(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.swift": "let a = #name(of: A.self)\n",
		"b.swift": "let b = 1\n",
	})
	events := make(chan Event, 64)
	timer := observ.NewTimer()
	res, err := ExpandDir(context.Background(), dir, Options{
		Registry: builtins(t),
		Progress: ChannelSink{Ch: events},
		Timer:    timer,
	})
	require.NoError(t, err)
	close(events)

	queued, done := map[string]bool{}, map[string]bool{}
	for ev := range events {
		switch ev.Status {
		case StatusQueued:
			queued[ev.File] = true
		case StatusDone:
			done[ev.File] = true
		}
	}
	require.True(t, done["a.swift"] && done["b.swift"], "done events: %v", done)
	require.Equal(t, queued, done, "load and finish events must name files the same way")

	names := map[string]bool{}
	for _, p := range timer.Report().Phases {
		names[p.Name] = true
	}
	for _, want := range []string{"load", "lex", "parse", "expand", "splice"} {
		require.True(t, names[want], "missing phase %s", want)
	}

	n, err := WriteBack(res)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	data, err := os.ReadFile(filepath.Join(dir, "a.swift"))
	require.NoError(t, err)
	require.Equal(t, "let a = (sourceName: \"A\", expression: A.self).sourceName\n", string(data))
}
