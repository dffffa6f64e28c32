package macro

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"underware/internal/diag"
)

func TestNameOfExpandsTypeLiterals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "simple",
			src:  "#name(of: NameOfTests.self)",
			want: `(sourceName: "NameOfTests", expression: NameOfTests.self).sourceName`,
		},
		{
			name: "unlabeled",
			src:  "#name(NameOfTests.self)",
			want: `(sourceName: "NameOfTests", expression: NameOfTests.self).sourceName`,
		},
		{
			name: "module qualified",
			src:  "#name(of: Swift.Int.self)",
			want: `(sourceName: "Swift.Int", expression: Swift.Int.self).sourceName`,
		},
		{
			name: "generic",
			src:  "#name(of: Array<Int>.self)",
			want: `(sourceName: "Array<Int>", expression: Array<Int>.self).sourceName`,
		},
		{
			name: "optional sugar",
			src:  "#name(of: Int?.self)",
			want: `(sourceName: "Int?", expression: Int?.self).sourceName`,
		},
		{
			name: "array sugar",
			src:  "#name(of: [String].self)",
			want: `(sourceName: "[String]", expression: [String].self).sourceName`,
		},
		{
			name: "tuple type",
			src:  "#name(of: (Int, String).self)",
			want: `(sourceName: "(Int, String)", expression: (Int, String).self).sourceName`,
		},
		{
			name: "spelling preserved",
			src:  "#name(of: Foo . Bar.self)",
			want: `(sourceName: "Foo . Bar", expression: Foo . Bar.self).sourceName`,
		},
		{
			name: "extra arguments ignored",
			src:  "#name(of: Int.self, 42)",
			want: `(sourceName: "Int", expression: Int.self).sourceName`,
		},
		{
			name: "leading comment before argument",
			src:  "#name(of: /* lead */ Foo.self)",
			want: `(sourceName: "Foo", expression: Foo.self).sourceName`,
		},
		{
			name: "comment before member dot",
			src:  "#name(of: Foo /*c*/ .self)",
			want: `(sourceName: "Foo", expression: Foo /*c*/ .self).sourceName`,
		},
		{
			name: "any label accepted",
			src:  "#name(type: Int.self)",
			want: `(sourceName: "Int", expression: Int.self).sourceName`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, res := expandOne(t, tt.src)
			require.False(t, res.Failed(), "unexpected failure: %+v", res)
			require.Equal(t, tt.want, res.Replacement.String())
			require.True(t, res.Replacement.Tree.Get(res.Replacement.Root).Synthetic)
		})
	}
}

func TestNameOfRejectsNonTypeLiterals(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
		col     uint32
	}{
		{"integer literal", "#name(of: 1)", `Expression "1" was not a type literal`, 11},
		{"method call", "#name(of: Type.someMethod())", `Expression "Type.someMethod()" was not a type literal`, 11},
		{"plain identifier", "#name(of: Int)", `Expression "Int" was not a type literal`, 11},
		{"other member", "#name(of: Int.max)", `Expression "Int.max" was not a type literal`, 11},
		{"escaped self", "#name(of: Int.`self`)", "Expression \"Int.`self`\" was not a type literal", 11},
		{"implicit member", "#name(of: .self)", `Expression ".self" was not a type literal`, 11},
		{"unlabeled", "#name(42)", `Expression "42" was not a type literal`, 7},
		{"nested macro", "#name(of: #name(of: Int.self))", `Expression "#name(of: Int.self)" was not a type literal`, 11},
		{"first argument decides", "#name(of: 1, Int.self)", `Expression "1" was not a type literal`, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, inv, res := expandOne(t, tt.src)
			require.Nil(t, res.Err)
			require.Len(t, res.Diagnostics, 1)
			d := res.Diagnostics[0]
			require.IsType(t, NonTypeLiteral{}, d.Message)
			require.Empty(t, d.FixIts)

			arg, _ := inv.FirstArgument()
			require.Equal(t, arg, d.Anchor)

			desc := Describe(d.Message)
			require.Equal(t, tt.message, desc.Text)
			require.Equal(t, "underware.non-type-literal", desc.ID.String())
			require.Equal(t, diag.SevError, desc.Severity)

			loc := f.ctx().Location(inv.Tree, d.Anchor)
			require.Equal(t, uint32(1), loc.Line)
			require.Equal(t, tt.col, loc.Column)
		})
	}
}

func TestNameOfMissingParameter(t *testing.T) {
	f, inv, res := expandOne(t, "#name()")
	require.Nil(t, res.Err)
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]

	require.Equal(t, MissingParameter{}, d.Message)
	require.Equal(t, inv.Node, d.Anchor)
	require.Equal(t, "Missing value for target metatype parameter", Describe(d.Message).Text)

	loc := f.ctx().Location(inv.Tree, d.Anchor)
	require.Equal(t, Location{File: "/work/Sources/main.swift", Line: 1, Column: 1}, loc)

	require.Len(t, d.FixIts, 1)
	title, id := DescribeFixIt(d.FixIts[0].Message)
	require.Equal(t, `Insert parameter "of:"`, title)
	require.Equal(t, Describe(d.Message).ID, id)

	changes := d.FixIts[0].Changes
	require.Len(t, changes, 1)
	require.Equal(t, "of: <#ExampleType.self#>", changes[0].New.String())
	require.True(t, changes[0].Old.Empty())
	require.Equal(t, uint32(6), changes[0].Old.Start)
}

func TestNameOfBareInvocation(t *testing.T) {
	_, _, res := expandOne(t, "let n = #name\n")
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	require.Equal(t, MissingParameter{}, d.Message)

	ch := d.FixIts[0].Changes[0]
	require.Equal(t, "(of: <#ExampleType.self#>)", ch.New.String())
	require.Equal(t, uint32(13), ch.Old.Start)
	require.True(t, ch.Old.Empty())
}

func TestLowerDiagnostic(t *testing.T) {
	f, _, res := expandOne(t, "#name()")
	lowered := res.Diagnostics[0].Lower(f.file)

	require.Equal(t, diag.MacMissingParameter, lowered.Code)
	require.Equal(t, diag.SevError, lowered.Severity)
	require.Equal(t, "underware.missing-parameter", lowered.MessageID().String())
	require.Len(t, lowered.Fixes, 1)

	fix := lowered.Fixes[0]
	require.Equal(t, "underware.missing-parameter", fix.ID)
	require.Equal(t, diag.FixKindQuickFix, fix.Kind)
	require.True(t, fix.IsPreferred)
	require.Equal(t, []diag.TextEdit{{Span: fix.Edits[0].Span, NewText: "of: <#ExampleType.self#>"}}, fix.Edits)
}

func TestLowerDiagnosticGuardsReplacedArguments(t *testing.T) {
	f, _, res := expandOne(t, "#name( )")
	require.Len(t, res.Diagnostics, 1)
	ch := res.Diagnostics[0].FixIts[0].Changes[0]
	require.False(t, ch.Old.Empty())

	lowered := res.Diagnostics[0].Lower(f.file)
	require.Len(t, lowered.Fixes, 1)
	fix := lowered.Fixes[0]
	require.Equal(t, "underware.missing-parameter", fix.ID)
	require.True(t, fix.IsPreferred)
	require.Equal(t, []diag.TextEdit{{Span: ch.Old, NewText: "of: <#ExampleType.self#>", OldText: " "}}, fix.Edits)
}

func TestNameOfDoesNotMutateInput(t *testing.T) {
	f := parse(t, "#name(of: Foo.self)\n#name(of: 1)")
	before := f.res.Tree.Exprs.Arena.Len()
	for i := range f.res.File.Invocations {
		Run(f.ctx(), NameOf{}, f.invocation(t, i))
	}
	require.Equal(t, before, f.res.Tree.Exprs.Arena.Len())
}

func TestNameOfConcurrentExpansion(t *testing.T) {
	src := ""
	for i := range 32 {
		src += fmt.Sprintf("let v%d = #name(of: T%d.self)\n", i, i)
	}
	f := parse(t, src)
	require.Len(t, f.res.File.Invocations, 32)

	invs := make([]Invocation, 32)
	for i := range invs {
		invs[i] = f.invocation(t, i)
	}

	out := make([]string, 32)
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := Run(f.ctx(), NameOf{}, invs[i])
			out[i] = res.Replacement.String()
		}()
	}
	wg.Wait()
	for i, got := range out {
		want := fmt.Sprintf(`(sourceName: "T%d", expression: T%d.self).sourceName`, i, i)
		require.Equal(t, want, got)
	}
}

func TestRunRecoversAndWraps(t *testing.T) {
	f := parse(t, "#boom(of: X.self)")
	inv := f.invocation(t, 0)

	res := Run(f.ctx(), ExpanderFunc(func(Context, Invocation) (Expansion, error) {
		panic("kaboom")
	}), inv)
	require.Error(t, res.Err)
	require.Contains(t, res.Err.Error(), "#boom")
	require.Contains(t, res.Err.Error(), "kaboom")

	res = Run(f.ctx(), ExpanderFunc(func(Context, Invocation) (Expansion, error) {
		return Expansion{}, nil
	}), inv)
	require.ErrorContains(t, res.Err, "no replacement")

	res = Run(f.ctx(), ExpanderFunc(func(Context, Invocation) (Expansion, error) {
		return Expansion{}, fmt.Errorf("wrapped: %w", fail(Diagnostic{Anchor: inv.Node, Message: MissingParameter{}}))
	}), inv)
	require.NoError(t, res.Err)
	require.Len(t, res.Diagnostics, 1)
	require.True(t, res.Failed())
}
