package macro

import (
	"errors"
	"fmt"
	"strings"

	"underware/internal/ast"
	"underware/internal/source"
)

// Invocation is one `#name(...)` use site inside a parsed tree.
type Invocation struct {
	Tree *ast.Builder
	Node ast.ExprID
}

// Macro returns the invocation payload.
func (inv Invocation) Macro() (*ast.ExprMacroData, bool) {
	return inv.Tree.Exprs.Macro(inv.Node)
}

// Name returns the macro name as written after '#'.
func (inv Invocation) Name() string {
	m, ok := inv.Macro()
	if !ok {
		return ""
	}
	return inv.Tree.Name(m.Name)
}

// Arguments returns the arguments in source order, labels included.
func (inv Invocation) Arguments() []ast.ExprID {
	m, ok := inv.Macro()
	if !ok {
		return nil
	}
	return m.Args
}

// FirstArgument returns the expression of the first argument with its label
// stripped, or false when there is no argument at all.
func (inv Invocation) FirstArgument() (ast.ExprID, bool) {
	args := inv.Arguments()
	if len(args) == 0 {
		return ast.NoExprID, false
	}
	if l, ok := inv.Tree.Exprs.LabeledElem(args[0]); ok {
		return l.Value, true
	}
	return args[0], true
}

// Expansion is the successful result of an expander.
type Expansion struct {
	Replacement ast.Fragment
}

// Context is what the host exposes to expanders.
type Context interface {
	// Location reports where node of tree is in the original source.
	Location(tree *ast.Builder, node ast.ExprID) Location
}

type Location struct {
	File   string
	Line   uint32
	Column uint32
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// FileContext resolves locations through a FileSet.
type FileContext struct {
	Files *source.FileSet
	// PathMode is passed to source.File.FormatPath; empty keeps the stored path.
	PathMode string
}

func (c FileContext) Location(tree *ast.Builder, node ast.ExprID) Location {
	expr := tree.Get(node)
	if expr == nil || expr.Synthetic || c.Files == nil {
		return Location{}
	}
	f := c.Files.Get(expr.Span.File)
	if f == nil {
		return Location{}
	}
	pos := f.Position(expr.Span.Start)
	path := f.Path
	if c.PathMode != "" {
		path = f.FormatPath(c.PathMode, c.Files.BaseDir())
	}
	return Location{File: path, Line: pos.Line, Column: pos.Col}
}

// Expander turns an invocation into a replacement expression. A failure is
// reported by returning a *DiagnosticsError.
type Expander interface {
	Expand(ctx Context, inv Invocation) (Expansion, error)
}

// ExpanderFunc adapts a function to Expander.
type ExpanderFunc func(ctx Context, inv Invocation) (Expansion, error)

func (f ExpanderFunc) Expand(ctx Context, inv Invocation) (Expansion, error) {
	return f(ctx, inv)
}

// DiagnosticsError carries the diagnostics of a failed expansion.
type DiagnosticsError struct {
	Diagnostics []Diagnostic
}

func (e *DiagnosticsError) Error() string {
	msgs := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		msgs = append(msgs, Describe(d.Message).Text)
	}
	return "macro expansion failed: " + strings.Join(msgs, "; ")
}

func fail(diags ...Diagnostic) error {
	return &DiagnosticsError{Diagnostics: diags}
}

// Result is the outcome of Run: exactly one of Replacement, Diagnostics or
// Err is set.
type Result struct {
	Replacement ast.Fragment
	Diagnostics []Diagnostic
	Err         error
}

// Failed reports whether the invocation must stay as written.
func (r Result) Failed() bool {
	return r.Err != nil || len(r.Diagnostics) > 0
}

// Run invokes exp and sorts its outcome. A panic inside exp becomes Err.
func Run(ctx Context, exp Expander, inv Invocation) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("macro #%s: expander panicked: %v", inv.Name(), r)}
		}
	}()

	out, err := exp.Expand(ctx, inv)
	if err != nil {
		var derr *DiagnosticsError
		if errors.As(err, &derr) && len(derr.Diagnostics) > 0 {
			return Result{Diagnostics: derr.Diagnostics}
		}
		return Result{Err: fmt.Errorf("macro #%s: %w", inv.Name(), err)}
	}
	if out.Replacement.IsZero() {
		return Result{Err: fmt.Errorf("macro #%s: expander returned no replacement", inv.Name())}
	}
	return Result{Replacement: out.Replacement}
}

func errNotInvocation(inv Invocation) error {
	kind := "missing"
	if e := inv.Tree.Get(inv.Node); e != nil {
		kind = e.Kind.String()
	}
	return fmt.Errorf("node %d is %s, not a macro invocation", inv.Node, kind)
}
