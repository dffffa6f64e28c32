package driver

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"underware/internal/ast"
	"underware/internal/diag"
	"underware/internal/lexer"
	"underware/internal/macro"
	"underware/internal/parser"
	"underware/internal/source"
	"underware/internal/token"
	"underware/internal/trace"
)

// Site is one successfully expanded invocation.
type Site struct {
	Span        source.Span
	Macro       string
	Original    string
	Replacement string
}

// FileResult is the outcome for one file. Output equals the input when no
// invocation expanded.
type FileResult struct {
	Path   string
	FileID source.FileID
	Output []byte
	Sites  []Site
	Bag    *diag.Bag
	Cached bool
	// Err is set when the file could not be processed at all.
	Err error
}

// Changed reports whether any invocation was replaced.
func (r *FileResult) Changed() bool {
	return r != nil && len(r.Sites) > 0
}

// ExpandFile lexes and parses the file, expands every outermost invocation
// the registry knows, and splices the replacements into the text. Failed
// invocations stay byte-identical and leave diagnostics in the bag.
func ExpandFile(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) (*FileResult, error) {
	file := fs.Get(fileID)
	if file == nil {
		return nil, fmt.Errorf("driver: unknown file id %d", fileID)
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("driver: no macro registry")
	}
	path := file.FormatPath("relative", fs.BaseDir())

	span, ctx := trace.StartSpan(ctx, trace.ScopeFile, "file")
	span.WithExtra("path", path)
	defer span.End("")

	if res, ok := opts.Cache.load(file, opts); ok {
		res.Path = path
		span.WithExtra("cached", "true")
		emit(opts.Progress, path, StageExpand, StatusCached, nil, 0)
		return res, nil
	}

	started := time.Now()
	bag := diag.NewBag(opts.MaxDiagnostics)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	emit(opts.Progress, path, StageParse, StatusWorking, nil, 0)
	toks := phase(opts, "lex", func() []token.Token {
		return lexer.Tokenize(file, lexer.Options{Reporter: reporter})
	})
	parsed := phase(opts, "parse", func() parser.Result {
		return parser.ParseTokens(file, toks, parser.Options{Reporter: reporter})
	})

	emit(opts.Progress, path, StageExpand, StatusWorking, nil, 0)
	results, err := expandInvocations(ctx, fs, parsed, opts)
	if err != nil {
		emit(opts.Progress, path, StageExpand, StatusError, err, time.Since(started))
		return nil, err
	}

	emit(opts.Progress, path, StageSplice, StatusWorking, nil, 0)
	res := phase(opts, "splice", func() *FileResult {
		return splice(file, parsed.Tree, results, bag)
	})
	res.Path = path
	res.FileID = fileID
	bag.Dedup()
	bag.Sort()

	span.WithExtra("invocations", strconv.Itoa(len(results))).WithExtra("expanded", strconv.Itoa(len(res.Sites)))
	if n := reporter.Suppressed(); n > 0 {
		span.WithExtra("duplicates", strconv.Itoa(n))
	}
	opts.Cache.store(file, opts, res)

	status := StatusDone
	if bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, path, StageSplice, status, nil, time.Since(started))
	return res, nil
}

// invocationResult pairs an invocation with its outcome. Skipped entries
// (unknown name or malformed syntax) have a zero result.
type invocationResult struct {
	node   ast.ExprID
	name   string
	skip   bool
	result macro.Result
}

func expandInvocations(ctx context.Context, fs *source.FileSet, parsed parser.Result, opts Options) ([]invocationResult, error) {
	tree := parsed.Tree
	out := make([]invocationResult, len(parsed.File.Invocations))
	mctx := macro.FileContext{Files: fs, PathMode: "relative"}
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	idx := opts.Timer.Begin("expand")
	defer func() { opts.Timer.End(idx, "") }()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs())
	for i, node := range parsed.File.Invocations {
		inv := macro.Invocation{Tree: tree, Node: node}
		out[i] = invocationResult{node: node, name: inv.Name()}

		m, _ := inv.Macro()
		def, known := opts.Registry.Lookup(out[i].name)
		if !known || m == nil || m.Malformed {
			out[i].skip = true
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i].result = macro.Run(mctx, def.Expander, inv)
			trace.Point(tracer, trace.ScopeNode, "#"+out[i].name, outcome(out[i].result), parent)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func outcome(r macro.Result) string {
	switch {
	case r.Err != nil:
		return "error"
	case len(r.Diagnostics) > 0:
		return "diagnosed"
	default:
		return "expanded"
	}
}

// splice rebuilds the file text. Outermost invocations never overlap and
// are already in source order.
func splice(file *source.File, tree *ast.Builder, results []invocationResult, bag *diag.Bag) *FileResult {
	res := &FileResult{Bag: bag}
	var out bytes.Buffer
	out.Grow(len(file.Content))
	last := uint32(0)

	for _, r := range results {
		if r.skip {
			continue
		}
		sp := tree.Span(r.node)
		switch {
		case r.result.Err != nil:
			diag.ReportError(diag.BagReporter{Bag: bag}, diag.MacExpansionFailed, sp, r.result.Err.Error()).Emit()
			continue
		case len(r.result.Diagnostics) > 0:
			for _, d := range r.result.Diagnostics {
				bag.Add(d.Lower(file))
			}
			continue
		}
		replacement := r.result.Replacement.String()
		out.Write(file.Content[last:sp.Start])
		out.WriteString(replacement)
		last = sp.End
		res.Sites = append(res.Sites, Site{
			Span:        sp,
			Macro:       r.name,
			Original:    file.Text(sp),
			Replacement: replacement,
		})
	}
	out.Write(file.Content[last:])
	res.Output = out.Bytes()
	return res
}

// phase runs fn as a timed phase.
func phase[T any](opts Options, name string, fn func() T) T {
	idx := opts.Timer.Begin(name)
	v := fn()
	opts.Timer.End(idx, "")
	return v
}
