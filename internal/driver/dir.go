package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"underware/internal/diag"
	"underware/internal/fix"
	"underware/internal/source"
	"underware/internal/trace"
)

// DirResult holds per-file results in path order.
type DirResult struct {
	FileSet *source.FileSet
	Files   []*FileResult
}

// HasErrors reports whether any file failed or has error diagnostics.
func (r *DirResult) HasErrors() bool {
	for _, f := range r.Files {
		if f.Err != nil || (f.Bag != nil && f.Bag.HasErrors()) {
			return true
		}
	}
	return false
}

// Diagnostics returns every diagnostic of every file, in file order.
func (r *DirResult) Diagnostics() []*diag.Diagnostic {
	var out []*diag.Diagnostic
	for _, f := range r.Files {
		if f.Bag != nil {
			out = append(out, f.Bag.Items()...)
		}
	}
	return out
}

// ListSources returns the sorted paths under dir with one of exts. Hidden
// directories (".build", ".git") are skipped.
func ListSources(dir string, exts []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(exts, filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// DisplayPath is the name progress events and results use for path: relative
// to base when possible.
func DisplayPath(base, path string) string {
	if rel, err := source.RelativePath(path, base); err == nil {
		return rel
	}
	return filepath.ToSlash(path)
}

// ExpandDir expands every source file under dir in parallel. Output is the
// same for any Jobs value.
func ExpandDir(ctx context.Context, dir string, opts Options) (*DirResult, error) {
	paths, err := ListSources(dir, opts.extensions())
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoSources)
	}
	return ExpandPaths(ctx, source.NewFileSetWithBase(dir), paths, opts)
}

// ExpandPath dispatches to a single file or a directory.
func ExpandPath(ctx context.Context, path string, opts Options) (*DirResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return ExpandDir(ctx, path, opts)
	}
	return ExpandPaths(ctx, source.NewFileSetWithBase(filepath.Dir(path)), []string{path}, opts)
}

// ExpandPaths loads and expands paths into fset. A file that cannot be read
// gets a result with Err set and an empty bag.
func ExpandPaths(ctx context.Context, fset *source.FileSet, paths []string, opts Options) (*DirResult, error) {
	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "expand")
	defer span.End("")
	span.WithExtra("files", fmt.Sprint(len(paths)))

	results := make([]*FileResult, len(paths))
	ids := make([]source.FileID, len(paths))
	loadIdx := opts.Timer.Begin("load")
	base := fset.BaseDir()
	for i, p := range paths {
		name := DisplayPath(base, p)
		emit(opts.Progress, name, StageLoad, StatusQueued, nil, 0)
		id, err := fset.Load(p)
		if err != nil {
			results[i] = &FileResult{Path: name, Bag: diag.NewBag(opts.MaxDiagnostics), Err: err}
			emit(opts.Progress, name, StageLoad, StatusError, err, 0)
			continue
		}
		ids[i] = id
	}
	opts.Timer.End(loadIdx, "")

	// parallelism is across files; each file expands sequentially
	inner := opts
	inner.Jobs = 1

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs())
	for i := range paths {
		if results[i] != nil {
			continue
		}
		g.Go(func() error {
			res, err := ExpandFile(gctx, fset, ids[i], inner)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &DirResult{FileSet: fset, Files: results}, nil
}

// ExpandSource expands in-memory text registered as a virtual file.
func ExpandSource(ctx context.Context, name string, src []byte, opts Options) (*DirResult, error) {
	fset := source.NewFileSetWithBase(filepath.Dir(name))
	id := fset.AddVirtual(name, src)
	res, err := ExpandFile(ctx, fset, id, opts)
	if err != nil {
		return nil, err
	}
	return &DirResult{FileSet: fset, Files: []*FileResult{res}}, nil
}

// WriteBack rewrites every changed file atomically and returns how many
// were written.
func WriteBack(r *DirResult) (int, error) {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil || !f.Changed() {
			continue
		}
		file := r.FileSet.Get(f.FileID)
		if file.Flags&source.FileVirtual != 0 {
			continue
		}
		if err := fix.WriteFileAtomic(file.Path, f.Output); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
