package macro

import (
	"testing"

	"github.com/stretchr/testify/require"

	"underware/internal/diag"
	"underware/internal/parser"
	"underware/internal/source"
)

type fixture struct {
	files *source.FileSet
	file  *source.File
	res   parser.Result
}

func parse(t *testing.T, src string) fixture {
	t.Helper()
	fs := source.NewFileSetWithBase("/work")
	id := fs.AddVirtual("/work/Sources/main.swift", []byte(src))
	bag := diag.NewBag(0)
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	require.Zero(t, bag.Len(), "unexpected parse diagnostics")
	return fixture{files: fs, file: fs.Get(id), res: res}
}

func (f fixture) invocation(t *testing.T, i int) Invocation {
	t.Helper()
	require.Greater(t, len(f.res.File.Invocations), i)
	return Invocation{Tree: f.res.Tree, Node: f.res.File.Invocations[i]}
}

func (f fixture) ctx() Context {
	return FileContext{Files: f.files}
}

// expandOne runs NameOf on the first invocation of src.
func expandOne(t *testing.T, src string) (fixture, Invocation, Result) {
	t.Helper()
	f := parse(t, src)
	inv := f.invocation(t, 0)
	return f, inv, Run(f.ctx(), NameOf{}, inv)
}
