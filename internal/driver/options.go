package driver

import (
	"errors"
	"runtime"

	"underware/internal/macro"
	"underware/internal/observ"
)

// ErrNoSources is returned by ExpandDir when the directory holds no file
// with a configured extension.
var ErrNoSources = errors.New("no source files found")

type Options struct {
	// Registry resolves macro names; invocations it does not know stay as
	// written.
	Registry *macro.Registry
	// MaxDiagnostics caps each file's bag; 0 means no limit.
	MaxDiagnostics int
	// Jobs bounds parallel work; 0 uses GOMAXPROCS.
	Jobs int
	// Extensions selects files in ExpandDir, ".swift" when empty.
	Extensions []string
	// Cache, when set, stores per-file results across runs.
	Cache *DiskCache
	// Progress receives per-file events.
	Progress ProgressSink
	// Timer collects phase timings.
	Timer *observ.Timer
}

func (o Options) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return []string{".swift"}
	}
	return o.Extensions
}
