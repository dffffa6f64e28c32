package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"underware/internal/version"
)

// errDiagnostics signals that diagnostics with errors were already printed;
// main exits 1 without printing anything else.
var errDiagnostics = errors.New("errors reported")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "underware",
		Short:         "Expand #name(of:) macros in Swift sources",
		Long:          `underware rewrites #name(of: T.self) into a tuple carrying the source-accurate type name "T", and reports invocations it cannot expand.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newExpandCmd())
	root.AddCommand(newDiagCmd())
	root.AddCommand(newFixCmd())
	root.AddCommand(newMacrosCmd())
	root.AddCommand(newCleanCmd())
	root.AddCommand(newVersionCmd())

	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = no limit)")
	pf.Int("jobs", 0, "max parallel workers (0 = GOMAXPROCS)")
	pf.String("ui", "auto", "progress UI for directory runs (auto|on|off)")
	pf.Bool("no-cache", false, "disable the on-disk expansion cache")
	pf.String("config", "", "path to underware.toml (default: discovered from the target)")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 = off)")

	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "underware: %v\n", err)
		}
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
