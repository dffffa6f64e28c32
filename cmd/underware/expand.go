package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"underware/internal/driver"
)

func newExpandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand [flags] <file.swift|directory>",
		Short: "Expand #name(of:) invocations",
		Long: `Expand prints the sources with every expandable invocation replaced.
Invocations that fail stay as written and are reported on stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: runExpand,
	}
	cmd.Flags().Bool("write", false, "rewrite files in place instead of printing them")
	cmd.Flags().Bool("diff", false, "print only the replaced sites")
	return cmd
}

func runExpand(cmd *cobra.Command, args []string) error {
	target := args[0]
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}
	diff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return fmt.Errorf("failed to get diff flag: %w", err)
	}
	if write && diff {
		return fmt.Errorf("--write and --diff are mutually exclusive")
	}

	s, err := openSession(cmd, target)
	if err != nil {
		return err
	}
	defer s.close()

	res, err := runDriver(cmd, s, target)
	if err != nil {
		s.failed = true
		return fmt.Errorf("expand: %w", err)
	}

	if err := reportDiagnostics(cmd, cmd.ErrOrStderr(), s, res, reportOptions{
		format:  s.cfg.Diagnostics.Format,
		fixes:   true,
		overall: s.cfg.Diagnostics.Max,
	}); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case write:
		n, err := driver.WriteBack(res)
		if err != nil {
			return fmt.Errorf("expand: %w", err)
		}
		if !s.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "expanded %d file(s)\n", n)
		}
	case diff:
		printSites(out, res)
	default:
		printOutputs(out, res)
	}
	s.printTimings(cmd)

	if res.HasErrors() {
		s.failed = true
		return errDiagnostics
	}
	return nil
}

func printOutputs(out io.Writer, res *driver.DirResult) {
	single := len(res.Files) == 1
	for _, f := range res.Files {
		if f.Err != nil {
			continue
		}
		if !single {
			fmt.Fprintf(out, "==> %s <==\n", f.Path)
		}
		_, _ = out.Write(f.Output)
	}
}

func printSites(out io.Writer, res *driver.DirResult) {
	for _, f := range res.Files {
		file := res.FileSet.Get(f.FileID)
		for _, site := range f.Sites {
			pos := file.Position(site.Span.Start)
			fmt.Fprintf(out, "%s:%d:%d: #%s\n  - %s\n  + %s\n", f.Path, pos.Line, pos.Col, site.Macro, site.Original, site.Replacement)
		}
	}
}
