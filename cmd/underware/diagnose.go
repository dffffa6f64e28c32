package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"underware/internal/diagfmt"
)

func newDiagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diag [flags] <file.swift|directory>",
		Short: "Report invocations that cannot be expanded",
		Long:  `Diag runs the expansion without writing anything and prints the diagnostics.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runDiagnose,
	}
	cmd.Flags().String("format", "", "output format (pretty|json|yaml|short|sarif); default from underware.toml")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes")
	cmd.Flags().Bool("suggest", false, "include fix suggestions")
	cmd.Flags().Bool("preview", false, "include before/after previews of fixes")
	cmd.Flags().String("path-mode", "auto", "how to print paths (auto|absolute|relative|basename)")
	return cmd
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, err := diagfmt.ParsePathMode(pathModeStr)
	if err != nil {
		return err
	}

	s, err := openSession(cmd, target)
	if err != nil {
		return err
	}
	defer s.close()
	if format == "" {
		format = s.cfg.Diagnostics.Format
	}

	res, err := runDriver(cmd, s, target)
	if err != nil {
		s.failed = true
		return fmt.Errorf("diag: %w", err)
	}
	err = reportDiagnostics(cmd, cmd.OutOrStdout(), s, res, reportOptions{
		format:   strings.ToLower(format),
		notes:    withNotes,
		fixes:    suggest || preview,
		preview:  preview,
		pathMode: pathMode,
		overall:  s.cfg.Diagnostics.Max,
	})
	if err != nil {
		return err
	}
	s.printTimings(cmd)

	if res.HasErrors() {
		s.failed = true
		return errDiagnostics
	}
	return nil
}
