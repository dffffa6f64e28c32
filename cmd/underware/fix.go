package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"underware/internal/fix"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] <file.swift|directory>",
		Short: "Apply the fix-its of failed invocations",
		Long:  "Run the expansion, collect the fix-its attached to its diagnostics and apply them according to the chosen strategy.",
		Args:  cobra.ExactArgs(1),
		RunE:  runFix,
	}
	cmd.Flags().Bool("all", false, "apply all safe fixes")
	cmd.Flags().Bool("once", false, "apply the first available fix (default)")
	cmd.Flags().String("id", "", "apply every fix with this identifier (e.g. underware.missing-parameter)")
	cmd.Flags().Bool("dry-run", false, "print the fixed sources instead of writing them")
	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	target := args[0]

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	if targetID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce}
	switch {
	case targetID != "":
		opts.Mode, opts.TargetID = fix.ApplyModeID, targetID
	case applyAll:
		opts.Mode = fix.ApplyModeAll
	}

	s, err := openSession(cmd, target)
	if err != nil {
		return err
	}
	defer s.close()

	res, err := runDriver(cmd, s, target)
	if err != nil {
		s.failed = true
		return fmt.Errorf("fix: %w", err)
	}
	reportLoadErrors(cmd.ErrOrStderr(), res)

	apply := fix.Apply
	if dryRun {
		apply = fix.Preview
	}
	applied, applyErr := apply(res.FileSet, res.Diagnostics(), opts)
	if err := printApplyResult(cmd.OutOrStdout(), applied, applyErr, dryRun); err != nil {
		s.failed = true
		return err
	}
	s.printTimings(cmd)
	return nil
}

func printApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}
	if len(res.Applied) > 0 {
		verb := "Applied"
		if dryRun {
			verb = "Would apply"
		}
		fmt.Fprintf(out, "%s %d fix(es):\n", verb, len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(out, "  %s [%s] at %s (%d edits)\n", item.Title, item.ID, location, item.EditCount)
		}
	}
	if len(res.FileChanges) > 0 {
		if dryRun {
			for _, change := range res.FileChanges {
				fmt.Fprintf(out, "==> %s <==\n", change.Path)
				_, _ = out.Write(change.After)
			}
		} else {
			fmt.Fprintln(out, "Updated files:")
			for _, change := range res.FileChanges {
				fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
			}
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(out, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	if len(res.Applied) == 0 {
		fmt.Fprintln(out, "No fixes applied.")
	}
	return nil
}
