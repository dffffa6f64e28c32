package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"underware/internal/driver"
	"underware/internal/ui"
)

// runDriver expands target. Directory runs show the progress UI when it is
// enabled and output is not quiet.
func runDriver(cmd *cobra.Command, s *session, target string) (*driver.DirResult, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !s.progressUI(cmd.ErrOrStderr(), info.IsDir()) {
		return driver.ExpandPath(cmd.Context(), target, s.opts)
	}

	paths, err := driver.ListSources(target, s.opts.Extensions)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = driver.DisplayPath(target, p)
	}

	events := make(chan driver.Event, 64)
	opts := s.opts
	opts.Progress = driver.ChannelSink{Ch: events}

	type outcome struct {
		res *driver.DirResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := driver.ExpandDir(cmd.Context(), target, opts)
		close(events)
		done <- outcome{res, err}
	}()

	uiErr := ui.Run(cmd.ErrOrStderr(), fmt.Sprintf("expanding %s", target), names, events)
	// the view may quit early; keep the driver unblocked
	go func() {
		for range events {
		}
	}()
	out := <-done
	if out.err == nil && uiErr != nil && !s.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "underware: progress UI: %v\n", uiErr)
	}
	return out.res, out.err
}
