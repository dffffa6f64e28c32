package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"underware/internal/driver"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove cached expansion results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := driver.OpenDiskCache("underware")
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("clean %s: %w", cache.Dir(), err)
			}
			quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "removed cached results in %s\n", cache.Dir())
			}
			return nil
		},
	}
}
