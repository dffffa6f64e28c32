package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"underware/internal/version"
)

func newVersionCmd() *cobra.Command {
	var (
		format string
		full   bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show underware build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Current()
			switch strings.ToLower(format) {
			case "pretty":
				fmt.Fprint(cmd.OutOrStdout(), info.Pretty(full))
				return nil
			case "json":
				data, err := info.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&full, "full", false, "show every recorded bit of build metadata")
	return cmd
}
