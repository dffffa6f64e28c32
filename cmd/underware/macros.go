package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// headerRow is the StyleFunc row index lipgloss/table gives the header.
const headerRow = 0

func newMacrosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "macros [directory]",
		Short: "List the registered macros and their aliases",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMacros,
	}
}

func runMacros(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	cfg, err := loadConfig(cmd, target)
	if err != nil {
		return err
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("MACRO", "ALIASES", "EXPANDER", "DESCRIPTION").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == headerRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, def := range reg.Definitions() {
		aliases := "-"
		if a := reg.AliasesOf(def.Name); len(a) > 0 {
			aliases = "#" + strings.Join(a, ", #")
		}
		t.Row("#"+def.Name, aliases, fmt.Sprintf("%T", def.Expander), def.Doc)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}
