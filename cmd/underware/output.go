package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"underware/internal/diag"
	"underware/internal/diagfmt"
	"underware/internal/driver"
	"underware/internal/version"
)

type reportOptions struct {
	format   string
	notes    bool
	fixes    bool
	preview  bool
	pathMode diagfmt.PathMode
	overall  int
}

// reportDiagnostics writes every file's diagnostics to w in one document
// and load failures to stderr.
func reportDiagnostics(cmd *cobra.Command, w io.Writer, s *session, res *driver.DirResult, ro reportOptions) error {
	reportLoadErrors(cmd.ErrOrStderr(), res)

	bag := diag.NewBag(ro.overall)
	for _, f := range res.Files {
		if f.Bag != nil {
			bag.Merge(f.Bag)
		}
	}
	bag.Sort()

	switch ro.format {
	case "pretty":
		diagfmt.Pretty(w, bag, res.FileSet, diagfmt.PrettyOpts{
			Color:       s.color,
			Context:     1,
			PathMode:    ro.pathMode,
			ShowNotes:   ro.notes,
			ShowFixes:   ro.fixes,
			ShowPreview: ro.preview,
		})
		return nil
	case "json", "yaml":
		opts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         ro.pathMode,
			IncludeNotes:     ro.notes,
			IncludeFixes:     ro.fixes,
			IncludePreviews:  ro.preview,
		}
		if ro.format == "yaml" {
			return diagfmt.YAML(w, bag, res.FileSet, opts)
		}
		return diagfmt.JSON(w, bag, res.FileSet, opts)
	case "short":
		return diagfmt.Short(w, bag, res.FileSet, ro.notes)
	case "sarif":
		return diagfmt.Sarif(w, bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "underware",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	}
	return fmt.Errorf("unknown format %q (expected pretty|json|yaml|short|sarif)", ro.format)
}

// reportLoadErrors prints files that could not be read. They have no
// FileSet entry, so they bypass the diagnostic formatters.
func reportLoadErrors(w io.Writer, res *driver.DirResult) {
	for _, f := range res.Files {
		if f.Err == nil {
			continue
		}
		fmt.Fprintf(w, "%s: %s %s: %v\n", f.Path, diag.SeverityLabel(diag.SevError), diag.IOLoadFileError.ID(), f.Err)
	}
}
