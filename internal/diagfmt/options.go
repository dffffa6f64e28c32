package diagfmt

import (
	"fmt"

	"underware/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func ParsePathMode(s string) (PathMode, error) {
	switch s {
	case "auto", "":
		return PathModeAuto, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	}
	return PathModeAuto, fmt.Errorf("invalid path mode %q (expected: auto|absolute|relative|basename)", s)
}

func (m PathMode) format(f *source.File, fs *source.FileSet) string {
	switch m {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

type PrettyOpts struct {
	Color       bool
	Context     int8 // source lines shown above and below the primary line
	PathMode    PathMode
	Width       uint8 // source lines are truncated to this many columns, 0 for no limit
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON and YAML output.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	Max              int // output cap, independent of the bag limit
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}

type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
}
