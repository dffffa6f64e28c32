package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"underware/internal/diag"
	"underware/internal/source"
)

type palette struct {
	err, warn, info, note, bold, dim, fix *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan, color.Bold),
		note: color.New(color.FgBlue),
		bold: color.New(color.Bold),
		dim:  color.New(color.Faint),
		fix:  color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.bold, p.dim, p.fix} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty prints bag (expected sorted) for humans:
//
//	path:line:col: ERROR MAC3002: message
//	   3 | let a = #name(of: 1)
//	     |                   ^
//
// followed by notes, fixes and previews when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, p)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "%s\n", p.dim.Sprintf("... %d more diagnostic(s) not shown", n))
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	file := fs.Get(d.Primary.File)
	if file == nil {
		fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity).Sprint(d.Severity), d.Code.ID(), d.Message)
		return
	}
	pos := file.Position(d.Primary.Start)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.bold.Sprintf("%s:%d:%d", opts.PathMode.format(file, fs), pos.Line, pos.Col),
		p.severity(d.Severity).Sprint(d.Severity),
		d.Code.ID(),
		d.Message,
	)
	writeSnippet(w, file, d.Primary, opts, p.severity(d.Severity), p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s\n", p.note.Sprintf("note: %s:", location(fs, n.Span, opts.PathMode)), n.Msg)
		}
	}
	if !opts.ShowFixes {
		return
	}
	for i, f := range d.Fixes {
		meta := fmt.Sprintf("[%s, %s]", f.Kind, f.Applicability)
		if f.ID != "" {
			meta += " id=" + f.ID
		}
		if f.IsPreferred {
			meta += " preferred"
		}
		fmt.Fprintf(w, "  %s %s\n", p.fix.Sprintf("fix #%d: %s", i+1, f.Title), p.dim.Sprint(meta))
		for _, e := range f.Edits {
			fmt.Fprintf(w, "    edit %s apply=%q\n", location(fs, e.Span, opts.PathMode), e.NewText)
			if !opts.ShowPreview {
				continue
			}
			preview, err := buildFixEditPreview(fs, e)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "    preview:\n")
			for _, l := range preview.before {
				fmt.Fprintf(w, "      %s\n", p.err.Sprint("- "+l))
			}
			for _, l := range preview.after {
				fmt.Fprintf(w, "      %s\n", p.fix.Sprint("+ "+l))
			}
		}
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "?"
	}
	pos := f.Position(sp.Start)
	return fmt.Sprintf("%s:%d:%d", mode.format(f, fs), pos.Line, pos.Col)
}

// writeSnippet prints the primary line with context and a caret line.
// Columns are measured in display cells so wide runes stay aligned.
func writeSnippet(w io.Writer, f *source.File, sp source.Span, opts PrettyOpts, mark *color.Color, p palette) {
	start, end := f.Position(sp.Start), f.Position(sp.End)
	first := int(start.Line) - int(opts.Context)
	last := int(start.Line) + int(opts.Context)
	first = max(first, 1)
	last = min(last, len(f.LineIdx)+1)
	gutter := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		line := expandTabs(f.GetLine(uint32(ln)))
		if opts.Width > 0 {
			line = runewidth.Truncate(line, int(opts.Width), "…")
		}
		fmt.Fprintf(w, " %s %s\n", p.dim.Sprintf("%*d |", gutter, ln), line)
		if ln != int(start.Line) {
			continue
		}
		raw := f.GetLine(uint32(ln))
		prefix := runewidth.StringWidth(expandTabs(byteSlice(raw, 0, int(start.Col)-1)))
		endCol := len(raw) + 1
		if end.Line == start.Line {
			endCol = int(end.Col)
		}
		width := runewidth.StringWidth(expandTabs(byteSlice(raw, int(start.Col)-1, endCol-1)))
		underline := "^"
		if width > 1 {
			underline += strings.Repeat("~", width-1)
		}
		fmt.Fprintf(w, " %s %s%s\n", p.dim.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", prefix), mark.Sprint(underline))
	}
}

func byteSlice(s string, from, to int) string {
	from = min(max(from, 0), len(s))
	to = min(max(to, from), len(s))
	return s[from:to]
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
