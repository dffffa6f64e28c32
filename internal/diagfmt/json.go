package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"underware/internal/diag"
	"underware/internal/source"
)

// LocationJSON represents a file location in machine-readable output.
type LocationJSON struct {
	File      string `json:"file" yaml:"file"`
	StartByte uint32 `json:"start_byte" yaml:"start_byte"`
	EndByte   uint32 `json:"end_byte" yaml:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty" yaml:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty" yaml:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty" yaml:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty" yaml:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message" yaml:"message"`
	Location LocationJSON `json:"location" yaml:"location"`
}

type FixEditJSON struct {
	Location      LocationJSON `json:"location" yaml:"location"`
	NewText       string       `json:"new_text" yaml:"new_text"`
	OldText       string       `json:"old_text,omitempty" yaml:"old_text,omitempty"`
	BeforePreview []string     `json:"before_preview,omitempty" yaml:"before_preview,omitempty"`
	AfterPreview  []string     `json:"after_preview,omitempty" yaml:"after_preview,omitempty"`
}

type FixJSON struct {
	ID            string        `json:"id,omitempty" yaml:"id,omitempty"`
	Title         string        `json:"title" yaml:"title"`
	Kind          string        `json:"kind" yaml:"kind"`
	Applicability string        `json:"applicability" yaml:"applicability"`
	IsPreferred   bool          `json:"is_preferred,omitempty" yaml:"is_preferred,omitempty"`
	Edits         []FixEditJSON `json:"edits" yaml:"edits"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity" yaml:"severity"`
	Code     string       `json:"code" yaml:"code"`
	ID       string       `json:"id" yaml:"id"`
	Message  string       `json:"message" yaml:"message"`
	Location LocationJSON `json:"location" yaml:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty" yaml:"fixes,omitempty"`
}

// DiagnosticsOutput is the top-level document of JSON and YAML output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics" yaml:"diagnostics"`
	Count       int              `json:"count" yaml:"count"`
	Dropped     int              `json:"dropped,omitempty" yaml:"dropped,omitempty"`
}

func makeLocation(span source.Span, fs *source.FileSet, opts JSONOpts) LocationJSON {
	loc := LocationJSON{StartByte: span.Start, EndByte: span.End}
	f := fs.Get(span.File)
	if f == nil {
		return loc
	}
	loc.File = opts.PathMode.format(f, fs)
	if opts.IncludePositions {
		start, end := fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

// BuildDiagnosticsOutput converts bag into its serializable form.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) (DiagnosticsOutput, error) {
	if fs == nil {
		return DiagnosticsOutput{}, fmt.Errorf("nil FileSet")
	}
	items := bag.Items()
	dropped := bag.Dropped()
	if opts.Max > 0 && len(items) > opts.Max {
		dropped += len(items) - opts.Max
		items = items[:opts.Max]
	}

	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, len(items)),
		Dropped:     dropped,
	}
	for _, d := range items {
		dj := DiagnosticJSON{
			Severity: diag.SeverityLabel(d.Severity),
			Code:     d.Code.ID(),
			ID:       d.MessageID().String(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: makeLocation(n.Span, fs, opts)})
			}
		}
		if opts.IncludeFixes {
			for _, f := range d.Fixes {
				fj, err := buildFixJSON(f, fs, opts)
				if err != nil {
					return DiagnosticsOutput{}, err
				}
				dj.Fixes = append(dj.Fixes, fj)
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out, nil
}

func buildFixJSON(f diag.Fix, fs *source.FileSet, opts JSONOpts) (FixJSON, error) {
	fj := FixJSON{
		ID:            f.ID,
		Title:         f.Title,
		Kind:          f.Kind.String(),
		Applicability: f.Applicability.String(),
		IsPreferred:   f.IsPreferred,
		Edits:         make([]FixEditJSON, 0, len(f.Edits)),
	}
	for _, e := range f.Edits {
		ej := FixEditJSON{
			Location: makeLocation(e.Span, fs, opts),
			NewText:  e.NewText,
			OldText:  e.OldText,
		}
		if opts.IncludePreviews {
			preview, err := buildFixEditPreview(fs, e)
			if err != nil {
				return FixJSON{}, fmt.Errorf("fix %q preview: %w", f.Title, err)
			}
			ej.BeforePreview, ej.AfterPreview = preview.before, preview.after
		}
		fj.Edits = append(fj.Edits, ej)
	}
	return fj, nil
}

// JSON writes bag as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	out, err := BuildDiagnosticsOutput(bag, fs, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
