package diagfmt

import (
	"io"

	"underware/internal/diag"
	"underware/internal/source"
)

// Short writes one line per diagnostic in the golden form.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	text := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	if text == "" {
		return nil
	}
	_, err := io.WriteString(w, text+"\n")
	return err
}
