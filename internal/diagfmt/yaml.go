package diagfmt

import (
	"io"

	"gopkg.in/yaml.v3"

	"underware/internal/diag"
	"underware/internal/source"
)

// YAML writes the same document as JSON in YAML form.
func YAML(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	out, err := BuildDiagnosticsOutput(bag, fs, opts)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}
