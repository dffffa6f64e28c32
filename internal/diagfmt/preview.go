package diagfmt

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"underware/internal/diag"
	"underware/internal/source"
)

// fixEditPreview holds the whole lines an edit touches, before and after.
type fixEditPreview struct {
	before []string
	after  []string
}

func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("preview: nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("preview: file %d not in FileSet", edit.Span.File)
	}
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fixEditPreview{}, fmt.Errorf("preview: %w", err)
	}
	if edit.Span.End < edit.Span.Start || edit.Span.End > size {
		return fixEditPreview{}, fmt.Errorf("preview: edit %d..%d outside file of %d bytes", edit.Span.Start, edit.Span.End, size)
	}

	from, to := fs.Resolve(edit.Span)
	lo := lineStart(file, from.Line, size)
	hi := max(lineEnd(file, max(to.Line, from.Line), size), lo)

	block := file.Content[lo:hi]
	head := block[:edit.Span.Start-lo]
	tail := block[edit.Span.End-lo:]

	var after strings.Builder
	after.Grow(len(block) + len(edit.NewText))
	after.Write(head)
	after.WriteString(edit.NewText)
	after.Write(tail)

	return fixEditPreview{
		before: previewLines(string(block)),
		after:  previewLines(after.String()),
	}, nil
}

// previewLines splits a block that ends on a line boundary.
func previewLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// lineStart returns the offset of the first byte of 1-based line.
// LineIdx holds the offset of every '\n'.
func lineStart(f *source.File, line, size uint32) uint32 {
	if line <= 1 {
		return 0
	}
	if i := int(line) - 2; i < len(f.LineIdx) {
		return f.LineIdx[i] + 1
	}
	return size
}

// lineEnd returns the offset just past line's newline, or size.
func lineEnd(f *source.File, line, size uint32) uint32 {
	if line == 0 {
		return 0
	}
	if i := int(line) - 1; i < len(f.LineIdx) {
		return f.LineIdx[i] + 1
	}
	return size
}
