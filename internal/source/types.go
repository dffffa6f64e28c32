package source

// FileID names a file inside one FileSet; IDs follow insertion order.
type FileID uint32

// FileFlags records how a file entered the set and what loading changed.
type FileFlags uint8

const (
	// FileVirtual marks content handed in from memory rather than read from disk.
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM is set when a UTF-8 byte order mark was stripped.
	FileHadBOM
	// FileNormalizedCRLF is set when CRLF line endings were rewritten to LF.
	FileNormalizedCRLF
)

// File is one loaded source. Content is already normalised; LineIdx holds
// the offset of every '\n' in it, and Hash is the SHA-256 of Content.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}
