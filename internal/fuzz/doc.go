// Package fuzztests holds Go fuzz harnesses for the expansion pipeline
// (source -> lexer -> parser -> macro). They look for panics, hangs and
// broken invariants on arbitrary input; nothing is written to disk.
package fuzztests
