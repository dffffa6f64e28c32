package lexer

import (
	"testing"

	"underware/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.swift", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Peek(); got != want {
			t.Fatalf("Peek = %q, want %q", got, want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() {
		t.Fatalf("expected EOF at end")
	}
	if cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatalf("expected zero bytes past EOF")
	}
}

func TestPeekHelpers(t *testing.T) {
	cursor := NewCursor(createFile("<#x#>"))
	if b0, b1, ok := cursor.Peek2(); !ok || b0 != '<' || b1 != '#' {
		t.Fatalf("Peek2 = %q %q %v", b0, b1, ok)
	}
	if cursor.PeekAt(4) != '>' || cursor.PeekAt(5) != 0 {
		t.Fatalf("PeekAt out of expectations")
	}
	if !cursor.HasPrefix("<#") || cursor.HasPrefix("<#x#>>") {
		t.Fatalf("HasPrefix mismatch")
	}
	cursor.BumpN(10)
	if cursor.Off != 5 {
		t.Fatalf("BumpN must clamp to limit, got %d", cursor.Off)
	}
}

func TestMarkResetSpan(t *testing.T) {
	file := createFile("name(of:)")
	cursor := NewCursor(file)
	m := cursor.Mark()
	cursor.BumpN(4)
	sp := cursor.SpanFrom(m)
	if sp.Start != 0 || sp.End != 4 || sp.File != file.ID {
		t.Fatalf("unexpected span %v", sp)
	}
	if !cursor.Eat('(') || cursor.Eat(')') {
		t.Fatalf("Eat mismatch")
	}
	cursor.Reset(m)
	if cursor.Off != 0 {
		t.Fatalf("Reset did not rewind")
	}
}
