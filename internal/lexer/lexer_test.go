package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"underware/internal/diag"
	"underware/internal/lexer"
	"underware/internal/source"
	"underware/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.swift", []byte(input))
	bag := diag.NewBag(16)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx, bag
}

// collectAllTokens собирает все токены до EOF (EOF не включается)
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func expectTokens(t *testing.T, input string, expected ...token.Kind) []token.Token {
	t.Helper()
	lx, bag := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d\nInput: %q\nTokens: %v\nDiags: %d",
			len(expected), len(tokens), input, tokensToString(tokens), bag.Len())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
	return tokens
}

func expectSingleToken(t *testing.T, input string, kind token.Kind, text string) {
	t.Helper()
	lx, bag := makeTestLexer(input)
	tok := lx.Next()
	if tok.Kind != kind || tok.Text != text {
		t.Errorf("got %v(%q), want %v(%q)", tok.Kind, tok.Text, kind, text)
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", bag.Items()[0].Message)
	}
}

func TestIdentifiersAndKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"foo", token.Ident},
		{"_bar", token.Ident},
		{"x123", token.Ident},
		{"тип", token.Ident},
		{"`self`", token.Ident},
		{"`class`", token.Ident},
		{"$0", token.Ident},
		{"$value", token.Ident},
		{"self", token.KwSelf},
		{"Self", token.KwSelfType},
		{"init", token.KwInit},
		{"nil", token.KwNil},
		{"true", token.KwTrue},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"0", token.IntLit},
		{"1_000", token.IntLit},
		{"0xFF", token.IntLit},
		{"0b1010", token.IntLit},
		{"0o17", token.IntLit},
		{"1.5", token.FloatLit},
		{"1e10", token.FloatLit},
		{"2.5E-3", token.FloatLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestNumberFollowedByMember(t *testing.T) {
	expectTokens(t, "1.description", token.IntLit, token.Dot, token.Ident)
	// доступ к элементам кортежа не склеивается в дробь
	toks := expectTokens(t, "t.0.1", token.Ident, token.Dot, token.IntLit, token.Dot, token.IntLit)
	if toks[2].Text != "0" {
		t.Fatalf("tuple index text = %q", toks[2].Text)
	}
}

func TestBadNumbers(t *testing.T) {
	for _, input := range []string{"0x", "1ex", "12abc"} {
		t.Run(input, func(t *testing.T) {
			lx, bag := makeTestLexer(input)
			tok := lx.Next()
			if tok.Kind != token.Invalid || tok.Text != input {
				t.Fatalf("got %v(%q)", tok.Kind, tok.Text)
			}
			if bag.Len() != 1 || bag.Items()[0].Code != diag.LexBadNumber {
				t.Fatalf("expected LexBadNumber")
			}
		})
	}
}

func TestStrings(t *testing.T) {
	tests := []string{
		`"hello"`,
		`"esc \" quote"`,
		`"interp \(a.b("x)")) done"`,
		"\"\"\"\nmulti \"quoted\"\nline\n\"\"\"",
		`#"raw "inner" \n"#`,
		`##"raw "# still"##`,
		`#"raw \#(value) interp"#`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.StringLit, input)
		})
	}
}

func TestUnterminatedStrings(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{`"open`, "unterminated string literal"},
		{"\"line\nnext\"", "newline in string literal"},
		{`"a \(b`, "unterminated string interpolation"},
		{`#"raw"`, "unterminated string literal"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lx, bag := makeTestLexer(tt.input)
			tok := lx.Next()
			if tok.Kind != token.Invalid {
				t.Fatalf("expected Invalid, got %v", tok.Kind)
			}
			if bag.Len() != 1 {
				t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
			}
			d := bag.Items()[0]
			if d.Code != diag.LexUnterminatedString || d.Message != tt.msg {
				t.Fatalf("got %s %q", d.Code.ID(), d.Message)
			}
		})
	}
}

func TestPlaceholder(t *testing.T) {
	expectSingleToken(t, "<#ExampleType.self#>", token.Placeholder, "<#ExampleType.self#>")

	lx, bag := makeTestLexer("<#open\n")
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Fatalf("expected Invalid, got %v", tok.Kind)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedPlaceholder {
		t.Fatalf("expected LexUnterminatedPlaceholder")
	}
}

func TestMacroInvocationTokens(t *testing.T) {
	toks := expectTokens(t, "#name(of: Foo<Int>.self)",
		token.Pound, token.Ident, token.LParen, token.Ident, token.Colon,
		token.Ident, token.Lt, token.Ident, token.Gt, token.Dot, token.KwSelf, token.RParen)
	if toks[1].HasLeadingSpace() {
		t.Fatalf("macro name must be glued to '#'")
	}
	if !toks[5].HasLeadingSpace() {
		t.Fatalf("expected space before Foo")
	}
}

func TestTrivia(t *testing.T) {
	lx, bag := makeTestLexer("  // line\n/* a /* nested */ b */\n/// doc\nx")
	tok := lx.Next()
	if tok.Kind != token.Ident || tok.Text != "x" {
		t.Fatalf("got %v(%q)", tok.Kind, tok.Text)
	}
	kinds := make([]token.TriviaKind, 0, len(tok.Leading))
	for _, tr := range tok.Leading {
		kinds = append(kinds, tr.Kind)
	}
	want := []token.TriviaKind{
		token.TriviaSpace, token.TriviaLineComment, token.TriviaNewline,
		token.TriviaBlockComment, token.TriviaNewline, token.TriviaDocLine, token.TriviaNewline,
	}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("trivia = %v, want %v", kinds, want)
	}
	if !tok.HasLeadingNewline() {
		t.Fatalf("expected leading newline")
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics")
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	lx, bag := makeTestLexer("/* /* */ x")
	if tok := lx.Next(); tok.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", tok.Kind)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("expected LexUnterminatedBlockComment")
	}
}

func TestUnknownCharacter(t *testing.T) {
	lx, bag := makeTestLexer("a \x01 b")
	toks := collectAllTokens(lx)
	if len(toks) != 3 || toks[1].Kind != token.Invalid {
		t.Fatalf("tokens = %s", tokensToString(toks))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("expected LexUnknownChar")
	}
	// Unicode-операторы не являются ошибкой
	expectTokens(t, "a ≥ b", token.Ident, token.Op, token.Ident)
}

func TestPeekAndTokenize(t *testing.T) {
	lx, _ := makeTestLexer("a.b")
	if p := lx.Peek(); p.Kind != token.Ident {
		t.Fatalf("Peek = %v", p.Kind)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next after Peek = %q", n.Text)
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual("t.swift", []byte("x // tail"))
	toks := lexer.Tokenize(fs.Get(id), lexer.Options{})
	last := toks[len(toks)-1]
	if last.Kind != token.EOF || len(last.Leading) != 2 {
		t.Fatalf("EOF must carry trailing trivia, got %v with %d", last.Kind, len(last.Leading))
	}
}
