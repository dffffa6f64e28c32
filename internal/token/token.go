package token

import (
	"underware/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, nil or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, KwTrue, KwFalse, KwNil:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsName reports whether the token can be used as a member name after '.'.
// Any keyword is allowed there (Foo.self, Foo.init, Foo.Type).
func (t Token) IsName() bool { return t.Kind == Ident || t.Kind.IsKeyword() }

// HasLeadingSpace reports whether any trivia precedes the token.
func (t Token) HasLeadingSpace() bool { return len(t.Leading) > 0 }

// HasLeadingNewline reports whether a line break precedes the token.
func (t Token) HasLeadingNewline() bool {
	for _, tr := range t.Leading {
		if tr.Kind == TriviaNewline {
			return true
		}
	}
	return false
}
