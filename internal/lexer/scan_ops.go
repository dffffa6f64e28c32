package lexer

import (
	"unicode"

	"underware/internal/diag"
	"underware/internal/token"
)

// Операторы односимвольные: составные (`==`, `?.`, `..<`) парсеру не нужны,
// он склеивает их по соседству токенов.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	if r, sz := lx.peekRune(); sz > 1 {
		lx.bumpRune()
		if unicode.IsSymbol(r) || unicode.IsPunct(r) {
			return lx.emit(token.Op, start)
		}
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character")
		return tok
	}

	ch := lx.cursor.Bump()
	if k, ok := punct[ch]; ok {
		return lx.emit(k, start)
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character")
	return tok
}

var punct = map[byte]token.Kind{
	'(':  token.LParen,
	')':  token.RParen,
	'[':  token.LBracket,
	']':  token.RBracket,
	'{':  token.LBrace,
	'}':  token.RBrace,
	',':  token.Comma,
	':':  token.Colon,
	';':  token.Semicolon,
	'.':  token.Dot,
	'#':  token.Pound,
	'@':  token.At,
	'\\': token.Backslash,
	'<':  token.Lt,
	'>':  token.Gt,
	'?':  token.Question,
	'!':  token.Bang,
	'&':  token.Amp,
	'+':  token.Op,
	'-':  token.Op,
	'*':  token.Op,
	'/':  token.Op,
	'%':  token.Op,
	'=':  token.Op,
	'|':  token.Op,
	'^':  token.Op,
	'~':  token.Op,
	'\'': token.Op,
}
