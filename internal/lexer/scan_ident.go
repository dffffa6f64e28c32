package lexer

import (
	"underware/internal/diag"
	"underware/internal/token"
)

// scanIdentOrKeyword сканирует [Ident] и проверяет через LookupKeyword.
// Token.Text - ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		return lx.emit(token.Invalid, start)
	}
	if r < utf8RuneSelf {
		lx.cursor.Bump()
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		// ASCII-идентификатор может продолжаться Unicode-буквами
		lx.scanIdentContinueRunes()
	} else {
		if !isIdentStartRune(r) {
			return lx.scanOperatorOrPunct()
		}
		lx.bumpRune()
		lx.scanIdentContinueRunes()
	}

	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

func (lx *Lexer) scanIdentContinueRunes() {
	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) || lx.cursor.EOF() {
				return
			}
			lx.cursor.Bump()
			continue
		}
		r, sz := lx.peekRune()
		if sz == 0 || !isIdentContinueRune(r) {
			return
		}
		lx.bumpRune()
	}
}

// scanEscapedIdent: `name` - всегда Ident, даже если внутри ключевое слово.
func (lx *Lexer) scanEscapedIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '`'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '`' {
			lx.cursor.Bump()
			return lx.emit(token.Ident, start)
		}
		if b == '\n' {
			break
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unterminated escaped identifier")
	return tok
}

// scanDollarIdent: $0, $1, $value.
func (lx *Lexer) scanDollarIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '$'
	lx.scanIdentContinueRunes()
	if lx.cursor.Off == uint32(start)+1 {
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnknownChar, tok.Span, "expected identifier after '$'")
		return tok
	}
	return lx.emit(token.Ident, start)
}
