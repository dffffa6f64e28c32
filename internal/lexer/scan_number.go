package lexer

import (
	"underware/internal/diag"
	"underware/internal/token"
)

// Поддержка: 0, 1_000, 0b1010, 0o17, 0xFF, 1.5, 1e-3, 1.0e+10.
// Дробная часть берётся только если после '.' идёт цифра, поэтому `1.foo`
// остаётся IntLit Dot Ident. После '.' (доступ к элементу кортежа `t.0.1`)
// дробь не берём вовсе.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' {
		var digit func(byte) bool
		switch lx.cursor.PeekAt(1) {
		case 'b':
			digit = isBin
		case 'o':
			digit = isOct
		case 'x':
			digit = isHex
		}
		if digit != nil {
			lx.cursor.BumpN(2)
			if !digit(lx.cursor.Peek()) {
				lx.eatIdentTail()
				tok := lx.emit(token.Invalid, start)
				lx.errLex(diag.LexBadNumber, tok.Span, "expected digits after radix prefix")
				return tok
			}
			for digit(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
			return lx.finishNumber(token.IntLit, start)
		}
	}

	kind := token.IntLit
	lx.eatDecimalDigits()

	if lx.prev != token.Dot && lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = token.FloatLit
		lx.cursor.Bump() // '.'
		lx.eatDecimalDigits()
	}

	if b := lx.cursor.Peek(); (b == 'e' || b == 'E') && lx.prev != token.Dot {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			lx.cursor.Reset(mark)
			lx.eatIdentTail()
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexBadNumber, tok.Span, "expected digit after exponent")
			return tok
		}
		kind = token.FloatLit
		lx.eatDecimalDigits()
	}

	return lx.finishNumber(kind, start)
}

func (lx *Lexer) eatDecimalDigits() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}

// eatIdentTail consumes identifier characters glued to a number.
func (lx *Lexer) eatIdentTail() {
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

// finishNumber reports identifier characters glued to the literal (12abc).
func (lx *Lexer) finishNumber(kind token.Kind, start Mark) token.Token {
	if !isIdentStartByte(lx.cursor.Peek()) {
		return lx.emit(kind, start)
	}
	lx.eatIdentTail()
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexBadNumber, tok.Span, "invalid character in number literal")
	return tok
}
