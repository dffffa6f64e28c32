package lexer

import (
	"underware/internal/diag"
	"underware/internal/token"
)

// Строки: "...", """...""" и raw-формы #"..."#, ##"""..."""##.
// Escape-последовательности не валидируются, только пропускаются;
// интерполяция \( ... ) пропускается с учётом вложенных скобок и строк.
func (lx *Lexer) scanString(hashes uint32) token.Token {
	start := Mark(lx.cursor.Off - hashes)
	if ok, msg := lx.scanStringBody(hashes); !ok {
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnterminatedString, tok.Span, msg)
		return tok
	}
	return lx.emit(token.StringLit, start)
}

func (lx *Lexer) scanRawString() token.Token {
	hashes := uint32(0)
	for lx.cursor.Eat('#') {
		hashes++
	}
	return lx.scanString(hashes)
}

// scanStringBody: курсор стоит на открывающей кавычке.
func (lx *Lexer) scanStringBody(hashes uint32) (ok bool, msg string) {
	multiline := lx.cursor.HasPrefix(`"""`)
	if multiline {
		lx.cursor.BumpN(3)
	} else {
		lx.cursor.Bump()
	}

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '"' && lx.closesString(multiline, hashes):
			return true, ""
		case b == '\n' && !multiline:
			return false, "newline in string literal"
		case b == '\\' && lx.hashesAt(1) >= hashes:
			lx.cursor.BumpN(1 + hashes)
			if lx.cursor.Peek() == '(' {
				if !lx.skipInterpolation() {
					return false, "unterminated string interpolation"
				}
				continue
			}
			if lx.cursor.Peek() == '\n' && !multiline {
				return false, "newline in string literal"
			}
			lx.cursor.Bump()
		default:
			lx.cursor.Bump()
		}
	}
	return false, "unterminated string literal"
}

// closesString consumes the closing delimiter when it is present.
func (lx *Lexer) closesString(multiline bool, hashes uint32) bool {
	quotes := uint32(1)
	if multiline {
		if !lx.cursor.HasPrefix(`"""`) {
			return false
		}
		quotes = 3
	}
	if lx.hashesAt(quotes) < hashes {
		return false
	}
	lx.cursor.BumpN(quotes + hashes)
	return true
}

func (lx *Lexer) hashesAt(n uint32) uint32 {
	count := uint32(0)
	for lx.cursor.PeekAt(n+count) == '#' {
		count++
	}
	return count
}

func (lx *Lexer) skipInterpolation() bool {
	lx.cursor.Bump() // '('
	depth := 1
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '(':
			depth++
			lx.cursor.Bump()
		case b == ')':
			depth--
			lx.cursor.Bump()
			if depth == 0 {
				return true
			}
		case b == '"':
			if ok, _ := lx.scanStringBody(0); !ok {
				return false
			}
		case b == '#' && lx.isRawStringStart():
			n := lx.hashesAt(0)
			lx.cursor.BumpN(n)
			if ok, _ := lx.scanStringBody(n); !ok {
				return false
			}
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// scanPlaceholder: <#text#>, только в пределах одной строки.
func (lx *Lexer) scanPlaceholder() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.BumpN(2)
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		if lx.cursor.HasPrefix("#>") {
			lx.cursor.BumpN(2)
			return lx.emit(token.Placeholder, start)
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedPlaceholder, tok.Span, "unterminated editor placeholder")
	return tok
}
