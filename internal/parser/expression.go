package parser

import (
	"underware/internal/ast"
	"underware/internal/diag"
	"underware/internal/token"
)

// parsePostfixExpr: primary { '.' name | '(' args ')' | '[' args ']' | '<' types '>' | '?' | '!' }.
// Возвращает false, если первичное выражение не распознано или после
// точки нет имени; вызывающий тогда откатывается к Opaque.
func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	start := p.mark()
	expr, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.Dot:
			name := p.peekN(1)
			if !name.IsName() && name.Kind != token.IntLit {
				if !isListEnd(name.Kind) {
					// `0...5`, `a..<b`: оператор, не доступ к члену
					return expr, true
				}
				p.advance()
				p.err(diag.SynExpectMemberName, "expected member name after '.'")
				return ast.NoExprID, false
			}
			p.advance()
			p.advance()
			expr = p.arenas.Exprs.NewMember(p.spanFrom(start), expr, p.intern(name.Text), name.Span)

		case tok.Kind == token.LParen && !tok.HasLeadingNewline():
			lparen := p.advance()
			args, rparen, _ := p.parseArgList(lparen)
			expr = p.arenas.Exprs.NewCall(p.spanFrom(start), expr, args, lparen.Span, rparen)

		case tok.Kind == token.LBracket && !tok.HasLeadingNewline():
			lbracket := p.advance()
			args, rbracket, _ := p.parseArgList(lbracket)
			expr = p.arenas.Exprs.NewSubscript(p.spanFrom(start), expr, args, lbracket.Span, rbracket)

		case tok.Kind == token.Lt && !tok.HasLeadingSpace():
			generic, ok := p.tryGenericArgs(start, expr)
			if !ok {
				return expr, true
			}
			expr = generic

		case (tok.Kind == token.Question || tok.Kind == token.Bang) && !tok.HasLeadingSpace():
			op := p.advance()
			expr = p.arenas.Exprs.NewPostfix(p.spanFrom(start), expr, p.intern(op.Text))

		default:
			return expr, true
		}
	}
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	start := p.mark()
	tok := p.peek()
	exprs := p.arenas.Exprs

	switch {
	case tok.Kind == token.Pound:
		if !p.atMacroStart() {
			p.advance()
			p.err(diag.SynExpectMacroName, "expected macro name after '#'")
			return ast.NoExprID, false
		}
		return p.parseMacro()

	case tok.Kind == token.KwTrue || tok.Kind == token.KwFalse:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.ExprLitBool, p.intern(tok.Text)), true

	case tok.Kind == token.KwNil:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.ExprLitNil, p.intern(tok.Text)), true

	case tok.Kind == token.IntLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.ExprLitInt, p.intern(tok.Text)), true

	case tok.Kind == token.FloatLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.ExprLitFloat, p.intern(tok.Text)), true

	case tok.Kind == token.StringLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.ExprLitString, p.intern(tok.Text)), true

	case tok.Kind == token.Placeholder:
		p.advance()
		return exprs.NewPlaceholder(tok.Span, p.intern(tok.Text)), true

	case tok.IsName():
		p.advance()
		return exprs.NewIdent(tok.Span, p.intern(tok.Text)), true

	case tok.Kind == token.LParen:
		lparen := p.advance()
		elems, _, _ := p.parseArgList(lparen)
		return exprs.NewTuple(p.spanFrom(start), elems), true

	case tok.Kind == token.LBracket:
		lbracket := p.advance()
		elems, _, _ := p.parseArgList(lbracket)
		return exprs.NewArray(p.spanFrom(start), elems), true

	case tok.Kind == token.Dot && p.peekN(1).IsName():
		// неявный член `.foo`: базы нет
		p.advance()
		name := p.advance()
		return exprs.NewMember(p.spanFrom(start), ast.NoExprID, p.intern(name.Text), name.Span), true
	}
	return ast.NoExprID, false
}

// tryGenericArgs пробует разобрать `<T, U>` после base. Ошибки во время
// пробы не публикуются; при неудаче позиция откатывается.
func (p *Parser) tryGenericArgs(start mark, base ast.ExprID) (ast.ExprID, bool) {
	m := p.mark()
	p.quiet++
	defer func() { p.quiet-- }()

	p.advance() // '<'
	var args []ast.ExprID
	for {
		arg, ok := p.parseTypeArg()
		if !ok {
			p.reset(m)
			return ast.NoExprID, false
		}
		args = append(args, arg)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if !p.at(token.Gt) {
		p.reset(m)
		return ast.NoExprID, false
	}
	p.advance()
	if !canFollowGenericArgs(p.peek().Kind) {
		p.reset(m)
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewGeneric(p.spanFrom(start), base, args), true
}

// parseTypeArg: постфиксное выражение, допускается префикс `any`/`some`.
func (p *Parser) parseTypeArg() (ast.ExprID, bool) {
	start := p.mark()
	if p.atOr(token.KwAny, token.KwSome) && p.peekN(1).IsName() {
		p.advance()
		if _, ok := p.parsePostfixExpr(); !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewOpaque(p.spanFrom(start)), true
	}
	return p.parsePostfixExpr()
}

func canFollowGenericArgs(k token.Kind) bool {
	switch k {
	case token.Dot, token.LParen, token.RParen, token.RBracket, token.RBrace,
		token.Comma, token.Gt, token.Question, token.Bang, token.Colon,
		token.Semicolon, token.EOF:
		return true
	}
	return false
}

func isListEnd(k token.Kind) bool {
	return k == token.Comma || k == token.EOF || isCloser(k)
}
