package parser

import (
	"underware/internal/ast"
	"underware/internal/diag"
	"underware/internal/source"
	"underware/internal/token"
)

// parseArgList разбирает элементы до парной закрывающей скобки.
// open уже съеден. Возвращает span закрывающей скобки и false, если список
// не закрыт или в нём встретилась чужая закрывающая скобка.
func (p *Parser) parseArgList(open token.Token) ([]ast.ExprID, source.Span, bool) {
	closer := closerFor(open.Kind)
	var args []ast.ExprID
	ok := true
	for {
		tok := p.peek()
		switch {
		case tok.Kind == closer:
			p.advance()
			return args, tok.Span, ok
		case tok.Kind == token.EOF:
			p.report(unclosedCode(open.Kind), diag.SevError, open.Span, "unclosed '"+open.Text+"'")
			return args, p.lastSpan.EndPoint(), false
		case isCloser(tok.Kind):
			p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span,
				"unexpected '"+tok.Text+"', expected '"+closer.String()+"'")
			p.advance()
			ok = false
			continue
		case tok.Kind == token.Comma:
			p.err(diag.SynExpectExpression, "expected expression in list")
			p.advance()
			continue
		}

		args = append(args, p.parseElement(closer))
		if p.at(token.Comma) {
			p.advance()
		}
	}
}

// parseElement: `label: value` или просто `value`.
func (p *Parser) parseElement(closer token.Kind) ast.ExprID {
	start := p.mark()
	if p.peek().IsName() && p.peekN(1).Kind == token.Colon {
		label := p.advance()
		p.advance() // ':'
		value := p.parseArgExpr(closer)
		return p.arenas.Exprs.NewLabeled(p.spanFrom(start), p.intern(label.Text), label.Span, value)
	}
	return p.parseArgExpr(closer)
}

// parseArgExpr пробует постфиксное выражение; если за ним не ',' и не
// closer, весь элемент становится Opaque.
func (p *Parser) parseArgExpr(closer token.Kind) ast.ExprID {
	start := p.mark()
	if id, ok := p.parsePostfixExpr(); ok && p.atOr(token.Comma, closer) {
		return id
	}
	p.reset(start)
	return p.parseOpaque()
}

// parseOpaque пропускает токены до ',' или закрывающей скобки верхнего уровня.
func (p *Parser) parseOpaque() ast.ExprID {
	start := p.mark()
	p.skipBalanced()
	if p.pos == int(start) {
		p.err(diag.SynExpectExpression, "expected expression")
		return p.arenas.Exprs.NewOpaque(p.getDiagnosticSpan().StartPoint())
	}
	return p.arenas.Exprs.NewOpaque(p.spanFrom(start))
}

func (p *Parser) skipBalanced() {
	var stack []token.Token
	for !p.at(token.EOF) {
		tok := p.peek()
		switch {
		case len(stack) == 0 && (tok.Kind == token.Comma || isCloser(tok.Kind)):
			return
		case tok.Kind == token.LParen || tok.Kind == token.LBracket || tok.Kind == token.LBrace:
			stack = append(stack, p.advance())
		case isCloser(tok.Kind):
			top := stack[len(stack)-1]
			if closerFor(top.Kind) == tok.Kind {
				stack = stack[:len(stack)-1]
			} else {
				p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span,
					"unexpected '"+tok.Text+"', expected '"+closerFor(top.Kind).String()+"'")
			}
			p.advance()
		default:
			p.advance()
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		open := stack[i]
		p.report(unclosedCode(open.Kind), diag.SevError, open.Span, "unclosed '"+open.Text+"'")
	}
}
