package parser

import (
	"underware/internal/ast"
	"underware/internal/token"
)

// parseMacro разбирает `#name` и, если сразу за именем (без перевода строки)
// идёт '(', список аргументов.
func (p *Parser) parseMacro() (ast.ExprID, bool) {
	start := p.mark()
	errsBefore := p.errs

	p.advance() // '#'
	nameTok := p.advance()
	data := ast.ExprMacroData{
		Name:     p.intern(nameTok.Text),
		NameSpan: nameTok.Span,
	}

	if p.at(token.LParen) && !p.peek().HasLeadingNewline() {
		lparen := p.advance()
		args, rparen, ok := p.parseArgList(lparen)
		data.HasArgs = true
		data.Args = args
		data.LParen = lparen.Span
		data.RParen = rparen
		data.Malformed = !ok
	}

	if p.errs > errsBefore || p.hasInvalidSince(start) {
		data.Malformed = true
	}
	return p.arenas.Exprs.NewMacro(p.spanFrom(start), data), true
}

func (p *Parser) hasInvalidSince(m mark) bool {
	for _, tok := range p.toks[m:p.pos] {
		if tok.Kind == token.Invalid {
			return true
		}
	}
	return false
}
