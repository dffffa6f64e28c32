package parser

import (
	"underware/internal/diag"
	"underware/internal/source"
	"underware/internal/token"
)

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

type mark int

func (p *Parser) mark() mark { return mark(p.pos) }

func (p *Parser) reset(m mark) { p.pos = int(m) }

// spanFrom - span от первого токена, начиная с метки, до последнего съеденного.
func (p *Parser) spanFrom(m mark) source.Span {
	start := p.toks[m].Span
	if p.pos <= int(m) {
		return start.StartPoint()
	}
	return start.Cover(p.toks[p.pos-1].Span)
}

// getDiagnosticSpan - лучший span для диагностики: на EOF используем
// позицию сразу после последнего съеденного токена.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return p.lastSpan.EndPoint()
	}
	return peek.Span
}

// expect - ожидаем конкретный токен. Если нет - репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan}, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.quiet > 0 {
		return false // пробный разбор, ошибки не публикуем
	}
	if sev == diag.SevError {
		p.errs++
	}
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
		if p.opts.MaxErrors != 0 && p.opts.CurrentErrors > p.opts.MaxErrors {
			return false // достигли максимального количества ошибок
		}
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
	return true
}

func (p *Parser) intern(text string) source.StringID {
	return p.arenas.Strings.Intern(text)
}

func closerFor(open token.Kind) token.Kind {
	switch open {
	case token.LParen:
		return token.RParen
	case token.LBracket:
		return token.RBracket
	case token.LBrace:
		return token.RBrace
	case token.Lt:
		return token.Gt
	}
	return token.Invalid
}

func unclosedCode(open token.Kind) diag.Code {
	switch open {
	case token.LBracket:
		return diag.SynUnclosedBracket
	case token.LBrace:
		return diag.SynUnclosedBrace
	}
	return diag.SynUnclosedParen
}

func isCloser(k token.Kind) bool {
	return k == token.RParen || k == token.RBracket || k == token.RBrace
}
