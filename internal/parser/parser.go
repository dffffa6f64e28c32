package parser

import (
	"slices"

	"underware/internal/ast"
	"underware/internal/diag"
	"underware/internal/lexer"
	"underware/internal/source"
	"underware/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
	// Hints sizes the expression arenas; zero picks a default from the token count.
	Hints ast.Hints
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Tree *ast.Builder
	File ast.File
}

// Parser - состояние парсера на один файл.
// Работает по заранее полученному срезу токенов, чтобы откатываться
// при пробном разборе generic-аргументов.
type Parser struct {
	file     *source.File
	toks     []token.Token
	pos      int
	arenas   *ast.Builder
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	quiet    int         // >0 во время пробного разбора
	errs     int         // все ошибки, включая отброшенные лимитом
}

// ParseFile lexes file and parses every freestanding macro invocation in it.
// Lexer and parser diagnostics go to opts.Reporter.
func ParseFile(file *source.File, opts Options) Result {
	toks := lexer.Tokenize(file, lexer.Options{Reporter: opts.Reporter})
	return ParseTokens(file, toks, opts)
}

// ParseTokens parses an already lexed token stream ending in EOF.
func ParseTokens(file *source.File, toks []token.Token, opts Options) Result {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		end := source.Span{File: file.ID}
		if n := len(toks); n > 0 {
			end = toks[n-1].Span.EndPoint()
		}
		toks = append(slices.Clip(toks), token.Token{Kind: token.EOF, Span: end})
	}
	hints := opts.Hints
	if hints.Exprs == 0 {
		hints.Exprs = uint(len(toks)/8 + 8) // #nosec G115 -- len is non-negative
	}
	p := Parser{
		file:   file,
		toks:   toks,
		arenas: ast.NewBuilder(file, hints),
		opts:   opts,
	}
	return Result{Tree: p.arenas, File: p.parseFile()}
}

// parseFile - основной цикл: ищем `#name` вне строк и комментариев.
func (p *Parser) parseFile() ast.File {
	f := ast.File{Span: p.peek().Span}
	for !p.at(token.EOF) {
		if p.atMacroStart() {
			if id, ok := p.parseMacro(); ok {
				f.Invocations = append(f.Invocations, id)
			}
			continue
		}
		p.advance()
	}
	f.Span = f.Span.Cover(p.peek().Span)
	return f
}

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// atMacroStart: '#' вплотную к имени.
func (p *Parser) atMacroStart() bool {
	if !p.at(token.Pound) {
		return false
	}
	next := p.peekN(1)
	return next.IsName() && !next.HasLeadingSpace()
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}
