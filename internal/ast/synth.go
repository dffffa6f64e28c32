package ast

import (
	"strconv"
	"strings"

	"underware/internal/source"
)

// Helpers for building synthetic fragments by name rather than by span.

// SynthStringLiteral creates a string literal whose runtime value is value.
func (b *Builder) SynthStringLiteral(value string) ExprID {
	return b.Exprs.NewLiteral(source.Span{}, ExprLitString, b.Strings.Intern(QuoteString(value)))
}

func (b *Builder) SynthMember(base ExprID, name string) ExprID {
	return b.Exprs.NewMember(source.Span{}, base, b.Strings.Intern(name), source.Span{})
}

// SynthLabeled creates `label: value`; an empty label yields a plain element.
func (b *Builder) SynthLabeled(label string, value ExprID) ExprID {
	return b.Exprs.NewLabeled(source.Span{}, b.Strings.Intern(label), source.Span{}, value)
}

func (b *Builder) SynthTuple(elems ...ExprID) ExprID {
	return b.Exprs.NewTuple(source.Span{}, elems)
}

// SynthPlaceholder creates the editor placeholder <#text#>.
func (b *Builder) SynthPlaceholder(text string) ExprID {
	return b.Exprs.NewPlaceholder(source.Span{}, b.Strings.Intern("<#"+text+"#>"))
}

func (b *Builder) SynthVerbatim(text string) ExprID {
	return b.Exprs.NewVerbatim(text)
}

// QuoteString renders s as a double-quoted literal, escaping backslashes,
// quotes and control characters the way the host language expects.
func QuoteString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if r < 0x20 {
				sb.WriteString(`\u{` + strconv.FormatInt(int64(r), 16) + `}`)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
