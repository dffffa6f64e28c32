package diag

import (
	"fmt"
)

// Domain qualifies every stable diagnostic identifier emitted by underware.
// External tooling keys suppressions off Domain + slug, so neither may change.
const Domain = "underware"

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedPlaceholder  Code = 1005

	// Парсерные
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynUnclosedParen    Code = 2002
	SynUnclosedBracket  Code = 2003
	SynUnclosedBrace    Code = 2004
	SynExpectMemberName Code = 2005
	SynExpectExpression Code = 2006
	SynExpectMacroName  Code = 2007

	// Раскрытие макросов
	MacInfo             Code = 3000
	MacMissingParameter Code = 3001 // macro invoked without its first argument
	MacNonTypeLiteral   Code = 3002 // first argument is not `T.self`
	MacExpansionFailed  Code = 3003 // expander returned an error that is not a diagnostic

	// Ошибки I/O
	IOLoadFileError Code = 4001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Invalid number literal",
		LexUnterminatedPlaceholder:  "Unterminated editor placeholder",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBracket:          "Unclosed bracket",
		SynUnclosedBrace:            "Unclosed brace",
		SynExpectMemberName:         "Expected member name after '.'",
		SynExpectExpression:         "Expected expression",
		SynExpectMacroName:          "Expected macro name after '#'",
		MacInfo:                     "Macro expansion information",
		MacMissingParameter:         "Missing value for target metatype parameter",
		MacNonTypeLiteral:           "Expression was not a type literal",
		MacExpansionFailed:          "Macro expansion failed",
		IOLoadFileError:             "I/O load file error",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}

	// codeSlug - стабильные короткие идентификаторы внутри Domain.
	codeSlug = map[Code]string{
		UnknownCode:                 "unknown",
		LexUnknownChar:              "unknown-char",
		LexUnterminatedString:       "unterminated-string",
		LexUnterminatedBlockComment: "unterminated-block-comment",
		LexBadNumber:                "bad-number",
		LexUnterminatedPlaceholder:  "unterminated-placeholder",
		SynUnexpectedToken:          "unexpected-token",
		SynUnclosedParen:            "unclosed-paren",
		SynUnclosedBracket:          "unclosed-bracket",
		SynUnclosedBrace:            "unclosed-brace",
		SynExpectMemberName:         "expect-member-name",
		SynExpectExpression:         "expect-expression",
		SynExpectMacroName:          "expect-macro-name",
		MacMissingParameter:         "missing-parameter",
		MacNonTypeLiteral:           "non-type-literal",
		MacExpansionFailed:          "expansion-failed",
		IOLoadFileError:             "load-file",
		ObsTimings:                  "timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("MAC%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// MessageID returns the domain-qualified stable identifier of the code.
// Codes without a registered slug fall back to their numeric ID.
func (c Code) MessageID() MessageID {
	slug, ok := codeSlug[c]
	if !ok {
		slug = c.ID()
	}
	return MessageID{Domain: Domain, ID: slug}
}

// MessageID is a stable, domain-qualified diagnostic identifier.
type MessageID struct {
	Domain string
	ID     string
}

func (m MessageID) String() string {
	if m.Domain == "" {
		return m.ID
	}
	return m.Domain + "." + m.ID
}

// IsZero reports whether the identifier is unset.
func (m MessageID) IsZero() bool {
	return m.Domain == "" && m.ID == ""
}
