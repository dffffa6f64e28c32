package macro

import (
	"fmt"

	"underware/internal/diag"
)

// Message is the closed set of diagnostics an expander may report.
// New variants must be added to Describe as well.
type Message interface {
	isMessage()
}

// MissingParameter: the invocation has no first argument.
type MissingParameter struct{}

// NonTypeLiteral: the first argument is not written as `T.self`.
type NonTypeLiteral struct {
	Expression string // trimmed source text of the argument
}

func (MissingParameter) isMessage() {}
func (NonTypeLiteral) isMessage() {}

// Description is everything the host needs to present a Message.
type Description struct {
	Text     string
	ID       diag.MessageID
	Severity diag.Severity
	Code     diag.Code
}

// Describe resolves a message variant.
func Describe(m Message) Description {
	switch m := m.(type) {
	case MissingParameter:
		return Description{
			Text:     "Missing value for target metatype parameter",
			ID:       diag.MacMissingParameter.MessageID(),
			Severity: diag.SevError,
			Code:     diag.MacMissingParameter,
		}
	case NonTypeLiteral:
		return Description{
			Text:     "Expression \"" + m.Expression + "\" was not a type literal",
			ID:       diag.MacNonTypeLiteral.MessageID(),
			Severity: diag.SevError,
			Code:     diag.MacNonTypeLiteral,
		}
	}
	panic(fmt.Sprintf("macro: unknown message %T", m))
}

// FixItMessage is the closed set of Fix-It titles.
type FixItMessage interface {
	isFixItMessage()
}

// InsertOfParameter titles the Fix-It that adds `of: <#ExampleType.self#>`.
type InsertOfParameter struct{}

func (InsertOfParameter) isFixItMessage() {}

// DescribeFixIt returns the title and identifier of a Fix-It. Fix-Its share
// the identifier of the diagnostic they belong to.
func DescribeFixIt(m FixItMessage) (title string, id diag.MessageID) {
	switch m.(type) {
	case InsertOfParameter:
		return `Insert parameter "of:"`, Describe(MissingParameter{}).ID
	}
	panic(fmt.Sprintf("macro: unknown fix-it message %T", m))
}
