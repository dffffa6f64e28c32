package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwSelf represents the 'self' keyword.
	KwSelf // self
	// KwSelfType represents the 'Self' keyword.
	KwSelfType // Self
	// KwSuper represents the 'super' keyword.
	KwSuper // super
	// KwInit represents the 'init' keyword.
	KwInit // init
	// KwTry represents the 'try' keyword.
	KwTry // try
	// KwAwait represents the 'await' keyword.
	KwAwait // await
	// KwAs represents the 'as' keyword.
	KwAs // as
	// KwIs represents the 'is' keyword.
	KwIs // is
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwAny represents the 'any' keyword.
	KwAny // any
	// KwSome represents the 'some' keyword.
	KwSome  // some
	KwTrue  // true
	KwFalse // false
	KwNil   // nil

	// IntLit represents the integer literal token.
	IntLit
	// FloatLit represents the float literal token.
	FloatLit
	// StringLit represents a string literal ("...", """...""", #"..."#).
	StringLit
	// Placeholder represents an editor placeholder <#...#>.
	Placeholder

	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	LBrace    // {
	RBrace    // }
	Comma     // ,
	Colon     // :
	Semicolon // ;
	Dot       // .
	Pound     // #
	At        // @
	Backslash // \
	Lt        // <
	Gt        // >
	Question  // ?
	Bang      // !
	Amp       // &
	// Op is any other single operator character (+ - * / % = | ^ ~).
	Op
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	KwSelf:      "self",
	KwSelfType:  "Self",
	KwSuper:     "super",
	KwInit:      "init",
	KwTry:       "try",
	KwAwait:     "await",
	KwAs:        "as",
	KwIs:        "is",
	KwIn:        "in",
	KwAny:       "any",
	KwSome:      "some",
	KwTrue:      "true",
	KwFalse:     "false",
	KwNil:       "nil",
	IntLit:      "IntLit",
	FloatLit:    "FloatLit",
	StringLit:   "StringLit",
	Placeholder: "Placeholder",
	LParen:      "(",
	RParen:      ")",
	LBracket:    "[",
	RBracket:    "]",
	LBrace:      "{",
	RBrace:      "}",
	Comma:       ",",
	Colon:       ":",
	Semicolon:   ";",
	Dot:         ".",
	Pound:       "#",
	At:          "@",
	Backslash:   "\\",
	Lt:          "<",
	Gt:          ">",
	Question:    "?",
	Bang:        "!",
	Amp:         "&",
	Op:          "Op",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
