// Package token defines lexical token kinds and trivia for the underware
// macro host.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Whitespace and comments never appear in the token stream; they are
//     attached to the following token as Leading trivia.
//   - Operators are lexed one character per token. The parser never needs
//     operator precedence, so '->', '==' etc. stay as runs of Op tokens.
//   - `self`, `Self` and other keywords keep their spelling in Text; escaped
//     identifiers (`self` in backticks) are Ident tokens whose Text includes
//     the backticks.
package token
