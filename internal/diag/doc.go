// Package diag defines the diagnostic model shared by the lexer, the parser,
// the macro host and the CLI.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a printable form such as MAC3002.
//   - ID: domain-qualified stable identifier (MessageID); tooling keys
//     suppressions and fix selection off it, so it never changes once shipped.
//   - Message: human oriented text.
//   - Primary: the source.Span the finding points at.
//   - Notes: optional secondary spans.
//   - Fixes: optional Fix records made of TextEdit values.
//
// Fixes are data only. TextEdit spans are in source coordinates; OldText is
// an optional guard that internal/fix validates before applying an edit.
//
// # Emitting diagnostics
//
// Producers talk to a Reporter. BagReporter stores into a Bag, DedupReporter
// drops exact duplicates. ReportBuilder lets producers chain notes and fixes
// before Emit.
//
// Package diag performs no formatting beyond the short golden form; rendering
// lives in internal/diagfmt and fix application in internal/fix.
package diag
