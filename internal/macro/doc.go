// Package macro implements freestanding expression macros over the ast
// package: the Expander contract, the diagnostic catalog they report from,
// an explicit Registry, and the built-in `#name(of:)` expander.
//
// Expanders are pure. They read the invocation tree, never mutate it, and
// allocate a fresh synthetic ast.Builder for every result, so one Registry
// can serve any number of goroutines without locking. Failures are returned
// as *DiagnosticsError values carrying data, never as panics; Run converts a
// panicking third-party expander into an ordinary error.
package macro
