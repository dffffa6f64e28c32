// Package trace records what the expansion pipeline is doing.
//
// Enable it from the command line:
//
//	underware expand --trace=- --trace-level=detail Sources/
//
// Tracers:
//
//   - Nop: used when tracing is off
//   - StreamTracer: writes each event as it happens
//   - RingTracer: keeps the last N events for a dump on failure
//   - MultiTracer: fans out to several tracers
//
// Scopes, coarse to fine: ScopeDriver (a whole command), ScopePass (lex,
// parse, expand, splice), ScopeFile (one source file) and ScopeNode (one
// macro invocation). The level decides the finest scope that is emitted.
//
// The tracer and the current span travel in a context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file", trace.CurrentSpan(ctx).SpanID)
//	defer span.End("")
package trace
