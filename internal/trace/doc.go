// Package trace is the operational log of bibfmt: leveled span and point
// events describing what the driver and the engine are doing.
//
// # Usage
//
//	bibfmt fmt --trace=- --trace-level=detail refs.bib
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to a file or stderr (text or NDJSON)
//   - RingTracer: circular buffer dumped on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Events carry a Scope (driver run, file, pipeline stage, entry). The Level
// decides which scopes are emitted:
//
//   - LevelError: only spans ended with Span.Fail
//   - LevelPhase: driver and per-file spans
//   - LevelDetail: plus pipeline stages (parse, dedupe, sort, align, render)
//   - LevelDebug: plus one entry-scope event per reported diagnostic
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx = trace.WithFile(ctx, "refs.bib")
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "file")
//	defer span.End("")
//
// Spans started from ctx become children of the current span and inherit
// its file, so events of files formatted in parallel stay attributable.
package trace
