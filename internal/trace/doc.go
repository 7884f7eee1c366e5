// Package trace records what the spoke driver is doing: which files are being
// generated, how long every stage takes and where a run got stuck.
//
// # Usage
//
//	spoke gen --trace=- --trace-level=phase tests/
//
// # Tracers
//
//   - Nop: no-op tracer when disabled
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fan-out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only the ring dump on failure
//   - LevelPhase: driver and stage boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything
//
// Every stream session carries a run id so traces of parallel invocations can
// be told apart after they were merged.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartFile(ctx, "generate", path)
//	defer span.End("")
//	lex := span.Child(trace.ScopeNode, "lex")
package trace
