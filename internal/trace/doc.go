// Package trace provides the diagnostics channel of crashtrace.
//
// Backtrace output goes to the caller's writer; trace events describe how a
// print call went (which mode, how many frames were walked, why the walk
// stopped) and go somewhere else entirely, usually stderr or a ring buffer
// that is dumped after the crash has been reported.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	crashtrace demo --trace=- --trace-level=frame
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumped after a crash
//   - MultiTracer: combines multiple tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only crash dumps
//   - LevelCall: one span per print call
//   - LevelFrame: per-frame decisions (cap, sentinel, unresolved frames)
//   - LevelDebug: everything including every symbol record
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeCall, "print", 0)
//	defer span.End("")
package trace
