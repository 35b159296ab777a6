// Package backtrace renders the current goroutine's call stack at failure
// time.
//
// A print call walks raw frames innermost first, resolves each one to zero
// or more symbol records (inlined calls fan out), formats them and writes
// them to the caller's writer. Two modes exist:
//
//   - ModeTerse stops at the BeginShortBacktrace frame, caps the walk at
//     MaxTerseFrames raw frames, rewrites paths under the working directory
//     as ./relative and ends with a note on how to get the full output.
//   - ModeFull prints every frame with its instruction pointer and
//     absolute paths.
//
// Whether to print at all is decided by Enabled, which reads the
// CRASHTRACE_BACKTRACE environment variable once per process.
//
// All print calls in the process are serialized by one lock so that
// concurrent panics produce contiguous, readable blocks.
package backtrace
