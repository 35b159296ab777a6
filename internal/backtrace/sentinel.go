package backtrace

// SentinelMarker is contained in the symbol name of BeginShortBacktrace.
// Terse output stops at the first symbol carrying it: everything below
// belongs to the runtime that started the user code.
const SentinelMarker = "crashtrace/internal/backtrace.BeginShortBacktrace"

// BeginShortBacktrace runs f. Runtimes wrap user entry points with it so
// that terse backtraces end at the boundary between user and runtime
// frames.
//
//go:noinline
func BeginShortBacktrace(f func()) {
	f()
}
