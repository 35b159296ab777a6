package main

import (
	"fmt"
	"io"
	"os"

	"crashtrace/internal/backtrace"
	"crashtrace/internal/trace"
)

// crashError reports a panic that was recovered and rendered.
type crashError struct {
	value any
}

func (e *crashError) Error() string {
	return fmt.Sprintf("panicked: %v", e.value)
}

// crashReporter runs user code and renders its panics the way a language
// runtime's default panic handler would.
type crashReporter struct {
	out     io.Writer
	enabled func() (backtrace.Mode, bool)
	printer *backtrace.Printer
}

// newCrashReporter reports to stderr, consulting CRASHTRACE_BACKTRACE.
func newCrashReporter(s settings, tracer trace.Tracer) *crashReporter {
	// report and the deferred recover sit above the panicking frames.
	p := backtrace.NewRuntimePrinter(2)
	p.Color = s.Color.useColor(os.Stderr)
	p.Tracer = tracer
	return &crashReporter{out: os.Stderr, enabled: backtrace.Enabled, printer: p}
}

// run calls fn under BeginShortBacktrace. A panic is reported and returned
// as a *crashError; a failure to write the report takes precedence.
func (r *crashReporter) run(fn func()) (err error) {
	defer func() {
		if v := recover(); v != nil {
			if werr := r.report(v); werr != nil {
				err = werr
				return
			}
			err = &crashError{value: v}
		}
	}()
	backtrace.BeginShortBacktrace(fn)
	return nil
}

func (r *crashReporter) report(v any) error {
	if _, err := fmt.Fprintf(r.out, "panic: %v\n", v); err != nil {
		return err
	}
	mode, ok := r.enabled()
	if !ok {
		_, err := fmt.Fprintf(r.out, "note: run with `%s=1` environment variable to display a backtrace\n", backtrace.EnvVar)
		return err
	}
	return r.printer.Print(r.out, mode)
}

// nest calls fn under depth extra stack frames.
//
//go:noinline
func nest(depth int, fn func()) {
	if depth <= 0 {
		fn()
		return
	}
	nest(depth-1, fn)
}
