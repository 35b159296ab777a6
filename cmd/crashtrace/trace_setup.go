package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crashtrace/internal/trace"
)

var traceCleanup func()

func runTraceCleanup() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
}

// setupTracing builds the tracer described by s and attaches it to the
// command context. It returns a cleanup function.
func setupTracing(cmd *cobra.Command, s settings) (func(), error) {
	level, err := trace.ParseLevel(s.Trace.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}

	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(s.Trace.Mode)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	// Without an output there is nowhere to stream to.
	if s.Trace.Output == "" && mode != trace.ModeRing {
		mode = trace.ModeRing
	}
	format, err := trace.ParseFormat(s.Trace.Format)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: s.Trace.Output,
		RingSize:   s.Trace.RingSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}
