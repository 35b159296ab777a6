package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"crashtrace/internal/trace"
)

var (
	demoGoroutines int
	demoDepth      int
	demoMessage    string
)

func init() {
	demoCmd.Flags().IntVar(&demoGoroutines, "goroutines", 1, "number of goroutines that panic at once")
	demoCmd.Flags().IntVar(&demoDepth, "depth", 3, "extra stack frames between the entry point and the panic")
	demoCmd.Flags().StringVar(&demoMessage, "message", "explicit panic", "panic message")
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Panic on purpose and report it",
	Long: `Runs user code that panics and reports it like a runtime would.

With --goroutines N, N goroutines panic concurrently; their backtraces
still come out as contiguous blocks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if demoGoroutines < 1 {
			return fmt.Errorf("--goroutines must be at least 1")
		}
		tracer := trace.FromContext(cmd.Context())
		reporter := newCrashReporter(activeSettings, tracer)

		var g errgroup.Group
		for i := 0; i < demoGoroutines; i++ {
			i := i
			g.Go(func() error {
				return reporter.run(func() {
					nest(demoDepth, func() {
						panic(fmt.Sprintf("%s (goroutine %d)", demoMessage, i))
					})
				})
			})
		}
		err := g.Wait()

		if ring := trace.RingOf(tracer); ring != nil {
			fmt.Fprintln(os.Stderr, "trace dump:")
			if derr := ring.Dump(os.Stderr, trace.FormatText); derr != nil {
				return errors.Join(err, derr)
			}
		}
		return err
	},
}
