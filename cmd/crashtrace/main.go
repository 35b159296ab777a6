package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"crashtrace/internal/version"
)

// exitCrashed is the status used when a demo goroutine panicked.
const exitCrashed = 101

var rootCmd = &cobra.Command{
	Use:   "crashtrace",
	Short: "Backtrace printing for crashing programs",
	Long: `crashtrace renders goroutine backtraces at failure time.

Set CRASHTRACE_BACKTRACE=1 for terse backtraces or CRASHTRACE_BACKTRACE=full
for complete ones.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd, cfg)
		if err != nil {
			return err
		}
		activeSettings = cfg
		traceCleanup = cleanup

		session, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		profileSession = session
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopProfiling(cmd.ErrOrStderr())
		runTraceCleanup()
	},
}

// main registers subcommands and persistent flags, then executes the root
// command. A crashed demo exits with status 101, any other error with 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(versionCmd)

	registerPersistentFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		stopProfiling(os.Stderr)
		runTraceCleanup()
		var crashed *crashError
		if errors.As(err, &crashed) {
			os.Exit(exitCrashed)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func registerPersistentFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "path to crashtrace.toml (default: search upwards from the working directory)")
	flags.String("color", "", "colorize symbol names (auto|on|off)")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "", "trace level (off|error|call|frame|debug)")
	flags.String("trace-mode", "", "trace storage mode (stream|ring|both)")
	flags.Int("trace-ring-size", 0, "ring buffer size for trace events")
	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("goroutine-dump", "", "write every goroutine's stack to file when the command ends")
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
