package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crashtrace/internal/backtrace"
	"crashtrace/internal/snapshot"
	"crashtrace/internal/trace"
)

var replayMode string

func init() {
	replayCmd.Flags().StringVar(&replayMode, "mode", "", "terse|full (default: from CRASHTRACE_BACKTRACE, terse if unset)")
}

var replayCmd = &cobra.Command{
	Use:   "replay <snapshot>",
	Short: "Print a captured snapshot as a backtrace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := snapshot.ReadFile(args[0])
		if err != nil {
			return err
		}
		mode, err := resolveReplayMode(replayMode, backtrace.Enabled)
		if err != nil {
			return err
		}

		p := snap.Printer(os.Getwd)
		p.Color = activeSettings.Color.useColor(os.Stdout)
		p.Tracer = trace.FromContext(cmd.Context())
		if err := p.Print(cmd.OutOrStdout(), mode); err != nil {
			return fmt.Errorf("replay %s: %w", args[0], err)
		}
		return nil
	},
}

func resolveReplayMode(flag string, enabled func() (backtrace.Mode, bool)) (backtrace.Mode, error) {
	if flag != "" {
		return backtrace.ParseMode(flag)
	}
	if mode, ok := enabled(); ok {
		return mode, nil
	}
	return backtrace.ModeTerse, nil
}
