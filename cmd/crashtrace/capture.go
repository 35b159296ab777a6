package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crashtrace/internal/backtrace"
	"crashtrace/internal/snapshot"
)

var (
	captureOutput string
	captureDepth  int
)

func init() {
	captureCmd.Flags().StringVarP(&captureOutput, "output", "o", "crash.msgpack", "snapshot file to write")
	captureCmd.Flags().IntVar(&captureDepth, "depth", 3, "extra stack frames above the capture point")
}

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture the current stack into a snapshot file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := captureNested(captureDepth)
		if err != nil {
			return err
		}
		if err := snap.WriteFile(captureOutput); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "captured %d frames to %s\n", len(snap.Frames), captureOutput)
		return nil
	},
}

// captureNested snapshots the stack depth frames below a
// BeginShortBacktrace boundary.
func captureNested(depth int) (snap *snapshot.Snapshot, err error) {
	backtrace.BeginShortBacktrace(func() {
		nest(depth, func() {
			snap, err = snapshot.Capture(backtrace.RuntimeWalker(0), backtrace.RuntimeResolver())
		})
	})
	return snap, err
}
