package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"crashtrace/internal/prof"
)

var profileSession *prof.Session

// setupProfiling starts the profiles requested by the persistent flags.
func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	cpu, err := flags.GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	goroutines, err := flags.GetString("goroutine-dump")
	if err != nil {
		return nil, fmt.Errorf("failed to get goroutine-dump flag: %w", err)
	}
	return prof.Start(prof.Options{CPU: cpu, Goroutines: goroutines})
}

// stopProfiling ends the active session, reporting failures to errOut.
func stopProfiling(errOut io.Writer) {
	if err := profileSession.Stop(); err != nil {
		fmt.Fprintf(errOut, "profile: %v\n", err)
	}
	profileSession = nil
}
