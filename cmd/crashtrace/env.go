package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"crashtrace/internal/backtrace"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show how CRASHTRACE_BACKTRACE is interpreted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderEnv(cmd.OutOrStdout(), backtrace.Default, os.LookupEnv)
	},
}

func renderEnv(out io.Writer, e *backtrace.Enablement, lookup func(string) (string, bool)) error {
	raw := "(unset)"
	if v, ok := lookup(backtrace.EnvVar); ok {
		raw = fmt.Sprintf("%q", v)
	}
	decision := "disabled"
	if mode, ok := e.Enabled(); ok {
		decision = mode.String()
	}
	_, err := fmt.Fprintf(out, "%s=%s\nbacktraces: %s\nenv supported: %t\n",
		backtrace.EnvVar, raw, decision, !backtrace.EnvUnsupported)
	return err
}
