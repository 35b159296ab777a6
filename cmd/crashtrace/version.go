package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"crashtrace/internal/version"
)

type versionInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var (
	versionFormat   string
	versionShowFull bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "include commit hash and build date")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show crashtrace build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := collectVersionInfo()
		switch strings.ToLower(versionFormat) {
		case "pretty":
			renderVersionPretty(cmd.OutOrStdout(), info, versionShowFull)
			return nil
		case "json":
			return renderVersionJSON(cmd.OutOrStdout(), info, versionShowFull)
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}

func collectVersionInfo() versionInfo {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	return versionInfo{
		Version:   v,
		GitCommit: strings.TrimSpace(version.GitCommit),
		BuildDate: strings.TrimSpace(version.BuildDate),
	}
}

func renderVersionPretty(out io.Writer, info versionInfo, full bool) {
	fmt.Fprintf(out, "crashtrace %s\n", version.Colored(info.Version))
	if full {
		fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(info.GitCommit))
		fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(info.BuildDate))
	}
}

func renderVersionJSON(out io.Writer, info versionInfo, full bool) error {
	payload := versionPayload{Tool: "crashtrace", Version: info.Version}
	if full {
		payload.GitCommit = valueOrUnknown(info.GitCommit)
		payload.BuildDate = valueOrUnknown(info.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
