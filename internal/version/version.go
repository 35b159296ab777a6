package version

import "github.com/fatih/color"

// Version information for the crashtrace CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	restColor  = color.New(color.FgGreen)
)

// Colored renders v with the major component highlighted. Colors follow
// fatih/color's global switch, so piped output stays plain.
func Colored(v string) string {
	for i := 0; i < len(v); i++ {
		if v[i] == '.' {
			return majorColor.Sprint(v[:i]) + restColor.Sprint(v[i:])
		}
	}
	return majorColor.Sprint(v)
}
