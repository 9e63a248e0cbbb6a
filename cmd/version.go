package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const devVersion = "(devel)"

// version is stamped by the release build with -ldflags "-X".
var version = devVersion

// currentVersion prefers the stamped version and falls back to the module
// version recorded by `go install module@vX`.
func currentVersion() string {
	if version != devVersion {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return devVersion
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "syntaxiz", currentVersion())
	},
}
