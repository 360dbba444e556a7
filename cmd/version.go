package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/abhisek/aquacheck/internal/selfupdate"
)

// version is set with -ldflags "-X github.com/abhisek/aquacheck/cmd.version=v1.2.3".
var version = "(devel)"

// currentVersion prefers the linked-in version, then the module version
// `go install pkg@v1.2.3` records.
func currentVersion() string {
	if version != "(devel)" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && !selfupdate.IsDevBuild(bi.Main.Version) {
		return bi.Main.Version
	}
	return version
}

// buildDetails is the commit and toolchain shown by `version`.
func buildDetails() string {
	commit, dirty := "unknown", ""
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				commit = s.Value
				if len(commit) > 12 {
					commit = commit[:12]
				}
			case "vcs.modified":
				if s.Value == "true" {
					dirty = "-dirty"
				}
			}
		}
	}
	return fmt.Sprintf("commit %s%s, %s %s/%s", commit, dirty, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Fprintln(out, currentVersion())
			return
		}
		fmt.Fprintf(out, "aquacheck %s (%s)\n", currentVersion(), buildDetails())
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print only the version tag")
}
