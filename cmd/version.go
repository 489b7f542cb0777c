package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saltyorg/git-semver/internal/runtime"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print the version, git commit, and build time of git-semver.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), runtime.VersionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
