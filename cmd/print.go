package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saltyorg/git-semver/internal/report"
)

var (
	printFallbackCode bool
	printNameOnly     bool
	printNoRecord     bool
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the next version name and code",
	Long: `Print the next version name and version code of the repository.

When running in GitHub Actions the values are also written as step outputs
(version, version_code, channel, commit, commits_since_tag) and a step summary.
When the ledger is enabled the version is recorded in the build history.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := compute(cfg, printFallbackCode)
		if err != nil {
			return err
		}

		if printNameOnly {
			fmt.Fprintln(cmd.OutOrStdout(), c.Data.Version)
		} else {
			report.New(cmd.OutOrStdout()).Version(c.Data, c.Fallback)
		}

		summary := c.summary()
		if err := summary.WriteOutputs(); err != nil {
			return fmt.Errorf("writing step outputs: %w", err)
		}
		if err := summary.WriteGitHubSummary(); err != nil {
			return fmt.Errorf("writing step summary: %w", err)
		}

		if printNoRecord {
			return nil
		}
		return c.record(cmd.Context(), cfg)
	},
}

func init() {
	printCmd.Flags().BoolVar(&printFallbackCode, "fallback-code", false, "use version code 0 instead of failing when the version cannot be encoded")
	printCmd.Flags().BoolVar(&printNameOnly, "name-only", false, "print only the version name")
	printCmd.Flags().BoolVar(&printNoRecord, "no-record", false, "do not record the version in the ledger")
	rootCmd.AddCommand(printCmd)
}
