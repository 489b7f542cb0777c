package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/saltyorg/git-semver/internal/docs"
	"github.com/saltyorg/git-semver/internal/template"
)

var (
	stampDryRun   bool
	stampCreate   bool
	stampFallback bool
)

var stampCmd = &cobra.Command{
	Use:   "stamp [file...]",
	Short: "Write the version into managed sections of text files",
	Long: `Replace the content between

  <!-- BEGIN <marker> -->
  <!-- END <marker> -->

with the rendered stamp template in every given file, or in stamp.files from
the config when no file is given. Files without the markers are skipped, or
get the section appended with --create. A file with unbalanced markers is
left untouched and fails the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files := args
		if len(files) == 0 {
			files = cfg.Stamp.Files
		}
		if len(files) == 0 {
			return fmt.Errorf("no files to stamp: pass files or set stamp.files")
		}

		c, err := compute(cfg, stampFallback)
		if err != nil {
			return err
		}

		engine := template.New()
		if cfg.Stamp.Template != "" {
			if err := engine.LoadFile(template.StampTemplate, cfg.Stamp.Template); err != nil {
				return fmt.Errorf("loading template: %w", err)
			}
		}
		content, err := engine.Render(template.StampTemplate, c.Data)
		if err != nil {
			return err
		}

		results, err := docs.NewStamper(cfg.Stamp.Marker, docs.StampOptions{DryRun: stampDryRun, Create: stampCreate}).Stamp(cmd.Context(), files, content)
		if err != nil {
			return err
		}

		for _, r := range results {
			switch r.Status {
			case docs.StatusUpdated:
				slog.Info(fmt.Sprintf("✅ %s", r.Path))
			case docs.StatusCreated:
				slog.Info(fmt.Sprintf("➕ %s", r.Path))
			case docs.StatusSkipped:
				slog.Warn(fmt.Sprintf("%s skipped: %s", r.Path, r.Reason))
			default:
				slog.Debug("Unchanged", "path", r.Path)
			}
		}

		counts := docs.CountByStatus(results)
		slog.Info(fmt.Sprintf("\nStamping complete: %d updated, %d created, %d unchanged, %d skipped",
			counts[docs.StatusUpdated], counts[docs.StatusCreated], counts[docs.StatusUnchanged], counts[docs.StatusSkipped]))

		summary := c.summary()
		summary.Stamped = results
		return summary.WriteGitHubSummary()
	},
}

func init() {
	stampCmd.Flags().BoolVar(&stampDryRun, "dry-run", false, "report what would change without writing files")
	stampCmd.Flags().BoolVar(&stampCreate, "create", false, "append the managed section to files that lack it")
	stampCmd.Flags().BoolVar(&stampFallback, "fallback-code", false, "use version code 0 instead of failing when the version cannot be encoded")
	rootCmd.AddCommand(stampCmd)
}
