package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/saltyorg/git-semver/internal/template"
)

var (
	generateOutput   string
	generateStdout   bool
	generateFallback bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the version provider source file",
	Long: `Generate a source file exposing Version, VersionCode, Channel and Commit.

The built-in template produces a Go file in the configured package; a custom
template can be set with generate.template. Go output is gofmt-ed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := compute(cfg, generateFallback)
		if err != nil {
			return err
		}

		engine := template.New()
		if cfg.Generate.Template != "" {
			if err := engine.LoadFile(template.ProviderTemplate, cfg.Generate.Template); err != nil {
				return fmt.Errorf("loading template: %w", err)
			}
		}

		output := cfg.Generate.Output
		if generateOutput != "" {
			output = generateOutput
		}

		if generateStdout {
			content, err := engine.RenderSource(template.ProviderTemplate, output, c.Data)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(content)
			return err
		}

		changed, err := engine.WriteFile(template.ProviderTemplate, output, c.Data)
		if err != nil {
			return err
		}
		if changed {
			slog.Info(fmt.Sprintf("Generated %s (%s)", output, c.Data.Version))
		} else {
			slog.Info(fmt.Sprintf("%s is up to date", output))
		}

		summary := c.summary()
		summary.Generated = output
		return summary.WriteGitHubSummary()
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output path (default: generate.output from config)")
	generateCmd.Flags().BoolVar(&generateStdout, "stdout", false, "print the generated file instead of writing it")
	generateCmd.Flags().BoolVar(&generateFallback, "fallback-code", false, "use version code 0 instead of failing when the version cannot be encoded")
	rootCmd.AddCommand(generateCmd)
}
