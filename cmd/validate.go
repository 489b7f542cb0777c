package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saltyorg/git-semver/internal/docs"
	"github.com/saltyorg/git-semver/internal/repository"
	"github.com/saltyorg/git-semver/internal/version"
	"github.com/saltyorg/git-semver/internal/versioncode"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration, version tags and managed sections",
	Long:  "Validate the configuration file, version tags against the configured encoder, and managed section markers in stamped files.",
}

var validateConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate .git-semver.yml",
	Long:  "Validate the configuration file for required fields and correct format.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// the config was loaded and validated before the command ran
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Config is valid (channel %s, increment %s, min version %s, encoder %s)\n",
			cfg.Channel, cfg.DefaultIncrement, cfg.MinVersion, cfg.VersionCode.Generator)
		return nil
	},
}

var validateTagCmd = &cobra.Command{
	Use:   "tag <tag>...",
	Short: "Check that tags are valid versions the encoder accepts",
	Long:  "Check that tags are valid versions the encoder accepts. Tags must carry the configured tag_prefix.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encoder, err := cfg.Encoder()
		if err != nil {
			return err
		}

		invalid := 0
		for _, tag := range args {
			if err := validateTag(tag, cfg.TagPrefix, encoder); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "❌ %s: %v\n", tag, err)
				invalid++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s\n", tag)
		}

		if invalid > 0 {
			return fmt.Errorf("found %d invalid tags", invalid)
		}
		return nil
	},
}

func validateTag(tag, prefix string, encoder versioncode.Encoder) error {
	text, ok := repository.TrimTagPrefix(tag, prefix)
	if !ok {
		return fmt.Errorf("missing tag prefix %q", prefix)
	}
	v, err := version.ParseTag(text)
	if err != nil {
		return err
	}
	_, err = encoder.Encode(v)
	return err
}

var validateSectionsCmd = &cobra.Command{
	Use:   "sections [file...]",
	Short: "Check that managed section markers are balanced",
	Long: `Check every BEGIN and END marker in the given files, or in stamp.files from
the config when no file is given. Stamping refuses files that fail this check.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files := args
		if len(files) == 0 {
			files = cfg.Stamp.Files
		}
		if len(files) == 0 {
			return fmt.Errorf("no files to check: pass files or set stamp.files")
		}

		invalid := 0
		for _, path := range files {
			doc, err := docs.LoadDocument(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			problems := docs.ValidateManagedSections(doc.Content)
			if len(problems) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "❌ %s: %s\n", path, strings.Join(problems, "; "))
				invalid++
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s\n", path)
		}

		if invalid > 0 {
			return fmt.Errorf("found %d files with malformed sections", invalid)
		}
		return nil
	},
}

func init() {
	validateCmd.AddCommand(validateConfigCmd)
	validateCmd.AddCommand(validateTagCmd)
	validateCmd.AddCommand(validateSectionsCmd)
	rootCmd.AddCommand(validateCmd)
}
