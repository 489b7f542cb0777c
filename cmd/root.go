package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/saltyorg/git-semver/internal/channel"
	"github.com/saltyorg/git-semver/internal/config"
	"github.com/saltyorg/git-semver/internal/logging"
	"github.com/saltyorg/git-semver/internal/version"
)

var (
	cfgFile  string
	verbose  bool
	logFile  string
	repoPath string

	channelFlag   = channel.Stable
	incrementFlag = version.Minor
	minVersion    string
	longHash      bool
	tagPrefix     string

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "git-semver",
	Short: "Semantic versions and build codes from git history",
	Long: `git-semver derives the next semantic version of a project from its git tags
and the commits made since the latest one.

It performs the following core functions:
  - Version name computation for alpha, beta, rc and stable channels
  - Monotonic integer version codes (Android encoding)
  - Version provider source file generation
  - Version stamping of managed sections in text files
  - GitHub Actions step outputs and summaries`,
	SilenceUsage: true, // Don't print usage on errors unrelated to flags
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd != versionCmd && cmd.Name() != "help" {
			loaded, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		file := logFile
		if file == "" && cfg != nil {
			file = cfg.Log.File
		}
		_, err := logging.Setup(logging.Options{
			Verbose: verbose,
			File:    file,
			Stdout:  cmd.OutOrStdout(),
			Stderr:  cmd.ErrOrStderr(),
		})
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run executes the root command and closes the log file whether or not the
// command succeeded.
func run() error {
	err := rootCmd.Execute()
	if err != nil {
		slog.Debug("Command failed", "error", err)
	}
	if closeErr := logging.Close(); err == nil {
		err = closeErr
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write debug logs to this file")
	rootCmd.PersistentFlags().StringVarP(&repoPath, "repo", "C", ".", "path inside the git repository")

	rootCmd.PersistentFlags().Var(&channelFlag, "channel", "release channel (alpha, beta, rc, stable)")
	rootCmd.PersistentFlags().Var(&incrementFlag, "increment", "default increment (major, minor, patch, pre-release)")
	rootCmd.PersistentFlags().StringVar(&minVersion, "min-version", "", "lowest version ever produced")
	rootCmd.PersistentFlags().BoolVar(&longHash, "long-hash", false, "use the full commit hash in build metadata")
	rootCmd.PersistentFlags().StringVar(&tagPrefix, "tag-prefix", "", "prefix version tags carry (e.g. v)")
}

// loadConfig reads the config file and applies flag overrides. A missing
// default config file yields defaults; an explicitly named one must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		loaded *config.Config
		err    error
	)
	if cmd.Flags().Changed("config") {
		loaded, err = config.Load(cfgFile)
	} else {
		loaded, err = config.LoadOrDefault(cfgFile)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("channel") {
		loaded.Channel = channelFlag
	}
	if flags.Changed("increment") {
		loaded.DefaultIncrement = incrementFlag
	}
	if flags.Changed("min-version") {
		loaded.MinVersion = minVersion
	}
	if flags.Changed("long-hash") {
		loaded.ShortHash = !longHash
	}
	if flags.Changed("tag-prefix") {
		loaded.TagPrefix = tagPrefix
	}

	if err := loaded.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return loaded, nil
}
