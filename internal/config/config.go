package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/saltyorg/git-semver/internal/channel"
	"github.com/saltyorg/git-semver/internal/version"
	"github.com/saltyorg/git-semver/internal/versioncode"
)

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = ".git-semver.yml"

// Config represents the complete configuration for version computation.
type Config struct {
	Channel          channel.Channel   `yaml:"channel"`
	DefaultIncrement version.Increment `yaml:"default_increment"`
	MinVersion       string            `yaml:"min_version"`
	ShortHash        bool              `yaml:"short_hash"`
	TagPrefix        string            `yaml:"tag_prefix"`
	VersionCode      VersionCodeConfig `yaml:"version_code"`
	Generate         GenerateConfig    `yaml:"generate"`
	Stamp            StampConfig       `yaml:"stamp"`
	Ledger           LedgerConfig      `yaml:"ledger"`
	Log              LogConfig         `yaml:"log"`
}

// VersionCodeConfig selects the version code encoder.
type VersionCodeConfig struct {
	Generator string `yaml:"generator"`
}

// GenerateConfig configures the version provider source file.
type GenerateConfig struct {
	Output   string `yaml:"output"`
	Package  string `yaml:"package"`
	Template string `yaml:"template,omitempty"` // custom template path, empty for the built-in one
}

// StampConfig configures managed-section stamping of text files.
type StampConfig struct {
	Marker   string   `yaml:"marker"`
	Files    []string `yaml:"files"`
	Template string   `yaml:"template,omitempty"`
}

// LedgerConfig configures the build history database.
type LedgerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig configures the rotating log file.
type LogConfig struct {
	File string `yaml:"file"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Channel:          channel.Stable,
		DefaultIncrement: version.Minor,
		MinVersion:       version.MinVersion().String(),
		ShortHash:        true,
		VersionCode:      VersionCodeConfig{Generator: "android"},
		Generate: GenerateConfig{
			Output:  filepath.Join("internal", "buildinfo", "version_gen.go"),
			Package: "buildinfo",
		},
		Stamp: StampConfig{
			Marker: "GIT-SEMVER VERSION",
		},
		Ledger: LedgerConfig{
			Path: "~/.git-semver/history.db",
		},
	}
}

// Load reads and parses a config file from the given path. Fields missing from
// the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks the configuration for required fields and consistency.
func (c *Config) Validate() error {
	if _, err := c.MinSemver(); err != nil {
		return err
	}
	if _, err := c.Encoder(); err != nil {
		return fmt.Errorf("version_code.generator: %w", err)
	}
	if c.Generate.Package == "" {
		return fmt.Errorf("generate.package is required")
	}
	if strings.ContainsAny(c.Stamp.Marker, "<>") {
		return fmt.Errorf("stamp.marker must not contain '<' or '>': %q", c.Stamp.Marker)
	}
	if c.Ledger.Enabled && strings.TrimSpace(c.Ledger.Path) == "" {
		return fmt.Errorf("ledger.path is required when the ledger is enabled")
	}
	if c.Generate.Template != "" {
		if err := validateFile(c.Generate.Template, "generate.template"); err != nil {
			return err
		}
	}
	if c.Stamp.Template != "" {
		if err := validateFile(c.Stamp.Template, "stamp.template"); err != nil {
			return err
		}
	}
	return nil
}

// validateFile checks that a path exists and is a regular file.
func validateFile(path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s does not exist: %s", name, path)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory: %s", name, path)
	}
	return nil
}

// MinSemver parses min_version.
func (c *Config) MinSemver() (*semver.Version, error) {
	v, err := semver.StrictNewVersion(c.MinVersion)
	if err != nil {
		return nil, fmt.Errorf("min_version %q is not a semantic version: %w", c.MinVersion, err)
	}
	return v, nil
}

// Encoder returns the configured version code encoder.
func (c *Config) Encoder() (versioncode.Encoder, error) {
	return versioncode.Lookup(c.VersionCode.Generator)
}

// Options returns the version computation options described by the config.
func (c *Config) Options() (version.Options, error) {
	minVersion, err := c.MinSemver()
	if err != nil {
		return version.Options{}, err
	}
	return version.Options{
		Channel:    c.Channel,
		Increment:  c.DefaultIncrement,
		MinVersion: minVersion,
		ShortHash:  c.ShortHash,
	}, nil
}
