package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltyorg/git-semver/internal/channel"
	"github.com/saltyorg/git-semver/internal/config"
	"github.com/saltyorg/git-semver/internal/version"
	"github.com/saltyorg/git-semver/internal/versioncode"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, channel.Stable, opts.Channel)
	assert.Equal(t, version.Minor, opts.Increment)
	assert.Equal(t, "0.1.0", opts.MinVersion.String())
	assert.True(t, opts.ShortHash)

	encoder, err := cfg.Encoder()
	require.NoError(t, err)
	assert.Equal(t, versioncode.Android().Name, encoder.Name)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
channel: beta
default_increment: patch
min_version: 1.0.0
short_hash: false
tag_prefix: v
version_code:
  generator: none
stamp:
  files:
    - README.md
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, channel.Beta, cfg.Channel)
	assert.Equal(t, version.Patch, cfg.DefaultIncrement)
	assert.Equal(t, "1.0.0", cfg.MinVersion)
	assert.False(t, cfg.ShortHash)
	assert.Equal(t, "v", cfg.TagPrefix)
	assert.Equal(t, "none", cfg.VersionCode.Generator)
	assert.Equal(t, []string{"README.md"}, cfg.Stamp.Files)

	// untouched sections keep their defaults
	assert.Equal(t, "buildinfo", cfg.Generate.Package)
	assert.Equal(t, "GIT-SEMVER VERSION", cfg.Stamp.Marker)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"channel":     "channel: nightly\n",
		"increment":   "default_increment: micro\n",
		"min version": "min_version: v1\n",
		"generator":   "version_code:\n  generator: ios\n",
		"package":     "generate:\n  package: \"\"\n",
		"marker":      "stamp:\n  marker: \"<bad>\"\n",
		"ledger":      "ledger:\n  enabled: true\n  path: \"\"\n",
		"template":    "generate:\n  template: /does/not/exist.tmpl\n",
	}

	for name, content := range tests {
		_, err := config.Load(writeConfig(t, content))
		assert.Error(t, err, name)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadOrDefault(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
