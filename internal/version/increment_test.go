package version_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/saltyorg/git-semver/internal/version"
)

var _ pflag.Value = (*version.Increment)(nil)

func TestParseIncrement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected version.Increment
	}{
		{"major", version.Major},
		{"MINOR", version.Minor},
		{"Patch", version.Patch},
		{"pre-release", version.PreRelease},
		{"prerelease", version.PreRelease},
		{"PRE_RELEASE", version.PreRelease},
	}

	for _, tt := range tests {
		got, err := version.ParseIncrement(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, got, tt.input)
	}

	_, err := version.ParseIncrement("micro")
	assert.ErrorIs(t, err, version.ErrUnknownIncrement)
}

func TestIncrementApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from       string
		increment  version.Increment
		preRelease string
		expected   string
	}{
		{"1.2.3", version.Major, "", "2.0.0"},
		{"1.2.3-beta.1+meta", version.Major, "alpha", "2.0.0-alpha"},
		{"1.2.3", version.Minor, "beta", "1.3.0-beta"},
		{"1.2.3", version.Patch, "", "1.2.4"},
		{"1.2.3-rc.1", version.Patch, "rc", "1.2.4-rc"},
		{"1.2.3", version.PreRelease, "alpha", "1.2.4-alpha"},
		{"1.2.3-alpha.1", version.PreRelease, "alpha", "1.2.3-alpha.2"},
		{"1.2.3-alpha", version.PreRelease, "alpha", "1.2.3-alpha.2"},
		{"1.2.3-alpha.9.x", version.PreRelease, "alpha", "1.2.3-alpha.10.x"},
		{"1.2.3-alpha.1", version.PreRelease, "beta", "1.2.3-beta"},
		{"1.2.3-alpha.1", version.PreRelease, "", "1.2.3"},
	}

	for _, tt := range tests {
		got := tt.increment.Apply(mustVersion(t, tt.from), tt.preRelease)
		assert.Equal(t, tt.expected, got.String(), "%s %s %q", tt.from, tt.increment, tt.preRelease)
	}
}

func TestIncrementYAML(t *testing.T) {
	t.Parallel()

	var doc struct {
		Increment version.Increment `yaml:"increment"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("increment: patch\n"), &doc))
	assert.Equal(t, version.Patch, doc.Increment)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "increment: patch\n", string(out))
}
