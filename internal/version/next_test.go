package version_test

import (
	"fmt"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltyorg/git-semver/internal/channel"
	"github.com/saltyorg/git-semver/internal/version"
)

func mustVersion(t *testing.T, s string) *semver.Version {
	t.Helper()
	v, err := semver.StrictNewVersion(s)
	require.NoError(t, err)
	return v
}

func commit(t *testing.T, n uint, hash string) version.CommitInfo {
	t.Helper()
	info, err := version.NewCommitInfo(n, hash)
	require.NoError(t, err)
	return info
}

func TestComputeNext(t *testing.T) {
	t.Parallel()

	minimum := version.MinVersion().String()

	tests := []struct {
		tag      string
		info     version.CommitInfo
		channel  channel.Channel
		expected string
		min      string
	}{
		{minimum, version.Latest, channel.Stable, minimum, minimum},
		{"2.0.0", version.Latest, channel.Stable, "2.0.0", "2.0.0"},
		{"2.0.0-alpha.1", version.Latest, channel.Stable, "2.0.0-alpha.1", "2.0.0"},
		{minimum, commit(t, 5, "def456"), channel.Stable, minimum + "+dev.5.def456", minimum},
		{"1.0.0", version.Latest, channel.Stable, "1.0.0", minimum},
		{"1.0.0", commit(t, 5, "def456"), channel.Stable, "1.1.0+dev.5.def456", minimum},
		{"1.0.0", commit(t, 5, "def456"), channel.Alpha, "1.1.0-alpha+dev.5.def456", minimum},
		{"1.0.0-beta.1", version.Latest, channel.Beta, "1.0.0-beta.1", minimum},
		{"1.0.0-beta.1", commit(t, 3, "jkl012"), channel.Beta, "1.0.0-beta.2+dev.3.jkl012", minimum},
		{"1.0.0-beta.1", commit(t, 3, "jkl012"), channel.Stable, "1.0.0+dev.3.jkl012", minimum},
		{"1.0.0-beta.1", commit(t, 3, "jkl012"), channel.RC, "1.0.0-rc+dev.3.jkl012", minimum},
		{"1.0.0-beta.1", commit(t, 3, "jkl012"), channel.Alpha, "1.1.0-alpha+dev.3.jkl012", minimum},
		{minimum, commit(t, 2, "abc"), channel.Beta, minimum + "-beta+dev.2.abc", minimum},
		{"1.0.0-rc", commit(t, 1, "h"), channel.RC, "1.0.0-rc.2+dev.1.h", minimum},
		{"1.0.0-alpha.3", commit(t, 1, "h"), channel.Beta, "1.0.0-beta+dev.1.h", minimum},
		{"1.0.0-alpha.3", commit(t, 1, "h"), channel.Alpha, "1.0.0-alpha.4+dev.1.h", minimum},
		{"1.0.0", commit(t, 1, "h"), channel.Beta, "1.1.0-beta+dev.1.h", minimum},
		{"1.0.0-rc.2", commit(t, 4, "h"), channel.Beta, "1.1.0-beta+dev.4.h", minimum},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("%s/%d/%s", tt.tag, tt.info.CommitsSinceTag, tt.channel)
		t.Run(name, func(t *testing.T) {
			got, err := version.ComputeNext(tt.tag, tt.info, tt.channel, version.Minor, mustVersion(t, tt.min))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestComputeNextFloor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag      string
		info     version.CommitInfo
		channel  channel.Channel
		min      string
		expected string
	}{
		{"0.0.5", version.Latest, channel.Stable, "0.1.0", "0.1.0"},
		{"0.0.5", commit(t, 1, "abc"), channel.Alpha, "0.1.0", "0.1.0-alpha+dev.1.abc"},
		{"1.0.0-alpha.1", version.Latest, channel.Stable, "1.0.0", "1.0.0-alpha.1"},
		{"1.0.0-alpha", version.Latest, channel.Stable, "1.0.0", "1.0.0-alpha"},
		{"1.0.0-0", version.Latest, channel.Stable, "1.0.0", "1.0.0"},
		{"0.9.9", version.Latest, channel.Stable, "1.0.0", "1.0.0"},
		{"1.0.1", version.Latest, channel.Stable, "1.0.0", "1.0.1"},
	}

	for _, tt := range tests {
		got, err := version.ComputeNext(tt.tag, tt.info, tt.channel, version.Minor, mustVersion(t, tt.min))
		require.NoError(t, err, tt.tag)
		assert.Equal(t, tt.expected, got.String(), "tag %s floor %s", tt.tag, tt.min)
	}
}

func TestComputeNextIncrements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		increment version.Increment
		expected  string
	}{
		{version.Major, "2.0.0+dev.1.h"},
		{version.Minor, "1.3.0+dev.1.h"},
		{version.Patch, "1.2.4+dev.1.h"},
		{version.PreRelease, "1.2.4+dev.1.h"},
	}

	for _, tt := range tests {
		got, err := version.ComputeNext("1.2.3", commit(t, 1, "h"), channel.Stable, tt.increment, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got.String(), tt.increment.String())
	}
}

func TestComputeNextIdempotentOnTag(t *testing.T) {
	t.Parallel()

	tags := []string{"0.1.0", "1.0.0", "1.0.0-beta.1", "2.3.4-rc.7+build.5", "10.20.30"}
	increments := []version.Increment{version.Major, version.Minor, version.Patch, version.PreRelease}

	for _, tag := range tags {
		for _, c := range channel.All() {
			for _, inc := range increments {
				got, err := version.ComputeNext(tag, version.Latest, c, inc, version.MinVersion())
				require.NoError(t, err)
				assert.Equal(t, tag, got.String())
			}
		}
	}
}

func TestComputeNextMetadataEncodesDistance(t *testing.T) {
	t.Parallel()

	for k := uint(1); k <= 40; k++ {
		for _, c := range channel.All() {
			got, err := version.ComputeNext("1.4.0-beta.2", commit(t, k, "0a1b2c3"), c, version.Minor, nil)
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("dev.%d.0a1b2c3", k), got.Metadata())
		}
	}
}

func TestComputeNextStableNeverCarriesPreRelease(t *testing.T) {
	t.Parallel()

	for _, tag := range []string{"0.1.0", "1.0.0", "1.0.0-alpha.2", "1.0.0-rc.1"} {
		got, err := version.ComputeNext(tag, commit(t, 2, "ff"), channel.Stable, version.Minor, nil)
		require.NoError(t, err)
		assert.Empty(t, got.Prerelease(), tag)
	}
}

func TestComputeNextMalformedTag(t *testing.T) {
	t.Parallel()

	for _, tag := range []string{"v1.0.0", "a.b.c", "1.0", ""} {
		_, err := version.ComputeNext(tag, version.Latest, channel.Stable, version.Minor, nil)
		require.Error(t, err, tag)
		assert.ErrorIs(t, err, version.ErrMalformedTag, tag)

		var malformed *version.MalformedTagError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, tag, malformed.Tag)
	}
}

func TestComputeNextMissingHash(t *testing.T) {
	t.Parallel()

	_, err := version.ComputeNext("1.0.0", version.CommitInfo{CommitsSinceTag: 3}, channel.Stable, version.Minor, nil)
	assert.ErrorIs(t, err, version.ErrMissingHash)
}

func TestNewCommitInfo(t *testing.T) {
	t.Parallel()

	_, err := version.NewCommitInfo(1, "")
	assert.ErrorIs(t, err, version.ErrMissingHash)

	info, err := version.NewCommitInfo(0, "abc1234")
	require.NoError(t, err)
	assert.Equal(t, "abc1234", info.Hash)

	assert.Equal(t, uint(0), version.Latest.CommitsSinceTag)
	assert.Empty(t, version.Latest.Hash)
}

func TestChannelOfVersion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, channel.Stable, version.Channel(mustVersion(t, "1.0.0")))
	assert.Equal(t, channel.Beta, version.Channel(mustVersion(t, "1.0.0-beta.3")))
	assert.Equal(t, channel.RC, version.Channel(mustVersion(t, "1.0.0-RC")))
	assert.Equal(t, channel.Stable, version.Channel(mustVersion(t, "1.0.0-snapshot")))
}
