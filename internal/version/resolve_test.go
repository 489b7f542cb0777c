package version_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltyorg/git-semver/internal/channel"
	"github.com/saltyorg/git-semver/internal/version"
)

type fakeSource struct {
	tag       version.Tag
	hasTag    bool
	commits   uint
	hash      string
	shortHash string
	err       error

	countedFrom string
}

func (f *fakeSource) LatestTag() (version.Tag, bool, error) {
	return f.tag, f.hasTag, f.err
}

func (f *fakeSource) CommitsSince(tagName string) (uint, error) {
	f.countedFrom = tagName
	return f.commits, nil
}

func (f *fakeSource) HeadHash(short bool) (string, error) {
	if short {
		return f.shortHash, nil
	}
	return f.hash, nil
}

func TestResolveWithoutTag(t *testing.T) {
	t.Parallel()

	src := &fakeSource{commits: 1, hash: "0123456789abcdef", shortHash: "0123456"}
	res, err := version.Resolve(src, version.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "0.1.0+dev.1.0123456", res.Version.String())
	assert.Empty(t, res.Tag)
	assert.Empty(t, src.countedFrom)
}

func TestResolveEmptyRepository(t *testing.T) {
	t.Parallel()

	res, err := version.Resolve(&fakeSource{}, version.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", res.Version.String())
	assert.Equal(t, version.Latest, res.Commit)
}

func TestResolveWithTag(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		tag:       version.Tag{Name: "v1.0.0-beta.1", Version: "1.0.0-beta.1"},
		hasTag:    true,
		commits:   3,
		hash:      "jkl012jkl012",
		shortHash: "jkl012",
	}

	opts := version.DefaultOptions()
	opts.Channel = channel.RC
	opts.ShortHash = false

	res, err := version.Resolve(src, opts)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0-rc+dev.3.jkl012jkl012", res.Version.String())
	assert.Equal(t, "v1.0.0-beta.1", res.Tag)
	assert.Equal(t, "v1.0.0-beta.1", src.countedFrom)
	assert.Equal(t, channel.RC, res.Channel)
}

func TestResolvePropagatesErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := version.Resolve(&fakeSource{err: boom}, version.DefaultOptions())
	assert.ErrorIs(t, err, boom)

	_, err = version.Resolve(&fakeSource{commits: 2}, version.DefaultOptions())
	assert.ErrorIs(t, err, version.ErrMissingHash)
}
