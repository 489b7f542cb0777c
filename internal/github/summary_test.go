package github_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltyorg/git-semver/internal/docs"
	"github.com/saltyorg/git-semver/internal/github"
)

func summary() *github.VersionSummary {
	return &github.VersionSummary{
		Version:         "1.3.0-rc+dev.2.abc1234",
		VersionCode:     10030064,
		Channel:         "rc",
		Tag:             "1.2.0",
		Commit:          "abc1234",
		CommitsSinceTag: 2,
	}
}

func TestWriteOutputs(t *testing.T) {
	out := filepath.Join(t.TempDir(), "output")
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_OUTPUT", out)

	require.NoError(t, summary().WriteOutputs())

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "version=1.3.0-rc+dev.2.abc1234\n"+
		"version_code=10030064\n"+
		"channel=rc\n"+
		"commit=abc1234\n"+
		"commits_since_tag=2\n", string(content))
}

func TestWriteOutputsOutsideActions(t *testing.T) {
	out := filepath.Join(t.TempDir(), "output")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITHUB_OUTPUT", out)

	require.NoError(t, summary().WriteOutputs())

	_, err := os.Stat(out)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteGitHubSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_STEP_SUMMARY", path)

	s := summary()
	s.Stamped = []docs.Result{
		{Path: "README.md", Status: docs.StatusUpdated},
		{Path: "NOTES.md", Status: docs.StatusSkipped, Reason: "no section"},
	}
	require.NoError(t, s.WriteGitHubSummary())
	require.NoError(t, s.WriteGitHubSummary())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	md := string(content)
	assert.Contains(t, md, "| Version Name | `1.3.0-rc+dev.2.abc1234` |")
	assert.Contains(t, md, "| Version Code | 10030064 |")
	assert.Contains(t, md, "### Stamped Files (1 updated)")
	assert.Contains(t, md, "| NOTES.md | skipped: no section |")
	assert.Equal(t, md[:len(md)/2], md[len(md)/2:], "summary is appended")
}

func TestMarkdownFallbackAndUntagged(t *testing.T) {
	t.Parallel()

	s := summary()
	s.Tag = ""
	s.VersionCode = 0
	s.CodeFallback = true

	md := s.Markdown()
	assert.Contains(t, md, "| Version Code | 0 ⚠️ fallback |")
	assert.Contains(t, md, "| Last Tag | _none_ |")
	assert.Contains(t, md, "| Release | no |")
}

func TestMarkdownRelease(t *testing.T) {
	t.Parallel()

	s := summary()
	s.Version, s.Channel, s.Tag, s.CommitsSinceTag = "1.3.0", "stable", "1.3.0", 0
	s.Release = true

	md := s.Markdown()
	assert.Contains(t, md, "| Release | ✅ yes |")
	assert.NotContains(t, md, "| Release | no |")
}
