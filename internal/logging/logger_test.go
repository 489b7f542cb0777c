package logging_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltyorg/git-semver/internal/logging"
)

func TestConsoleHandlerLevels(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	logger := slog.New(logging.NewConsoleHandler(&stdout, &stderr, false))

	logger.Info("computed version")
	logger.Warn("falling back")
	logger.Error("failed")
	logger.Debug("hidden")

	assert.Equal(t, "computed version\n", stdout.String())
	assert.Equal(t, "WARNING: falling back\nERROR: failed\n", stderr.String())
}

func TestConsoleHandlerVerbose(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	h := logging.NewConsoleHandler(&stdout, &stderr, true)
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))

	slog.New(h).With("tag", "1.0.0").Debug("repository state", "commits", 3)
	assert.Equal(t, "[DEBUG] repository state tag=1.0.0 commits=3\n", stderr.String())
}

func TestSetupWithFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "git-semver.log")
	var stdout, stderr bytes.Buffer

	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	logger, err := logging.Setup(logging.Options{File: logFile, Stdout: &stdout, Stderr: &stderr})
	require.NoError(t, err)

	logger.Debug("only in file")
	logger.Info("everywhere")
	require.NoError(t, logging.Close())

	assert.Equal(t, "everywhere\n", stdout.String())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "only in file")
	assert.Contains(t, string(content), "everywhere")
}

func TestCloseTwice(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "git-semver.log")

	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	_, err := logging.Setup(logging.Options{File: logFile, Stdout: io.Discard, Stderr: io.Discard})
	require.NoError(t, err)

	require.NoError(t, logging.Close())
	assert.NoError(t, logging.Close())
}
