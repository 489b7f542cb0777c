package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/saltyorg/git-semver/internal/config"
	"github.com/saltyorg/git-semver/internal/github"
	"github.com/saltyorg/git-semver/internal/ledger"
	"github.com/saltyorg/git-semver/internal/repository"
	"github.com/saltyorg/git-semver/internal/template"
	"github.com/saltyorg/git-semver/internal/version"
)

// computed is a resolved version with its code, ready for output.
type computed struct {
	Result   version.Result
	Code     uint32
	Fallback bool // encoder failed and --fallback-code degraded the code to 0
	Data     *template.Data
	RepoRoot string
}

// compute resolves the next version of the repository at repoPath.
func compute(cfg *config.Config, fallbackCode bool) (*computed, error) {
	repo, err := repository.Open(repoPath, cfg.TagPrefix)
	if err != nil {
		return nil, err
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	res, err := version.Resolve(repo, opts)
	if err != nil {
		return nil, err
	}

	encoder, err := cfg.Encoder()
	if err != nil {
		return nil, err
	}

	fallback := false
	code, err := encoder.Encode(res.Version)
	if err != nil {
		if !fallbackCode {
			return nil, fmt.Errorf("encoding %s: %w", res.Version, err)
		}
		slog.Warn(fmt.Sprintf("Using version code 0: %v", err))
		code, fallback = 0, true
	}

	slog.Debug("Computed version", "version", res.Version.String(), "code", code, "encoder", encoder.Name)

	root := repo.Root()
	if root == "" {
		root, _ = filepath.Abs(repoPath)
	}

	return &computed{
		Result:   res,
		Code:     code,
		Fallback: fallback,
		Data:     template.BuildData(res, code, cfg.Generate.Package),
		RepoRoot: root,
	}, nil
}

// summary converts a computed version to the CI report.
func (c *computed) summary() *github.VersionSummary {
	return &github.VersionSummary{
		Version:         c.Data.Version,
		VersionCode:     c.Code,
		CodeFallback:    c.Fallback,
		Channel:         c.Data.Channel,
		Tag:             c.Data.Tag,
		Commit:          c.Data.Commit,
		CommitsSinceTag: c.Data.CommitsSinceTag,
		Release:         c.Data.IsRelease(),
	}
}

// record stores the version in the ledger when it is enabled. Fallback codes
// are never recorded.
func (c *computed) record(ctx context.Context, cfg *config.Config) error {
	if !cfg.Ledger.Enabled || c.Fallback {
		return nil
	}

	store, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.CheckMonotonic(ctx, c.RepoRoot, c.Code); err != nil {
		return err
	}

	return store.Record(ctx, ledger.Entry{
		Repository:  c.RepoRoot,
		Version:     c.Data.Version,
		VersionCode: c.Code,
		Channel:     c.Data.Channel,
		Tag:         c.Data.Tag,
		Commit:      c.Data.Commit,
	})
}
