package version

import (
	"fmt"
	"log/slog"

	"github.com/Masterminds/semver/v3"

	"github.com/saltyorg/git-semver/internal/channel"
)

// Tag is a version tag found in the repository.
type Tag struct {
	Name    string // tag name as stored in git
	Version string // semantic version text, prefix removed
}

// Source supplies the repository state the computation needs.
type Source interface {
	// LatestTag returns the highest valid version tag. ok is false when there is none.
	LatestTag() (tag Tag, ok bool, err error)
	// CommitsSince counts commits reachable from HEAD but not from the named tag.
	// An empty tag name counts every commit.
	CommitsSince(tagName string) (uint, error)
	// HeadHash returns the HEAD commit hash, or "" for a repository without commits.
	HeadHash(short bool) (string, error)
}

// Options configures Resolve.
type Options struct {
	Channel    channel.Channel
	Increment  Increment
	MinVersion *semver.Version
	ShortHash  bool
}

// DefaultOptions returns stable channel, minor increments, 0.1.0 floor and short hashes.
func DefaultOptions() Options {
	return Options{
		Channel:    channel.Stable,
		Increment:  Minor,
		MinVersion: MinVersion(),
		ShortHash:  true,
	}
}

// Result is a computed version together with the inputs it was derived from.
type Result struct {
	Version *semver.Version
	Channel channel.Channel
	Tag     string // empty when the repository has no version tag
	Commit  CommitInfo
}

// Resolve reads the repository state from src and computes the next version.
func Resolve(src Source, opts Options) (Result, error) {
	if opts.MinVersion == nil {
		opts.MinVersion = MinVersion()
	}

	tag, ok, err := src.LatestTag()
	if err != nil {
		return Result{}, fmt.Errorf("reading latest tag: %w", err)
	}
	tagVersion := opts.MinVersion.String()
	if ok {
		tagVersion = tag.Version
	}

	commits, err := src.CommitsSince(tag.Name)
	if err != nil {
		return Result{}, fmt.Errorf("counting commits since %q: %w", tag.Name, err)
	}

	hash, err := src.HeadHash(opts.ShortHash)
	if err != nil {
		return Result{}, fmt.Errorf("resolving HEAD: %w", err)
	}

	info, err := NewCommitInfo(commits, hash)
	if err != nil {
		return Result{}, err
	}

	slog.Debug("Repository state", "tag", tag.Name, "commits", commits, "hash", hash)

	v, err := ComputeNext(tagVersion, info, opts.Channel, opts.Increment, opts.MinVersion)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Version: v,
		Channel: opts.Channel,
		Tag:     tag.Name,
		Commit:  info,
	}, nil
}
