// Package repository reads version tags and commit distance from a git repository.
package repository

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/saltyorg/git-semver/internal/version"
)

const shortHashLength = 7

// ErrNotRepository is returned when no git repository is found at or above the path.
var ErrNotRepository = errors.New("not a git repository")

// Repository is a read-only view of a git repository. It implements version.Source.
type Repository struct {
	repo      *git.Repository
	tagPrefix string
}

// Open opens the repository containing path. Tags must start with tagPrefix
// (for example "v") to be considered; the prefix is removed before parsing.
func Open(path, tagPrefix string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	return New(repo, tagPrefix), nil
}

// New wraps an already opened repository.
func New(repo *git.Repository, tagPrefix string) *Repository {
	return &Repository{repo: repo, tagPrefix: tagPrefix}
}

// TrimTagPrefix removes prefix from a tag name. ok is false when the name
// does not carry the prefix, so the tag is not a version tag.
func TrimTagPrefix(name, prefix string) (trimmed string, ok bool) {
	return strings.CutPrefix(name, prefix)
}

// Root returns the worktree directory, or "" for a bare repository.
func (r *Repository) Root() string {
	wt, err := r.repo.Worktree()
	if err != nil {
		return ""
	}
	return wt.Filesystem.Root()
}

// Tags returns every tag whose name is a valid semantic version.
func (r *Repository) Tags() ([]version.Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var tags []version.Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		text, ok := TrimTagPrefix(name, r.tagPrefix)
		if !ok {
			return nil
		}
		if _, err := semver.StrictNewVersion(text); err != nil {
			slog.Debug("Ignoring non-version tag", "tag", name)
			return nil
		}
		tags = append(tags, version.Tag{Name: name, Version: text})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// LatestTag returns the version tag with the highest precedence.
func (r *Repository) LatestTag() (version.Tag, bool, error) {
	tags, err := r.Tags()
	if err != nil {
		return version.Tag{}, false, err
	}

	var (
		latest   version.Tag
		latestV  *semver.Version
		haveBest bool
	)
	for _, tag := range tags {
		v := semver.MustParse(tag.Version)
		if !haveBest || v.GreaterThan(latestV) || (v.Equal(latestV) && tag.Name > latest.Name) {
			latest, latestV, haveBest = tag, v, true
		}
	}
	return latest, haveBest, nil
}

// CommitsSince counts commits reachable from HEAD that are not reachable from the tag.
// With an empty tag name every commit reachable from HEAD is counted. A repository
// without commits has distance 0.
func (r *Repository) CommitsSince(tagName string) (uint, error) {
	head, err := r.head()
	if err != nil || head == nil {
		return 0, err
	}

	exclude := make(map[plumbing.Hash]struct{})
	if tagName != "" {
		tagCommit, err := r.tagCommit(tagName)
		if err != nil {
			return 0, err
		}
		err = r.walk(tagCommit.Hash, func(c *object.Commit) {
			exclude[c.Hash] = struct{}{}
		})
		if err != nil {
			return 0, err
		}
	}

	var count uint
	err = r.walk(head.Hash(), func(c *object.Commit) {
		if _, ok := exclude[c.Hash]; !ok {
			count++
		}
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// HeadHash returns the HEAD commit hash, abbreviated to seven characters when short
// is set. A repository without commits yields "".
func (r *Repository) HeadHash(short bool) (string, error) {
	head, err := r.head()
	if err != nil || head == nil {
		return "", err
	}

	hash := head.Hash().String()
	if short {
		return hash[:shortHashLength], nil
	}
	return hash, nil
}

func (r *Repository) head() (*plumbing.Reference, error) {
	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	return head, nil
}

// tagCommit peels lightweight and annotated tags to the commit they point at.
func (r *Repository) tagCommit(tagName string) (*object.Commit, error) {
	ref, err := r.repo.Tag(tagName)
	if err != nil {
		return nil, fmt.Errorf("resolving tag %q: %w", tagName, err)
	}

	annotated, err := r.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		commit, err := annotated.Commit()
		if err != nil {
			return nil, fmt.Errorf("peeling tag %q: %w", tagName, err)
		}
		return commit, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		commit, err := r.repo.CommitObject(ref.Hash())
		if err != nil {
			return nil, fmt.Errorf("reading commit of tag %q: %w", tagName, err)
		}
		return commit, nil
	default:
		return nil, fmt.Errorf("reading tag %q: %w", tagName, err)
	}
}

func (r *Repository) walk(from plumbing.Hash, visit func(*object.Commit)) error {
	iter, err := r.repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return fmt.Errorf("reading log from %s: %w", from, err)
	}
	defer iter.Close()

	return iter.ForEach(func(c *object.Commit) error {
		visit(c)
		return nil
	})
}
