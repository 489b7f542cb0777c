package version

import (
	"errors"
	"fmt"
)

// ErrMissingHash is returned when commits exist since the tag but no hash was supplied.
var ErrMissingHash = errors.New("commit hash is required when commits exist since the last tag")

// CommitInfo describes the distance between the last version tag and HEAD.
type CommitInfo struct {
	CommitsSinceTag uint
	Hash            string // unused when CommitsSinceTag is 0
}

// Latest represents a HEAD that sits exactly on the last tag.
var Latest = CommitInfo{}

// NewCommitInfo validates and builds a CommitInfo.
func NewCommitInfo(commitsSinceTag uint, hash string) (CommitInfo, error) {
	if commitsSinceTag > 0 && hash == "" {
		return CommitInfo{}, fmt.Errorf("%w (%d commits since tag)", ErrMissingHash, commitsSinceTag)
	}
	return CommitInfo{CommitsSinceTag: commitsSinceTag, Hash: hash}, nil
}

// Metadata returns the build metadata for a development build: dev.<commits>.<hash>.
func (c CommitInfo) Metadata() string {
	return fmt.Sprintf("dev.%d.%s", c.CommitsSinceTag, c.Hash)
}
