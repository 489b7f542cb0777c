// Package version computes the next semantic version of a repository from its
// last version tag, the commits made since that tag, and the target channel.
package version

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/saltyorg/git-semver/internal/channel"
)

// ErrMalformedTag is matched by every MalformedTagError.
var ErrMalformedTag = errors.New("malformed version tag")

// MalformedTagError reports a tag name that is not a semantic version.
type MalformedTagError struct {
	Tag string
	Err error
}

func (e *MalformedTagError) Error() string {
	return fmt.Sprintf("malformed version tag %q: %v", e.Tag, e.Err)
}

func (e *MalformedTagError) Unwrap() error {
	return e.Err
}

func (e *MalformedTagError) Is(target error) bool {
	return target == ErrMalformedTag
}

// MinVersion returns the default floor version, 0.1.0.
func MinVersion() *semver.Version {
	return semver.New(0, 1, 0, "", "")
}

// ParseTag parses a tag name as a strict semantic version.
func ParseTag(tag string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(tag)
	if err != nil {
		return nil, &MalformedTagError{Tag: tag, Err: err}
	}
	return v, nil
}

// ComputeNext derives the version of HEAD from the last tag and the commits since it.
//
// A HEAD sitting on the tag yields the tag itself. Otherwise the tag is advanced
// towards target and decorated with dev.<commits>.<hash> build metadata. Moving to
// an earlier channel than the tag's, or staying on stable, applies inc; any other
// move only advances the pre-release.
func ComputeNext(lastTagName string, info CommitInfo, target channel.Channel, inc Increment, minVersion *semver.Version) (*semver.Version, error) {
	if minVersion == nil {
		minVersion = MinVersion()
	}

	parsed, err := ParseTag(lastTagName)
	if err != nil {
		return nil, err
	}

	base := clamp(parsed, minVersion)
	if info.CommitsSinceTag == 0 {
		return base, nil
	}
	if info.Hash == "" {
		return nil, fmt.Errorf("%w (%d commits since tag)", ErrMissingHash, info.CommitsSinceTag)
	}

	metadata := info.Metadata()
	preRelease := target.Name()
	if target == channel.Stable {
		preRelease = ""
	}

	if base.Equal(minVersion) {
		return semver.New(base.Major(), base.Minor(), base.Patch(), preRelease, metadata), nil
	}

	last := Channel(base)
	next := selectIncrement(last, target, inc).Apply(base, target.Name())
	if target == channel.Stable {
		return semver.New(next.Major(), next.Minor(), next.Patch(), "", metadata), nil
	}
	return semver.New(next.Major(), next.Minor(), next.Patch(), next.Prerelease(), metadata), nil
}

// Channel returns the channel encoded in v's pre-release, or Stable when v has none.
func Channel(v *semver.Version) channel.Channel {
	if v.Prerelease() == "" {
		return channel.Stable
	}
	c, _, _ := channel.ParsePreRelease(v.Prerelease())
	return c
}

// clamp replaces v with minVersion when v ranks below the earliest alpha of minVersion.
func clamp(v, minVersion *semver.Version) *semver.Version {
	alphaFloor := semver.New(minVersion.Major(), minVersion.Minor(), minVersion.Patch(), "alpha", "")
	if v.LessThan(alphaFloor) {
		return minVersion
	}
	return v
}

func selectIncrement(last, target channel.Channel, inc Increment) Increment {
	if (last == channel.Stable && target == channel.Stable) || target.Less(last) {
		return inc
	}
	return PreRelease
}
