package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Increment selects which part of a version advances.
type Increment int

const (
	Major Increment = iota
	Minor
	Patch
	PreRelease
)

// ErrUnknownIncrement is returned when an increment name cannot be parsed.
var ErrUnknownIncrement = errors.New("unknown increment")

func (i Increment) String() string {
	switch i {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Patch:
		return "patch"
	case PreRelease:
		return "pre-release"
	default:
		return "increment(" + strconv.Itoa(int(i)) + ")"
	}
}

// ParseIncrement resolves an increment name case-insensitively.
func ParseIncrement(text string) (Increment, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	case "patch":
		return Patch, nil
	case "pre-release", "prerelease", "pre_release", "pre":
		return PreRelease, nil
	}
	return Minor, fmt.Errorf("%w: %q (expected major, minor, patch or pre-release)", ErrUnknownIncrement, text)
}

var (
	_ pflag.Value      = (*Increment)(nil)
	_ yaml.Unmarshaler = (*Increment)(nil)
	_ yaml.Marshaler   = Increment(0)
)

// Set implements pflag.Value.
func (i *Increment) Set(value string) error {
	parsed, err := ParseIncrement(value)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Type implements pflag.Value.
func (i *Increment) Type() string {
	return "increment"
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (i *Increment) UnmarshalYAML(node *yaml.Node) error {
	var value string
	if err := node.Decode(&value); err != nil {
		return err
	}
	return i.Set(value)
}

// MarshalYAML implements yaml.Marshaler.
func (i Increment) MarshalYAML() (any, error) {
	return i.String(), nil
}

// Apply advances v by the increment and sets its pre-release to preRelease.
// Build metadata is dropped.
//
// A PreRelease increment keeps the numeric core of a version that is already a
// pre-release. When the existing pre-release belongs to the same channel its
// build number advances, otherwise it is replaced by preRelease.
func (i Increment) Apply(v *semver.Version, preRelease string) *semver.Version {
	switch i {
	case Major:
		return semver.New(v.Major()+1, 0, 0, preRelease, "")
	case Minor:
		return semver.New(v.Major(), v.Minor()+1, 0, preRelease, "")
	case Patch:
		return semver.New(v.Major(), v.Minor(), v.Patch()+1, preRelease, "")
	default:
		patch := v.Patch()
		if v.Prerelease() == "" {
			patch++
		}
		return semver.New(v.Major(), v.Minor(), patch, advancePreRelease(v.Prerelease(), preRelease), "")
	}
}

// advancePreRelease bumps the last numeric identifier of current when it shares
// the identity (first segment) of next. A bare identity counts as build 1.
func advancePreRelease(current, next string) string {
	if current == "" || next == "" {
		return next
	}

	parts := strings.Split(current, ".")
	if !strings.EqualFold(parts[0], strings.Split(next, ".")[0]) {
		return next
	}

	for idx := len(parts) - 1; idx > 0; idx-- {
		n, err := strconv.ParseUint(parts[idx], 10, 64)
		if err != nil {
			continue
		}
		parts[idx] = strconv.FormatUint(n+1, 10)
		return strings.Join(parts, ".")
	}
	return current + ".2"
}
