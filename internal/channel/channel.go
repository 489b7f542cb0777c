// Package channel defines the release channels and their build-code address space.
package channel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Channel is a release stage. Channels are ordered Alpha < Beta < RC < Stable.
type Channel int

const (
	Alpha Channel = iota
	Beta
	RC
	Stable
)

// buildSlots is the number of build numbers reserved by each pre-release channel.
// It is also the stride between channel offsets.
const buildSlots = 32

// stableSlots is the number of build numbers reserved by Stable.
const stableSlots = 2

var (
	// ErrOutOfRangeBuildNumber is returned when a build number does not fit a channel's capacity.
	ErrOutOfRangeBuildNumber = errors.New("build number out of range")

	// ErrUnknownChannel is returned by ParseStrict for names that are not a channel.
	ErrUnknownChannel = errors.New("unknown channel")

	// ErrMalformedPreRelease is returned when a pre-release build number is not numeric.
	ErrMalformedPreRelease = errors.New("malformed pre-release identifier")
)

var names = [...]string{
	Alpha:  "alpha",
	Beta:   "beta",
	RC:     "rc",
	Stable: "stable",
}

// All returns every channel in ascending order.
func All() []Channel {
	return []Channel{Alpha, Beta, RC, Stable}
}

// Name returns the lowercase channel name used as the pre-release prefix.
func (c Channel) Name() string {
	if c < Alpha || c > Stable {
		return "channel(" + strconv.Itoa(int(c)) + ")"
	}
	return names[c]
}

func (c Channel) String() string {
	return c.Name()
}

// Less reports whether c is an earlier stage than other.
func (c Channel) Less(other Channel) bool {
	return c < other
}

// Capacity returns how many build numbers the channel reserves.
func (c Channel) Capacity() uint {
	if c == Stable {
		return stableSlots
	}
	return buildSlots
}

// Offset returns the first build code owned by the channel.
func (c Channel) Offset() uint {
	return uint(c) * buildSlots
}

// BuildCode maps a 1-based build number into the channel's slice of the address space.
func (c Channel) BuildCode(buildNumber uint) (uint, error) {
	if buildNumber < 1 || buildNumber > c.Capacity() {
		return 0, fmt.Errorf("%w: %s accepts build numbers 1 to %d, got %d",
			ErrOutOfRangeBuildNumber, c.Name(), c.Capacity(), buildNumber)
	}
	return c.Offset() + buildNumber - 1, nil
}

// Parse resolves a channel name case-insensitively. Anything unrecognized is Stable;
// channel names are read out of free-form pre-release text.
func Parse(text string) Channel {
	c, err := ParseStrict(text)
	if err != nil {
		return Stable
	}
	return c
}

// ParseStrict resolves a channel name case-insensitively and rejects unknown names.
func ParseStrict(text string) (Channel, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	for i, name := range names {
		if name == normalized {
			return Channel(i), nil
		}
	}
	return Stable, fmt.Errorf("%w: %q (expected one of alpha, beta, rc, stable)", ErrUnknownChannel, text)
}

// ParsePreRelease splits a pre-release identifier of the form <channel>[.<build>].
// The build number defaults to 1 when absent.
func ParsePreRelease(preRelease string) (Channel, uint, error) {
	parts := strings.Split(preRelease, ".")
	c := Parse(parts[0])
	if len(parts) < 2 {
		return c, 1, nil
	}

	n, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return c, 0, fmt.Errorf("%w: %q has non-numeric build number %q", ErrMalformedPreRelease, preRelease, parts[1])
	}
	return c, uint(n), nil
}

var (
	_ pflag.Value      = (*Channel)(nil)
	_ yaml.Unmarshaler = (*Channel)(nil)
	_ yaml.Marshaler   = Channel(0)
)

// Set implements pflag.Value.
func (c *Channel) Set(value string) error {
	parsed, err := ParseStrict(value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Type implements pflag.Value.
func (c *Channel) Type() string {
	return "channel"
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Channel) UnmarshalYAML(node *yaml.Node) error {
	var value string
	if err := node.Decode(&value); err != nil {
		return err
	}
	return c.Set(value)
}

// MarshalYAML implements yaml.Marshaler.
func (c Channel) MarshalYAML() (any, error) {
	return c.Name(), nil
}
