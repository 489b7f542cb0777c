// Package versioncode maps semantic versions onto bounded integer version codes.
package versioncode

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// ErrComponentRange is matched when a version component exceeds the validator bounds.
	ErrComponentRange = errors.New("version component out of range")

	// ErrVersionCodeOverflow is matched when an encoded version code exceeds its ceiling.
	ErrVersionCodeOverflow = errors.New("version code overflow")

	// ErrUnknownGenerator is returned by Lookup for unregistered encoder names.
	ErrUnknownGenerator = errors.New("unknown version code generator")
)

// ComponentRangeError reports a major, minor or patch component above its bound.
type ComponentRangeError struct {
	Component string
	Value     uint64
	Max       uint64
}

func (e *ComponentRangeError) Error() string {
	return fmt.Sprintf("%s version %d exceeds the maximum allowed value of %d", e.Component, e.Value, e.Max)
}

func (e *ComponentRangeError) Is(target error) bool {
	return target == ErrComponentRange
}

// VersionCodeOverflowError reports an encoded code above the ceiling. The components
// are jointly out of range, so it also matches ErrComponentRange.
type VersionCodeOverflowError struct {
	Version *semver.Version
	Code    uint64
	Max     uint64
}

func (e *VersionCodeOverflowError) Error() string {
	return fmt.Sprintf("version code %d for %s exceeds the maximum allowed value of %d; "+
		"use a custom version code generator for non-Android targets", e.Code, e.Version, e.Max)
}

func (e *VersionCodeOverflowError) Is(target error) bool {
	return target == ErrVersionCodeOverflow || target == ErrComponentRange
}

// Validator range-checks a version before it is encoded.
type Validator func(v *semver.Version) (*semver.Version, error)

// Generator turns a validated version into a version code.
type Generator func(v *semver.Version) (uint32, error)

// Encoder pairs a Validator with a Generator. A nil Validate accepts every version.
type Encoder struct {
	Name     string
	Validate Validator
	Generate Generator
}

// Encode validates v and generates its version code.
func (e Encoder) Encode(v *semver.Version) (uint32, error) {
	if v == nil {
		return 0, errors.New("no version to encode")
	}
	if e.Validate != nil {
		validated, err := e.Validate(v)
		if err != nil {
			return 0, err
		}
		v = validated
	}
	if e.Generate == nil {
		return 0, fmt.Errorf("encoder %q has no generator", e.Name)
	}
	return e.Generate(v)
}

// None encodes every version as 0, for targets without an integer version code.
func None() Encoder {
	return Encoder{
		Name:     "none",
		Generate: func(*semver.Version) (uint32, error) { return 0, nil },
	}
}

var registry = map[string]func() Encoder{
	"android": Android,
	"none":    None,
}

// Lookup returns the registered encoder with the given name.
func Lookup(name string) (Encoder, error) {
	factory, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Encoder{}, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownGenerator, name, strings.Join(Names(), ", "))
	}
	return factory(), nil
}

// Names lists the registered encoder names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
