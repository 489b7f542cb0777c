package versioncode

import (
	"github.com/Masterminds/semver/v3"

	"github.com/saltyorg/git-semver/internal/channel"
)

// Android bounds. The highest encodable stable release is 209.999.99.
const (
	AndroidMaxMajor = 290
	AndroidMaxMinor = 999
	AndroidMaxPatch = 99

	AndroidMaxVersionCode = 2_100_000_000
)

// Android returns the encoder for Android versionCode fields.
func Android() Encoder {
	return Encoder{
		Name:     "android",
		Validate: AndroidValidator,
		Generate: AndroidGenerator,
	}
}

// AndroidValidator rejects versions whose components do not fit the Android layout.
func AndroidValidator(v *semver.Version) (*semver.Version, error) {
	switch {
	case v.Major() > AndroidMaxMajor:
		return nil, &ComponentRangeError{Component: "major", Value: v.Major(), Max: AndroidMaxMajor}
	case v.Minor() > AndroidMaxMinor:
		return nil, &ComponentRangeError{Component: "minor", Value: v.Minor(), Max: AndroidMaxMinor}
	case v.Patch() > AndroidMaxPatch:
		return nil, &ComponentRangeError{Component: "patch", Value: v.Patch(), Max: AndroidMaxPatch}
	}
	return v, nil
}

// AndroidGenerator encodes major·10⁷ + minor·10⁴ + patch·10² + build code, where the
// build code comes from the channel and build number in the pre-release.
func AndroidGenerator(v *semver.Version) (uint32, error) {
	c, buildNumber := channel.Stable, uint(1)
	if pre := v.Prerelease(); pre != "" {
		var err error
		c, buildNumber, err = channel.ParsePreRelease(pre)
		if err != nil {
			return 0, err
		}
	}

	buildCode, err := c.BuildCode(buildNumber)
	if err != nil {
		return 0, err
	}

	code := v.Major()*10_000_000 + v.Minor()*10_000 + v.Patch()*100 + uint64(buildCode)
	if code > AndroidMaxVersionCode {
		return 0, &VersionCodeOverflowError{Version: v, Code: code, Max: AndroidMaxVersionCode}
	}
	return uint32(code), nil
}
