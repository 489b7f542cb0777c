package template

import (
	"fmt"

	"github.com/saltyorg/git-semver/internal/version"
)

// Data contains everything a version template can reference.
type Data struct {
	Package string // Go package name for generated source files

	Version     string // full version name including build metadata
	Core        string // MAJOR.MINOR.PATCH
	Major       uint64
	Minor       uint64
	Patch       uint64
	PreRelease  string
	Metadata    string
	VersionCode uint32

	Channel         string
	Tag             string // empty when the repository has no version tag
	Commit          string
	CommitsSinceTag uint
}

// BuildData converts a computed version and its code into template data.
func BuildData(res version.Result, code uint32, pkg string) *Data {
	v := res.Version
	return &Data{
		Package:         pkg,
		Version:         v.String(),
		Core:            fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch()),
		Major:           v.Major(),
		Minor:           v.Minor(),
		Patch:           v.Patch(),
		PreRelease:      v.Prerelease(),
		Metadata:        v.Metadata(),
		VersionCode:     code,
		Channel:         version.Channel(v).Name(),
		Tag:             res.Tag,
		Commit:          res.Commit.Hash,
		CommitsSinceTag: res.Commit.CommitsSinceTag,
	}
}

// IsRelease reports whether the version is a clean tagged stable release.
func (d *Data) IsRelease() bool {
	return d.PreRelease == "" && d.Metadata == ""
}
