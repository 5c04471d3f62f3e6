package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Package identifies a release unit. It is immutable for the run; Version is the
// version about to be published, not necessarily the one currently on a registry.
type Package struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Path     string   `json:"path"`
	Manifest Manifest `json:"-"`
}

// String returns the npm-style "name@version" identifier.
func (p Package) String() string {
	return p.Name + "@" + p.Version
}

// ReleaseTypeNone marks a changeset entry that does not bump the package.
const ReleaseTypeNone = "none"

// Release is one entry of the release set as supplied by a release source.
type Release struct {
	Name    string
	Version string
	// Type is the bump kind reported by changesets (major, minor, patch, none).
	// It is empty for releases given explicitly.
	Type string
}

// ParseRelease parses a "name@version" string. Scoped names such as
// "@scope/pkg@1.0.0" are supported.
func ParseRelease(s string) (Release, error) {
	s = strings.TrimSpace(s)
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return Release{}, zerr.With(ErrInvalidRelease, "release", s)
	}
	return Release{Name: s[:at], Version: s[at+1:]}, nil
}

// ParseReleases parses every entry with ParseRelease.
func ParseReleases(entries []string) ([]Release, error) {
	releases := make([]Release, 0, len(entries))
	for _, entry := range entries {
		r, err := ParseRelease(entry)
		if err != nil {
			return nil, err
		}
		releases = append(releases, r)
	}
	return releases, nil
}

// WorkspacePackage is a package discovered in the repository.
type WorkspacePackage struct {
	// Path is the absolute package root.
	Path     string
	Manifest Manifest
}

// Workspace is the set of packages found under a repository root.
type Workspace struct {
	Root           string
	PackageManager PackageManager
	Packages       map[string]WorkspacePackage
}
