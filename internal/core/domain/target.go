package domain

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Protocol is the publish mechanism used for a target.
type Protocol string

const (
	// ProtocolNPM publishes through an npm-compatible registry.
	ProtocolNPM Protocol = "npm"
	// ProtocolJSR publishes to jsr.io through the jsr CLI.
	ProtocolJSR Protocol = "jsr"
)

// Access is the npm access level of a published package.
type Access string

const (
	// AccessPublic makes the package publicly installable.
	AccessPublic Access = "public"
	// AccessRestricted limits the package to its owners.
	AccessRestricted Access = "restricted"
)

const (
	// NPMRegistry is the public npm registry.
	NPMRegistry = "https://registry.npmjs.org/"
	// GitHubRegistry is the GitHub Packages npm registry.
	GitHubRegistry = "https://npm.pkg.github.com/"
	// GitHubTokenEnv holds the token used for GitHub Packages.
	GitHubTokenEnv = "GITHUB_TOKEN"
	// DefaultTag is the dist-tag used when none is configured.
	DefaultTag = "latest"
)

// Target is one concrete publish destination for a package. Targets are derived from
// the manifest on every run and never persisted.
type Target struct {
	Protocol Protocol `json:"protocol"`
	// Registry is empty for JSR, which has no registry URL in this model.
	Registry   string `json:"registry,omitempty"`
	Directory  string `json:"directory"`
	Access     Access `json:"access"`
	Provenance bool   `json:"provenance"`
	Tag        string `json:"tag"`
	// TokenEnv is empty when the target relies on ambient credentials (OIDC).
	TokenEnv string `json:"tokenEnv,omitempty"`
}

// Key returns a short fingerprint identifying the target within a package.
func (t Target) Key() string {
	h := xxhash.New()
	for _, part := range []string{string(t.Protocol), t.Registry, t.Directory, t.Tag} {
		_, _ = h.WriteString(part)
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// String returns a human-readable description such as "npm https://registry.npmjs.org/".
func (t Target) String() string {
	if t.Registry == "" {
		return string(t.Protocol)
	}
	return string(t.Protocol) + " " + t.Registry
}

// NormalizeRegistry returns registry with exactly one trailing slash.
func NormalizeRegistry(registry string) string {
	registry = strings.TrimSpace(registry)
	if registry == "" {
		return ""
	}
	return strings.TrimRight(registry, "/") + "/"
}

// IsNPMRegistry reports whether registry is the public npm registry.
func IsNPMRegistry(registry string) bool {
	return strings.EqualFold(NormalizeRegistry(registry), NPMRegistry)
}

// IsGitHubRegistry reports whether registry is GitHub Packages.
func IsGitHubRegistry(registry string) bool {
	return strings.EqualFold(NormalizeRegistry(registry), GitHubRegistry)
}

// RegistryToEnvName derives the environment variable holding the token for registry.
//
// The host (and port) is upper-cased, every run of non-alphanumeric characters becomes
// a single underscore, and "_TOKEN" is appended:
// "https://registry.savvyweb.dev/" becomes "REGISTRY_SAVVYWEB_DEV_TOKEN".
// The public npm registry uses ambient trusted-publishing credentials and yields "";
// GitHub Packages yields GITHUB_TOKEN.
func RegistryToEnvName(registry string) string {
	switch {
	case IsNPMRegistry(registry):
		return ""
	case IsGitHubRegistry(registry):
		return GitHubTokenEnv
	}

	host := strings.TrimSpace(registry)
	if u, err := url.Parse(host); err == nil && u.Host != "" {
		host = u.Host
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToUpper(host) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	if b.Len() == 0 {
		return ""
	}
	return b.String() + "_TOKEN"
}

// RegistryAuthKey returns the npmrc key prefix ("//host/path/") for registry.
func RegistryAuthKey(registry string) string {
	normalized := NormalizeRegistry(registry)
	if u, err := url.Parse(normalized); err == nil && u.Host != "" {
		return "//" + u.Host + u.Path
	}
	return strings.TrimPrefix(strings.TrimPrefix(normalized, "https:"), "http:")
}
