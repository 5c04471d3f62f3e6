package domain

import "time"

// RetryPolicy bounds retries of transient publish failures.
type RetryPolicy struct {
	// Attempts is the total number of invocations, including the first.
	Attempts int
	// Backoff is the base delay; attempt n waits n*Backoff before retrying.
	Backoff time.Duration
}

// DefaultRetryPolicy returns the policy used when nothing is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Backoff: 15 * time.Second}
}

// Credentials is the read-only result of registry auth setup, threaded explicitly
// into every publish call instead of being written to the process environment.
type Credentials struct {
	// Npmrc is the path of a generated npm user config holding the tokens, if any.
	Npmrc string
	// Tokens maps a normalized registry URL to its token.
	Tokens map[string]string
}

// Token returns the token configured for registry, or "".
func (c Credentials) Token(registry string) string {
	if c.Tokens == nil {
		return ""
	}
	return c.Tokens[NormalizeRegistry(registry)]
}

// MissingToken names a registry whose token variable is unset.
type MissingToken struct {
	Registry string `json:"registry"`
	TokenEnv string `json:"tokenEnv"`
}

// UnreachableRegistry names a registry that could not be contacted.
type UnreachableRegistry struct {
	Registry string `json:"registry"`
	Error    string `json:"error"`
}

// AuthReport is the outcome of registry auth setup.
type AuthReport struct {
	Success               bool
	ConfiguredRegistries  []string
	MissingTokens         []MissingToken
	UnreachableRegistries []UnreachableRegistry
	Credentials           Credentials
}

// PublishRequest is everything the publish executor needs for one target.
type PublishRequest struct {
	Package        Package
	Target         Target
	PackageManager PackageManager
	// Artifact is the pre-packed tarball. It is nil for JSR targets.
	Artifact    *Artifact
	Credentials Credentials
	DryRun      bool
}

// AttestationSubject is handed to attestation/SBOM generation after a publish.
type AttestationSubject struct {
	PackageName   string
	Version       string
	Directory     string
	TarballDigest string
}
