// Package conflict decides whether a version is already on a registry and, if so,
// whether the published content matches the local artifact.
package conflict

import (
	"context"

	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
	"go.trai.ch/zerr"
)

// Checker implements the version conflict check for npm-protocol targets.
type Checker struct {
	registry ports.RegistryClient
}

// NewChecker creates a new Checker.
func NewChecker(registry ports.RegistryClient) *Checker {
	return &Checker{registry: registry}
}

// Check compares name@version on target's registry with artifact.
//
// JSR targets are always clear: the jsr CLI reports existing versions itself.
// Registry failures, including auth failures, are returned as errors and never
// reported as clear.
func (c *Checker) Check(
	ctx context.Context,
	target domain.Target,
	name, version string,
	artifact *domain.Artifact,
	creds domain.Credentials,
) (domain.Verdict, error) {
	if target.Protocol != domain.ProtocolNPM {
		return domain.VerdictClear, nil
	}

	published, err := c.registry.Version(ctx, target.Registry, name, version, creds.Token(target.Registry))
	if err != nil {
		return "", zerr.With(zerr.With(err, "target", target.String()), "version", version)
	}
	if published == nil {
		return domain.VerdictClear, nil
	}
	return Compare(published, artifact), nil
}

// Compare matches published dist metadata against a local artifact. Integrity
// (sha512) is preferred; shasum (sha1) is the fallback.
func Compare(published *domain.PublishedVersion, artifact *domain.Artifact) domain.Verdict {
	if artifact == nil {
		return domain.VerdictUnknown
	}
	switch {
	case published.Integrity != "" && artifact.Integrity != "":
		return verdict(published.Integrity == artifact.Integrity)
	case published.Shasum != "" && artifact.Shasum != "":
		return verdict(published.Shasum == artifact.Shasum)
	default:
		return domain.VerdictUnknown
	}
}

func verdict(equal bool) domain.Verdict {
	if equal {
		return domain.VerdictIdentical
	}
	return domain.VerdictDifferent
}
