// Package attest provides attestation adapters. Generation is delegated to external
// tooling; the adapter here only records the request.
package attest

import (
	"context"

	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
)

// NoOp implements ports.Attestor without producing an attestation.
type NoOp struct {
	logger ports.Logger
}

// NewNoOp creates a NoOp attestor.
func NewNoOp(logger ports.Logger) *NoOp {
	return &NoOp{logger: logger}
}

// Attest logs the subject and returns no URL.
func (n *NoOp) Attest(_ context.Context, subject domain.AttestationSubject) (string, error) {
	n.logger.Debug("attestation skipped",
		"package", subject.PackageName,
		"version", subject.Version,
		"digest", subject.TarballDigest)
	return "", nil
}
