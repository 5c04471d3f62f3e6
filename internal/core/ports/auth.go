package ports

import (
	"context"

	"go.trai.ch/ship/internal/core/domain"
)

// AuthSetup prepares registry credentials for a set of targets.
//
//go:generate go run go.uber.org/mock/mockgen -source=auth.go -destination=mocks/mock_auth.go -package=mocks
type AuthSetup interface {
	// Setup validates tokens and connectivity for every distinct registry in targets.
	// Missing tokens are reported, not returned as errors.
	Setup(ctx context.Context, targets []domain.Target) (*domain.AuthReport, error)

	// Teardown releases anything Setup created.
	Teardown(report *domain.AuthReport) error
}

// Attestor generates attestations or SBOMs for a published package.
type Attestor interface {
	// Attest returns the URL of the generated attestation, or "".
	Attest(ctx context.Context, subject domain.AttestationSubject) (string, error)
}
