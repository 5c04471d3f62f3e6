package conflict_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports/mocks"
	"go.trai.ch/ship/internal/engine/conflict"
	"go.uber.org/mock/gomock"
)

var npmTarget = domain.Target{
	Protocol: domain.ProtocolNPM,
	Registry: "https://npm.pkg.github.com/",
	TokenEnv: "GITHUB_TOKEN",
}

var artifact = &domain.Artifact{Shasum: "sha1-local", Integrity: "sha512-local"}

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name      string
		published *domain.PublishedVersion
		artifact  *domain.Artifact
		want      domain.Verdict
	}{
		{"not published", nil, artifact, domain.VerdictClear},
		{"identical integrity", &domain.PublishedVersion{Integrity: "sha512-local", Shasum: "other"}, artifact, domain.VerdictIdentical},
		{"different integrity", &domain.PublishedVersion{Integrity: "sha512-remote", Shasum: "sha1-local"}, artifact, domain.VerdictDifferent},
		{"shasum fallback identical", &domain.PublishedVersion{Shasum: "sha1-local"}, artifact, domain.VerdictIdentical},
		{"shasum fallback different", &domain.PublishedVersion{Shasum: "sha1-remote"}, artifact, domain.VerdictDifferent},
		{"nothing comparable", &domain.PublishedVersion{Tarball: "https://x"}, artifact, domain.VerdictUnknown},
		{"no artifact", &domain.PublishedVersion{Shasum: "sha1-local"}, nil, domain.VerdictUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockRegistryClient(ctrl)
			client.EXPECT().
				Version(gomock.Any(), npmTarget.Registry, "@acme/ui", "1.2.0", "gh-token").
				Return(tt.published, nil)

			creds := domain.Credentials{Tokens: map[string]string{npmTarget.Registry: "gh-token"}}
			got, err := conflict.NewChecker(client).Check(context.Background(), npmTarget, "@acme/ui", "1.2.0", tt.artifact, creds)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChecker_Check_JSRIsClear(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockRegistryClient(ctrl)

	got, err := conflict.NewChecker(client).Check(
		context.Background(), domain.Target{Protocol: domain.ProtocolJSR}, "@acme/ui", "1.2.0", nil, domain.Credentials{},
	)

	require.NoError(t, err)
	assert.Equal(t, domain.VerdictClear, got)
}

func TestChecker_Check_AuthErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockRegistryClient(ctrl)
	client.EXPECT().Version(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrRegistryAuth)

	got, err := conflict.NewChecker(client).Check(
		context.Background(), npmTarget, "@acme/ui", "1.2.0", artifact, domain.Credentials{},
	)

	assert.ErrorContains(t, err, domain.ErrRegistryAuth.Error())
	assert.NotEqual(t, domain.VerdictClear, got)
}
