package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/ship/internal/core/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		exitCode int
		stdout   string
		stderr   string
		want     domain.Category
	}{
		{"success", 0, "+ pkg@1.0.0", "", domain.CategoryNone},
		{"success with noise", 0, "", "npm warn ECONNRESET retrying", domain.CategoryNone},
		{
			"npm over-publish", 1, "",
			"npm error code E403\nnpm error 403 Forbidden - You cannot publish over the previously published versions: 1.0.0.",
			domain.CategoryAlreadyPublished,
		},
		{"publish conflict", 1, "", "npm ERR! code EPUBLISHCONFLICT", domain.CategoryAlreadyPublished},
		{
			"github over-publish", 1, "",
			"npm error code E409\nnpm error 409 Conflict - PUT https://npm.pkg.github.com/@acme%2fcore - Cannot publish over existing version.",
			domain.CategoryAlreadyPublished,
		},
		{"cache mkdir clash", 1, "", "npm error EEXIST: file already exists, mkdir '/home/ci/.npm/_cacache'", domain.CategoryUnknown},
		{"jsr wording on npm", 1, "error: Version 1.0.0 already exists", "", domain.CategoryUnknown},
		{"need auth", 1, "", "npm ERR! code ENEEDAUTH", domain.CategoryAuth},
		{"unauthorized", 1, "", "npm error 401 Unauthorized - PUT https://r/pkg", domain.CategoryAuth},
		{"otp", 1, "", "npm ERR! code EOTP", domain.CategoryAuth},
		{"reset", 1, "", "npm ERR! code ECONNRESET", domain.CategoryNetwork},
		{"timeout", 1, "", "npm ERR! network request to https://r failed, reason: ETIMEDOUT", domain.CategoryNetwork},
		{"dns", 1, "", "getaddrinfo EAI_AGAIN registry.npmjs.org", domain.CategoryNetwork},
		{"hang up", 1, "", "socket hang up", domain.CategoryNetwork},
		{"unknown", 2, "", "something else broke", domain.CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Classify(tt.exitCode, tt.stdout, tt.stderr))
		})
	}
}

func TestClassifyFor_JSR(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		stderr string
		want   domain.Category
	}{
		{"version sentence", "error: Version 1.0.0 already exists", "", domain.CategoryAlreadyPublished},
		{"scoped sentence", "", "error: Failed to publish @acme/ui@1.2.0: version already exists", domain.CategoryAlreadyPublished},
		{"api code", "", "error: versionAlreadyExists: The requested package version already exists", domain.CategoryAlreadyPublished},
		{"unrelated exists", "", "error: EEXIST: file already exists, open 'deno.lock'", domain.CategoryUnknown},
		{"npm rejection still applies", "", "You cannot publish over the previously published versions", domain.CategoryAlreadyPublished},
		{"auth", "", "error: 401 Unauthorized", domain.CategoryAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ClassifyFor(domain.ProtocolJSR, 1, tt.stdout, tt.stderr))
		})
	}
	assert.Equal(t, domain.CategoryNone, domain.ClassifyFor(domain.ProtocolJSR, 0, "", "version already exists"))
}

func TestCategory_Transient(t *testing.T) {
	assert.True(t, domain.CategoryNetwork.Transient())
	for _, c := range []domain.Category{
		domain.CategoryNone, domain.CategoryAlreadyPublished, domain.CategoryAuth,
		domain.CategoryInvocation, domain.CategoryUnknown,
	} {
		assert.False(t, c.Transient(), c)
	}
}

func TestVerdict_Published(t *testing.T) {
	assert.False(t, domain.VerdictClear.Published())
	assert.True(t, domain.VerdictIdentical.Published())
	assert.True(t, domain.VerdictDifferent.Published())
	assert.True(t, domain.VerdictUnknown.Published())
}
