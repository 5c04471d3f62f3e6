package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/ship/internal/core/domain"
)

func TestRegistryToEnvName(t *testing.T) {
	tests := []struct {
		registry string
		want     string
	}{
		{"https://registry.savvyweb.dev/", "REGISTRY_SAVVYWEB_DEV_TOKEN"},
		{"https://registry.savvyweb.dev", "REGISTRY_SAVVYWEB_DEV_TOKEN"},
		{"https://npm.example.com:8443/repo/", "NPM_EXAMPLE_COM_8443_TOKEN"},
		{"http://my--odd..host/", "MY_ODD_HOST_TOKEN"},
		{"https://registry.npmjs.org/", ""},
		{"https://registry.npmjs.org", ""},
		{"https://npm.pkg.github.com/", "GITHUB_TOKEN"},
		{"https://npm.pkg.github.com", "GITHUB_TOKEN"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.registry, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.RegistryToEnvName(tt.registry))
		})
	}
}

func TestNormalizeRegistry(t *testing.T) {
	assert.Equal(t, "https://r.example.com/", domain.NormalizeRegistry("https://r.example.com"))
	assert.Equal(t, "https://r.example.com/", domain.NormalizeRegistry("https://r.example.com///"))
	assert.Empty(t, domain.NormalizeRegistry("  "))
}

func TestRegistryAuthKey(t *testing.T) {
	assert.Equal(t, "//registry.npmjs.org/", domain.RegistryAuthKey("https://registry.npmjs.org"))
	assert.Equal(t, "//npm.example.com:8443/repo/", domain.RegistryAuthKey("https://npm.example.com:8443/repo"))
}

func TestTarget_Key(t *testing.T) {
	a := domain.Target{Protocol: domain.ProtocolNPM, Registry: domain.NPMRegistry, Directory: "/r/pkg", Tag: "latest"}
	b := a
	b.Access = domain.AccessPublic
	c := a
	c.Registry = domain.GitHubRegistry

	assert.Equal(t, a.Key(), b.Key(), "access does not change the destination")
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Len(t, a.Key(), 16)
}

func TestTarget_String(t *testing.T) {
	assert.Equal(t, "jsr", domain.Target{Protocol: domain.ProtocolJSR}.String())
	assert.Equal(t, "npm https://registry.npmjs.org/",
		domain.Target{Protocol: domain.ProtocolNPM, Registry: domain.NPMRegistry}.String())
}

func TestPackageManager_Commands(t *testing.T) {
	name, args := domain.PackageManagerPNPM.Dlx("jsr", "publish")
	assert.Equal(t, "pnpm", name)
	assert.Equal(t, []string{"dlx", "jsr", "publish"}, args)

	name, args = domain.PackageManagerNPM.Dlx("jsr", "publish")
	assert.Equal(t, "npx", name)
	assert.Equal(t, []string{"--yes", "jsr", "publish"}, args)

	name, args = domain.PackageManagerBun.Exec("changeset", "status")
	assert.Equal(t, "bunx", name)
	assert.Equal(t, []string{"changeset", "status"}, args)
}

func TestParsePackageManager(t *testing.T) {
	pm, err := domain.ParsePackageManager("pnpm@9.1.0")
	assert.NoError(t, err)
	assert.Equal(t, domain.PackageManagerPNPM, pm)

	pm, err = domain.ParsePackageManager("")
	assert.NoError(t, err)
	assert.Equal(t, domain.PackageManagerNPM, pm)

	_, err = domain.ParsePackageManager("deno")
	assert.ErrorContains(t, err, domain.ErrUnsupportedPackageManager.Error())
}
