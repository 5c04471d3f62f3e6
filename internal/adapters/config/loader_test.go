package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ship/internal/adapters/config"
	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ship.yaml", `
version: "1"
packageManager: pnpm@9.12.0
build: pnpm -r run build
concurrency: 4
retry:
  attempts: 5
  backoff: 2s
releases:
  - "@acme/core@1.2.0"
  - "@acme/ui@2.0.0-beta.1"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, domain.PackageManagerPNPM, cfg.PackageManager)
	assert.Equal(t, []string{"pnpm", "-r", "run", "build"}, cfg.Build)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, domain.RetryPolicy{Attempts: 5, Backoff: 2 * time.Second}, cfg.Retry)
	assert.Equal(t, []domain.Release{
		{Name: "@acme/core", Version: "1.2.0"},
		{Name: "@acme/ui", Version: "2.0.0-beta.1"},
	}, cfg.Releases)
}

func TestLoad_YAMLCommandList(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ship.yml", `
build: ["sh", "-c", "turbo run build --filter='./packages/*'"]
skipBuild: true
retry:
  backoff: 30
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"sh", "-c", "turbo run build --filter='./packages/*'"}, cfg.Build)
	assert.True(t, cfg.SkipBuild)
	assert.Equal(t, 3, cfg.Retry.Attempts, "unset attempts keep the default")
	assert.Equal(t, 30*time.Second, cfg.Retry.Backoff)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ship.toml", `
packageManager = "yarn"
build = ["yarn", "build"]
concurrency = 2
releases = ["pkg@1.0.0"]

[retry]
attempts = 2
backoff = "500ms"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, domain.PackageManagerYarn, cfg.PackageManager)
	assert.Equal(t, []string{"yarn", "build"}, cfg.Build)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, domain.RetryPolicy{Attempts: 2, Backoff: 500 * time.Millisecond}, cfg.Retry)
	assert.Equal(t, []domain.Release{{Name: "pkg", Version: "1.0.0"}}, cfg.Releases)
}

func TestLoad_TOMLIntegerBackoff(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ship.toml", "build = \"make dist\"\n[retry]\nbackoff = 10\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"make", "dist"}, cfg.Build)
	assert.Equal(t, 10*time.Second, cfg.Retry.Backoff)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{"negative concurrency", "ship.yaml", "concurrency: -1\n", domain.ErrInvalidConfig.Error()},
		{"negative attempts", "ship.yaml", "retry:\n  attempts: -2\n", domain.ErrInvalidConfig.Error()},
		{"bad backoff", "ship.yaml", "retry:\n  backoff: soon\n", domain.ErrInvalidConfig.Error()},
		{"bad build", "ship.yaml", "build:\n  cmd: x\n", domain.ErrInvalidConfig.Error()},
		{"bad release", "ship.yaml", "releases: [\"nover\"]\n", domain.ErrInvalidRelease.Error()},
		{"bad package manager", "ship.toml", "packageManager = \"deno\"\n", domain.ErrUnsupportedPackageManager.Error()},
		{"malformed toml", "ship.toml", "concurrency = \n", domain.ErrInvalidConfig.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)

			_, err := config.Load(path)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestLoader_Load_DirectoryDiscovery(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ship.toml", "concurrency = 8\n")
	writeFile(t, dir, "ship.yaml", "concurrency: 3\n")

	cfg, err := newLoader(t).Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Concurrency, "ship.yaml takes precedence over ship.toml")
	assert.Equal(t, dir, cfg.Root)
}

func TestLoader_Load_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := newLoader(t).Load(dir)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultConfig(dir), cfg)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, domain.DefaultRetryPolicy(), cfg.Retry)
}

func TestLoader_Load_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "release.yaml", "skipBuild: true\n")

	cfg, err := newLoader(t).Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.SkipBuild)
	assert.Equal(t, dir, cfg.Root)
}

func TestLoader_Load_MissingPath(t *testing.T) {
	_, err := newLoader(t).Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, domain.ErrInvalidConfig.Error())
}
