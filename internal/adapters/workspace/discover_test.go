package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ship/internal/adapters/workspace"
	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
	"go.trai.ch/ship/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var _ ports.Workspace = (*workspace.Discoverer)(nil)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func newDiscoverer(t *testing.T) *workspace.Discoverer {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	return workspace.New(log)
}

func names(ws *domain.Workspace) []string {
	var out []string
	for name := range ws.Packages {
		out = append(out, name)
	}
	return out
}

func TestDiscover_NPMWorkspacesArray(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":                       `{"name":"root","private":true,"workspaces":["packages/*"]}`,
		"package-lock.json":                  `{}`,
		"packages/core/package.json":         `{"name":"@acme/core","version":"1.0.0"}`,
		"packages/ui/package.json":           `{"name":"@acme/ui","version":"2.0.0","dependencies":{"@acme/core":"^1.0.0"}}`,
		"packages/notes/README.md":           "no manifest here",
		"packages/core/node_modules/x/a.txt": "ignored",
	})

	ws, err := newDiscoverer(t).Discover(root)
	require.NoError(t, err)

	assert.Equal(t, domain.PackageManagerNPM, ws.PackageManager)
	assert.ElementsMatch(t, []string{"@acme/core", "@acme/ui"}, names(ws))
	assert.Equal(t, filepath.Join(root, "packages", "ui"), ws.Packages["@acme/ui"].Path)
	assert.Equal(t, []string{"@acme/core"}, ws.Packages["@acme/ui"].Manifest.DependencyNames())
}

func TestDiscover_YarnWorkspacesObject(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":         `{"name":"root","private":true,"workspaces":{"packages":["libs/*"]}}`,
		"yarn.lock":            "",
		"libs/a/package.json":  `{"name":"a","version":"0.1.0"}`,
		"libs/b/package.json":  `{"name":"b","version":"0.1.0"}`,
		"other/c/package.json": `{"name":"c","version":"0.1.0"}`,
	})

	ws, err := newDiscoverer(t).Discover(root)
	require.NoError(t, err)

	assert.Equal(t, domain.PackageManagerYarn, ws.PackageManager)
	assert.ElementsMatch(t, []string{"a", "b"}, names(ws))
}

func TestDiscover_PNPMWorkspaceWithRecursiveGlobAndExclusion(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":                             `{"name":"root","private":true,"packageManager":"pnpm@9.1.0"}`,
		"pnpm-workspace.yaml":                      "packages:\n  - 'packages/**'\n  - '!packages/internal/**'\n",
		"packages/a/package.json":                  `{"name":"a","version":"1.0.0"}`,
		"packages/group/b/package.json":            `{"name":"b","version":"1.0.0"}`,
		"packages/internal/secret/package.json":    `{"name":"secret","version":"1.0.0"}`,
		"packages/a/node_modules/dep/package.json": `{"name":"dep","version":"1.0.0"}`,
	})

	ws, err := newDiscoverer(t).Discover(root)
	require.NoError(t, err)

	assert.Equal(t, domain.PackageManagerPNPM, ws.PackageManager)
	assert.ElementsMatch(t, []string{"a", "b"}, names(ws))
}

func TestDiscover_SinglePackage(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json": `{"name":"solo","version":"3.0.0"}`,
		"bun.lockb":    "",
	})

	ws, err := newDiscoverer(t).Discover(root)
	require.NoError(t, err)

	assert.Equal(t, domain.PackageManagerBun, ws.PackageManager)
	require.Contains(t, ws.Packages, "solo")
	assert.Equal(t, root, ws.Packages["solo"].Path)
}

func TestDiscover_DuplicateNames(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":            `{"name":"root","workspaces":["packages/*"]}`,
		"packages/a/package.json": `{"name":"same","version":"1.0.0"}`,
		"packages/b/package.json": `{"name":"same","version":"1.0.0"}`,
	})

	_, err := newDiscoverer(t).Discover(root)
	assert.ErrorContains(t, err, domain.ErrDuplicatePackage.Error())
}

func TestDiscover_MissingRootManifest(t *testing.T) {
	_, err := newDiscoverer(t).Discover(t.TempDir())
	assert.ErrorContains(t, err, domain.ErrInvalidManifest.Error())
}

func TestDiscover_InvalidMemberManifest(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":            `{"name":"root","workspaces":["packages/*"]}`,
		"packages/a/package.json": `{"name":`,
	})

	_, err := newDiscoverer(t).Discover(root)
	assert.ErrorContains(t, err, domain.ErrInvalidManifest.Error())
}
