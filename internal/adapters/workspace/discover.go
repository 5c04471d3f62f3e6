// Package workspace discovers the packages of an npm-style monorepo.
package workspace

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	manifestName     = "package.json"
	pnpmWorkspace    = "pnpm-workspace.yaml"
	recursiveSegment = "**"
)

// lockfiles maps lockfile names to the package manager that writes them, in
// detection order.
var lockfiles = []struct {
	name string
	pm   domain.PackageManager
}{
	{"pnpm-lock.yaml", domain.PackageManagerPNPM},
	{"yarn.lock", domain.PackageManagerYarn},
	{"bun.lock", domain.PackageManagerBun},
	{"bun.lockb", domain.PackageManagerBun},
	{"package-lock.json", domain.PackageManagerNPM},
}

// Discoverer implements ports.Workspace.
type Discoverer struct {
	logger ports.Logger
}

// New creates a new Discoverer.
func New(logger ports.Logger) *Discoverer {
	return &Discoverer{logger: logger}
}

type rootManifest struct {
	Workspaces workspacesField `json:"workspaces"`
}

// workspacesField accepts both `"workspaces": [...]` and `"workspaces": {"packages": [...]}`.
type workspacesField []string

func (w *workspacesField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Packages []string `json:"packages"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*w = obj.Packages
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*w = list
	return nil
}

type pnpmWorkspaceFile struct {
	Packages []string `yaml:"packages"`
}

// Discover reads the root manifest, expands the workspace globs and loads every
// member package. A root without workspace globs is a single-package repository.
func (d *Discoverer) Discover(root string) (*domain.Workspace, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve workspace root")
	}

	data, err := os.ReadFile(filepath.Join(absRoot, manifestName)) //nolint:gosec // root is user provided
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidManifest.Error()), "path", filepath.Join(absRoot, manifestName))
	}
	manifest, err := domain.ParseManifest(data)
	if err != nil {
		return nil, zerr.With(err, "path", filepath.Join(absRoot, manifestName))
	}

	patterns, err := workspacePatterns(absRoot, data)
	if err != nil {
		return nil, err
	}

	ws := &domain.Workspace{
		Root:           absRoot,
		PackageManager: detectPackageManager(absRoot, manifest.PackageManager),
		Packages:       make(map[string]domain.WorkspacePackage),
	}

	if len(patterns) == 0 {
		if manifest.Name != "" {
			ws.Packages[manifest.Name] = domain.WorkspacePackage{Path: absRoot, Manifest: manifest}
		}
		return ws, nil
	}

	paths, err := resolvePackagePaths(absRoot, patterns)
	if err != nil {
		return nil, err
	}

	origins := make(map[string]string)
	for _, path := range paths {
		if err := d.addPackage(ws, origins, path); err != nil {
			return nil, err
		}
	}

	d.logger.Debug("workspace discovered",
		"root", absRoot,
		"package_manager", ws.PackageManager,
		"packages", len(ws.Packages))
	return ws, nil
}

func (d *Discoverer) addPackage(ws *domain.Workspace, origins map[string]string, dir string) error {
	relPath, _ := filepath.Rel(ws.Root, dir)
	manifestPath := filepath.Join(dir, manifestName)

	data, err := os.ReadFile(manifestPath) //nolint:gosec // path built from workspace globs
	if os.IsNotExist(err) {
		d.logger.Debug(manifestName+" missing, skipping", "path", relPath)
		return nil
	}
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInvalidManifest.Error()), "path", manifestPath)
	}

	manifest, err := domain.ParseManifest(data)
	if err != nil {
		return zerr.With(err, "path", manifestPath)
	}
	if manifest.Name == "" {
		d.logger.Warn("package without a name, skipping", "path", relPath)
		return nil
	}

	if first, exists := origins[manifest.Name]; exists {
		err := zerr.With(domain.ErrDuplicatePackage, "package", manifest.Name)
		err = zerr.With(err, "first_occurrence", first)
		return zerr.With(err, "duplicate_at", relPath)
	}
	origins[manifest.Name] = relPath
	ws.Packages[manifest.Name] = domain.WorkspacePackage{Path: dir, Manifest: manifest}
	return nil
}

// workspacePatterns prefers pnpm-workspace.yaml over the root manifest's workspaces field.
func workspacePatterns(root string, manifestData []byte) ([]string, error) {
	yamlPath := filepath.Join(root, pnpmWorkspace)
	if data, err := os.ReadFile(yamlPath); err == nil { //nolint:gosec // fixed name under root
		var file pnpmWorkspaceFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidManifest.Error()), "path", yamlPath)
		}
		return file.Packages, nil
	}

	var rm rootManifest
	if err := json.Unmarshal(manifestData, &rm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidManifest.Error()), "field", "workspaces")
	}
	return rm.Workspaces, nil
}

func detectPackageManager(root, declared string) domain.PackageManager {
	if declared != "" {
		if pm, err := domain.ParsePackageManager(declared); err == nil {
			return pm
		}
	}
	for _, lf := range lockfiles {
		if _, err := os.Stat(filepath.Join(root, lf.name)); err == nil {
			return lf.pm
		}
	}
	return domain.PackageManagerNPM
}

// resolvePackagePaths expands include patterns, removes "!"-prefixed exclusions
// and returns the sorted, de-duplicated directories.
func resolvePackagePaths(root string, patterns []string) ([]string, error) {
	var includes, excludes []string
	for _, p := range patterns {
		p = strings.TrimSuffix(filepath.ToSlash(strings.TrimSpace(p)), "/")
		if p == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(p, "!"); ok {
			excludes = append(excludes, strings.TrimPrefix(rest, "./"))
			continue
		}
		includes = append(includes, strings.TrimPrefix(p, "./"))
	}

	found := make(map[string]struct{})
	for _, pattern := range includes {
		matches, err := expand(root, pattern)
		if err != nil {
			return nil, zerr.Wrap(err, "glob pattern failed: "+pattern)
		}
		for _, m := range matches {
			found[m] = struct{}{}
		}
	}

	paths := make([]string, 0, len(found))
	for p := range found {
		rel, _ := filepath.Rel(root, p)
		if !excluded(filepath.ToSlash(rel), excludes) {
			paths = append(paths, p)
		}
	}
	slices.Sort(paths)
	return paths, nil
}

// expand resolves one include pattern to directories. A trailing "**" segment
// matches every directory below its prefix.
func expand(root, pattern string) ([]string, error) {
	if prefix, ok := strings.CutSuffix(pattern, "/"+recursiveSegment); ok {
		bases, err := globDirs(root, prefix)
		if err != nil {
			return nil, err
		}
		var dirs []string
		for _, base := range bases {
			dirs = append(dirs, walkDirs(base)...)
		}
		return dirs, nil
	}
	return globDirs(root, pattern)
}

func globDirs(root, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(pattern)))
	if err != nil {
		return nil, err
	}
	dirs := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.IsDir() && !skipped(filepath.Base(m)) {
			dirs = append(dirs, m)
		}
	}
	return dirs, nil
}

func walkDirs(base string) []string {
	var dirs []string
	_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != base && skipped(d.Name()) {
			return filepath.SkipDir
		}
		if path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs
}

func skipped(name string) bool {
	return name == "node_modules" || name == ".git" || name == ".jj"
}

func excluded(rel string, excludes []string) bool {
	for _, ex := range excludes {
		if prefix, ok := strings.CutSuffix(ex, "/"+recursiveSegment); ok {
			if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
				return true
			}
			continue
		}
		if ok, _ := filepath.Match(ex, rel); ok {
			return true
		}
	}
	return false
}
