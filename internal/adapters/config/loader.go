// Package config provides the configuration loader for ship.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Filenames are the configuration files looked up in a repository root, in order.
var Filenames = []string{"ship.yaml", "ship.yml", "ship.toml"}

// Loader implements ports.ConfigLoader for YAML and TOML files.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the configuration at path.
//
// A directory is searched for one of Filenames and yields defaults when none exists.
// A file path must exist. An empty path means the current directory.
func (l *Loader) Load(path string) (*domain.Config, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve config path")
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "path", abs)
	}

	if !info.IsDir() {
		return Load(abs)
	}

	for _, name := range Filenames {
		candidate := filepath.Join(abs, name)
		if _, err := os.Stat(candidate); err == nil {
			l.logger.Debug("loading configuration", "path", candidate)
			return Load(candidate)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "path", candidate)
		}
	}

	l.logger.Debug("no configuration file found, using defaults", "root", abs)
	return domain.DefaultConfig(abs), nil
}

// Load reads a configuration file and returns the resolved domain.Config. The
// repository root is the directory containing the file.
func Load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	var file Shipfile
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &file)
	} else {
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "path", path)
	}

	cfg, err := file.toDomain(filepath.Dir(path))
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return cfg, nil
}

func (f *Shipfile) toDomain(root string) (*domain.Config, error) {
	cfg := domain.DefaultConfig(root)
	cfg.Build = f.Build
	cfg.SkipBuild = f.SkipBuild

	if f.PackageManager != "" {
		pm, err := domain.ParsePackageManager(f.PackageManager)
		if err != nil {
			return nil, err
		}
		cfg.PackageManager = pm
	}

	switch {
	case f.Concurrency < 0:
		return nil, zerr.With(domain.ErrInvalidConfig, "concurrency", f.Concurrency)
	case f.Concurrency > 0:
		cfg.Concurrency = f.Concurrency
	}

	switch {
	case f.Retry.Attempts < 0:
		return nil, zerr.With(domain.ErrInvalidConfig, "retry.attempts", f.Retry.Attempts)
	case f.Retry.Attempts > 0:
		cfg.Retry.Attempts = f.Retry.Attempts
	}
	if f.Retry.Backoff.Set {
		if f.Retry.Backoff.Duration < 0 {
			return nil, zerr.With(domain.ErrInvalidConfig, "retry.backoff", f.Retry.Backoff.String())
		}
		cfg.Retry.Backoff = f.Retry.Backoff.Duration
	}

	releases, err := domain.ParseReleases(f.Releases)
	if err != nil {
		return nil, err
	}
	if len(releases) > 0 {
		cfg.Releases = releases
	}

	return cfg, nil
}
