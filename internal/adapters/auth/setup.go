// Package auth validates registry credentials and renders them into a private npm user config.
package auth

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const npmrcName = ".npmrc"

// Setup implements ports.AuthSetup.
type Setup struct {
	registry ports.RegistryClient
	logger   ports.Logger
	getenv   func(string) string
	tempDir  string
}

// Option configures a Setup.
type Option func(*Setup)

// WithGetenv replaces the environment lookup used to read tokens.
func WithGetenv(getenv func(string) string) Option {
	return func(s *Setup) {
		s.getenv = getenv
	}
}

// WithTempDir sets the parent directory of the generated npm user config.
func WithTempDir(dir string) Option {
	return func(s *Setup) {
		s.tempDir = dir
	}
}

// New creates a new Setup.
func New(registry ports.RegistryClient, logger ports.Logger, opts ...Option) *Setup {
	s := &Setup{
		registry: registry,
		logger:   logger,
		getenv:   os.Getenv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type registryAuth struct {
	registry string
	tokenEnv string
	token    string
	pingErr  error
}

// Setup reads the token of every distinct npm registry in targets and checks that
// each registry is reachable. JSR targets carry no registry and are skipped.
func (s *Setup) Setup(ctx context.Context, targets []domain.Target) (*domain.AuthReport, error) {
	entries := collect(targets)

	report := &domain.AuthReport{
		Credentials: domain.Credentials{Tokens: make(map[string]string)},
	}

	for _, e := range entries {
		report.ConfiguredRegistries = append(report.ConfiguredRegistries, e.registry)
		if e.tokenEnv == "" {
			continue
		}
		e.token = s.getenv(e.tokenEnv)
		if e.token == "" {
			s.logger.Warn("registry token not set", "registry", e.registry, "env", e.tokenEnv)
			report.MissingTokens = append(report.MissingTokens, domain.MissingToken{
				Registry: e.registry,
				TokenEnv: e.tokenEnv,
			})
			continue
		}
		report.Credentials.Tokens[e.registry] = e.token
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, e := range entries {
		g.Go(func() error {
			e.pingErr = s.registry.Ping(gctx, e.registry, e.token)
			return nil
		})
	}
	_ = g.Wait()

	for _, e := range entries {
		if e.pingErr == nil {
			continue
		}
		s.logger.Warn("registry unreachable", "registry", e.registry, "err", e.pingErr)
		report.UnreachableRegistries = append(report.UnreachableRegistries, domain.UnreachableRegistry{
			Registry: e.registry,
			Error:    e.pingErr.Error(),
		})
	}
	report.Success = len(report.UnreachableRegistries) == 0

	if len(report.Credentials.Tokens) > 0 {
		path, err := s.writeNpmrc(entries)
		if err != nil {
			return nil, err
		}
		report.Credentials.Npmrc = path
	}

	s.logger.Debug("registry auth prepared",
		"registries", len(report.ConfiguredRegistries),
		"missing_tokens", len(report.MissingTokens),
		"unreachable", len(report.UnreachableRegistries))
	return report, nil
}

// Teardown removes the generated npm user config.
func (s *Setup) Teardown(report *domain.AuthReport) error {
	if report == nil || report.Credentials.Npmrc == "" {
		return nil
	}
	if err := os.RemoveAll(filepath.Dir(report.Credentials.Npmrc)); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove npm user config"), "path", report.Credentials.Npmrc)
	}
	return nil
}

func (s *Setup) writeNpmrc(entries []*registryAuth) (string, error) {
	dir, err := os.MkdirTemp(s.tempDir, "ship-auth-*")
	if err != nil {
		return "", zerr.Wrap(err, "failed to create npm user config directory")
	}

	var b strings.Builder
	for _, e := range entries {
		if e.token == "" {
			continue
		}
		b.WriteString(domain.RegistryAuthKey(e.registry))
		b.WriteString(":_authToken=")
		b.WriteString(e.token)
		b.WriteByte('\n')
	}

	path := filepath.Join(dir, npmrcName)
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		_ = os.RemoveAll(dir)
		return "", zerr.With(zerr.Wrap(err, "failed to write npm user config"), "path", path)
	}
	return path, nil
}

// collect returns one entry per distinct npm registry, in first-seen order.
func collect(targets []domain.Target) []*registryAuth {
	var entries []*registryAuth
	seen := make(map[string]*registryAuth)
	for _, t := range targets {
		if t.Protocol != domain.ProtocolNPM || t.Registry == "" {
			continue
		}
		reg := domain.NormalizeRegistry(t.Registry)
		if e, ok := seen[reg]; ok {
			if e.tokenEnv == "" {
				e.tokenEnv = t.TokenEnv
			}
			continue
		}
		e := &registryAuth{registry: reg, tokenEnv: t.TokenEnv}
		seen[reg] = e
		entries = append(entries, e)
	}
	return entries
}
