// Package packer produces publishable tarballs through the workspace package manager.
package packer

import (
	"context"
	"crypto/sha1" //nolint:gosec // npm's dist.shasum is sha1
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"
	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
	"go.trai.ch/zerr"
)

// Packer implements ports.Packer by running the package manager's pack command.
type Packer struct {
	runner ports.CommandRunner
}

// New creates a new Packer.
func New(runner ports.CommandRunner) *Packer {
	return &Packer{runner: runner}
}

// Pack packs dir into a fresh directory under dest and hashes the tarball.
func (p *Packer) Pack(ctx context.Context, dir string, pm domain.PackageManager, dest string) (*domain.Artifact, error) {
	out, err := os.MkdirTemp(dest, "pack-*")
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrPackFailed.Error())
	}

	cmd := Command(dir, pm, out)
	res, err := p.runner.Run(ctx, cmd)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPackFailed.Error()), "directory", dir)
	}
	if res.ExitCode != 0 {
		return nil, zerr.With(zerr.With(zerr.With(domain.ErrPackFailed,
			"directory", dir), "exit_code", res.ExitCode), "stderr", res.Message())
	}

	path, err := locate(out, res.Stdout)
	if err != nil {
		return nil, zerr.With(err, "directory", dir)
	}
	return Hash(path)
}

// Command returns the pack command for pm writing its tarball into out.
func Command(dir string, pm domain.PackageManager, out string) domain.Command {
	cmd := domain.Command{Name: string(pm), Dir: dir}
	switch pm {
	case domain.PackageManagerPNPM:
		cmd.Args = []string{"pack", "--pack-destination", out}
	case domain.PackageManagerYarn:
		cmd.Args = []string{"pack", "--out", filepath.Join(out, "package.tgz")}
	case domain.PackageManagerBun:
		cmd.Args = []string{"pm", "pack", "--destination", out}
	default:
		cmd.Name = string(domain.PackageManagerNPM)
		cmd.Args = []string{"pack", "--json", "--pack-destination", out}
	}
	return cmd
}

// Hash reads the tarball at path once and computes every digest registries compare.
func Hash(path string) (*domain.Artifact, error) {
	f, err := os.Open(path) //nolint:gosec // path produced by the pack command
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrArtifactNotFound.Error()), "path", path)
	}
	defer f.Close()

	digester := digest.Canonical.Digester()
	sha1Hash := sha1.New() //nolint:gosec // npm's dist.shasum is sha1
	sha512Hash := sha512.New()

	if _, err := io.Copy(io.MultiWriter(digester.Hash(), sha1Hash, sha512Hash), f); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPackFailed.Error()), "path", path)
	}

	return &domain.Artifact{
		Path:      path,
		Filename:  filepath.Base(path),
		Digest:    digester.Digest().String(),
		Shasum:    hex.EncodeToString(sha1Hash.Sum(nil)),
		Integrity: "sha512-" + base64.StdEncoding.EncodeToString(sha512Hash.Sum(nil)),
	}, nil
}

type packListing struct {
	Filename string `json:"filename"`
}

// locate finds the tarball in out, preferring the name reported by the pack command.
func locate(out, stdout string) (string, error) {
	for _, name := range reportedNames(stdout) {
		candidate := filepath.Join(out, filepath.Base(name))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	matches, err := filepath.Glob(filepath.Join(out, "*.tgz"))
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrArtifactNotFound.Error())
	}
	if len(matches) != 1 {
		return "", zerr.With(domain.ErrArtifactNotFound, "candidates", len(matches))
	}
	return matches[0], nil
}

// reportedNames extracts tarball names from npm's JSON listing or from the last
// ".tgz" line printed by other managers.
func reportedNames(stdout string) []string {
	var names []string

	var listing []packListing
	if start := strings.Index(stdout, "["); start >= 0 {
		if err := json.Unmarshal([]byte(stdout[start:]), &listing); err == nil {
			for _, entry := range listing {
				if entry.Filename != "" {
					names = append(names, entry.Filename)
				}
			}
		}
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasSuffix(line, ".tgz") {
			fields := strings.Fields(line)
			names = append(names, fields[len(fields)-1])
			break
		}
	}
	return names
}
