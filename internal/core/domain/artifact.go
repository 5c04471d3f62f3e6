package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Artifact is the packed tarball of one package. It is produced once per run and
// reused by the conflict check and the publish call so the validated bytes are the
// published bytes.
type Artifact struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	// Digest is the sha256 content digest in "sha256:<hex>" form.
	Digest string `json:"digest"`
	// Shasum is the hex sha1 of the tarball, as npm reports in dist.shasum.
	Shasum string `json:"shasum"`
	// Integrity is the sha512 subresource-integrity string, as npm reports in dist.integrity.
	Integrity string `json:"integrity"`
}

// PublishedVersion is what a registry reports for an already published version.
type PublishedVersion struct {
	Name      string
	Version   string
	Shasum    string
	Integrity string
	Tarball   string
}

// PackageManager is the front-end used to pack and publish.
type PackageManager string

const (
	PackageManagerNPM  PackageManager = "npm"
	PackageManagerPNPM PackageManager = "pnpm"
	PackageManagerYarn PackageManager = "yarn"
	PackageManagerBun  PackageManager = "bun"
)

// ParsePackageManager accepts a bare name or a corepack spec such as "pnpm@9.1.0".
func ParsePackageManager(s string) (PackageManager, error) {
	name, _, _ := strings.Cut(strings.TrimSpace(s), "@")
	switch pm := PackageManager(strings.ToLower(name)); pm {
	case PackageManagerNPM, PackageManagerPNPM, PackageManagerYarn, PackageManagerBun:
		return pm, nil
	case "":
		return PackageManagerNPM, nil
	default:
		return "", zerr.With(ErrUnsupportedPackageManager, "package_manager", s)
	}
}

// Exec returns the command that runs a locally installed binary through pm.
func (pm PackageManager) Exec(bin string, args ...string) (string, []string) {
	switch pm {
	case PackageManagerPNPM:
		return "pnpm", append([]string{"exec", bin}, args...)
	case PackageManagerYarn:
		return "yarn", append([]string{bin}, args...)
	case PackageManagerBun:
		return "bunx", append([]string{bin}, args...)
	default:
		return "npx", append([]string{"--no-install", bin}, args...)
	}
}

// Dlx returns the command that downloads and runs pkg through pm.
func (pm PackageManager) Dlx(pkg string, args ...string) (string, []string) {
	switch pm {
	case PackageManagerPNPM:
		return "pnpm", append([]string{"dlx", pkg}, args...)
	case PackageManagerYarn:
		return "yarn", append([]string{"dlx", pkg}, args...)
	case PackageManagerBun:
		return "bunx", append([]string{pkg}, args...)
	default:
		return "npx", append([]string{"--yes", pkg}, args...)
	}
}
