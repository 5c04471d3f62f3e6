// Package releases provides the sources of a run's release set.
package releases

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
	"go.trai.ch/zerr"
)

const statusFile = "changeset-status.json"

// Changesets reads pending releases from "changeset status --output".
type Changesets struct {
	runner  ports.CommandRunner
	tempDir string
}

// NewChangesets creates a Changesets source. tempDir is the parent of the status
// file; empty means the system temp directory.
func NewChangesets(runner ports.CommandRunner, tempDir string) *Changesets {
	return &Changesets{runner: runner, tempDir: tempDir}
}

type changesetStatus struct {
	Releases []changesetRelease `json:"releases"`
}

type changesetRelease struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NewVersion string `json:"newVersion"`
}

// Releases runs the changesets CLI through pm and returns every release whose
// bump type is not "none".
func (c *Changesets) Releases(ctx context.Context, root string, pm domain.PackageManager) ([]domain.Release, error) {
	dir, err := os.MkdirTemp(c.tempDir, "ship-changesets-*")
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrReleaseSource.Error())
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, statusFile)
	name, args := pm.Exec("changeset", "status", "--output", out)

	res, err := c.runner.Run(ctx, domain.Command{Name: name, Args: args, Dir: root})
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrReleaseSource.Error())
	}
	if res.ExitCode != 0 {
		return nil, zerr.With(zerr.With(domain.ErrReleaseSource, "exit_code", res.ExitCode), "stderr", res.Message())
	}

	data, err := os.ReadFile(out) //nolint:gosec // path created above
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrReleaseSource.Error()), "path", out)
	}
	return ParseStatus(data)
}

// ParseStatus decodes a changesets status document.
func ParseStatus(data []byte) ([]domain.Release, error) {
	var status changesetStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, zerr.Wrap(err, domain.ErrReleaseSource.Error())
	}

	releases := make([]domain.Release, 0, len(status.Releases))
	for _, r := range status.Releases {
		if r.Type == domain.ReleaseTypeNone {
			continue
		}
		if r.Name == "" || r.NewVersion == "" {
			return nil, zerr.With(domain.ErrReleaseSource, "release", r.Name)
		}
		releases = append(releases, domain.Release{Name: r.Name, Version: r.NewVersion, Type: r.Type})
	}
	return releases, nil
}
