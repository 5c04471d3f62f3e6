// Package planner turns a release set into an ordered publish plan.
package planner

import (
	"context"
	"fmt"
	"slices"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
	"go.trai.ch/ship/internal/engine/targets"
	"go.trai.ch/zerr"
)

// Planner builds publish plans. It has no side effects beyond reading the workspace
// and asking the release source for the release set.
type Planner struct {
	workspace ports.Workspace
	resolver  *targets.Resolver
	logger    ports.Logger
}

// New creates a new Planner.
func New(workspace ports.Workspace, resolver *targets.Resolver, logger ports.Logger) *Planner {
	return &Planner{
		workspace: workspace,
		resolver:  resolver,
		logger:    logger,
	}
}

// Plan discovers the workspace under root, reads the release set from source and
// returns the packages to publish in dependency order. pm overrides the detected
// package manager when set.
func (p *Planner) Plan(
	ctx context.Context,
	root string,
	pm domain.PackageManager,
	source ports.ReleaseSource,
) (*domain.Plan, error) {
	ws, err := p.workspace.Discover(root)
	if err != nil {
		return nil, err
	}
	if pm == "" {
		pm = ws.PackageManager
	}

	releases, err := source.Releases(ctx, ws.Root, pm)
	if err != nil {
		return nil, err
	}

	plan := &domain.Plan{
		Root:           ws.Root,
		PackageManager: pm,
		Packages:       []domain.PlannedPackage{},
		Edges:          map[string][]string{},
		Sorted:         true,
	}

	releases, err = dedupeReleases(releases)
	if err != nil {
		return nil, err
	}

	planned := make(map[string]domain.PlannedPackage, len(releases))
	var names []string
	for _, rel := range releases {
		pkg, warnings, err := p.planPackage(ws, rel)
		if err != nil {
			return nil, err
		}
		plan.Warnings = append(plan.Warnings, warnings...)

		if len(pkg.Targets) == 0 {
			p.logger.Debug("package has no publish targets, excluding", "package", rel.Name)
			plan.Excluded = append(plan.Excluded, rel.Name)
			continue
		}
		planned[rel.Name] = pkg
		names = append(names, rel.Name)
	}

	deps := make(map[string][]string, len(names))
	for _, name := range names {
		deps[name] = planned[name].Package.Manifest.DependencyNames()
	}
	plan.Edges = domain.RestrictEdges(names, deps)

	ordered, ok, cycle := domain.SortPackages(names, plan.Edges)
	if !ok {
		plan.Sorted = false
		plan.Cycle = cycle
		plan.Warnings = append(plan.Warnings, "dependency cycle detected, publishing in release order: "+cycle)
		p.logger.Warn("dependency cycle detected", "cycle", cycle)
	}

	rank := make(map[string]int, len(ordered))
	if ok {
		for level, group := range domain.Ranks(ordered, plan.Edges) {
			for _, name := range group {
				rank[name] = level
			}
		}
	}

	for _, name := range ordered {
		pkg := planned[name]
		pkg.Rank = rank[name]
		plan.Packages = append(plan.Packages, pkg)
	}

	p.logger.Debug("publish plan ready",
		"packages", len(plan.Packages),
		"excluded", len(plan.Excluded),
		"targets", len(plan.Targets()))
	return plan, nil
}

func (p *Planner) planPackage(ws *domain.Workspace, rel domain.Release) (domain.PlannedPackage, []string, error) {
	member, ok := ws.Packages[rel.Name]
	if !ok {
		return domain.PlannedPackage{}, nil, zerr.With(domain.ErrUnknownPackage, "package", rel.Name)
	}

	version, err := semver.StrictNewVersion(rel.Version)
	if err != nil {
		return domain.PlannedPackage{}, nil, zerr.With(zerr.With(zerr.Wrap(err, domain.ErrInvalidVersion.Error()),
			"package", rel.Name), "version", rel.Version)
	}

	resolved, err := p.resolver.Resolve(member.Path, member.Manifest)
	if err != nil {
		return domain.PlannedPackage{}, nil, err
	}

	var warnings []string
	if member.Manifest.Version != "" && member.Manifest.Version != rel.Version {
		warnings = append(warnings, fmt.Sprintf("%s: package.json version %s differs from release version %s",
			rel.Name, member.Manifest.Version, rel.Version))
	}
	if version.Prerelease() != "" && slices.ContainsFunc(resolved, func(t domain.Target) bool {
		return t.Tag == domain.DefaultTag
	}) {
		warnings = append(warnings, fmt.Sprintf("%s@%s: prerelease version published with the %q tag",
			rel.Name, rel.Version, domain.DefaultTag))
	}

	return domain.PlannedPackage{
		Package: domain.Package{
			Name:     rel.Name,
			Version:  rel.Version,
			Path:     member.Path,
			Manifest: member.Manifest,
		},
		Targets: resolved,
	}, warnings, nil
}

// dedupeReleases drops repeated entries and rejects a package listed with two versions.
func dedupeReleases(releases []domain.Release) ([]domain.Release, error) {
	seen := make(map[string]string, len(releases))
	out := make([]domain.Release, 0, len(releases))
	for _, rel := range releases {
		if v, dup := seen[rel.Name]; dup {
			if v != rel.Version {
				return nil, zerr.With(zerr.With(domain.ErrInvalidRelease, "package", rel.Name), "versions", v+", "+rel.Version)
			}
			continue
		}
		seen[rel.Name] = rel.Version
		out = append(out, rel)
	}
	return out, nil
}
