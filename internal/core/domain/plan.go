package domain

// PlannedPackage is a package of the release set together with its resolved targets.
type PlannedPackage struct {
	Package Package  `json:"package"`
	Targets []Target `json:"targets"`
	// Rank is the dependency level of the package; rank 0 has no in-set dependencies.
	Rank int `json:"rank"`
}

// Plan is the ordered publish plan for one run.
type Plan struct {
	Root           string         `json:"root"`
	PackageManager PackageManager `json:"packageManager"`
	// Packages are in publish order. Packages without targets are not included.
	Packages []PlannedPackage `json:"packages"`
	// Edges maps each planned package to the planned packages it depends on.
	Edges map[string][]string `json:"edges,omitempty"`
	// Sorted is false when a dependency cycle forced the input order.
	Sorted bool   `json:"sorted"`
	Cycle  string `json:"cycle,omitempty"`
	// Excluded lists release-set packages that resolved to zero targets.
	Excluded []string `json:"excluded,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Names returns the planned package names in publish order.
func (p *Plan) Names() []string {
	names := make([]string, 0, len(p.Packages))
	for _, pkg := range p.Packages {
		names = append(names, pkg.Package.Name)
	}
	return names
}

// Targets returns every target of every planned package.
func (p *Plan) Targets() []Target {
	var targets []Target
	for _, pkg := range p.Packages {
		targets = append(targets, pkg.Targets...)
	}
	return targets
}
