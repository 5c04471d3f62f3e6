// Package targets resolves the publish destinations declared in a package manifest.
package targets

import (
	"path/filepath"
	"strings"

	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/zerr"
)

// Shorthand presets accepted in publishConfig.targets.
const (
	ShorthandNPM    = "npm"
	ShorthandGitHub = "github"
	ShorthandJSR    = "jsr"
)

// Resolver turns a manifest's publish configuration into concrete targets.
// Relative package paths are made absolute against the working directory.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// defaults carries the package-level values targets inherit.
type defaults struct {
	root       string
	access     string
	directory  string
	tag        string
	provenance *bool
}

// Resolve returns the targets of the package rooted at packagePath.
//
// A private package without publishConfig has no targets. A package without
// publishConfig.targets publishes to the single registry named by publishConfig
// (public npm when unset).
func (r *Resolver) Resolve(packagePath string, manifest domain.Manifest) ([]domain.Target, error) {
	cfg := manifest.PublishConfig
	if cfg == nil {
		if manifest.Private {
			return []domain.Target{}, nil
		}
		cfg = &domain.PublishConfig{}
	}

	root, err := filepath.Abs(packagePath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve package directory"), "package", manifest.Name)
	}

	d := defaults{
		root:       root,
		access:     cfg.Access,
		directory:  cfg.Directory,
		tag:        cfg.Tag,
		provenance: cfg.Provenance,
	}

	if len(cfg.Targets) == 0 {
		registry := cfg.Registry
		if registry == "" {
			registry = domain.NPMRegistry
		}
		t, err := d.npmTarget(registry, boolOr(cfg.Provenance, domain.IsNPMRegistry(registry)), nil)
		if err != nil {
			return nil, zerr.With(err, "package", manifest.Name)
		}
		return []domain.Target{t}, nil
	}

	targets := make([]domain.Target, 0, len(cfg.Targets))
	for i, spec := range cfg.Targets {
		t, err := d.resolveSpec(spec)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "package", manifest.Name), "target_index", i)
		}
		targets = append(targets, t)
	}
	return targets, nil
}

func (d defaults) resolveSpec(spec domain.TargetSpec) (domain.Target, error) {
	switch spec.Kind {
	case domain.TargetSpecShorthand:
		return d.resolveShorthand(spec.Shorthand)
	case domain.TargetSpecURL:
		return d.npmTarget(spec.URL, false, nil)
	case domain.TargetSpecObject:
		if spec.Object == nil {
			return domain.Target{}, zerr.With(domain.ErrInvalidTarget, "reason", "empty target object")
		}
		return d.resolveObject(*spec.Object)
	default:
		return domain.Target{}, zerr.With(domain.ErrInvalidTarget, "reason", "unrecognized target entry")
	}
}

func (d defaults) resolveShorthand(name string) (domain.Target, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ShorthandNPM:
		return d.npmTarget(domain.NPMRegistry, true, nil)
	case ShorthandGitHub:
		return d.npmTarget(domain.GitHubRegistry, true, nil)
	case ShorthandJSR:
		return d.jsrTarget(false)
	default:
		return domain.Target{}, zerr.With(domain.ErrUnknownTargetShorthand, "shorthand", name)
	}
}

func (d defaults) resolveObject(obj domain.TargetObject) (domain.Target, error) {
	o := d
	if obj.Access != "" {
		o.access = obj.Access
	}
	if obj.Directory != "" {
		o.directory = obj.Directory
	}
	if obj.Tag != "" {
		o.tag = obj.Tag
	}
	provenance := boolOr(obj.Provenance, boolOr(d.provenance, false))

	switch domain.Protocol(strings.ToLower(obj.Protocol)) {
	case "", domain.ProtocolNPM:
		registry := obj.Registry
		if registry == "" {
			registry = domain.NPMRegistry
		}
		return o.npmTarget(registry, provenance, obj.TokenEnv)
	case domain.ProtocolJSR:
		t, err := o.jsrTarget(provenance)
		if err == nil && obj.TokenEnv != nil {
			t.TokenEnv = *obj.TokenEnv
		}
		return t, err
	default:
		return domain.Target{}, zerr.With(domain.ErrInvalidTarget, "protocol", obj.Protocol)
	}
}

// npmTarget builds an npm-protocol target. tokenEnv overrides the variable derived
// from the registry; a pointer to "" means the target uses ambient credentials.
func (d defaults) npmTarget(registry string, provenance bool, tokenEnv *string) (domain.Target, error) {
	access, err := d.resolveAccess()
	if err != nil {
		return domain.Target{}, err
	}

	registry = domain.NormalizeRegistry(registry)
	env := domain.RegistryToEnvName(registry)
	if tokenEnv != nil {
		env = *tokenEnv
	}

	return domain.Target{
		Protocol:   domain.ProtocolNPM,
		Registry:   registry,
		Directory:  d.resolveDirectory(),
		Access:     access,
		Provenance: provenance,
		Tag:        d.resolveTag(),
		TokenEnv:   env,
	}, nil
}

func (d defaults) jsrTarget(provenance bool) (domain.Target, error) {
	access, err := d.resolveAccess()
	if err != nil {
		return domain.Target{}, err
	}
	return domain.Target{
		Protocol:   domain.ProtocolJSR,
		Directory:  d.resolveDirectory(),
		Access:     access,
		Provenance: provenance,
		Tag:        d.resolveTag(),
	}, nil
}

func (d defaults) resolveAccess() (domain.Access, error) {
	switch access := domain.Access(strings.ToLower(d.access)); access {
	case "":
		return domain.AccessRestricted, nil
	case domain.AccessPublic, domain.AccessRestricted:
		return access, nil
	default:
		return "", zerr.With(domain.ErrInvalidTarget, "access", d.access)
	}
}

func (d defaults) resolveDirectory() string {
	dir := d.directory
	if dir == "" {
		return filepath.Clean(d.root)
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(d.root, dir)
}

func (d defaults) resolveTag() string {
	if d.tag == "" {
		return domain.DefaultTag
	}
	return d.tag
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
