package domain

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Manifest holds the package.json fields the publish engine reads.
type Manifest struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Private              bool              `json:"private,omitempty"`
	PackageManager       string            `json:"packageManager,omitempty"`
	PublishConfig        *PublishConfig    `json:"publishConfig,omitempty"`
	Dependencies         map[string]string `json:"dependencies,omitempty"`
	DevDependencies      map[string]string `json:"devDependencies,omitempty"`
	PeerDependencies     map[string]string `json:"peerDependencies,omitempty"`
	OptionalDependencies map[string]string `json:"optionalDependencies,omitempty"`
}

// DependencyNames returns the sorted, de-duplicated names of every declared dependency.
func (m Manifest) DependencyNames() []string {
	var names []string
	for _, deps := range []map[string]string{
		m.Dependencies, m.DevDependencies, m.PeerDependencies, m.OptionalDependencies,
	} {
		for name := range deps {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// PublishConfig is the package-level publish configuration.
type PublishConfig struct {
	Access     string       `json:"access,omitempty"`
	Registry   string       `json:"registry,omitempty"`
	Directory  string       `json:"directory,omitempty"`
	Tag        string       `json:"tag,omitempty"`
	Provenance *bool        `json:"provenance,omitempty"`
	Targets    []TargetSpec `json:"targets,omitempty"`
}

// TargetSpecKind discriminates the shapes a target entry can take.
type TargetSpecKind int

const (
	// TargetSpecShorthand is a preset keyword such as "npm", "github" or "jsr".
	TargetSpecShorthand TargetSpecKind = iota + 1
	// TargetSpecURL is a bare registry URL.
	TargetSpecURL
	// TargetSpecObject is a fully specified target.
	TargetSpecObject
)

// TargetSpec is a single entry of publishConfig.targets as written by the user.
// Exactly one of Shorthand, URL or Object is set, according to Kind.
type TargetSpec struct {
	Kind      TargetSpecKind
	Shorthand string
	URL       string
	Object    *TargetObject
}

// TargetObject is the object form of a target entry. Unset fields are inherited.
type TargetObject struct {
	Protocol   string  `json:"protocol,omitempty"`
	Registry   string  `json:"registry,omitempty"`
	Directory  string  `json:"directory,omitempty"`
	Access     string  `json:"access,omitempty"`
	Provenance *bool   `json:"provenance,omitempty"`
	Tag        string  `json:"tag,omitempty"`
	TokenEnv   *string `json:"tokenEnv,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *TargetSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return zerr.With(ErrInvalidManifest, "reason", "empty target entry")
	}

	switch data[0] {
	case '"':
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return zerr.Wrap(err, ErrInvalidManifest.Error())
		}
		value = strings.TrimSpace(value)
		if strings.Contains(value, "://") {
			*s = TargetSpec{Kind: TargetSpecURL, URL: value}
		} else {
			*s = TargetSpec{Kind: TargetSpecShorthand, Shorthand: value}
		}
		return nil
	case '{':
		var obj TargetObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return zerr.Wrap(err, ErrInvalidManifest.Error())
		}
		*s = TargetSpec{Kind: TargetSpecObject, Object: &obj}
		return nil
	default:
		return zerr.With(ErrInvalidManifest, "target", string(data))
	}
}

// MarshalJSON implements json.Marshaler, writing the entry back in its original shape.
func (s TargetSpec) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case TargetSpecShorthand:
		return json.Marshal(s.Shorthand)
	case TargetSpecURL:
		return json.Marshal(s.URL)
	case TargetSpecObject:
		return json.Marshal(s.Object)
	default:
		return []byte("null"), nil
	}
}

// ParseManifest decodes package.json content.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, zerr.Wrap(err, ErrInvalidManifest.Error())
	}
	return m, nil
}
