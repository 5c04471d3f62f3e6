package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Shipfile represents the structure of the ship.yaml (or ship.toml) configuration file.
type Shipfile struct {
	Version        string     `yaml:"version" toml:"version"`
	PackageManager string     `yaml:"packageManager" toml:"packageManager"`
	Build          CommandDTO `yaml:"build" toml:"build"`
	SkipBuild      bool       `yaml:"skipBuild" toml:"skipBuild"`
	Concurrency    int        `yaml:"concurrency" toml:"concurrency"`
	Retry          RetryDTO   `yaml:"retry" toml:"retry"`
	// Releases is an explicit "name@version" list that replaces changesets.
	Releases []string `yaml:"releases" toml:"releases"`
}

// RetryDTO configures retries of transient publish failures.
type RetryDTO struct {
	Attempts int         `yaml:"attempts" toml:"attempts"`
	Backoff  DurationDTO `yaml:"backoff" toml:"backoff"`
}

// CommandDTO is a command given either as a single string or as an argv list.
type CommandDTO []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *CommandDTO) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*c = strings.Fields(node.Value)
		return nil
	case yaml.SequenceNode:
		var argv []string
		if err := node.Decode(&argv); err != nil {
			return err
		}
		*c = argv
		return nil
	default:
		return fmt.Errorf("line %d: build must be a string or a list of strings", node.Line)
	}
}

// UnmarshalTOML implements toml.Unmarshaler.
func (c *CommandDTO) UnmarshalTOML(v any) error {
	switch value := v.(type) {
	case string:
		*c = strings.Fields(value)
		return nil
	case []any:
		argv := make([]string, 0, len(value))
		for _, item := range value {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("build entries must be strings, got %T", item)
			}
			argv = append(argv, s)
		}
		*c = argv
		return nil
	default:
		return fmt.Errorf("build must be a string or an array of strings, got %T", v)
	}
}

// DurationDTO is a duration given as a Go duration string ("15s") or as whole seconds.
type DurationDTO struct {
	time.Duration
	Set bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *DurationDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: backoff must be a duration", node.Line)
	}
	return d.parse(node.Value)
}

// UnmarshalTOML implements toml.Unmarshaler.
func (d *DurationDTO) UnmarshalTOML(v any) error {
	switch value := v.(type) {
	case string:
		return d.parse(value)
	case int64:
		d.Duration, d.Set = time.Duration(value)*time.Second, true
		return nil
	default:
		return fmt.Errorf("backoff must be a duration, got %T", v)
	}
}

func (d *DurationDTO) parse(s string) error {
	s = strings.TrimSpace(s)
	if seconds, err := strconv.ParseInt(s, 10, 64); err == nil {
		d.Duration, d.Set = time.Duration(seconds)*time.Second, true
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration, d.Set = parsed, true
	return nil
}
