package domain

import "strings"

// Command describes an external process invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env holds "KEY=VALUE" overrides applied on top of the process environment.
	Env []string
}

// String renders the command line for logs. Environment values are never included.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// CommandResult is the captured outcome of a command that ran to completion.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Combined returns stdout followed by stderr, trimmed.
func (r CommandResult) Combined() string {
	return strings.TrimSpace(strings.TrimSpace(r.Stdout) + "\n" + strings.TrimSpace(r.Stderr))
}

// Message returns the most useful failure text: stderr when present, else stdout.
func (r CommandResult) Message() string {
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(r.Stdout)
}
