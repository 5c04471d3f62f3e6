// Package shell provides the command runner and build adapters.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
	"go.trai.ch/zerr"
)

// waitDelay bounds how long output pipes are drained after the process is killed.
const waitDelay = 5 * time.Second

// Runner implements ports.CommandRunner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger: logger,
	}
}

// Run executes cmd and captures its output.
//
// The environment is the process environment with cmd.Env applied on top. Output is
// captured in full and also streamed to the telemetry vertex carried by ctx, or to the
// debug log when there is none.
func (r *Runner) Run(ctx context.Context, cmd domain.Command) (domain.CommandResult, error) {
	if cmd.Name == "" {
		return domain.CommandResult{}, zerr.With(domain.ErrCommandInvocation, "reason", "empty command")
	}

	cmdEnv := resolveEnvironment(os.Environ(), cmd.Env)

	executable := cmd.Name
	if !filepath.IsAbs(cmd.Name) {
		if lp, err := lookPath(cmd.Name, cmdEnv); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // command built by the engine
	if len(c.Args) > 0 {
		c.Args[0] = cmd.Name
	}
	c.Dir = cmd.Dir
	c.Env = cmdEnv
	c.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	streamOut, streamErr := r.streams(ctx, cmd)
	c.Stdout = io.MultiWriter(&stdout, streamOut)
	c.Stderr = io.MultiWriter(&stderr, streamErr)

	r.logger.Debug("running command", "command", cmd.String(), "dir", cmd.Dir)
	err := c.Run()
	flush(streamOut, streamErr)

	res := domain.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	res.ExitCode = -1
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, zerr.With(zerr.Wrap(ctxErr, domain.ErrCommandInvocation.Error()), "command", cmd.Name)
	}
	return res, zerr.With(zerr.Wrap(err, domain.ErrCommandInvocation.Error()), "command", cmd.Name)
}

func (r *Runner) streams(ctx context.Context, cmd domain.Command) (io.Writer, io.Writer) {
	if v := ports.VertexFromContext(ctx); v != nil {
		return v.Stdout(), v.Stderr()
	}
	return &logWriter{logger: r.logger, command: cmd.Name}, &logWriter{logger: r.logger, command: cmd.Name}
}

func flush(writers ...io.Writer) {
	for _, w := range writers {
		if lw, ok := w.(*logWriter); ok {
			lw.Flush()
		}
	}
}

// logWriter forwards complete lines to the debug log.
type logWriter struct {
	logger  ports.Logger
	command string
	mu      sync.Mutex
	buf     []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(string(w.buf[:i]))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush emits any trailing partial line.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) > 0 {
		w.emit(string(w.buf))
		w.buf = nil
	}
}

func (w *logWriter) emit(line string) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return
	}
	w.logger.Debug(line, "command", w.command)
}

// resolveEnvironment applies overrides on top of the system environment. Later entries win.
func resolveEnvironment(sysEnv, overrides []string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range slices.Concat(sysEnv, overrides) {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
