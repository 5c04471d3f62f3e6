// Package publish runs the publish command of one package against one target.
package publish

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
)

// VerdictChecker re-checks a version against the registry after the publish
// command reported it as already published.
type VerdictChecker interface {
	Check(
		ctx context.Context,
		target domain.Target,
		name, version string,
		artifact *domain.Artifact,
		creds domain.Credentials,
	) (domain.Verdict, error)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Executor publishes to a single target with bounded retries of transient failures.
type Executor struct {
	runner   ports.CommandRunner
	checker  VerdictChecker
	attestor ports.Attestor
	logger   ports.Logger
	policy   domain.RetryPolicy
	sleep    SleepFunc
}

// Option configures an Executor.
type Option func(*Executor)

// WithPolicy sets the retry policy.
func WithPolicy(policy domain.RetryPolicy) Option {
	return func(e *Executor) {
		e.policy = policy
	}
}

// WithSleep replaces the wait between attempts.
func WithSleep(sleep SleepFunc) Option {
	return func(e *Executor) {
		e.sleep = sleep
	}
}

// NewExecutor creates a new Executor using the default retry policy.
func NewExecutor(
	runner ports.CommandRunner,
	checker VerdictChecker,
	attestor ports.Attestor,
	logger ports.Logger,
	opts ...Option,
) *Executor {
	e := &Executor{
		runner:   runner,
		checker:  checker,
		attestor: attestor,
		logger:   logger,
		policy:   domain.DefaultRetryPolicy(),
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns a copy of e with a different retry policy.
func (e *Executor) Policy(policy domain.RetryPolicy) *Executor {
	c := *e
	c.policy = policy
	return &c
}

// Publish runs the publish command for req and classifies the outcome. It never
// returns an error: every failure is described by the result.
func (e *Executor) Publish(ctx context.Context, req domain.PublishRequest) domain.TargetResult {
	cmd := Command(req)
	res := domain.TargetResult{Target: req.Target}

	attempts := max(e.policy.Attempts, 1)
	var out domain.CommandResult
	var category domain.Category
	for attempt := 1; ; attempt++ {
		res.Attempts = attempt

		var err error
		out, err = e.runner.Run(ctx, cmd)
		if err != nil {
			res.Category = domain.CategoryInvocation
			res.ExitCode = out.ExitCode
			res.Error = err.Error()
			return res
		}

		category = domain.ClassifyFor(req.Target.Protocol, out.ExitCode, out.Stdout, out.Stderr)
		if !category.Transient() || attempt >= attempts {
			break
		}

		delay := time.Duration(attempt) * e.policy.Backoff
		e.logger.Warn("transient publish failure, retrying",
			"package", req.Package.String(),
			"target", req.Target.String(),
			"attempt", attempt,
			"delay", delay)
		logVertex(ctx, domain.LogLevelWarn, fmt.Sprintf("attempt %d failed, retrying in %s", attempt, delay))

		if err := e.sleep(ctx, delay); err != nil {
			res.Category = category
			res.ExitCode = out.ExitCode
			res.Stdout, res.Stderr = out.Stdout, out.Stderr
			res.Error = err.Error()
			return res
		}
	}

	res.ExitCode = out.ExitCode
	res.Stdout, res.Stderr = out.Stdout, out.Stderr

	switch category {
	case domain.CategoryNone:
		res.Success = true
		res.Category = domain.CategoryNone
		res.RegistryURL = RegistryURL(req.Target, req.Package.Name, req.Package.Version)
		res.AttestationURL = TransparencyLogURL(out.Combined())
		e.attest(ctx, req, &res)
	case domain.CategoryAlreadyPublished:
		return e.alreadyPublished(ctx, req, res)
	default:
		res.Category = category
		res.Error = out.Message()
	}
	return res
}

// alreadyPublished resolves the race where another run published the version
// between the conflict check and the publish call. A registry that still does
// not hold the version means the rejection was something else, and the publish
// failed.
func (e *Executor) alreadyPublished(ctx context.Context, req domain.PublishRequest, raw domain.TargetResult) domain.TargetResult {
	verdict := domain.VerdictUnknown
	if req.Target.Protocol == domain.ProtocolNPM {
		v, err := e.checker.Check(ctx, req.Target, req.Package.Name, req.Package.Version, req.Artifact, req.Credentials)
		switch {
		case err != nil:
			e.logger.Warn("could not verify already published version",
				"package", req.Package.String(), "target", req.Target.String(), "err", err)
		case v == domain.VerdictClear:
			raw.Category = domain.CategoryUnknown
			raw.Error = domain.CommandResult{Stdout: raw.Stdout, Stderr: raw.Stderr}.Message()
			if raw.Error == "" {
				raw.Error = fmt.Sprintf("publish exited with code %d", raw.ExitCode)
			}
			return raw
		default:
			verdict = v
		}
	}

	res := domain.AlreadyPublishedResult(req.Target, verdict)
	res.Attempts = raw.Attempts
	res.ExitCode = raw.ExitCode
	res.Stdout, res.Stderr = raw.Stdout, raw.Stderr
	if verdict == domain.VerdictUnknown {
		e.logger.Warn("version already published, content not verified",
			"package", req.Package.String(), "target", req.Target.String())
	}
	return res
}

func (e *Executor) attest(ctx context.Context, req domain.PublishRequest, res *domain.TargetResult) {
	if !req.Target.Provenance || req.DryRun || e.attestor == nil {
		return
	}

	subject := domain.AttestationSubject{
		PackageName: req.Package.Name,
		Version:     req.Package.Version,
		Directory:   req.Target.Directory,
	}
	if req.Artifact != nil {
		subject.TarballDigest = req.Artifact.Digest
	}

	url, err := e.attestor.Attest(ctx, subject)
	if err != nil {
		e.logger.Warn("attestation failed", "package", req.Package.String(), "err", err)
		return
	}
	if url != "" {
		res.AttestationURL = url
	}
}

// RegistryURL returns the page of name@version on the target's registry.
func RegistryURL(target domain.Target, name, version string) string {
	switch {
	case target.Protocol == domain.ProtocolJSR:
		return "https://jsr.io/" + name + "@" + version
	case domain.IsNPMRegistry(target.Registry):
		return "https://www.npmjs.com/package/" + name + "/v/" + version
	default:
		return domain.NormalizeRegistry(target.Registry) + name
	}
}

var transparencyLogPattern = regexp.MustCompile(`https://search\.sigstore\.dev/\?logIndex=\d+`)

// TransparencyLogURL extracts the sigstore transparency log entry printed by a
// provenance-enabled publish.
func TransparencyLogURL(output string) string {
	return transparencyLogPattern.FindString(output)
}

func logVertex(ctx context.Context, level domain.LogLevel, msg string) {
	if v := ports.VertexFromContext(ctx); v != nil {
		v.Log(level, msg)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
