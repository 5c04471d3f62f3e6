// Package scheduler executes a publish plan: auth, build, pre-validation and the
// dependency-ordered publishing of every package.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// maxTargetConcurrency bounds the targets of one package published at once.
const maxTargetConcurrency = 4

// PackageStatus represents the publish status of a package.
type PackageStatus string

const (
	// StatusPending indicates the package is waiting for its dependencies.
	StatusPending PackageStatus = "Pending"
	// StatusRunning indicates the package is being published.
	StatusRunning PackageStatus = "Running"
	// StatusCompleted indicates every target of the package succeeded.
	StatusCompleted PackageStatus = "Completed"
	// StatusFailed indicates at least one target failed.
	StatusFailed PackageStatus = "Failed"
	// StatusCached indicates every target already held the version.
	StatusCached PackageStatus = "Cached"
)

// Checker is the pre-validation conflict check.
type Checker interface {
	Check(
		ctx context.Context,
		target domain.Target,
		name, version string,
		artifact *domain.Artifact,
		creds domain.Credentials,
	) (domain.Verdict, error)
}

// Publisher publishes one package to one target.
type Publisher interface {
	Publish(ctx context.Context, req domain.PublishRequest) domain.TargetResult
}

// Options control a single run.
type Options struct {
	DryRun    bool
	SkipBuild bool
	// Build is the shared build command; empty runs the package manager's build script.
	Build []string
	// Concurrency is the maximum number of packages published at once.
	Concurrency int
	// TempDir is the parent of the run's scratch directory; empty means the system default.
	TempDir string
}

// Scheduler runs publish plans.
type Scheduler struct {
	auth      ports.AuthSetup
	builder   ports.BuildRunner
	packer    ports.Packer
	checker   Checker
	publisher Publisher
	telemetry ports.Telemetry
	logger    ports.Logger

	status *statusBoard
}

// New creates a new Scheduler.
func New(
	auth ports.AuthSetup,
	builder ports.BuildRunner,
	packer ports.Packer,
	checker Checker,
	publisher Publisher,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		auth:      auth,
		builder:   builder,
		packer:    packer,
		checker:   checker,
		publisher: publisher,
		telemetry: telemetry,
		logger:    logger,
		status:    newStatusBoard(),
	}
}

// WithPublisher returns a copy of s that publishes through p.
func (s *Scheduler) WithPublisher(p Publisher) *Scheduler {
	c := *s
	c.publisher = p
	c.status = newStatusBoard()
	return &c
}

// Run executes plan. The returned error reports infrastructure failures and
// cancellation; publish outcomes, including build and pre-validation failures,
// are described by the RunResult.
func (s *Scheduler) Run(ctx context.Context, plan *domain.Plan, opts Options) (domain.RunResult, error) {
	runID := uuid.NewString()
	s.logger.Info("starting release run",
		"run_id", runID,
		"packages", len(plan.Packages),
		"targets", len(plan.Targets()),
		"dry_run", opts.DryRun)

	res, err := s.run(ctx, plan, opts)
	res.RunID = runID
	res.DryRun = opts.DryRun
	res.Warnings = append(slices.Clone(plan.Warnings), res.Warnings...)
	return res, err
}

func (s *Scheduler) run(ctx context.Context, plan *domain.Plan, opts Options) (domain.RunResult, error) {
	if len(plan.Packages) == 0 {
		s.logger.Info("nothing to publish")
		return domain.Aggregate(nil), nil
	}
	s.status.init(plan.Names())

	report, err := s.auth.Setup(ctx, plan.Targets())
	if err != nil {
		return domain.RunResult{}, zerr.Wrap(err, "registry auth setup failed")
	}
	defer func() {
		if err := s.auth.Teardown(report); err != nil {
			s.logger.Warn("failed to clean up registry credentials", "err", err)
		}
	}()

	warnings := authWarnings(report)
	if !report.Success {
		res := domain.PreValidationFailed(unreachableError(report), nil)
		res.Warnings = warnings
		return res, nil
	}

	if !opts.SkipBuild {
		if res, failed := s.build(ctx, plan, opts); failed {
			res.Warnings = warnings
			return res, nil
		}
	}

	scratch, err := os.MkdirTemp(opts.TempDir, "ship-run-*")
	if err != nil {
		return domain.RunResult{}, zerr.Wrap(err, "failed to create run directory")
	}
	defer os.RemoveAll(scratch)

	checks, partial, err := s.prevalidate(ctx, plan, report.Credentials, scratch)
	if err != nil {
		res := domain.PreValidationFailed(err, partial)
		res.Warnings = warnings
		return res, nil
	}

	results, err := s.publish(ctx, plan, checks, report.Credentials, opts)
	res := domain.Aggregate(results)
	res.Warnings = warnings
	return res, err
}

func (s *Scheduler) build(ctx context.Context, plan *domain.Plan, opts Options) (domain.RunResult, bool) {
	vctx, vertex := s.telemetry.Record(ctx, "build")

	out, err := s.builder.Build(vctx, plan.Root, plan.PackageManager, opts.Build)
	if err == nil && out.ExitCode == 0 {
		vertex.Complete(nil)
		return domain.RunResult{}, false
	}

	if err == nil {
		err = zerr.Wrap(fmt.Errorf("exit code %d", out.ExitCode), domain.ErrBuildFailed.Error())
		err = zerr.With(err, "exit_code", out.ExitCode)
	} else {
		err = zerr.Wrap(err, domain.ErrBuildFailed.Error())
	}
	vertex.Complete(err)
	s.logger.Error(err)
	return domain.BuildFailed(err.Error(), out.Combined()), true
}

// packageCheck is the pre-validation outcome of one package: the artifact for
// every npm target and the targets that need no publish call.
type packageCheck struct {
	artifacts map[int]*domain.Artifact
	skipped   map[int]domain.TargetResult
}

// prevalidate packs every npm target and checks it against its registry. The first
// conflicting target or failed check aborts the run before anything is published.
func (s *Scheduler) prevalidate(
	ctx context.Context,
	plan *domain.Plan,
	creds domain.Credentials,
	scratch string,
) (map[string]*packageCheck, []domain.PackagePublishResult, error) {
	checks := make(map[string]*packageCheck, len(plan.Packages))
	var partial []domain.PackagePublishResult

	for _, planned := range plan.Packages {
		pkg := planned.Package
		check := &packageCheck{
			artifacts: make(map[int]*domain.Artifact),
			skipped:   make(map[int]domain.TargetResult),
		}
		checks[pkg.Name] = check

		packed := make(map[string]*domain.Artifact)
		var established []domain.TargetResult
		for i, target := range planned.Targets {
			var artifact *domain.Artifact
			if target.Protocol == domain.ProtocolNPM {
				var err error
				artifact, err = s.pack(ctx, pkg, target, plan.PackageManager, scratch, packed)
				if err != nil {
					return nil, partial, preValidationError(err, pkg, target)
				}
				check.artifacts[i] = artifact
			}

			verdict, err := s.checker.Check(ctx, target, pkg.Name, pkg.Version, artifact, creds)
			if err != nil {
				return nil, partial, preValidationError(err, pkg, target)
			}
			if !verdict.Published() {
				continue
			}

			result := domain.AlreadyPublishedResult(target, verdict)
			established = append(established, result)
			if verdict == domain.VerdictDifferent {
				partial = append(partial, domain.PackagePublishResult{
					Name: pkg.Name, Version: pkg.Version, Targets: established,
				})
				err := zerr.Wrap(domain.ErrVersionConflict, pkg.String()+" on "+target.String())
				return nil, partial, err
			}

			s.logger.Info("version already published, skipping",
				"package", pkg.String(), "target", target.String(), "reason", string(verdict))
			check.skipped[i] = result
		}
		if len(established) > 0 {
			partial = append(partial, domain.PackagePublishResult{
				Name: pkg.Name, Version: pkg.Version, Targets: established,
			})
		}
	}
	return checks, partial, nil
}

// pack produces the artifact of target's directory once per package.
func (s *Scheduler) pack(
	ctx context.Context,
	pkg domain.Package,
	target domain.Target,
	pm domain.PackageManager,
	scratch string,
	packed map[string]*domain.Artifact,
) (*domain.Artifact, error) {
	if artifact, ok := packed[target.Directory]; ok {
		return artifact, nil
	}

	vctx, vertex := s.telemetry.Record(ctx, "pack "+target.Directory, ports.WithGroup(pkg.String()))
	artifact, err := s.packer.Pack(vctx, target.Directory, pm, scratch)
	vertex.Complete(err)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("packed artifact", "package", pkg.String(), "file", artifact.Filename, "digest", artifact.Digest)
	packed[target.Directory] = artifact
	return artifact, nil
}

// publish runs the per-package jobs in dependency order with bounded concurrency.
func (s *Scheduler) publish(
	ctx context.Context,
	plan *domain.Plan,
	checks map[string]*packageCheck,
	creds domain.Credentials,
	opts Options,
) ([]domain.PackagePublishResult, error) {
	state := s.newRunState(ctx, plan, checks, creds, opts)

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil {
			if state.active == 0 {
				break
			}
			// Drain the packages already running; nothing new is started.
			state.handleResult(<-state.resultsCh)
			continue
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	return state.ordered(), state.ctx.Err()
}

type result struct {
	name   string
	result domain.PackagePublishResult
}

type runState struct {
	plan        *domain.Plan
	checks      map[string]*packageCheck
	creds       domain.Credentials
	opts        Options
	index       map[string]int
	inDegree    map[string]int
	dependents  map[string][]string
	ready       []string
	active      int
	resultsCh   chan result
	results     map[string]domain.PackagePublishResult
	ctx         context.Context
	concurrency int
	s           *Scheduler
}

func (s *Scheduler) newRunState(
	ctx context.Context,
	plan *domain.Plan,
	checks map[string]*packageCheck,
	creds domain.Credentials,
	opts Options,
) *runState {
	concurrency := max(opts.Concurrency, 1)
	index := make(map[string]int, len(plan.Packages))
	for i, p := range plan.Packages {
		index[p.Package.Name] = i
	}

	inDegree := make(map[string]int, len(index))
	dependents := make(map[string][]string, len(index))
	if plan.Sorted {
		for name, deps := range plan.Edges {
			for _, dep := range deps {
				if _, ok := index[dep]; !ok {
					continue
				}
				inDegree[name]++
				dependents[dep] = append(dependents[dep], name)
			}
		}
	}

	var ready []string
	for _, p := range plan.Packages {
		if inDegree[p.Package.Name] == 0 {
			ready = append(ready, p.Package.Name)
		}
	}

	return &runState{
		plan:        plan,
		checks:      checks,
		creds:       creds,
		opts:        opts,
		index:       index,
		inDegree:    inDegree,
		dependents:  dependents,
		ready:       ready,
		resultsCh:   make(chan result, concurrency),
		results:     make(map[string]domain.PackagePublishResult, len(index)),
		ctx:         ctx,
		concurrency: concurrency,
		s:           s,
	}
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.concurrency && state.ctx.Err() == nil {
		name := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.s.status.set(name, StatusRunning)

		go func(p domain.PlannedPackage) {
			state.resultsCh <- result{name: p.Package.Name, result: state.publishPackage(state.ctx, p)}
		}(state.plan.Packages[state.index[name]])
	}
}

// publishPackage publishes every target of p that pre-validation left clear.
// Each target writes its own slot, so the result order follows the plan.
func (state *runState) publishPackage(ctx context.Context, p domain.PlannedPackage) domain.PackagePublishResult {
	pkg := p.Package
	check := state.checks[pkg.Name]
	slots := make([]domain.TargetResult, len(p.Targets))

	g := new(errgroup.Group)
	g.SetLimit(maxTargetConcurrency)
	for i, target := range p.Targets {
		if skipped, ok := check.skipped[i]; ok {
			_, vertex := state.s.telemetry.Record(ctx, "publish "+target.String(), ports.WithGroup(pkg.String()))
			vertex.Cached()
			slots[i] = skipped
			continue
		}

		g.Go(func() error {
			vctx, vertex := state.s.telemetry.Record(ctx, "publish "+target.String(), ports.WithGroup(pkg.String()))
			res := state.s.publisher.Publish(vctx, domain.PublishRequest{
				Package:        pkg,
				Target:         target,
				PackageManager: state.plan.PackageManager,
				Artifact:       check.artifacts[i],
				Credentials:    state.creds,
				DryRun:         state.opts.DryRun,
			})
			vertex.Complete(targetError(res))
			slots[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return domain.PackagePublishResult{Name: pkg.Name, Version: pkg.Version, Targets: slots}
}

func (state *runState) handleResult(res result) {
	state.active--
	state.results[res.name] = res.result

	switch {
	case !res.result.Succeeded():
		state.s.status.set(res.name, StatusFailed)
		state.s.logger.Warn("package publish failed", "package", res.name+"@"+res.result.Version)
	case allSkipped(res.result):
		state.s.status.set(res.name, StatusCached)
	default:
		state.s.status.set(res.name, StatusCompleted)
	}

	// Dependents are released whatever the outcome; a failed dependency does not
	// cancel the packages that build on it.
	for _, dep := range state.dependents[res.name] {
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			pos, _ := slices.BinarySearchFunc(state.ready, dep, func(a, b string) int {
				return state.index[a] - state.index[b]
			})
			state.ready = slices.Insert(state.ready, pos, dep)
		}
	}
}

// ordered returns the finished package results in plan order.
func (state *runState) ordered() []domain.PackagePublishResult {
	out := make([]domain.PackagePublishResult, 0, len(state.results))
	for _, p := range state.plan.Packages {
		if res, ok := state.results[p.Package.Name]; ok {
			out = append(out, res)
		}
	}
	return out
}

func allSkipped(res domain.PackagePublishResult) bool {
	for _, t := range res.Targets {
		if !t.AlreadyPublished {
			return false
		}
	}
	return true
}

func targetError(res domain.TargetResult) error {
	if res.Succeeded() {
		return nil
	}
	msg := res.Error
	if msg == "" {
		msg = "publish failed"
	}
	return zerr.With(zerr.New(msg), "category", string(res.Category))
}

func preValidationError(err error, pkg domain.Package, target domain.Target) error {
	msg := fmt.Sprintf("%s for %s on %s", domain.ErrPreValidationFailed, pkg, target)
	return zerr.With(zerr.With(zerr.Wrap(err, msg), "package", pkg.String()), "target", target.String())
}

func unreachableError(report *domain.AuthReport) error {
	details := make([]string, 0, len(report.UnreachableRegistries))
	for _, u := range report.UnreachableRegistries {
		details = append(details, u.Registry+" ("+u.Error+")")
	}
	return zerr.Wrap(errors.New(strings.Join(details, ", ")), domain.ErrRegistryUnreachable.Error())
}

func authWarnings(report *domain.AuthReport) []string {
	var warnings []string
	for _, m := range report.MissingTokens {
		warnings = append(warnings, fmt.Sprintf("no token for %s: %s is not set", m.Registry, m.TokenEnv))
	}
	return warnings
}

// statusBoard tracks package statuses across the goroutines of a run.
type statusBoard struct {
	mu     sync.RWMutex
	status map[string]PackageStatus
}

func newStatusBoard() *statusBoard {
	return &statusBoard{status: make(map[string]PackageStatus)}
}

func (b *statusBoard) init(names []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, name := range names {
		b.status[name] = StatusPending
	}
}

func (b *statusBoard) set(name string, status PackageStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status[name] = status
}

func (b *statusBoard) snapshot() map[string]PackageStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]PackageStatus, len(b.status))
	for k, v := range b.status {
		out[k] = v
	}
	return out
}
