// Package app implements the application layer for ship.
package app

import (
	"context"

	"go.trai.ch/ship/internal/adapters/releases" //nolint:depguard // Static release lists are built in the app layer
	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
	"go.trai.ch/ship/internal/engine/planner"
	"go.trai.ch/ship/internal/engine/publish"
	"go.trai.ch/ship/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	planner      *planner.Planner
	scheduler    *scheduler.Scheduler
	publisher    *publish.Executor
	changesets   ports.ReleaseSource
	telemetry    ports.Telemetry
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	pl *planner.Planner,
	sched *scheduler.Scheduler,
	publisher *publish.Executor,
	changesets ports.ReleaseSource,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		planner:      pl,
		scheduler:    sched,
		publisher:    publisher,
		changesets:   changesets,
		telemetry:    telemetry,
		logger:       logger,
	}
}

// RunOptions configures a plan or publish run. Zero values defer to the configuration file.
type RunOptions struct {
	// ConfigPath is the repository root or an explicit configuration file.
	ConfigPath  string
	DryRun      bool
	SkipBuild   bool
	Concurrency int
	// Releases are "name@version" entries that replace the configured release source.
	Releases []string
}

// SetVerbose switches debug logging on or off.
func (a *App) SetVerbose(verbose bool) {
	a.logger.SetVerbose(verbose)
}

// Plan resolves the release set into an ordered publish plan without side effects.
func (a *App) Plan(ctx context.Context, opts RunOptions) (*domain.Plan, error) {
	_, plan, err := a.plan(ctx, opts)
	return plan, err
}

// Publish plans and executes a release run. A run that does not fully succeed is
// described by the returned result; the error is reserved for failures that
// prevented the run from producing one.
func (a *App) Publish(ctx context.Context, opts RunOptions) (domain.RunResult, error) {
	cfg, plan, err := a.plan(ctx, opts)
	if err != nil {
		return domain.RunResult{}, err
	}
	defer func() {
		if err := a.telemetry.Close(); err != nil {
			a.logger.Warn("failed to close telemetry", "err", err)
		}
	}()

	for _, name := range plan.Excluded {
		a.logger.Info("package has no publish targets, skipping", "package", name)
	}

	concurrency := cfg.Concurrency
	if opts.Concurrency > 0 {
		concurrency = opts.Concurrency
	}

	sched := a.scheduler.WithPublisher(a.publisher.Policy(cfg.Retry))
	res, err := sched.Run(ctx, plan, scheduler.Options{
		DryRun:      opts.DryRun,
		SkipBuild:   opts.SkipBuild || cfg.SkipBuild,
		Build:       cfg.Build,
		Concurrency: concurrency,
	})
	if err != nil {
		return res, zerr.Wrap(err, "release run failed")
	}

	a.logger.Info("release run finished",
		"run_id", res.RunID,
		"success", res.Success,
		"packages", res.SuccessfulPackages,
		"targets", res.SuccessfulTargets)
	return res, nil
}

func (a *App) plan(ctx context.Context, opts RunOptions) (*domain.Config, *domain.Plan, error) {
	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to load configuration")
	}

	source, err := a.releaseSource(cfg, opts)
	if err != nil {
		return nil, nil, err
	}

	plan, err := a.planner.Plan(ctx, cfg.Root, cfg.PackageManager, source)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to plan release")
	}
	return cfg, plan, nil
}

// releaseSource picks the release list: flags first, then the configuration file,
// then changesets.
func (a *App) releaseSource(cfg *domain.Config, opts RunOptions) (ports.ReleaseSource, error) {
	if len(opts.Releases) > 0 {
		rels, err := domain.ParseReleases(opts.Releases)
		if err != nil {
			return nil, err
		}
		return releases.NewStatic(rels), nil
	}
	if len(cfg.Releases) > 0 {
		return releases.NewStatic(cfg.Releases), nil
	}
	return a.changesets, nil
}
