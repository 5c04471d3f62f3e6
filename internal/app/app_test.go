package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ship/internal/adapters/telemetry"
	"go.trai.ch/ship/internal/app"
	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports/mocks"
	"go.trai.ch/ship/internal/engine/conflict"
	"go.trai.ch/ship/internal/engine/planner"
	"go.trai.ch/ship/internal/engine/publish"
	"go.trai.ch/ship/internal/engine/scheduler"
	"go.trai.ch/ship/internal/engine/targets"
	"go.uber.org/mock/gomock"
)

type harness struct {
	loader     *mocks.MockConfigLoader
	workspace  *mocks.MockWorkspace
	changesets *mocks.MockReleaseSource
	auth       *mocks.MockAuthSetup
	builder    *mocks.MockBuildRunner
	packer     *mocks.MockPacker
	registry   *mocks.MockRegistryClient
	runner     *mocks.MockCommandRunner
	app        *app.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()

	h := &harness{
		loader:     mocks.NewMockConfigLoader(ctrl),
		workspace:  mocks.NewMockWorkspace(ctrl),
		changesets: mocks.NewMockReleaseSource(ctrl),
		auth:       mocks.NewMockAuthSetup(ctrl),
		builder:    mocks.NewMockBuildRunner(ctrl),
		packer:     mocks.NewMockPacker(ctrl),
		registry:   mocks.NewMockRegistryClient(ctrl),
		runner:     mocks.NewMockCommandRunner(ctrl),
	}

	checker := conflict.NewChecker(h.registry)
	executor := publish.NewExecutor(h.runner, checker, mocks.NewMockAttestor(ctrl), log)
	tel := telemetry.NewNoOp()
	sched := scheduler.New(h.auth, h.builder, h.packer, checker, executor, tel, log)
	pl := planner.New(h.workspace, targets.NewResolver(), log)

	h.app = app.New(h.loader, pl, sched, executor, h.changesets, tel, log)
	return h
}

func (h *harness) config(t *testing.T) *domain.Config {
	t.Helper()
	cfg := domain.DefaultConfig("/repo")
	cfg.Retry.Attempts = 1
	h.loader.EXPECT().Load("").Return(cfg, nil)
	return cfg
}

func (h *harness) workspaceWith(t *testing.T) {
	t.Helper()
	m, err := domain.ParseManifest([]byte(
		`{"name":"@acme/core","version":"1.1.0","publishConfig":{"access":"public","provenance":false}}`))
	require.NoError(t, err)
	h.workspace.EXPECT().Discover("/repo").Return(&domain.Workspace{
		Root:           "/repo",
		PackageManager: domain.PackageManagerNPM,
		Packages: map[string]domain.WorkspacePackage{
			"@acme/core": {Path: "/repo/packages/core", Manifest: m},
		},
	}, nil)
}

func (h *harness) runPipeline() *domain.Command {
	report := &domain.AuthReport{Success: true}
	h.auth.EXPECT().Setup(gomock.Any(), gomock.Any()).Return(report, nil)
	h.auth.EXPECT().Teardown(report).Return(nil)
	h.builder.EXPECT().Build(gomock.Any(), "/repo", domain.PackageManagerNPM, gomock.Any()).
		Return(domain.CommandResult{}, nil)
	h.packer.EXPECT().Pack(gomock.Any(), "/repo/packages/core", domain.PackageManagerNPM, gomock.Any()).
		Return(&domain.Artifact{Path: "/tmp/acme-core-1.1.0.tgz", Filename: "acme-core-1.1.0.tgz"}, nil)
	h.registry.EXPECT().Version(gomock.Any(), domain.NPMRegistry, "@acme/core", "1.1.0", "").Return(nil, nil)

	var cmd domain.Command
	h.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c domain.Command) (domain.CommandResult, error) {
			cmd = c
			return domain.CommandResult{Stdout: "+ @acme/core@1.1.0"}, nil
		})
	return &cmd
}

func TestApp_Publish_FromChangesets(t *testing.T) {
	h := newHarness(t)
	h.config(t)
	h.workspaceWith(t)
	h.changesets.EXPECT().Releases(gomock.Any(), "/repo", domain.PackageManagerNPM).
		Return([]domain.Release{{Name: "@acme/core", Version: "1.1.0", Type: "minor"}}, nil)
	cmd := h.runPipeline()

	res, err := h.app.Publish(context.Background(), app.RunOptions{})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 1, res.TotalTargets)
	require.Len(t, res.Packages, 1)
	assert.Equal(t, "https://www.npmjs.com/package/@acme/core/v/1.1.0", res.Packages[0].Targets[0].RegistryURL)
	assert.Equal(t, "npm", cmd.Name)
	assert.Contains(t, cmd.Args, "/tmp/acme-core-1.1.0.tgz")
	assert.NotContains(t, cmd.Args, "--dry-run")
}

func TestApp_Publish_ReleaseFlagsOverrideSources(t *testing.T) {
	h := newHarness(t)
	cfg := h.config(t)
	cfg.Releases = []domain.Release{{Name: "@acme/other", Version: "9.9.9"}}
	h.workspaceWith(t)
	cmd := h.runPipeline()

	res, err := h.app.Publish(context.Background(), app.RunOptions{
		DryRun:   true,
		Releases: []string{"@acme/core@1.1.0"},
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.True(t, res.DryRun)
	assert.Contains(t, cmd.Args, "--dry-run")
}

func TestApp_Plan_UsesConfiguredReleases(t *testing.T) {
	h := newHarness(t)
	cfg := h.config(t)
	cfg.Releases = []domain.Release{{Name: "@acme/core", Version: "1.1.0"}}
	h.workspaceWith(t)

	plan, err := h.app.Plan(context.Background(), app.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"@acme/core"}, plan.Names())
	require.Len(t, plan.Packages[0].Targets, 1)
	assert.Equal(t, domain.AccessPublic, plan.Packages[0].Targets[0].Access)
}

func TestApp_Publish_ConfigError(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load("ship.toml").Return(nil, domain.ErrInvalidConfig)

	_, err := h.app.Publish(context.Background(), app.RunOptions{ConfigPath: "ship.toml"})
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestApp_Publish_InvalidReleaseFlag(t *testing.T) {
	h := newHarness(t)
	h.config(t)

	_, err := h.app.Publish(context.Background(), app.RunOptions{Releases: []string{"no-version"}})
	assert.ErrorContains(t, err, domain.ErrInvalidRelease.Error())
}

func TestApp_Publish_ReleaseSourceError(t *testing.T) {
	h := newHarness(t)
	h.config(t)
	h.workspaceWith(t)
	h.changesets.EXPECT().Releases(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("changeset: command not found"))

	_, err := h.app.Publish(context.Background(), app.RunOptions{})
	assert.ErrorContains(t, err, "failed to plan release")
}
