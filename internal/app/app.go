package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vk/workgrid/internal/config"
	"github.com/vk/workgrid/internal/ctxlog"
	"github.com/vk/workgrid/internal/executor"
	"github.com/vk/workgrid/internal/fsutil"
	"github.com/vk/workgrid/internal/graph"
	"github.com/vk/workgrid/internal/procexec"
	"github.com/vk/workgrid/internal/reporter"
	"github.com/vk/workgrid/internal/resolve"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle: the loaded model, the validated workspace graph, and the
// collaborators every command shares.
type App struct {
	outW   io.Writer
	logger *slog.Logger

	cfg         *Config
	model       *config.Model
	graph       *graph.Graph
	projectRoot string

	proc procexec.Executor
	rep  reporter.Reporter

	// analysis is computed at most once per invocation and read-only
	// afterwards.
	analysis *resolve.Analysis
}

// NewApp constructs the application: it loads and validates the project
// file, builds the workspace graph (failing fast on identity, edge, or
// cycle errors), and wires the default collaborators. outW receives command
// output, logW receives logs.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	configPath, err := fsutil.LocateProjectFile(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.ConfigPath = configPath

	model, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Concurrency > 0 {
		model.Concurrency = cfg.Concurrency
	}

	projectRoot, err := filepath.Abs(filepath.Dir(cfg.ConfigPath))
	if err != nil {
		return nil, err
	}

	g, err := graph.Build(ctx, model.Workspaces)
	if err != nil {
		return nil, err
	}
	logger.Debug("Workspace graph built.", "workspaces", g.Len())

	return &App{
		outW:        outW,
		logger:      logger,
		cfg:         cfg,
		model:       model,
		graph:       g,
		projectRoot: projectRoot,
		proc:        procexec.Local{},
		rep:         reporter.NewConsole(outW),
	}, nil
}

// Context returns a background context carrying the application logger.
func (a *App) Context() context.Context {
	return ctxlog.WithLogger(context.Background(), a.logger)
}

// Graph exposes the workspace graph. Primarily for the graph command and
// tests.
func (a *App) Graph() *graph.Graph {
	return a.graph
}

// analyze runs the resolution engine once and memoizes the outcome.
func (a *App) analyze(ctx context.Context) (*resolve.Analysis, error) {
	if a.analysis != nil {
		return a.analysis, nil
	}
	engine := resolve.New(a.graph, a.projectRoot,
		resolve.FileManifestReader{},
		resolve.NodeModulesResolver{ProjectRoot: a.projectRoot},
	)
	analysis, err := engine.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	a.analysis = analysis
	return analysis, nil
}

// scheduler analyzes dependencies, persists the resolution artifact, and
// builds the task scheduler with the override activation injected. Analysis
// fully completes before any scheduling can start.
func (a *App) scheduler(ctx context.Context) (*executor.Scheduler, error) {
	analysis, err := a.analyze(ctx)
	if err != nil {
		return nil, err
	}
	art, err := analysis.WriteArtifact(a.projectRoot)
	if err != nil {
		return nil, err
	}
	env := resolve.ActivationEnv(os.Getenv("NODE_OPTIONS"), art)
	return executor.New(a.graph, a.model, a.proc, a.rep, a.projectRoot, env), nil
}
