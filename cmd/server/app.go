package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/viral-scripts/internal/config"
	"github.com/phrazzld/viral-scripts/internal/events"
	"github.com/phrazzld/viral-scripts/internal/generation"
	"github.com/phrazzld/viral-scripts/internal/platform/gemini"
	"github.com/phrazzld/viral-scripts/internal/platform/openaicompat"
	"github.com/phrazzld/viral-scripts/internal/platform/ws"
	"github.com/phrazzld/viral-scripts/internal/session"
	"github.com/phrazzld/viral-scripts/internal/task"
	"github.com/phrazzld/viral-scripts/internal/wizard"
	"github.com/robfig/cron/v3"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	generator generation.Generator

	eventEmitter *events.InMemoryEventEmitter
	hub          *ws.Hub

	sessions *session.Store
	tokens   *session.Tokens

	taskRunner *task.TaskRunner
}

// appOption customises newApplication. Tests use it to swap the generator.
type appOption func(*appOptions)

type appOptions struct {
	generator generation.Generator
}

func withGenerator(g generation.Generator) appOption {
	return func(o *appOptions) { o.generator = g }
}

// newApplication creates a new application instance with all dependencies initialized.
// Nothing here contacts the LLM provider; credentials are checked per generation.
func newApplication(cfg *config.Config, logger *slog.Logger, opts ...appOption) (*application, error) {
	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}

	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.generator = o.generator
	if app.generator == nil {
		app.generator, err = newGenerator(cfg.LLM, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
	}
	logger.Info("LLM generator initialized", "provider", cfg.LLM.Provider)

	app.tokens, err = session.NewTokens(cfg.Session, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session tokens: %w", err)
	}

	app.taskRunner = task.NewTaskRunner(task.TaskRunnerConfig{
		QueueSize:   cfg.Tasks.QueueSize,
		WorkerCount: cfg.Tasks.WorkerCount,
	}, logger)

	app.hub = ws.NewHub(logger)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewLogHandler(logger))
	app.eventEmitter.RegisterHandler(app.hub)

	app.sessions = session.NewStore(cfg.Session.MaxSessions, app.newMachine, app.eventEmitter, logger)

	logger.Info("Application initialized successfully",
		"max_sessions", cfg.Session.MaxSessions,
		"workers", cfg.Tasks.WorkerCount)
	return app, nil
}

// newGenerator picks the provider implementation named by cfg.Provider.
func newGenerator(cfg config.LLMConfig, logger *slog.Logger) (generation.Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return gemini.NewGenerator(logger, cfg)
	case config.ProviderOpenAI:
		return openaicompat.NewGenerator(logger, cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}

func (app *application) newMachine(id string) *wizard.Machine {
	return wizard.New(id, app.taskRunner, app.generator, app.eventEmitter, app.logger)
}

// Run starts the background workers and serves HTTP until ctx is done or
// a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	if err := app.taskRunner.Start(); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}

	bgCtx, cancelBackground := context.WithCancel(ctx)
	defer cancelBackground()

	go app.hub.Run(bgCtx)

	stopSweeper, err := app.startSweeper(bgCtx, app.config.Session.SweepSchedule)
	if err != nil {
		app.cleanup()
		return err
	}
	defer stopSweeper()

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// startSweeper runs sweepSessions on the given cron schedule. The returned
// func stops the scheduler and waits for a running sweep to finish.
func (app *application) startSweeper(ctx context.Context, spec string) (func(), error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { app.sweepSessions(ctx) }); err != nil {
		return nil, fmt.Errorf("invalid session sweep schedule %q: %w", spec, err)
	}
	c.Start()

	return func() { <-c.Stop().Done() }, nil
}

// sweepSessions removes sessions older than the token lifetime, since no
// client can reach them any more.
func (app *application) sweepSessions(ctx context.Context) int {
	n := app.sessions.Prune(ctx, app.config.Session.TokenTTL)
	if n > 0 {
		app.logger.InfoContext(ctx, "pruned expired sessions",
			"removed", n,
			"remaining", app.sessions.Len())
	}
	return n
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}
	app.logger.Info("Application shutdown completed")
}
