package cli

import (
	"errors"

	internalApp "github.com/felixgeelhaar/triage/internal/app"
	"github.com/felixgeelhaar/triage/internal/engine/registry"
	"github.com/felixgeelhaar/triage/internal/engine/runtime"
	"github.com/felixgeelhaar/triage/internal/triage/application/commands"
	"github.com/felixgeelhaar/triage/pkg/observability"
)

var errAppNotReady = errors.New("triage is not initialized; check the configuration and the log output")

// App holds the CLI application dependencies.
type App struct {
	// Command handlers
	AnalyzeTicketHandler *commands.AnalyzeTicketHandler
	AnalyzeBatchHandler  *commands.AnalyzeBatchHandler

	// Engines
	EngineRegistry  *registry.Registry
	EngineExecutor  *runtime.Executor
	EngineHealth    *observability.HealthRegistry
	SentimentEngine string

	// BatchWorkers is used when --workers is not given.
	BatchWorkers int
}

// NewApp builds the CLI application from a wired container.
func NewApp(c *internalApp.Container) *App {
	return &App{
		AnalyzeTicketHandler: c.AnalyzeTicketHandler,
		AnalyzeBatchHandler:  c.AnalyzeBatchHandler,
		EngineRegistry:       c.EngineRegistry,
		EngineExecutor:       c.EngineExecutor,
		EngineHealth:         c.EngineHealth,
		SentimentEngine:      c.Scorer.EngineID(),
		BatchWorkers:         c.Config.BatchWorkers,
	}
}

var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

func requireApp() (*App, error) {
	if app == nil {
		return nil, errAppNotReady
	}
	return app, nil
}
