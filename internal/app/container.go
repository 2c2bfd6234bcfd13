package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/triage/internal/engine/builtin"
	"github.com/felixgeelhaar/triage/internal/engine/registry"
	"github.com/felixgeelhaar/triage/internal/engine/runtime"
	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/triage/internal/triage/application/commands"
	"github.com/felixgeelhaar/triage/internal/triage/services"
	"github.com/felixgeelhaar/triage/pkg/config"
	"github.com/felixgeelhaar/triage/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Engine SDK
	EngineRegistry *registry.Registry
	EngineLoader   *registry.Loader
	EngineExecutor *runtime.Executor
	EngineHealth   *observability.HealthRegistry

	// Triage
	Scorer   *runtime.Scorer
	Analyzer *services.Analyzer

	// Events
	EventPublisher eventbus.Publisher

	// Command handlers
	AnalyzeTicketHandler *commands.AnalyzeTicketHandler
	AnalyzeBatchHandler  *commands.AnalyzeBatchHandler
}

// NewContainer wires the application from cfg. Plugin engines are
// discovered but not started; each starts on first use.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{Config: cfg, Logger: logger}

	// Engine registry: built-in lexicon first so plugins cannot shadow it
	c.EngineRegistry = registry.NewRegistry(logger)
	if err := c.EngineRegistry.RegisterBuiltin(builtin.NewLexiconSentimentEngine()); err != nil {
		return nil, fmt.Errorf("failed to register lexicon engine: %w", err)
	}

	c.EngineLoader = registry.NewLoader(logger)
	discovery := registry.NewDiscovery(registry.DefaultSearchPaths(cfg.EngineSearchPaths...), logger)
	plugins, problems := discovery.Discover()
	for _, problem := range problems {
		logger.Warn("engine discovery problem", "path", problem.Path, "error", problem.Err)
	}
	registered := c.EngineRegistry.RegisterDiscovered(plugins, c.EngineLoader)
	logger.Debug("registered engines", "count", c.EngineRegistry.Count(), "plugins", registered)

	if !c.EngineRegistry.Has(cfg.SentimentEngine) {
		return nil, fmt.Errorf("%w: %s", sdk.ErrEngineNotFound, cfg.SentimentEngine)
	}

	// Engine executor with circuit breaker
	executorConfig := runtime.DefaultExecutorConfig()
	executorConfig.CircuitBreakerEnabled = cfg.EngineCircuitBreakerEnabled
	executorConfig.FailureThreshold = uint32(cfg.EngineFailureThreshold)
	executorConfig.DefaultTimeout = cfg.EngineTimeout
	c.EngineExecutor = runtime.NewExecutor(c.EngineRegistry, runtime.NewMetricsCollector(), logger, executorConfig)

	c.EngineHealth = observability.NewHealthRegistry()
	for _, entry := range c.EngineRegistry.List() {
		c.EngineHealth.Register(entry.Manifest.ID, c.engineHealthChecker(entry.Manifest.ID))
	}

	c.Scorer = runtime.NewScorer(c.EngineExecutor, cfg.SentimentEngine)
	c.Analyzer = services.NewAnalyzer(c.Scorer, services.WithLogger(logger))

	publisher, err := eventbus.NewPublisher(ctx, eventbus.Settings{
		Kind:             cfg.Publisher,
		RabbitMQURL:      cfg.RabbitMQURL,
		RabbitMQExchange: cfg.RabbitMQExchange,
		RedisURL:         cfg.RedisURL,
		RedisChannel:     cfg.RedisChannel,
		KafkaBrokers:     cfg.KafkaBrokers,
		KafkaTopic:       cfg.KafkaTopic,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	c.EventPublisher = publisher

	c.AnalyzeTicketHandler = commands.NewAnalyzeTicketHandler(c.Analyzer, c.EventPublisher, logger)
	c.AnalyzeBatchHandler = commands.NewAnalyzeBatchHandler(c.AnalyzeTicketHandler, logger)

	return c, nil
}

func (c *Container) engineHealthChecker(id string) observability.HealthChecker {
	return observability.EngineHealthChecker(
		func(ctx context.Context) (bool, string, error) {
			status, err := c.EngineExecutor.HealthCheck(ctx, id)
			return status.Healthy, status.Message, err
		},
		func() string { return c.EngineExecutor.GetCircuitBreakerState(id) },
	)
}

// Close shuts down engines, stops plugin processes and closes the publisher.
func (c *Container) Close() error {
	var errs []error

	if c.EngineRegistry != nil {
		if err := c.EngineRegistry.ShutdownAll(context.Background()); err != nil {
			c.Logger.Warn("error shutting down engines", "error", err)
			errs = append(errs, err)
		}
	}

	if c.EngineLoader != nil {
		c.EngineLoader.UnloadAll()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
