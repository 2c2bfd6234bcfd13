// Package runtime runs sentiment engines behind per-engine circuit breakers,
// call timeouts and metrics.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/triage/internal/engine/registry"
	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/engine/types"
	"github.com/sony/gobreaker/v2"
)

const operationScore = "score"

// Executor manages engine execution with circuit breakers and metrics.
type Executor struct {
	registry *registry.Registry
	metrics  *MetricsCollector
	logger   *slog.Logger
	config   ExecutorConfig

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[*types.ScoreOutput]
}

// ExecutorConfig configures the executor behavior.
type ExecutorConfig struct {
	CircuitBreakerEnabled bool

	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is how long the breaker stays open.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32

	// DefaultTimeout bounds each engine call. Zero disables it.
	DefaultTimeout time.Duration
}

// DefaultExecutorConfig returns a sensible default configuration.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		CircuitBreakerEnabled: true,
		MaxRequests:           3,
		Interval:              10 * time.Second,
		Timeout:               30 * time.Second,
		FailureThreshold:      5,
		DefaultTimeout:        10 * time.Second,
	}
}

// NewExecutor creates a new engine executor.
func NewExecutor(reg *registry.Registry, metrics *MetricsCollector, logger *slog.Logger, config ExecutorConfig) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetricsCollector()
	}
	return &Executor{
		registry: reg,
		breakers: make(map[string]*gobreaker.CircuitBreaker[*types.ScoreOutput]),
		metrics:  metrics,
		logger:   logger,
		config:   config,
	}
}

// Score runs input through the sentiment engine engineID. Failures are
// returned as *sdk.ExecutionError; open breakers yield sdk.ErrCircuitOpen
// and expired deadlines sdk.ErrTimeout.
func (e *Executor) Score(ctx context.Context, engineID string, input types.ScoreInput) (*types.ScoreOutput, error) {
	engine, err := e.registry.Sentiment(ctx, engineID)
	if err != nil {
		return nil, err
	}

	if e.config.DefaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.DefaultTimeout)
		defer cancel()
	}
	execCtx := e.createContext(ctx, engineID)

	output, err := e.execute(engineID, func() (*types.ScoreOutput, error) {
		out, err := engine.Score(execCtx, input)
		if err != nil {
			return nil, err
		}
		if out == nil {
			return nil, errors.New("engine returned no score")
		}
		return out, nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", sdk.ErrTimeout, err)
		}
		execCtx.Logger.Warn("engine call failed", "operation", operationScore, "error", err)
		return nil, sdk.NewExecutionError(engineID, execCtx.RequestID, operationScore, err, isRetryable(err))
	}

	output.Clamp()
	return output, nil
}

// execute runs fn behind the engine's breaker and records the call.
func (e *Executor) execute(engineID string, fn func() (*types.ScoreOutput, error)) (*types.ScoreOutput, error) {
	breaker := e.getBreaker(engineID)
	if breaker == nil {
		start := time.Now()
		output, err := fn()
		e.metrics.RecordCall(engineID, time.Since(start), err)
		return output, err
	}

	start := time.Now()
	output, err := breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		e.metrics.RecordCircuitOpen(engineID)
		return nil, fmt.Errorf("%w: %s", sdk.ErrCircuitOpen, engineID)
	}
	e.metrics.RecordCall(engineID, time.Since(start), err)
	return output, err
}

// getBreaker returns the breaker for engineID, creating it on first use.
// It returns nil when breakers are disabled.
func (e *Executor) getBreaker(engineID string) *gobreaker.CircuitBreaker[*types.ScoreOutput] {
	if !e.config.CircuitBreakerEnabled {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if breaker, exists := e.breakers[engineID]; exists {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        engineID,
		MaxRequests: e.config.MaxRequests,
		Interval:    e.config.Interval,
		Timeout:     e.config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= e.config.FailureThreshold
		},
		// A caller giving up says nothing about the engine.
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Info("circuit breaker state changed",
				"engine_id", name,
				"from", from.String(),
				"to", to.String(),
			)
			e.metrics.RecordCircuitBreakerChange(name, to.String())
		},
	}

	breaker := gobreaker.NewCircuitBreaker[*types.ScoreOutput](settings)
	e.breakers[engineID] = breaker
	e.metrics.RecordCircuitBreakerChange(engineID, breaker.State().String())
	return breaker
}

func (e *Executor) createContext(ctx context.Context, engineID string) *sdk.ExecutionContext {
	return sdk.NewExecutionContext(ctx, engineID).
		WithLogger(e.logger).
		WithMetrics(e.metrics.ForEngine(engineID))
}

// HealthCheck checks the health of an engine.
func (e *Executor) HealthCheck(ctx context.Context, engineID string) (sdk.HealthStatus, error) {
	status, err := e.registry.Health(ctx, engineID)
	if err != nil {
		return sdk.NewHealthStatus(false, err.Error()), err
	}
	return status, nil
}

// GetMetrics returns the current metrics.
func (e *Executor) GetMetrics() map[string]EngineMetrics {
	return e.metrics.GetAll()
}

// Snapshot returns a point-in-time view of the executor metrics.
func (e *Executor) Snapshot() Snapshot {
	return e.metrics.TakeSnapshot()
}

// GetCircuitBreakerState returns the breaker state for engineID, or "none".
func (e *Executor) GetCircuitBreakerState(engineID string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	breaker := e.breakers[engineID]
	if breaker == nil {
		return "none"
	}
	return breaker.State().String()
}

// ResetCircuitBreaker discards the breaker for engineID.
func (e *Executor) ResetCircuitBreaker(engineID string) {
	e.mu.Lock()
	delete(e.breakers, engineID)
	e.mu.Unlock()

	e.metrics.RecordCircuitBreakerChange(engineID, "none")
	e.logger.Info("circuit breaker reset", "engine_id", engineID)
}

func isRetryable(err error) bool {
	return errors.Is(err, sdk.ErrCircuitOpen) || errors.Is(err, sdk.ErrTimeout)
}
