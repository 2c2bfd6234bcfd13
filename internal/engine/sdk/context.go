package sdk

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ExecutionContext carries per-call state into an engine: cancellation,
// a request-scoped logger and a metrics sink.
type ExecutionContext struct {
	ctx context.Context

	// EngineID identifies which engine is executing.
	EngineID string

	// RequestID is unique per execution.
	RequestID string

	// CorrelationID ties the execution to the CLI invocation or batch
	// that triggered it. Empty when the caller did not set one.
	CorrelationID string

	Logger    *slog.Logger
	Metrics   MetricsRecorder
	StartTime time.Time
}

type correlationKey struct{}

// WithCorrelationID attaches a correlation id to ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationIDFrom returns the correlation id stored in ctx, if any.
func CorrelationIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// NewExecutionContext creates an execution context for engineID.
func NewExecutionContext(ctx context.Context, engineID string) *ExecutionContext {
	return &ExecutionContext{
		ctx:           ctx,
		EngineID:      engineID,
		RequestID:     uuid.New().String(),
		CorrelationID: CorrelationIDFrom(ctx),
		Logger:        slog.Default(),
		Metrics:       &noopMetricsRecorder{},
		StartTime:     time.Now(),
	}
}

// Context returns the underlying context.Context.
func (ec *ExecutionContext) Context() context.Context {
	return ec.ctx
}

// Deadline implements context.Context.
func (ec *ExecutionContext) Deadline() (deadline time.Time, ok bool) {
	return ec.ctx.Deadline()
}

// Done implements context.Context.
func (ec *ExecutionContext) Done() <-chan struct{} {
	return ec.ctx.Done()
}

// Err implements context.Context.
func (ec *ExecutionContext) Err() error {
	return ec.ctx.Err()
}

// Value implements context.Context.
func (ec *ExecutionContext) Value(key any) any {
	return ec.ctx.Value(key)
}

// WithLogger sets the logger, tagged with the execution identifiers.
func (ec *ExecutionContext) WithLogger(logger *slog.Logger) *ExecutionContext {
	attrs := []any{
		"engine_id", ec.EngineID,
		"request_id", ec.RequestID,
	}
	if ec.CorrelationID != "" {
		attrs = append(attrs, "correlation_id", ec.CorrelationID)
	}
	ec.Logger = logger.With(attrs...)
	return ec
}

// WithMetrics sets the metrics recorder.
func (ec *ExecutionContext) WithMetrics(metrics MetricsRecorder) *ExecutionContext {
	ec.Metrics = metrics
	return ec
}

// Elapsed returns the time since the execution started.
func (ec *ExecutionContext) Elapsed() time.Duration {
	return time.Since(ec.StartTime)
}

// MetricsRecorder lets engines emit custom metrics.
type MetricsRecorder interface {
	Counter(name string, value int64, tags ...string)
	Timing(name string, duration time.Duration, tags ...string)
}

type noopMetricsRecorder struct{}

func (n *noopMetricsRecorder) Counter(_ string, _ int64, _ ...string)        {}
func (n *noopMetricsRecorder) Timing(_ string, _ time.Duration, _ ...string) {}

// NewNoopMetricsRecorder returns a recorder that discards everything.
func NewNoopMetricsRecorder() MetricsRecorder {
	return &noopMetricsRecorder{}
}
