// Package testing provides a harness for exercising sentiment engine
// plugins in-process, without go-plugin.
//
//	func TestMyEngine(t *testing.T) {
//		h := enginetesting.NewHarness(NewMyEngine())
//		require.NoError(t, h.Initialize(map[string]any{"negation_factor": -0.5}))
//
//		out, err := h.Score("this is great")
//		require.NoError(t, err)
//		assert.Greater(t, out.Polarity, 0.1)
//	}
package testing

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/engine/types"
)

// Harness drives a SentimentEngine the way the host runtime does.
type Harness struct {
	engine  types.SentimentEngine
	logger  *slog.Logger
	metrics *RecordingMetrics
}

// NewHarness creates a harness with a discarding logger.
func NewHarness(engine types.SentimentEngine) *Harness {
	return &Harness{
		engine:  engine,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: NewRecordingMetrics(),
	}
}

// WithLogger sets the logger handed to the engine.
func (h *Harness) WithLogger(logger *slog.Logger) *Harness {
	h.logger = logger
	return h
}

// Initialize initializes the engine with raw configuration values.
func (h *Harness) Initialize(config map[string]any) error {
	return h.engine.Initialize(context.Background(), sdk.NewEngineConfig(h.engine.Metadata().ID, config))
}

// Shutdown shuts down the engine.
func (h *Harness) Shutdown() error {
	return h.engine.Shutdown(context.Background())
}

// HealthCheck checks engine health.
func (h *Harness) HealthCheck() sdk.HealthStatus {
	return h.engine.HealthCheck(context.Background())
}

// Metadata returns engine metadata.
func (h *Harness) Metadata() sdk.EngineMetadata {
	return h.engine.Metadata()
}

// ConfigSchema returns the configuration schema.
func (h *Harness) ConfigSchema() sdk.ConfigSchema {
	return h.engine.ConfigSchema()
}

// Score scores text with a background context.
func (h *Harness) Score(text string) (*types.ScoreOutput, error) {
	return h.ScoreContext(context.Background(), types.ScoreInput{Text: text})
}

// ScoreContext scores input under ctx.
func (h *Harness) ScoreContext(ctx context.Context, input types.ScoreInput) (*types.ScoreOutput, error) {
	execCtx := sdk.NewExecutionContext(ctx, h.engine.Metadata().ID).
		WithLogger(h.logger).
		WithMetrics(h.metrics)
	return h.engine.Score(execCtx, input)
}

// Metrics returns everything the engine recorded through the harness.
func (h *Harness) Metrics() *RecordingMetrics {
	return h.metrics
}

// RecordingMetrics is an sdk.MetricsRecorder that keeps every value.
type RecordingMetrics struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string][]time.Duration
}

// NewRecordingMetrics creates an empty recorder.
func NewRecordingMetrics() *RecordingMetrics {
	return &RecordingMetrics{
		counters: make(map[string]int64),
		timings:  make(map[string][]time.Duration),
	}
}

// Counter implements sdk.MetricsRecorder.
func (r *RecordingMetrics) Counter(name string, value int64, _ ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[name] += value
}

// Timing implements sdk.MetricsRecorder.
func (r *RecordingMetrics) Timing(name string, duration time.Duration, _ ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timings[name] = append(r.timings[name], duration)
}

// CounterValue returns the accumulated value of a counter.
func (r *RecordingMetrics) CounterValue(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[name]
}

// Timings returns the durations recorded under name.
func (r *RecordingMetrics) Timings(name string) []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.timings[name]...)
}

var _ sdk.MetricsRecorder = (*RecordingMetrics)(nil)
