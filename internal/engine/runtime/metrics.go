package runtime

import (
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
)

// MetricsCollector collects runtime metrics for engines.
type MetricsCollector struct {
	mu      sync.RWMutex
	metrics map[string]*EngineMetrics
}

// DurationStats aggregates observed durations.
type DurationStats struct {
	Count   int64         `json:"count"`
	Total   time.Duration `json:"total"`
	Average time.Duration `json:"average"`
	Min     time.Duration `json:"min"`
	Max     time.Duration `json:"max"`
}

func (s *DurationStats) observe(d time.Duration) {
	s.Count++
	s.Total += d
	if s.Count == 1 || d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
	s.Average = s.Total / time.Duration(s.Count)
}

// EngineMetrics contains metrics for a single engine.
type EngineMetrics struct {
	EngineID        string `json:"engine_id"`
	TotalCalls      int64  `json:"total_calls"`
	SuccessfulCalls int64  `json:"successful_calls"`
	FailedCalls     int64  `json:"failed_calls"`

	// Latency covers every call that reached the engine.
	Latency    DurationStats `json:"latency"`
	LastCallAt time.Time     `json:"last_call_at"`
	LastError  string        `json:"last_error,omitempty"`

	CircuitBreakerState string `json:"circuit_breaker_state"`

	// CircuitOpenCount counts calls rejected by an open breaker.
	CircuitOpenCount int64 `json:"circuit_open_count"`

	// Counters and Timings hold values reported by the engine itself
	// through its ExecutionContext.
	Counters map[string]int64         `json:"counters,omitempty"`
	Timings  map[string]DurationStats `json:"timings,omitempty"`
}

// SuccessRate returns the fraction of successful calls (0-1).
func (m EngineMetrics) SuccessRate() float64 {
	if m.TotalCalls == 0 {
		return 0
	}
	return float64(m.SuccessfulCalls) / float64(m.TotalCalls)
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*EngineMetrics),
	}
}

// RecordCall records the outcome of one engine call.
func (m *MetricsCollector) RecordCall(engineID string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics := m.getOrCreate(engineID)
	metrics.TotalCalls++
	metrics.LastCallAt = time.Now()
	metrics.Latency.observe(duration)

	if err != nil {
		metrics.FailedCalls++
		metrics.LastError = err.Error()
	} else {
		metrics.SuccessfulCalls++
	}
}

// RecordCircuitBreakerChange records a circuit breaker state change.
func (m *MetricsCollector) RecordCircuitBreakerChange(engineID, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getOrCreate(engineID).CircuitBreakerState = state
}

// RecordCircuitOpen records a call rejected by an open breaker.
func (m *MetricsCollector) RecordCircuitOpen(engineID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getOrCreate(engineID).CircuitOpenCount++
}

// ForEngine returns a recorder that files engine-reported metrics under engineID.
func (m *MetricsCollector) ForEngine(engineID string) sdk.MetricsRecorder {
	return &engineRecorder{collector: m, engineID: engineID}
}

// Get returns a copy of the metrics for engineID, or nil.
func (m *MetricsCollector) Get(engineID string) *EngineMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if metrics, exists := m.metrics[engineID]; exists {
		return metrics.clone()
	}
	return nil
}

// GetAll returns copies of the metrics for all engines.
func (m *MetricsCollector) GetAll() map[string]EngineMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]EngineMetrics, len(m.metrics))
	for id, metrics := range m.metrics {
		result[id] = *metrics.clone()
	}
	return result
}

// Reset clears all metrics.
func (m *MetricsCollector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics = make(map[string]*EngineMetrics)
}

// ResetEngine clears the metrics for engineID.
func (m *MetricsCollector) ResetEngine(engineID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.metrics, engineID)
}

// getOrCreate must be called with mu held.
func (m *MetricsCollector) getOrCreate(engineID string) *EngineMetrics {
	if metrics, exists := m.metrics[engineID]; exists {
		return metrics
	}

	metrics := &EngineMetrics{
		EngineID:            engineID,
		CircuitBreakerState: "none",
		Counters:            make(map[string]int64),
		Timings:             make(map[string]DurationStats),
	}
	m.metrics[engineID] = metrics
	return metrics
}

func (em *EngineMetrics) clone() *EngineMetrics {
	c := *em
	c.Counters = maps.Clone(em.Counters)
	c.Timings = maps.Clone(em.Timings)
	return &c
}

// engineRecorder implements sdk.MetricsRecorder for one engine.
type engineRecorder struct {
	collector *MetricsCollector
	engineID  string
}

func (r *engineRecorder) Counter(name string, value int64, _ ...string) {
	r.collector.mu.Lock()
	defer r.collector.mu.Unlock()

	r.collector.getOrCreate(r.engineID).Counters[name] += value
}

func (r *engineRecorder) Timing(name string, duration time.Duration, _ ...string) {
	r.collector.mu.Lock()
	defer r.collector.mu.Unlock()

	metrics := r.collector.getOrCreate(r.engineID)
	stats := metrics.Timings[name]
	stats.observe(duration)
	metrics.Timings[name] = stats
}

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Timestamp time.Time                `json:"timestamp"`
	Engines   map[string]EngineMetrics `json:"engines"`
	Summary   SnapshotSummary          `json:"summary"`
}

// SnapshotSummary aggregates a snapshot across engines.
type SnapshotSummary struct {
	TotalEngines    int     `json:"total_engines"`
	TotalCalls      int64   `json:"total_calls"`
	TotalSuccessful int64   `json:"total_successful"`
	TotalFailed     int64   `json:"total_failed"`
	SuccessRate     float64 `json:"success_rate"`

	// EnginesWithOpenCircuit is sorted by engine id.
	EnginesWithOpenCircuit []string `json:"engines_with_open_circuit"`
}

// TakeSnapshot creates a snapshot of current metrics.
func (m *MetricsCollector) TakeSnapshot() Snapshot {
	engines := m.GetAll()

	snapshot := Snapshot{
		Timestamp: time.Now(),
		Engines:   engines,
	}
	summary := &snapshot.Summary
	summary.TotalEngines = len(engines)

	for id, metrics := range engines {
		summary.TotalCalls += metrics.TotalCalls
		summary.TotalSuccessful += metrics.SuccessfulCalls
		summary.TotalFailed += metrics.FailedCalls

		if metrics.CircuitBreakerState == "open" {
			summary.EnginesWithOpenCircuit = append(summary.EnginesWithOpenCircuit, id)
		}
	}
	sort.Strings(summary.EnginesWithOpenCircuit)

	if summary.TotalCalls > 0 {
		summary.SuccessRate = float64(summary.TotalSuccessful) / float64(summary.TotalCalls)
	}
	return snapshot
}
