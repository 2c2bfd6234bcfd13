package runtime

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector_RecordCall(t *testing.T) {
	m := NewMetricsCollector()

	m.RecordCall("engine", 10*time.Millisecond, nil)
	m.RecordCall("engine", 30*time.Millisecond, nil)
	m.RecordCall("engine", 20*time.Millisecond, errors.New("failed"))

	metrics := m.Get("engine")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(3), metrics.TotalCalls)
	assert.Equal(t, int64(2), metrics.SuccessfulCalls)
	assert.Equal(t, int64(1), metrics.FailedCalls)
	assert.Equal(t, "failed", metrics.LastError)
	assert.False(t, metrics.LastCallAt.IsZero())

	assert.Equal(t, int64(3), metrics.Latency.Count)
	assert.Equal(t, 10*time.Millisecond, metrics.Latency.Min)
	assert.Equal(t, 30*time.Millisecond, metrics.Latency.Max)
	assert.Equal(t, 20*time.Millisecond, metrics.Latency.Average)
	assert.InDelta(t, 2.0/3.0, metrics.SuccessRate(), 1e-9)
}

func TestMetricsCollector_Get_Unknown(t *testing.T) {
	m := NewMetricsCollector()
	assert.Nil(t, m.Get("missing"))
	assert.Empty(t, m.GetAll())
	assert.Equal(t, 0.0, EngineMetrics{}.SuccessRate())
}

func TestMetricsCollector_CircuitBreaker(t *testing.T) {
	m := NewMetricsCollector()

	m.RecordCircuitBreakerChange("engine", "open")
	m.RecordCircuitOpen("engine")
	m.RecordCircuitOpen("engine")

	metrics := m.Get("engine")
	assert.Equal(t, "open", metrics.CircuitBreakerState)
	assert.Equal(t, int64(2), metrics.CircuitOpenCount)
	assert.Zero(t, metrics.TotalCalls)
}

func TestMetricsCollector_ForEngine(t *testing.T) {
	m := NewMetricsCollector()
	recorder := m.ForEngine("engine")

	recorder.Counter("terms", 2)
	recorder.Counter("terms", 3)
	recorder.Timing("tokenize", 4*time.Millisecond)
	recorder.Timing("tokenize", 2*time.Millisecond)
	m.ForEngine("other").Counter("terms", 1)

	metrics := m.Get("engine")
	assert.Equal(t, int64(5), metrics.Counters["terms"])
	assert.Equal(t, int64(2), metrics.Timings["tokenize"].Count)
	assert.Equal(t, 2*time.Millisecond, metrics.Timings["tokenize"].Min)
	assert.Equal(t, 4*time.Millisecond, metrics.Timings["tokenize"].Max)
	assert.Equal(t, int64(1), m.Get("other").Counters["terms"])
}

func TestMetricsCollector_GetReturnsCopy(t *testing.T) {
	m := NewMetricsCollector()
	m.ForEngine("engine").Counter("terms", 1)

	metrics := m.Get("engine")
	metrics.Counters["terms"] = 100
	metrics.TotalCalls = 100

	fresh := m.Get("engine")
	assert.Equal(t, int64(1), fresh.Counters["terms"])
	assert.Zero(t, fresh.TotalCalls)
}

func TestMetricsCollector_Reset(t *testing.T) {
	m := NewMetricsCollector()
	m.RecordCall("a", time.Millisecond, nil)
	m.RecordCall("b", time.Millisecond, nil)

	m.ResetEngine("a")
	assert.Nil(t, m.Get("a"))
	assert.NotNil(t, m.Get("b"))

	m.Reset()
	assert.Empty(t, m.GetAll())
}

func TestMetricsCollector_TakeSnapshot(t *testing.T) {
	m := NewMetricsCollector()
	m.RecordCall("a", time.Millisecond, nil)
	m.RecordCall("a", time.Millisecond, nil)
	m.RecordCall("b", time.Millisecond, errors.New("x"))
	m.RecordCall("c", time.Millisecond, nil)
	m.RecordCircuitBreakerChange("c", "open")
	m.RecordCircuitBreakerChange("b", "open")

	snapshot := m.TakeSnapshot()
	assert.False(t, snapshot.Timestamp.IsZero())
	assert.Len(t, snapshot.Engines, 3)
	assert.Equal(t, 3, snapshot.Summary.TotalEngines)
	assert.Equal(t, int64(4), snapshot.Summary.TotalCalls)
	assert.Equal(t, int64(3), snapshot.Summary.TotalSuccessful)
	assert.Equal(t, int64(1), snapshot.Summary.TotalFailed)
	assert.InDelta(t, 0.75, snapshot.Summary.SuccessRate, 1e-9)
	assert.Equal(t, []string{"b", "c"}, snapshot.Summary.EnginesWithOpenCircuit)
}

func TestMetricsCollector_Concurrent(t *testing.T) {
	m := NewMetricsCollector()
	recorder := m.ForEngine("engine")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordCall("engine", time.Millisecond, nil)
			recorder.Counter("terms", 1)
			_ = m.TakeSnapshot()
		}()
	}
	wg.Wait()

	metrics := m.Get("engine")
	assert.Equal(t, int64(50), metrics.TotalCalls)
	assert.Equal(t, int64(50), metrics.Counters["terms"])
}
