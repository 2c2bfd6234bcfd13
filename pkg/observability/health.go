package observability

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"
)

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResult is the result of a health check.
type HealthCheckResult struct {
	Status    HealthStatus   `json:"status"`
	Message   string         `json:"message,omitempty"`
	Duration  time.Duration  `json:"duration_ns"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

// HealthChecker is a function that performs a health check.
type HealthChecker func(ctx context.Context) HealthCheckResult

// HealthRegistry runs named health checks.
type HealthRegistry struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
}

// NewHealthRegistry creates a new health registry.
func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{checkers: make(map[string]HealthChecker)}
}

// Register adds or replaces the checker for a component.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// Names returns the registered component names, sorted.
func (r *HealthRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.checkers))
}

// Check runs all health checks concurrently.
func (r *HealthRegistry) Check(ctx context.Context) map[string]HealthCheckResult {
	r.mu.RLock()
	checkers := maps.Clone(r.checkers)
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]HealthCheckResult, len(checkers))
	)
	for name, checker := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := run(ctx, checker)
			mu.Lock()
			results[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	return results
}

// CheckOne runs a single health check by name.
func (r *HealthRegistry) CheckOne(ctx context.Context, name string) (HealthCheckResult, bool) {
	r.mu.RLock()
	checker, ok := r.checkers[name]
	r.mu.RUnlock()

	if !ok {
		return HealthCheckResult{}, false
	}
	return run(ctx, checker), true
}

func run(ctx context.Context, checker HealthChecker) HealthCheckResult {
	start := time.Now()
	result := checker(ctx)
	result.Duration = time.Since(start)
	result.Timestamp = time.Now()
	return result
}

// OverallHealth summarizes a set of check results.
type OverallHealth struct {
	Status    HealthStatus                 `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Checks    map[string]HealthCheckResult `json:"checks"`
}

// GetOverallHealth runs all checks and folds them into one status.
func (r *HealthRegistry) GetOverallHealth(ctx context.Context) OverallHealth {
	checks := r.Check(ctx)
	return OverallHealth{
		Status:    OverallStatus(checks),
		Timestamp: time.Now(),
		Checks:    checks,
	}
}

// OverallStatus returns the worst status among results. No results is healthy.
func OverallStatus(results map[string]HealthCheckResult) HealthStatus {
	status := HealthStatusHealthy
	for _, result := range results {
		switch result.Status {
		case HealthStatusUnhealthy:
			return HealthStatusUnhealthy
		case HealthStatusDegraded:
			status = HealthStatusDegraded
		}
	}
	return status
}

// EngineHealthChecker adapts an engine probe. An open or half-open circuit
// downgrades a healthy engine to degraded.
func EngineHealthChecker(probe func(ctx context.Context) (healthy bool, message string, err error), circuitState func() string) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		healthy, message, err := probe(ctx)
		if err != nil {
			return HealthCheckResult{Status: HealthStatusUnhealthy, Message: err.Error()}
		}
		if !healthy {
			return HealthCheckResult{Status: HealthStatusUnhealthy, Message: message}
		}

		result := HealthCheckResult{Status: HealthStatusHealthy, Message: message}
		if circuitState != nil {
			state := circuitState()
			result.Details = map[string]any{"circuit_breaker": state}
			if state == "open" || state == "half-open" {
				result.Status = HealthStatusDegraded
			}
		}
		return result
	}
}
