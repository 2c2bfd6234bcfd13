// Package sdk defines the contract between the triage pipeline and the
// engines that score ticket sentiment. Engines run either in-process
// (built-ins) or as go-plugin subprocesses.
package sdk

import (
	"context"
)

// EngineType identifies what an engine computes.
type EngineType string

const (
	// EngineTypeSentiment engines score polarity and subjectivity of text.
	EngineTypeSentiment EngineType = "sentiment"
)

// String returns the string representation of the engine type.
func (t EngineType) String() string {
	return string(t)
}

// IsValid checks if the engine type is known.
func (t EngineType) IsValid() bool {
	return t == EngineTypeSentiment
}

// Engine is the lifecycle interface every engine implements.
type Engine interface {
	// Metadata returns engine identification and capabilities.
	Metadata() EngineMetadata

	// Type returns the engine type.
	Type() EngineType

	// ConfigSchema describes the options accepted by Initialize.
	ConfigSchema() ConfigSchema

	// Initialize applies configuration. It is called once before first use.
	Initialize(ctx context.Context, config EngineConfig) error

	// HealthCheck reports whether the engine can serve requests.
	HealthCheck(ctx context.Context) HealthStatus

	// Shutdown releases engine resources.
	Shutdown(ctx context.Context) error
}

// EngineFactory creates engine instances on demand.
type EngineFactory func() (Engine, error)
