// Package enginesdk is the public API for building triage sentiment
// engine plugins. It re-exports the internal engine contract so plugin
// authors never import internal packages.
//
// A plugin binary implements SentimentEngine and hands it to ServeSentiment:
//
//	package main
//
//	import "github.com/felixgeelhaar/triage/pkg/enginesdk"
//
//	type MyEngine struct {
//		*enginesdk.BaseEngine
//	}
//
//	func (e *MyEngine) Score(ctx *enginesdk.ExecutionContext, in enginesdk.ScoreInput) (*enginesdk.ScoreOutput, error) {
//		return &enginesdk.ScoreOutput{}, nil
//	}
//
//	func main() {
//		enginesdk.ServeSentiment(&MyEngine{BaseEngine: enginesdk.NewBaseEngine(metadata)})
//	}
package enginesdk

import (
	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/engine/types"
)

// Engine types
type (
	EngineType     = sdk.EngineType
	Engine         = sdk.Engine
	EngineMetadata = sdk.EngineMetadata
	EngineFactory  = sdk.EngineFactory
)

// Configuration types
type (
	EngineConfig   = sdk.EngineConfig
	ConfigSchema   = sdk.ConfigSchema
	PropertySchema = sdk.PropertySchema
)

// Execution types
type (
	ExecutionContext = sdk.ExecutionContext
	HealthStatus     = sdk.HealthStatus
	MetricsRecorder  = sdk.MetricsRecorder
)

// Sentiment types
type (
	// SentimentEngine is the interface a plugin must implement.
	SentimentEngine = types.SentimentEngine
	ScoreInput      = types.ScoreInput
	ScoreOutput     = types.ScoreOutput
	TermAssessment  = types.TermAssessment
)

// EngineTypeSentiment is the only engine type served by plugins.
const EngineTypeSentiment = sdk.EngineTypeSentiment

// SDKVersion is the engine API version this SDK implements.
var SDKVersion = sdk.SDKVersion

var (
	NewHealthStatus     = sdk.NewHealthStatus
	NewEngineConfig     = sdk.NewEngineConfig
	NewExecutionContext = sdk.NewExecutionContext
)

// Errors engines may return.
var (
	ErrInvalidConfig  = sdk.ErrInvalidConfig
	ErrEngineShutdown = sdk.ErrEngineShutdown
)
