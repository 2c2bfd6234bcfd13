package enginesdk

import (
	"context"
	"sync"

	enginegrpc "github.com/felixgeelhaar/triage/internal/engine/grpc"
	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/hashicorp/go-plugin"
)

// ServeSentiment starts the plugin server for a sentiment engine and blocks
// until the host disconnects. Call it from the plugin binary's main.
func ServeSentiment(engine SentimentEngine) {
	plugin.Serve(ServeConfig(engine))
}

// ServeConfig returns the go-plugin configuration ServeSentiment uses.
func ServeConfig(engine SentimentEngine) *plugin.ServeConfig {
	return &plugin.ServeConfig{
		HandshakeConfig: enginegrpc.HandshakeConfig,
		Plugins: map[string]plugin.Plugin{
			enginegrpc.DispenseKey: &enginegrpc.SentimentPlugin{Impl: engine},
		},
		GRPCServer: plugin.DefaultGRPCServer,
	}
}

// BaseEngine implements the lifecycle half of SentimentEngine. Plugin
// authors embed it and add Score.
type BaseEngine struct {
	metadata sdk.EngineMetadata
	schema   sdk.ConfigSchema

	mu       sync.RWMutex
	config   sdk.EngineConfig
	shutdown bool
}

// NewBaseEngine creates a BaseEngine with an empty config schema.
func NewBaseEngine(metadata sdk.EngineMetadata) *BaseEngine {
	return &BaseEngine{
		metadata: metadata,
		schema:   sdk.NewConfigSchema(metadata.Name, metadata.Description),
		config:   sdk.NewEngineConfig(metadata.ID, nil),
	}
}

// WithSchema sets the schema Initialize validates against.
func (e *BaseEngine) WithSchema(schema sdk.ConfigSchema) *BaseEngine {
	e.schema = schema
	return e
}

// Metadata returns the engine metadata.
func (e *BaseEngine) Metadata() sdk.EngineMetadata {
	return e.metadata
}

// Type returns EngineTypeSentiment.
func (e *BaseEngine) Type() sdk.EngineType {
	return sdk.EngineTypeSentiment
}

// ConfigSchema returns the configuration schema.
func (e *BaseEngine) ConfigSchema() sdk.ConfigSchema {
	return e.schema
}

// Initialize validates and stores the configuration.
func (e *BaseEngine) Initialize(_ context.Context, config sdk.EngineConfig) error {
	if err := e.schema.Validate(config.Raw); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = config
	e.shutdown = false
	return nil
}

// HealthCheck reports healthy until Shutdown is called.
func (e *BaseEngine) HealthCheck(_ context.Context) sdk.HealthStatus {
	if e.IsShutdown() {
		return sdk.NewHealthStatus(false, "engine is shut down")
	}
	return sdk.NewHealthStatus(true, "engine is healthy")
}

// Shutdown marks the engine as shut down.
func (e *BaseEngine) Shutdown(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdown = true
	return nil
}

// IsShutdown reports whether Shutdown has been called since the last Initialize.
func (e *BaseEngine) IsShutdown() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.shutdown
}

// Config returns the engine configuration.
func (e *BaseEngine) Config() sdk.EngineConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config
}

// GetString retrieves a string configuration value with a default.
func (e *BaseEngine) GetString(key, defaultVal string) string {
	config := e.Config()
	if config.Has(key) {
		return config.GetString(key)
	}
	return defaultVal
}

// GetInt retrieves an integer configuration value with a default.
func (e *BaseEngine) GetInt(key string, defaultVal int) int {
	config := e.Config()
	if config.Has(key) {
		return config.GetInt(key)
	}
	return defaultVal
}

// GetFloat retrieves a float configuration value with a default.
func (e *BaseEngine) GetFloat(key string, defaultVal float64) float64 {
	return e.Config().GetFloatOr(key, defaultVal)
}

// GetBool retrieves a boolean configuration value with a default.
func (e *BaseEngine) GetBool(key string, defaultVal bool) bool {
	config := e.Config()
	if config.Has(key) {
		return config.GetBool(key)
	}
	return defaultVal
}

// PropertyBuilder helps construct PropertySchema instances.
type PropertyBuilder struct {
	prop sdk.PropertySchema
}

// NewProperty creates a new property builder.
func NewProperty(propType, title, description string) *PropertyBuilder {
	return &PropertyBuilder{
		prop: sdk.PropertySchema{
			Type:        propType,
			Title:       title,
			Description: description,
		},
	}
}

// Default sets the default value.
func (b *PropertyBuilder) Default(value any) *PropertyBuilder {
	b.prop.Default = value
	return b
}

// Min sets the minimum value for numeric properties.
func (b *PropertyBuilder) Min(value float64) *PropertyBuilder {
	b.prop.Minimum = &value
	return b
}

// Max sets the maximum value for numeric properties.
func (b *PropertyBuilder) Max(value float64) *PropertyBuilder {
	b.prop.Maximum = &value
	return b
}

// Enum sets the allowed values.
func (b *PropertyBuilder) Enum(values ...any) *PropertyBuilder {
	b.prop.Enum = values
	return b
}

// Build returns the constructed PropertySchema.
func (b *PropertyBuilder) Build() sdk.PropertySchema {
	return b.prop
}

// ConfigSchemaBuilder helps construct ConfigSchema instances.
type ConfigSchemaBuilder struct {
	schema sdk.ConfigSchema
}

// NewConfigSchema creates a new configuration schema builder.
func NewConfigSchema(title string) *ConfigSchemaBuilder {
	return &ConfigSchemaBuilder{schema: sdk.NewConfigSchema(title, "")}
}

// AddProperty adds a property to the schema.
func (b *ConfigSchemaBuilder) AddProperty(name string, prop sdk.PropertySchema) *ConfigSchemaBuilder {
	b.schema.AddProperty(name, prop)
	return b
}

// Required marks properties as required.
func (b *ConfigSchemaBuilder) Required(names ...string) *ConfigSchemaBuilder {
	b.schema.Required = append(b.schema.Required, names...)
	return b
}

// Build returns the constructed ConfigSchema.
func (b *ConfigSchemaBuilder) Build() sdk.ConfigSchema {
	return b.schema
}

// MetadataBuilder helps construct EngineMetadata instances.
type MetadataBuilder struct {
	metadata sdk.EngineMetadata
}

// NewMetadata starts a metadata builder. MinAPIVersion defaults to SDKVersion.
func NewMetadata(id, name, version string) *MetadataBuilder {
	return &MetadataBuilder{
		metadata: sdk.EngineMetadata{
			ID:            id,
			Name:          name,
			Version:       version,
			MinAPIVersion: sdk.SDKVersion.String(),
		},
	}
}

// Author sets the author.
func (b *MetadataBuilder) Author(author string) *MetadataBuilder {
	b.metadata.Author = author
	return b
}

// Description sets the description.
func (b *MetadataBuilder) Description(desc string) *MetadataBuilder {
	b.metadata.Description = desc
	return b
}

// License sets the license.
func (b *MetadataBuilder) License(license string) *MetadataBuilder {
	b.metadata.License = license
	return b
}

// Homepage sets the homepage URL.
func (b *MetadataBuilder) Homepage(url string) *MetadataBuilder {
	b.metadata.Homepage = url
	return b
}

// Tags sets the tags.
func (b *MetadataBuilder) Tags(tags ...string) *MetadataBuilder {
	b.metadata.Tags = tags
	return b
}

// MinAPIVersion overrides the minimum API version.
func (b *MetadataBuilder) MinAPIVersion(version string) *MetadataBuilder {
	b.metadata.MinAPIVersion = version
	return b
}

// Capabilities sets the capabilities.
func (b *MetadataBuilder) Capabilities(caps ...string) *MetadataBuilder {
	b.metadata.Capabilities = caps
	return b
}

// Build returns the constructed EngineMetadata.
func (b *MetadataBuilder) Build() sdk.EngineMetadata {
	return b.metadata
}
