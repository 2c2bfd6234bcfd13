package sdk

import (
	"encoding/json"
	"fmt"
	"time"
)

// ConfigSchema is a JSON Schema subset describing engine options.
type ConfigSchema struct {
	Schema      string                    `json:"$schema,omitempty"`
	Type        string                    `json:"type"`
	Title       string                    `json:"title"`
	Description string                    `json:"description,omitempty"`
	Properties  map[string]PropertySchema `json:"properties"`
	Required    []string                  `json:"required,omitempty"`
}

// PropertySchema describes one option.
type PropertySchema struct {
	// Type is "string", "number", "integer", "boolean" or "array".
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Default     any      `json:"default,omitempty"`
	Enum        []any    `json:"enum,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
}

// NewConfigSchema creates an object schema with no properties.
func NewConfigSchema(title, description string) ConfigSchema {
	return ConfigSchema{
		Schema:      "https://json-schema.org/draft/2020-12/schema",
		Type:        "object",
		Title:       title,
		Description: description,
		Properties:  make(map[string]PropertySchema),
	}
}

// AddProperty adds a property to the schema.
func (s *ConfigSchema) AddProperty(name string, prop PropertySchema) *ConfigSchema {
	if s.Properties == nil {
		s.Properties = make(map[string]PropertySchema)
	}
	s.Properties[name] = prop
	return s
}

// Validate checks config against the schema. Unknown keys are allowed.
func (s ConfigSchema) Validate(config map[string]any) error {
	for _, req := range s.Required {
		if _, ok := config[req]; !ok {
			return NewConfigValidationError(req, "required field is missing", nil)
		}
	}
	for name, value := range config {
		prop, ok := s.Properties[name]
		if !ok {
			continue
		}
		if err := prop.Validate(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a single value.
func (p PropertySchema) Validate(name string, value any) error {
	if value == nil {
		return nil
	}

	switch p.Type {
	case "string":
		if _, ok := value.(string); !ok {
			return NewConfigValidationError(name, "must be a string", value)
		}
	case "number", "integer":
		f, ok := toFloat(value)
		if !ok {
			return NewConfigValidationError(name, "must be a number", value)
		}
		if p.Minimum != nil && f < *p.Minimum {
			return NewConfigValidationError(name, fmt.Sprintf("must be >= %v", *p.Minimum), value)
		}
		if p.Maximum != nil && f > *p.Maximum {
			return NewConfigValidationError(name, fmt.Sprintf("must be <= %v", *p.Maximum), value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return NewConfigValidationError(name, "must be a boolean", value)
		}
	case "array":
		if _, ok := value.([]any); !ok {
			return NewConfigValidationError(name, "must be an array", value)
		}
	}

	if len(p.Enum) > 0 {
		for _, e := range p.Enum {
			if e == value {
				return nil
			}
		}
		return NewConfigValidationError(name, fmt.Sprintf("must be one of %v", p.Enum), value)
	}
	return nil
}

// FloatPtr returns a pointer to f, for Minimum and Maximum.
func FloatPtr(f float64) *float64 {
	return &f
}

// EngineConfig holds the options passed to Engine.Initialize.
type EngineConfig struct {
	EngineID string         `json:"engine_id"`
	Raw      map[string]any `json:"raw"`
}

// NewEngineConfig creates a configuration for engineID.
func NewEngineConfig(engineID string, raw map[string]any) EngineConfig {
	if raw == nil {
		raw = make(map[string]any)
	}
	return EngineConfig{EngineID: engineID, Raw: raw}
}

// Has reports whether key is set.
func (c EngineConfig) Has(key string) bool {
	_, ok := c.Raw[key]
	return ok
}

// Get returns the raw value for key.
func (c EngineConfig) Get(key string) any {
	return c.Raw[key]
}

// GetString returns a string value or "".
func (c EngineConfig) GetString(key string) string {
	v, _ := c.Raw[key].(string)
	return v
}

// GetInt returns an integer value or 0.
func (c EngineConfig) GetInt(key string) int {
	f, _ := toFloat(c.Raw[key])
	return int(f)
}

// GetFloat returns a float value or 0.
func (c EngineConfig) GetFloat(key string) float64 {
	f, _ := toFloat(c.Raw[key])
	return f
}

// GetFloatOr returns the float value for key, or def when unset.
func (c EngineConfig) GetFloatOr(key string, def float64) float64 {
	if f, ok := toFloat(c.Raw[key]); ok {
		return f
	}
	return def
}

// GetBool returns a boolean value or false.
func (c EngineConfig) GetBool(key string) bool {
	v, _ := c.Raw[key].(bool)
	return v
}

// GetDuration parses a duration string such as "250ms".
func (c EngineConfig) GetDuration(key string) time.Duration {
	if v, ok := c.Raw[key].(string); ok {
		d, _ := time.ParseDuration(v)
		return d
	}
	return 0
}

// GetStringSlice returns the string elements of an array value.
func (c EngineConfig) GetStringSlice(key string) []string {
	v, ok := c.Raw[key].([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(v))
	for _, item := range v {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// Merge returns a config with other's values layered over c's.
func (c EngineConfig) Merge(other EngineConfig) EngineConfig {
	merged := make(map[string]any, len(c.Raw)+len(other.Raw))
	for k, v := range c.Raw {
		merged[k] = v
	}
	for k, v := range other.Raw {
		merged[k] = v
	}
	return EngineConfig{EngineID: c.EngineID, Raw: merged}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}
