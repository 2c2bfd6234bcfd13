package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
)

// DefaultManifestFilename is the manifest name looked up in plugin directories.
const DefaultManifestFilename = "engine.json"

// Manifest describes a plugin engine. It is read from engine.json next
// to the plugin binary.
type Manifest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Version       string `json:"version"`
	Type          string `json:"type"`
	MinAPIVersion string `json:"min_api_version"`

	// BinaryPath is relative to the manifest directory unless absolute.
	BinaryPath string `json:"binary_path,omitempty"`

	// Checksum is "sha256:HEX" or bare HEX. When set the loader verifies it.
	Checksum string `json:"checksum,omitempty"`

	Author       string   `json:"author,omitempty"`
	Description  string   `json:"description,omitempty"`
	License      string   `json:"license,omitempty"`
	Homepage     string   `json:"homepage,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
	Tags         []string `json:"tags,omitempty"`

	// ConfigDefaults is passed to Initialize when the plugin is loaded.
	ConfigDefaults map[string]any `json:"config_defaults,omitempty"`

	dir string
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	manifest.dir = filepath.Dir(path)

	if err := manifest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &manifest, nil
}

// SaveManifest writes manifest as indented JSON.
func SaveManifest(path string, manifest *Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ManifestFromMetadata builds a manifest for an in-process engine.
func ManifestFromMetadata(metadata sdk.EngineMetadata, engineType sdk.EngineType) *Manifest {
	return &Manifest{
		ID:            metadata.ID,
		Name:          metadata.Name,
		Version:       metadata.Version,
		Type:          engineType.String(),
		MinAPIVersion: metadata.MinAPIVersion,
		Author:        metadata.Author,
		Description:   metadata.Description,
		License:       metadata.License,
		Homepage:      metadata.Homepage,
		Capabilities:  metadata.Capabilities,
		Tags:          metadata.Tags,
	}
}

// Validate checks required fields, the engine type and SDK compatibility.
func (m *Manifest) Validate() error {
	switch {
	case m.ID == "":
		return errors.New("id is required")
	case m.Name == "":
		return errors.New("name is required")
	case m.Version == "":
		return errors.New("version is required")
	case m.Type == "":
		return errors.New("type is required")
	case m.MinAPIVersion == "":
		return errors.New("min_api_version is required")
	}

	if !m.EngineType().IsValid() {
		return fmt.Errorf("invalid engine type: %s", m.Type)
	}

	required, err := sdk.ParseVersion(m.MinAPIVersion)
	if err != nil {
		return fmt.Errorf("invalid min_api_version: %w", err)
	}
	if !sdk.SDKVersion.Compatible(required) {
		return fmt.Errorf("%w: SDK %s cannot host engines requiring %s",
			sdk.ErrVersionIncompatible, sdk.SDKVersion, m.MinAPIVersion)
	}
	return nil
}

// EngineType returns the manifest type as an sdk.EngineType.
func (m *Manifest) EngineType() sdk.EngineType {
	return sdk.EngineType(m.Type)
}

// BinaryAbsPath resolves BinaryPath against the manifest directory.
func (m *Manifest) BinaryAbsPath() string {
	if m.BinaryPath == "" || filepath.IsAbs(m.BinaryPath) {
		return m.BinaryPath
	}
	return filepath.Join(m.dir, m.BinaryPath)
}

// Dir returns the directory the manifest was loaded from.
func (m *Manifest) Dir() string {
	return m.dir
}

// ToMetadata converts the manifest to EngineMetadata.
func (m *Manifest) ToMetadata() sdk.EngineMetadata {
	return sdk.EngineMetadata{
		ID:            m.ID,
		Name:          m.Name,
		Version:       m.Version,
		Author:        m.Author,
		Description:   m.Description,
		License:       m.License,
		Homepage:      m.Homepage,
		Tags:          m.Tags,
		MinAPIVersion: m.MinAPIVersion,
		Capabilities:  m.Capabilities,
	}
}
