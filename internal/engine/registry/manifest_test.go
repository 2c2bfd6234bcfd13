package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validManifest() *Manifest {
	return &Manifest{
		ID:            "acme.sentiment",
		Name:          "Acme Sentiment",
		Version:       "1.2.0",
		Type:          "sentiment",
		MinAPIVersion: "1.0.0",
		BinaryPath:    "acme-sentiment",
	}
}

func TestManifest_Validate(t *testing.T) {
	require.NoError(t, validManifest().Validate())

	tests := []struct {
		name   string
		mutate func(*Manifest)
		errMsg string
	}{
		{"missing id", func(m *Manifest) { m.ID = "" }, "id is required"},
		{"missing name", func(m *Manifest) { m.Name = "" }, "name is required"},
		{"missing version", func(m *Manifest) { m.Version = "" }, "version is required"},
		{"missing type", func(m *Manifest) { m.Type = "" }, "type is required"},
		{"missing api version", func(m *Manifest) { m.MinAPIVersion = "" }, "min_api_version is required"},
		{"unknown type", func(m *Manifest) { m.Type = "scheduler" }, "invalid engine type"},
		{"bad api version", func(m *Manifest) { m.MinAPIVersion = "one" }, "invalid min_api_version"},
		{"future api version", func(m *Manifest) { m.MinAPIVersion = "2.0.0" }, "incompatible version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validManifest()
			tt.mutate(m)
			err := m.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestManifest_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultManifestFilename)

	original := validManifest()
	original.ConfigDefaults = map[string]any{"negation_factor": -0.8}
	require.NoError(t, SaveManifest(path, original))

	loaded, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, original.ID, loaded.ID)
	assert.Equal(t, sdk.EngineTypeSentiment, loaded.EngineType())
	assert.Equal(t, dir, loaded.Dir())
	assert.Equal(t, filepath.Join(dir, "acme-sentiment"), loaded.BinaryAbsPath())
	assert.Equal(t, -0.8, loaded.ConfigDefaults["negation_factor"])
}

func TestLoadManifest_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadManifest(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read manifest")

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{not json"), 0o644))
	_, err = LoadManifest(garbage)
	assert.ErrorContains(t, err, "failed to parse manifest")

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"id":"x"}`), 0o644))
	_, err = LoadManifest(invalid)
	assert.ErrorContains(t, err, "invalid manifest")
}

func TestManifest_BinaryAbsPath(t *testing.T) {
	m := validManifest()
	m.BinaryPath = "/opt/engines/acme"
	assert.Equal(t, "/opt/engines/acme", m.BinaryAbsPath())

	m.BinaryPath = ""
	assert.Empty(t, m.BinaryAbsPath())
}

func TestManifestFromMetadata(t *testing.T) {
	meta := sdk.EngineMetadata{
		ID:            "x",
		Name:          "X",
		Version:       "1.0.0",
		MinAPIVersion: "1.0.0",
		Capabilities:  []string{"score_text"},
	}

	m := ManifestFromMetadata(meta, sdk.EngineTypeSentiment)
	require.NoError(t, m.Validate())
	assert.Equal(t, meta, m.ToMetadata())
}
