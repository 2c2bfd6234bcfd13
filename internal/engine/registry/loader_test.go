package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_validateBinaryPath(t *testing.T) {
	loader := NewLoader(nil)

	t.Run("accepts absolute path", func(t *testing.T) {
		binary := filepath.Join(t.TempDir(), "engine")
		require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\n"), 0o755))

		resolved, err := loader.validateBinaryPath(binary)
		require.NoError(t, err)
		expected, _ := filepath.EvalSymlinks(binary)
		assert.Equal(t, expected, resolved)
	})

	t.Run("cleans missing path", func(t *testing.T) {
		resolved, err := loader.validateBinaryPath("/opt/engines/../engines/missing")
		require.NoError(t, err)
		assert.Equal(t, "/opt/engines/missing", resolved)
	})

	rejected := []struct {
		name   string
		path   string
		errMsg string
	}{
		{"empty", "", "cannot be empty"},
		{"relative", "./engine", "must be absolute"},
		{"semicolon", "/bin/engine;rm -rf /", "forbidden character"},
		{"pipe", "/bin/engine|cat", "forbidden character"},
		{"subshell", "/bin/$(whoami)", "forbidden character"},
		{"backtick", "/bin/`id`", "forbidden character"},
		{"newline", "/bin/engine\nid", "forbidden character"},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.validateBinaryPath(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoader_verifyChecksum(t *testing.T) {
	loader := NewLoader(nil)
	binary := filepath.Join(t.TempDir(), "engine")
	content := []byte("engine binary")
	require.NoError(t, os.WriteFile(binary, content, 0o755))

	sum := sha256.Sum256(content)
	digest := hex.EncodeToString(sum[:])

	assert.NoError(t, loader.verifyChecksum(binary, digest))
	assert.NoError(t, loader.verifyChecksum(binary, "sha256:"+strings.ToUpper(digest)))
	assert.ErrorContains(t, loader.verifyChecksum(binary, "sha256:deadbeef"), "checksum mismatch")
	assert.ErrorContains(t, loader.verifyChecksum(binary, "md5:abc"), "unsupported checksum algorithm")
	assert.ErrorContains(t, loader.verifyChecksum(binary+".missing", digest), "failed to open file")
}

func TestLoader_LoadErrors(t *testing.T) {
	loader := NewLoader(nil)
	ctx := context.Background()

	_, err := loader.Load(ctx, LoadOptions{})
	assert.ErrorContains(t, err, "manifest is required")

	t.Run("missing binary", func(t *testing.T) {
		m := validManifest()
		m.BinaryPath = filepath.Join(t.TempDir(), "missing")
		_, err := loader.Load(ctx, LoadOptions{Manifest: m})

		var loadErr *sdk.LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "binary not found", loadErr.Reason)
	})

	t.Run("directory instead of binary", func(t *testing.T) {
		m := validManifest()
		m.BinaryPath = t.TempDir()
		_, err := loader.Load(ctx, LoadOptions{Manifest: m})
		assert.ErrorContains(t, err, "not a regular file")
	})

	t.Run("checksum mismatch in secure mode", func(t *testing.T) {
		binary := filepath.Join(t.TempDir(), "engine")
		require.NoError(t, os.WriteFile(binary, []byte("x"), 0o755))
		m := validManifest()
		m.BinaryPath = binary
		m.Checksum = "sha256:00"

		_, err := loader.Load(ctx, LoadOptions{Manifest: m, SecureMode: true})
		assert.ErrorContains(t, err, "checksum verification failed")
	})

	t.Run("unsupported type", func(t *testing.T) {
		m := validManifest()
		m.Type = "scheduler"
		_, err := loader.Load(ctx, LoadOptions{Manifest: m})
		assert.ErrorContains(t, err, "unsupported engine type")
	})

	assert.False(t, loader.IsLoaded("acme.sentiment"))
	loader.Unload("acme.sentiment")
	loader.UnloadAll()
}

func TestHclogAdapter(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var adapter hclog.Logger = newHclogAdapter(logger, "acme")
	adapter.Info("plugin started", "pid", 42)
	adapter.Log(hclog.Error, "plugin failed")
	adapter.With("version", "1.0").Warn("degraded")

	out := buf.String()
	assert.Contains(t, out, "plugin=acme")
	assert.Contains(t, out, "pid=42")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "version=1.0")

	assert.Equal(t, "acme.child", adapter.Named("child").Name())
	assert.Equal(t, "other", adapter.ResetNamed("other").Name())
	assert.Equal(t, []interface{}{"k", "v"}, adapter.With("k", "v").ImpliedArgs())

	adapter.StandardLogger(nil).Print("from std logger")
	assert.Contains(t, buf.String(), "from std logger")
}
