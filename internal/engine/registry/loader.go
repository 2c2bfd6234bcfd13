package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	enginegrpc "github.com/felixgeelhaar/triage/internal/engine/grpc"
	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/hashicorp/go-plugin"
)

// forbiddenPathChars are rejected in plugin binary paths.
const forbiddenPathChars = ";&|$`(){}<>!\n\r\\'\""

// Loader starts plugin binaries with go-plugin and keeps their clients
// so they can be killed on shutdown.
type Loader struct {
	mu      sync.Mutex
	logger  *slog.Logger
	clients map[string]*plugin.Client
}

// NewLoader creates a plugin loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:  logger,
		clients: make(map[string]*plugin.Client),
	}
}

// LoadOptions controls a single plugin load.
type LoadOptions struct {
	Manifest *Manifest
	Config   sdk.EngineConfig

	// SecureMode verifies the manifest checksum before starting the binary.
	SecureMode bool
}

// Load starts the plugin binary, dispenses its engine and initializes it.
func (l *Loader) Load(ctx context.Context, opts LoadOptions) (sdk.Engine, error) {
	if opts.Manifest == nil {
		return nil, errors.New("manifest is required")
	}
	manifest := opts.Manifest

	plugins := enginegrpc.PluginMapForEngine(manifest.EngineType())
	if plugins == nil {
		return nil, sdk.NewLoadError(manifest.ID, "unsupported engine type "+manifest.Type, nil)
	}

	binaryPath, err := l.validateBinaryPath(manifest.BinaryAbsPath())
	if err != nil {
		return nil, sdk.NewLoadError(manifest.BinaryAbsPath(), "binary path validation failed", err)
	}

	info, err := os.Stat(binaryPath)
	if err != nil {
		return nil, sdk.NewLoadError(binaryPath, "binary not found", err)
	}
	if !info.Mode().IsRegular() {
		return nil, sdk.NewLoadError(binaryPath, "binary path is not a regular file", nil)
	}

	if opts.SecureMode && manifest.Checksum != "" {
		if err := l.verifyChecksum(binaryPath, manifest.Checksum); err != nil {
			return nil, sdk.NewLoadError(binaryPath, "checksum verification failed", err)
		}
	}

	l.logger.Info("loading plugin",
		"engine_id", manifest.ID,
		"binary", binaryPath,
	)

	// #nosec G204 -- binaryPath passed validateBinaryPath
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  enginegrpc.HandshakeConfig,
		Plugins:          plugins,
		Cmd:              exec.Command(binaryPath),
		Logger:           newHclogAdapter(l.logger, manifest.ID),
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
	})

	engine, err := l.dispense(ctx, client, opts)
	if err != nil {
		client.Kill()
		return nil, sdk.NewLoadError(binaryPath, "failed to start plugin", err)
	}

	l.mu.Lock()
	if previous, ok := l.clients[manifest.ID]; ok {
		previous.Kill()
	}
	l.clients[manifest.ID] = client
	l.mu.Unlock()

	l.logger.Info("plugin loaded",
		"engine_id", manifest.ID,
		"type", engine.Type(),
	)
	return engine, nil
}

func (l *Loader) dispense(ctx context.Context, client *plugin.Client, opts LoadOptions) (sdk.Engine, error) {
	rpcClient, err := client.Client()
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	raw, err := rpcClient.Dispense(enginegrpc.DispenseKey)
	if err != nil {
		return nil, fmt.Errorf("dispense: %w", err)
	}

	engine, ok := raw.(sdk.Engine)
	if !ok {
		return nil, errors.New("plugin does not implement the engine interface")
	}

	if id := engine.Metadata().ID; id != opts.Manifest.ID {
		return nil, fmt.Errorf("plugin reports id %q, manifest declares %q", id, opts.Manifest.ID)
	}

	if err := engine.Initialize(ctx, opts.Config); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return engine, nil
}

// Unload kills the plugin process for id.
func (l *Loader) Unload(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if client, ok := l.clients[id]; ok {
		client.Kill()
		delete(l.clients, id)
		l.logger.Info("plugin unloaded", "engine_id", id)
	}
}

// UnloadAll kills every plugin process.
func (l *Loader) UnloadAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, client := range l.clients {
		client.Kill()
		l.logger.Debug("plugin unloaded", "engine_id", id)
	}
	l.clients = make(map[string]*plugin.Client)
}

// IsLoaded reports whether a plugin process is running for id.
func (l *Loader) IsLoaded(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.clients[id]
	return ok
}

// validateBinaryPath requires an absolute path free of shell
// metacharacters and resolves symlinks.
func (l *Loader) validateBinaryPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("binary path cannot be empty")
	}

	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("binary path must be absolute: %s", path)
	}
	if i := strings.IndexAny(cleanPath, forbiddenPathChars); i >= 0 {
		return "", fmt.Errorf("binary path contains forbidden character %q: %s", cleanPath[i], path)
	}

	resolved, err := filepath.EvalSymlinks(cleanPath)
	if errors.Is(err, os.ErrNotExist) {
		return cleanPath, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve binary path: %w", err)
	}
	return resolved, nil
}

// verifyChecksum compares the file's SHA-256 with expected, which is
// "sha256:HEX" or bare HEX.
func (l *Loader) verifyChecksum(path, expected string) error {
	algorithm, hash := "sha256", expected
	if before, after, found := strings.Cut(expected, ":"); found {
		algorithm, hash = strings.ToLower(before), after
	}
	if algorithm != "sha256" {
		return fmt.Errorf("unsupported checksum algorithm: %s", algorithm)
	}

	// #nosec G304 -- path passed validateBinaryPath
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	computed := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(computed, hash) {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", hash, computed)
	}
	return nil
}
