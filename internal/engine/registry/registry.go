// Package registry tracks the sentiment engines available to the triage
// pipeline: built-ins registered at startup and plugins discovered on disk
// and started on first use.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/engine/types"
)

// Registry manages engine registration and lookup.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]EngineEntry
	loading map[string]*sync.Mutex
	logger  *slog.Logger
}

// EngineEntry holds a registered engine and its manifest.
type EngineEntry struct {
	// Engine is nil until a factory-backed entry is loaded.
	Engine   sdk.Engine
	Factory  sdk.EngineFactory
	Manifest *Manifest
	Status   EngineStatus
	// Error is the last load failure.
	Error   error
	Builtin bool
}

// EngineStatus is the lifecycle state of an entry.
type EngineStatus string

const (
	StatusUnloaded EngineStatus = "unloaded"
	StatusLoading  EngineStatus = "loading"
	StatusReady    EngineStatus = "ready"
	StatusFailed   EngineStatus = "failed"
	StatusShutdown EngineStatus = "shutdown"
)

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		engines: make(map[string]EngineEntry),
		loading: make(map[string]*sync.Mutex),
		logger:  logger,
	}
}

// RegisterBuiltin registers an in-process engine that is ready immediately.
func (r *Registry) RegisterBuiltin(engine sdk.Engine) error {
	metadata := engine.Metadata()
	if err := metadata.Validate(); err != nil {
		return fmt.Errorf("invalid built-in engine: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[metadata.ID]; exists {
		return fmt.Errorf("%w: %s", sdk.ErrEngineAlreadyExists, metadata.ID)
	}

	manifest := ManifestFromMetadata(metadata, engine.Type())
	r.engines[metadata.ID] = EngineEntry{
		Engine:   engine,
		Manifest: manifest,
		Status:   StatusReady,
		Builtin:  true,
	}

	r.logger.Info("registered built-in engine",
		"engine_id", metadata.ID,
		"type", engine.Type(),
	)
	return nil
}

// RegisterFactory registers an engine that is created on first Get.
func (r *Registry) RegisterFactory(id string, factory sdk.EngineFactory, manifest *Manifest) error {
	if id == "" {
		return errors.New("engine ID is required")
	}
	if factory == nil {
		return fmt.Errorf("engine %s: factory is required", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[id]; exists {
		return fmt.Errorf("%w: %s", sdk.ErrEngineAlreadyExists, id)
	}
	if manifest == nil {
		manifest = &Manifest{ID: id}
	}

	r.engines[id] = EngineEntry{
		Factory:  factory,
		Manifest: manifest,
		Status:   StatusUnloaded,
	}
	r.loading[id] = &sync.Mutex{}

	r.logger.Info("registered engine factory", "engine_id", id)
	return nil
}

// RegisterDiscovered registers each discovered plugin as a lazily loaded
// engine backed by loader. Plugins whose id is already taken are skipped.
// It returns the number of plugins registered.
func (r *Registry) RegisterDiscovered(plugins []DiscoveredPlugin, loader *Loader) int {
	registered := 0
	for _, p := range plugins {
		manifest := p.Manifest
		factory := func() (sdk.Engine, error) {
			return loader.Load(context.Background(), LoadOptions{
				Manifest:   manifest,
				Config:     sdk.NewEngineConfig(manifest.ID, manifest.ConfigDefaults),
				SecureMode: manifest.Checksum != "",
			})
		}
		if err := r.RegisterFactory(manifest.ID, factory, manifest); err != nil {
			r.logger.Warn("skipping plugin",
				"engine_id", manifest.ID,
				"path", p.Path,
				"error", err,
			)
			continue
		}
		registered++
	}
	return registered
}

// Get returns an engine by id, loading it if necessary. Concurrent callers
// for an unloaded engine share a single load.
func (r *Registry) Get(ctx context.Context, id string) (sdk.Engine, error) {
	r.mu.RLock()
	entry, exists := r.engines[id]
	lock := r.loading[id]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", sdk.ErrEngineNotFound, id)
	}

	switch entry.Status {
	case StatusReady:
		return entry.Engine, nil
	case StatusFailed:
		return nil, entry.Error
	case StatusShutdown:
		return nil, fmt.Errorf("engine %s: %w", id, sdk.ErrEngineShutdown)
	}

	if entry.Factory == nil || lock == nil {
		return nil, fmt.Errorf("engine %s is in unexpected state: %s", id, entry.Status)
	}

	lock.Lock()
	defer lock.Unlock()
	return r.loadEngine(ctx, id)
}

// Sentiment returns the engine id as a SentimentEngine.
func (r *Registry) Sentiment(ctx context.Context, id string) (types.SentimentEngine, error) {
	engine, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sentiment, ok := engine.(types.SentimentEngine)
	if !ok {
		return nil, fmt.Errorf("engine %s: %w: got %s", id, sdk.ErrWrongEngineType, engine.Type())
	}
	return sentiment, nil
}

// loadEngine runs the factory. The caller holds the entry's load lock.
func (r *Registry) loadEngine(ctx context.Context, id string) (sdk.Engine, error) {
	r.mu.Lock()
	entry := r.engines[id]
	if entry.Status == StatusReady {
		r.mu.Unlock()
		return entry.Engine, nil
	}
	if entry.Status == StatusFailed {
		r.mu.Unlock()
		return nil, entry.Error
	}
	entry.Status = StatusLoading
	r.engines[id] = entry
	r.mu.Unlock()

	r.logger.Info("loading engine", "engine_id", id)

	engine, err := entry.Factory()
	if err == nil {
		err = ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		entry.Status = StatusFailed
		entry.Error = fmt.Errorf("failed to create engine %s: %w", id, err)
		r.engines[id] = entry
		return nil, entry.Error
	}

	entry.Engine = engine
	entry.Status = StatusReady
	entry.Error = nil
	r.engines[id] = entry

	r.logger.Info("engine loaded",
		"engine_id", id,
		"type", engine.Type(),
	)
	return engine, nil
}

// Unregister removes a non-built-in engine.
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.engines[id]
	if !exists {
		return fmt.Errorf("%w: %s", sdk.ErrEngineNotFound, id)
	}
	if entry.Builtin {
		return fmt.Errorf("cannot unregister built-in engine %s", id)
	}

	delete(r.engines, id)
	delete(r.loading, id)
	r.logger.Info("unregistered engine", "engine_id", id)
	return nil
}

// List returns every entry sorted by id.
func (r *Registry) List() []EngineEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]EngineEntry, 0, len(r.engines))
	for _, entry := range r.engines {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Manifest.ID < entries[j].Manifest.ID
	})
	return entries
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.engines[id]
	return exists
}

// Status returns the lifecycle state of id.
func (r *Registry) Status(id string) (EngineStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.engines[id]
	if !exists {
		return "", fmt.Errorf("%w: %s", sdk.ErrEngineNotFound, id)
	}
	return entry.Status, nil
}

// Health loads id if needed and runs its health check.
func (r *Registry) Health(ctx context.Context, id string) (sdk.HealthStatus, error) {
	engine, err := r.Get(ctx, id)
	if err != nil {
		return sdk.HealthStatus{}, err
	}
	return engine.HealthCheck(ctx), nil
}

// ShutdownAll shuts down every loaded engine.
func (r *Registry) ShutdownAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for id, entry := range r.engines {
		if entry.Engine == nil || entry.Status != StatusReady {
			continue
		}
		r.logger.Debug("shutting down engine", "engine_id", id)
		if err := entry.Engine.Shutdown(ctx); err != nil {
			r.logger.Error("failed to shutdown engine",
				"engine_id", id,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("engine %s: %w", id, err))
		}
		entry.Status = StatusShutdown
		r.engines[id] = entry
	}
	return errors.Join(errs...)
}

// Count returns the number of registered engines.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}

// GetMetadata returns metadata for id without loading it.
func (r *Registry) GetMetadata(id string) (*sdk.EngineMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.engines[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", sdk.ErrEngineNotFound, id)
	}
	if entry.Engine != nil {
		metadata := entry.Engine.Metadata()
		return &metadata, nil
	}
	if entry.Manifest != nil {
		metadata := entry.Manifest.ToMetadata()
		return &metadata, nil
	}
	return nil, fmt.Errorf("no metadata available for engine %s", id)
}
