package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Discovery finds plugin manifests under a set of directories. Each
// plugin lives in its own subdirectory holding an engine.json.
type Discovery struct {
	SearchPaths []string
	logger      *slog.Logger
}

// NewDiscovery creates a discovery over searchPaths.
func NewDiscovery(searchPaths []string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{SearchPaths: searchPaths, logger: logger}
}

// DiscoveredPlugin is a plugin directory and its manifest.
type DiscoveredPlugin struct {
	Path     string
	Manifest *Manifest
}

// DiscoveryError records a search path or manifest that could not be used.
type DiscoveryError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e DiscoveryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Discover returns the plugins found in all search paths, first path
// wins on duplicate ids. Problems are returned alongside the plugins;
// missing search paths are not problems.
func (d *Discovery) Discover() ([]DiscoveredPlugin, []DiscoveryError) {
	var (
		plugins  []DiscoveredPlugin
		problems []DiscoveryError
	)
	seen := make(map[string]string)

	for _, searchPath := range d.SearchPaths {
		found, errs := d.discoverInPath(searchPath)
		problems = append(problems, errs...)

		for _, plugin := range found {
			if first, dup := seen[plugin.Manifest.ID]; dup {
				problems = append(problems, DiscoveryError{
					Path: plugin.Path,
					Err:  fmt.Errorf("duplicate engine ID %s (already found in %s)", plugin.Manifest.ID, first),
				})
				continue
			}
			seen[plugin.Manifest.ID] = plugin.Path
			plugins = append(plugins, plugin)
		}
	}

	for _, problem := range problems {
		d.logger.Warn("plugin discovery problem", "path", problem.Path, "error", problem.Err)
	}
	d.logger.Debug("plugin discovery complete", "found", len(plugins))

	return plugins, problems
}

func (d *Discovery) discoverInPath(searchPath string) ([]DiscoveredPlugin, []DiscoveryError) {
	info, err := os.Stat(searchPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, []DiscoveryError{{Path: searchPath, Err: err}}
	}
	if !info.IsDir() {
		return nil, []DiscoveryError{{Path: searchPath, Err: errors.New("not a directory")}}
	}

	entries, err := os.ReadDir(searchPath)
	if err != nil {
		return nil, []DiscoveryError{{Path: searchPath, Err: err}}
	}

	var (
		plugins  []DiscoveredPlugin
		problems []DiscoveryError
	)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		plugin, err := d.DiscoverSingle(filepath.Join(searchPath, entry.Name()))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			problems = append(problems, DiscoveryError{Path: filepath.Join(searchPath, entry.Name()), Err: err})
			continue
		}
		plugins = append(plugins, *plugin)
	}
	return plugins, problems
}

// DiscoverSingle loads the manifest in dir.
func (d *Discovery) DiscoverSingle(dir string) (*DiscoveredPlugin, error) {
	manifestPath := filepath.Join(dir, DefaultManifestFilename)
	if _, err := os.Stat(manifestPath); err != nil {
		return nil, fmt.Errorf("manifest not found in %s: %w", dir, err)
	}

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("discovered plugin", "engine_id", manifest.ID, "path", dir)

	return &DiscoveredPlugin{Path: dir, Manifest: manifest}, nil
}

// DefaultSearchPaths returns extra paths first, then the per-user plugin
// directory.
func DefaultSearchPaths(extra ...string) []string {
	var paths []string
	for _, p := range extra {
		if p != "" {
			paths = append(paths, p)
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".triage", "engines"))
	}
	return paths
}
