package sdk

import (
	"errors"
	"fmt"
	"time"
)

// EngineMetadata identifies an engine and what it can do.
type EngineMetadata struct {
	// ID uses reverse-domain notation, e.g. "triage.sentiment.lexicon".
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	License     string   `json:"license,omitempty"`
	Homepage    string   `json:"homepage,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// MinAPIVersion is the lowest SDK version the engine works with.
	MinAPIVersion string `json:"min_api_version"`

	// Capabilities, e.g. "score_text", "negation", "intensifiers".
	Capabilities []string `json:"capabilities"`
}

// Validate checks the required metadata fields.
func (m EngineMetadata) Validate() error {
	switch {
	case m.ID == "":
		return errors.New("engine ID is required")
	case m.Name == "":
		return errors.New("engine name is required")
	case m.Version == "":
		return errors.New("engine version is required")
	case m.MinAPIVersion == "":
		return errors.New("minimum API version is required")
	}
	return nil
}

// HasCapability reports whether the engine advertises capability.
func (m EngineMetadata) HasCapability(capability string) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// HealthStatus is the result of an engine health check.
type HealthStatus struct {
	Healthy   bool           `json:"healthy"`
	Message   string         `json:"message,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CheckedAt time.Time      `json:"checked_at"`
}

// NewHealthStatus creates a status stamped with the current time.
func NewHealthStatus(healthy bool, message string) HealthStatus {
	return HealthStatus{
		Healthy:   healthy,
		Message:   message,
		CheckedAt: time.Now(),
	}
}

// WithDetails returns a copy of h carrying details.
func (h HealthStatus) WithDetails(details map[string]any) HealthStatus {
	h.Details = details
	return h
}

// Version is a semantic version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// SDKVersion is the version of this engine contract.
var SDKVersion = Version{Major: 1, Minor: 0, Patch: 0}

// String formats the version as major.minor.patch.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compatible reports whether v can host an engine requiring other:
// the major versions match and v is at least as new.
func (v Version) Compatible(other Version) bool {
	return v.Major == other.Major && v.Compare(other) >= 0
}

// ParseVersion parses "major.minor.patch".
func ParseVersion(s string) (Version, error) {
	var v Version
	if _, err := fmt.Sscanf(s, "%d.%d.%d", &v.Major, &v.Minor, &v.Patch); err != nil {
		return v, fmt.Errorf("invalid version format %q: %w", s, err)
	}
	return v, nil
}

// Compare returns -1, 0 or 1.
func (v Version) Compare(other Version) int {
	for _, pair := range [][2]int{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
	} {
		if pair[0] < pair[1] {
			return -1
		}
		if pair[0] > pair[1] {
			return 1
		}
	}
	return 0
}
