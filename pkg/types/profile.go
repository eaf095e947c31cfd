package types

import (
	"time"

	"github.com/google/uuid"
)

// AppMode is the lifecycle mode of the instance.
type AppMode string

const (
	AppModeSetup  AppMode = "setup"
	AppModeActive AppMode = "active"
)

// AuthMode selects how inbound requests are authenticated.
type AuthMode string

const (
	AuthModeApiKey AuthMode = "api_key"
	AuthModeNone   AuthMode = "none"
)

// TelemetrySettings controls logging and optional OTEL export.
type TelemetrySettings struct {
	Level           string
	Format          string
	OtelEnabled     bool
	OtelServiceName string
	OtelEndpoint    string
}

// LabelPolicy is a named rule applied to torrents by kind (e.g. "category",
// "tag_autotag"). Stored by replacement, keyed on Kind+Name.
type LabelPolicy struct {
	Kind  string
	Name  string
	Value string
}

// AppProfile is the singleton instance-identity and HTTP-surface row.
type AppProfile struct {
	ID             uuid.UUID
	InstanceName   string
	Mode           AppMode
	AuthMode       AuthMode
	Version        int64
	HTTPBindHost   string
	HTTPPort       int
	Telemetry      TelemetrySettings
	LabelPolicies  []LabelPolicy
	ImmutableKeys  []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsImmutable reports whether the dotted field path is covered by the
// profile's immutable-key set: a literal match, a "section.*" wildcard
// covering every field in that section, or a bare section name.
func (p *AppProfile) IsImmutable(path string) bool {
	section, _, hasDot := cutDot(path)
	for _, key := range p.ImmutableKeys {
		if key == path || key == section {
			return true
		}
		if wcSection, ok := cutWildcard(key); ok && hasDot && wcSection == section {
			return true
		}
	}
	return false
}

func cutDot(path string) (section, field string, ok bool) {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			return path[:i], path[i+1:], true
		}
	}
	return path, "", false
}

func cutWildcard(key string) (section string, ok bool) {
	if len(key) > 2 && key[len(key)-2:] == ".*" {
		return key[:len(key)-2], true
	}
	return "", false
}
