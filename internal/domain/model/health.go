package model

import (
	"strings"
	"time"
)

// HealthStatus represents the possible health classification values
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusUnknown   HealthStatus = "unknown"
)

// StatusOffline is the status text used when a component result is synthesized
// without network access.
const StatusOffline = "offline"

// healthyStatusTexts lists the status strings remote endpoints report when a
// component is working. Anything not listed here and not an offline marker
// classifies as unhealthy.
var healthyStatusTexts = map[string]struct{}{
	"healthy":            {},
	"ok":                 {},
	"up":                 {},
	"database_connected": {},
}

// ComponentHealth represents the observed health of a single remote component
type ComponentHealth struct {
	StatusText string    `json:"status"`
	Version    string    `json:"version,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}

// Classification maps the raw status text to a HealthStatus. An empty status
// text means no probe data was obtained and classifies as unknown.
func (c ComponentHealth) Classification() HealthStatus {
	text := strings.ToLower(strings.TrimSpace(c.StatusText))
	if text == "" || text == StatusOffline {
		return StatusUnknown
	}
	if _, ok := healthyStatusTexts[text]; ok {
		return StatusHealthy
	}
	return StatusUnhealthy
}

// ApplicationHealth is an immutable snapshot of the aggregate health of the
// application: both component checks, the connectivity state they were
// observed under, and the derived overall classification.
type ApplicationHealth struct {
	System       ComponentHealth    `json:"system"`
	Database     ComponentHealth    `json:"database"`
	Connectivity ConnectivityStatus `json:"connectivity"`
	Overall      HealthStatus       `json:"overall"`
	ComputedAt   time.Time          `json:"computed_at"`
}
