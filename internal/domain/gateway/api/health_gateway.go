package api

import "context"

// SystemHealthResponse is the body of GET /health/
type SystemHealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// DatabaseHealthResponse is the body of GET /health/db/
type DatabaseHealthResponse struct {
	Status string `json:"status"`
}

// ProbeOutcome is the tagged result of one remote component probe. A failed
// probe (transport error, non-2xx, malformed body) carries OK=false and the
// failure reason; it is never propagated as an error to callers.
type ProbeOutcome struct {
	OK         bool
	StatusText string
	Version    string
	Failure    string
}

// HealthGateway probes the two remote health endpoints
type HealthGateway interface {
	SystemHealth(ctx context.Context) ProbeOutcome
	DatabaseHealth(ctx context.Context) ProbeOutcome
}
