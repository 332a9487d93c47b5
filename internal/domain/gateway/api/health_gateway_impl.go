package api

import (
	"context"

	"healthwatch/pkg/http"
	"healthwatch/pkg/log"
)

const (
	systemHealthPath   = "/health/"
	databaseHealthPath = "/health/db/"
)

type healthGateway struct {
	client *http.Client
}

// NewHealthGateway creates a gateway over the generic HTTP client
func NewHealthGateway(client *http.Client) HealthGateway {
	return &healthGateway{client: client}
}

func (gateway *healthGateway) SystemHealth(ctx context.Context) ProbeOutcome {
	var resp SystemHealthResponse
	if _, err := gateway.client.Get(ctx, systemHealthPath, nil, nil, &resp); err != nil {
		log.Warnf("System health probe failed: %v", err)
		return ProbeOutcome{Failure: err.Error()}
	}
	return ProbeOutcome{OK: true, StatusText: resp.Status, Version: resp.Version}
}

func (gateway *healthGateway) DatabaseHealth(ctx context.Context) ProbeOutcome {
	var resp DatabaseHealthResponse
	if _, err := gateway.client.Get(ctx, databaseHealthPath, nil, nil, &resp); err != nil {
		log.Warnf("Database health probe failed: %v", err)
		return ProbeOutcome{Failure: err.Error()}
	}
	return ProbeOutcome{OK: true, StatusText: resp.Status}
}
