package server

import "context"

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// Pinger is the connectivity check exposed by the repository.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseHealthService verifies database connectivity as part of health
// checks.
type DatabaseHealthService struct {
	DB Pinger
}

// Probe implements the HealthService interface.
func (s DatabaseHealthService) Probe(ctx context.Context) error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Ping(ctx)
}
