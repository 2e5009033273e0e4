package health

import "context"

// RedisPinger checks Redis availability.
type RedisPinger interface {
	Ping(ctx context.Context) error
}

// Checker probes one upstream dependency.
type Checker interface {
	HealthCheck(ctx context.Context) error
}
