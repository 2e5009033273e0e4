// Package health aggregates liveness probes over the engine's upstreams.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks over Redis, the document service, the
// vector index, and the embedding provider.
type Service struct {
	redis     RedisPinger
	docs      Checker
	vectors   Checker
	embedding Checker
}

// New creates a Service. Any checker except redis may be nil, which skips
// that component.
func New(redis RedisPinger, docs, vectors, embedding Checker) *Service {
	return &Service{redis: redis, docs: docs, vectors: vectors, embedding: embedding}
}

// Check probes every configured component. Search can still serve partially
// with a component down, so failures report Degraded rather than a hard
// error.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.redis.Ping(ctx); err != nil {
		checks["redis"] = CheckError
	} else {
		checks["redis"] = CheckOK
	}

	probe := func(name string, c Checker) {
		if c == nil {
			return
		}
		if err := c.HealthCheck(ctx); err != nil {
			checks[name] = CheckError
		} else {
			checks[name] = CheckOK
		}
	}
	probe("docstore", s.docs)
	probe("vecindex", s.vectors)
	probe("embedding", s.embedding)

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
