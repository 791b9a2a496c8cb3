package health

import (
	"context"
	"errors"

	"github.com/kailas-cloud/docqa/internal/domain"
)

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
	// CheckMissing indicates no index has been built yet.
	CheckMissing CheckResult = "missing"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status       Status                 `json:"status"`
	Checks       map[string]CheckResult `json:"checks"`
	IndexVersion string                 `json:"index_version,omitempty"`
	Chunks       int                    `json:"chunks"`
}

// Service coordinates health checks.
type Service struct {
	index      IndexReader
	embedding  ProviderChecker
	generation ProviderChecker
}

// New creates a Service. embedding and generation can be nil.
func New(index IndexReader, embedding, generation ProviderChecker) *Service {
	return &Service{index: index, embedding: embedding, generation: generation}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Checks: make(map[string]CheckResult)}

	ix, err := s.index.Current()
	switch {
	case err == nil:
		r.Checks["index"] = CheckOK
		r.IndexVersion = ix.Version()
		r.Chunks = ix.Len()
	case errors.Is(err, domain.ErrIndexNotFound):
		r.Checks["index"] = CheckMissing
	default:
		r.Checks["index"] = CheckError
	}

	if s.embedding != nil {
		r.Checks["embedding"] = checkProvider(ctx, s.embedding)
	}
	if s.generation != nil {
		r.Checks["generation"] = checkProvider(ctx, s.generation)
	}

	r.Status = Healthy
	for _, v := range r.Checks {
		if v != CheckOK {
			r.Status = Degraded
			break
		}
	}
	return r
}

func checkProvider(ctx context.Context, c ProviderChecker) CheckResult {
	if err := c.HealthCheck(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
