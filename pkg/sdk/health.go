package docqa

import (
	"context"

	healthuc "github.com/kailas-cloud/docqa/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status       string            // "ok" or "degraded"
	Checks       map[string]string // index: ok/missing/error, providers: ok/error
	IndexVersion string
	Chunks       int
}

// Health checks the index and both providers. A missing index is reported
// as degraded rather than as an error.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:       string(report.Status),
		Checks:       checks,
		IndexVersion: report.IndexVersion,
		Chunks:       report.Chunks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
