package health

import (
	"context"

	"github.com/kailas-cloud/docqa/internal/index"
)

// IndexReader exposes the published index snapshot.
type IndexReader interface {
	Current() (*index.Index, error)
}

// ProviderChecker checks external provider availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
