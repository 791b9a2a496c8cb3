package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "docqa"

// Register adds every docqa collector to reg. Collectors already present are
// left alone, so Register may be called more than once with the same registry.
func Register(reg prometheus.Registerer) error {
	all := []prometheus.Collector{
		httpRequestDuration, httpRequestsTotal,
		EmbeddingCacheTotal,
		AnswersTotal, IngestionRunsTotal, IngestionDuration, IndexDocuments, IndexChunks,
	}
	all = append(all, Embedding.collectors()...)
	all = append(all, Generation.collectors()...)

	for _, c := range all {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return fmt.Errorf("register metric: %w", err)
		}
	}
	return nil
}
