package chi

import (
	"context"
	"io"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/usecase/health"
	"github.com/kailas-cloud/docqa/internal/usecase/ingest"
)

// Answerer answers questions and summarizes documents.
type Answerer interface {
	Answer(ctx context.Context, question string, history []domain.ConversationTurn, source string) (domain.Answer, error)
	Summarize(ctx context.Context, source string) (domain.Summary, error)
}

// Ingester rebuilds the index.
type Ingester interface {
	Ingest(ctx context.Context, dir string) (ingest.Report, error)
}

// Corpus lists and stores raw documents.
type Corpus interface {
	List(ctx context.Context) ([]string, error)
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

// Formats reports which uploads are accepted.
type Formats interface {
	Supported(name string) bool
}
