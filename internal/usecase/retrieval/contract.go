package retrieval

import (
	"context"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Embedder vectorizes the query.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Index searches the currently published snapshot.
type Index interface {
	Search(vector []float32, k int, source string) ([]domain.RetrievalResult, error)
}
