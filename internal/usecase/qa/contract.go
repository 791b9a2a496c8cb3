package qa

import (
	"context"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/usecase/retrieval"
)

// Rewriter turns a follow-up into a standalone question.
type Rewriter interface {
	Rewrite(ctx context.Context, history []domain.ConversationTurn, question string) (string, error)
}

// Retriever gathers and scores evidence.
type Retriever interface {
	Retrieve(ctx context.Context, query, source string) (retrieval.Result, error)
	Collect(ctx context.Context, query, source string) ([]domain.RetrievalResult, error)
}

// Generator produces the final answer text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (domain.GenerationResult, error)
}
