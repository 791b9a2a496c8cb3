package rewrite

import (
	"context"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Generator produces the standalone question.
type Generator interface {
	Generate(ctx context.Context, prompt string) (domain.GenerationResult, error)
}
