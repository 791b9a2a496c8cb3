package docqa

import (
	"context"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Embedder converts text to vector embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts in a single API call.
// Optional: if the provided Embedder also implements BatchEmbedder,
// ingestion uses it instead of one request per chunk.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// Generator turns a prompt into text. Answers are expected to be
// deterministic, so implementations should run at temperature 0.
type Generator interface {
	Generate(ctx context.Context, prompt string) (GenerationResult, error)
}

// HealthChecker is optionally implemented by custom providers.
// Health reports "error" for a provider whose check fails.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult carries multiple embedding vectors and aggregate token usage.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// GenerationResult carries generated text and token counts.
type GenerationResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// embedderAdapter converts the public Embedder to domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// BatchEmbed uses the inner batch endpoint when there is one.
func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	be, ok := a.inner.(BatchEmbedder)
	if !ok {
		return domain.EmbedEach(ctx, a, texts)
	}
	r, err := be.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, err
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   r.Embeddings,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// generatorAdapter converts the public Generator to domain.Generator.
type generatorAdapter struct {
	inner Generator
}

func (a *generatorAdapter) Generate(ctx context.Context, prompt string) (domain.GenerationResult, error) {
	r, err := a.inner.Generate(ctx, prompt)
	if err != nil {
		return domain.GenerationResult{}, err
	}
	return domain.GenerationResult{
		Text:             r.Text,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		TotalTokens:      r.TotalTokens,
	}, nil
}

// healthOf returns the provider's checker, or nil when it has none.
func healthOf(v any) domain.HealthChecker {
	if hc, ok := v.(HealthChecker); ok {
		return hc
	}
	return nil
}
