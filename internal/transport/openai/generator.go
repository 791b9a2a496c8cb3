package openai

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/metrics"
)

// Generator is a chat completion provider using the OpenAI-compatible API
// (OpenAI, Groq, Ollama /v1 and similar).
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	provider    string
	logger      *zap.Logger
}

// GeneratorConfig holds chat model settings.
type GeneratorConfig struct {
	Config
	Temperature float32
	MaxTokens   int
}

// NewGenerator creates an OpenAI-compatible chat provider.
func NewGenerator(cfg *GeneratorConfig, logger *zap.Logger) *Generator {
	return &Generator{
		client:      newClient(&cfg.Config),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		provider:    cfg.Provider,
		logger:      logger,
	}
}

// Generate implements domain.Generator with a single user message and no streaming.
func (g *Generator) Generate(ctx context.Context, prompt string) (domain.GenerationResult, error) {
	temperature := g.temperature
	if temperature == 0 {
		// The request struct drops a zero temperature (omitempty), which
		// providers read as their default rather than greedy decoding.
		temperature = math.SmallestNonzeroFloat32
	}
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: temperature,
		MaxTokens:   g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.Generation.Failed(g.provider, g.model, "api_error")
		g.logger.Warn("Generation API call failed",
			zap.String("provider", g.provider),
			zap.String("model", g.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.GenerationResult{}, parseAPIError("generation", err, domain.ErrGenerationProviderError)
	}

	if len(resp.Choices) == 0 {
		metrics.Generation.Failed(g.provider, g.model, "empty_response")
		return domain.GenerationResult{}, fmt.Errorf("empty completion response: %w", domain.ErrGenerationProviderError)
	}

	metrics.Generation.Succeeded(g.provider, g.model, duration)
	metrics.Generation.AddTokens(g.provider, g.model, "prompt", resp.Usage.PromptTokens)
	metrics.Generation.AddTokens(g.provider, g.model, "completion", resp.Usage.CompletionTokens)

	domain.UsageFromContext(ctx).AddGeneration(resp.Usage.TotalTokens)

	g.logger.Debug("Generation completed",
		zap.String("provider", g.provider),
		zap.String("model", g.model),
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return domain.GenerationResult{
		Text:             strings.TrimSpace(resp.Choices[0].Message.Content),
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels.
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
