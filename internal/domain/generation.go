package domain

import "context"

// Generator turns a prompt into text. Single-shot, no streaming; implementations
// run at temperature 0 so identical prompts give identical answers.
type Generator interface {
	Generate(ctx context.Context, prompt string) (GenerationResult, error)
}

// GenerationResult carries generated text and token usage.
type GenerationResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
