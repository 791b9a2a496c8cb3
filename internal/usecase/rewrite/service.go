// Package rewrite turns a follow-up question into a standalone one using the
// recent conversation.
package rewrite

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Service rewrites follow-up questions.
type Service struct {
	gen    Generator
	turns  int
	logger *zap.Logger
}

// New creates a rewrite service that considers the last turns of history.
func New(gen Generator, turns int, logger *zap.Logger) *Service {
	if turns <= 0 {
		turns = domain.DefaultHistoryTurns
	}
	return &Service{gen: gen, turns: turns, logger: logger}
}

// Rewrite returns the trimmed question when history is empty. Otherwise it
// asks the generator for a self-contained question built from the last turns.
func (s *Service) Rewrite(
	ctx context.Context, history []domain.ConversationTurn, question string,
) (string, error) {
	if len(history) == 0 {
		return strings.TrimSpace(question), nil
	}

	prompt, err := renderPrompt(domain.RecentTurns(history, s.turns), question)
	if err != nil {
		return "", fmt.Errorf("render rewrite prompt: %w", err)
	}

	res, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("rewrite question: %w", err)
	}

	standalone := strings.TrimSpace(res.Text)
	s.logger.Debug("Question rewritten",
		zap.Int("history_turns", len(history)),
		zap.String("standalone", standalone),
	)
	return standalone, nil
}
