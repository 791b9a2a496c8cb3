// Package qa answers questions and summarizes documents strictly from
// retrieved evidence.
package qa

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/metrics"
)

const (
	kindAnswer  = "answer"
	kindSummary = "summary"

	outcomeAnswered = "answered"
	outcomeError    = "error"
)

// Service orchestrates rewrite, retrieval and generation.
type Service struct {
	rewriter  Rewriter
	retriever Retriever
	gen       Generator
	policy    domain.Policy
	logger    *zap.Logger
}

// New creates a question answering service.
func New(rewriter Rewriter, retriever Retriever, gen Generator, policy domain.Policy, logger *zap.Logger) *Service {
	return &Service{
		rewriter:  rewriter,
		retriever: retriever,
		gen:       gen,
		policy:    policy,
		logger:    logger,
	}
}

// Answer returns a grounded answer, or the refusal when the corpus does not
// support one. Only provider failures are returned as errors.
func (s *Service) Answer(
	ctx context.Context, question string, history []domain.ConversationTurn, source string,
) (domain.Answer, error) {
	standalone, err := s.rewriter.Rewrite(ctx, history, question)
	if err != nil {
		s.record(kindAnswer, outcomeError)
		return domain.Answer{}, fmt.Errorf("qa: %w", err)
	}
	s.logger.Debug("Question ready", zap.String("standalone", standalone), zap.String("document", source))

	res, err := s.retriever.Retrieve(ctx, standalone, source)
	if err != nil {
		s.record(kindAnswer, outcomeError)
		return domain.Answer{}, fmt.Errorf("qa: %w", err)
	}
	if res.Rejected {
		s.logger.Debug("Answer refused",
			zap.String("reason", string(res.Reason)),
			zap.Float64("confidence", res.Confidence),
		)
		s.record(kindAnswer, string(res.Reason))
		return domain.Refusal(s.policy.RefusalText, res.Confidence), nil
	}

	prompt, err := render(answerPrompt, promptData{
		Context:  res.Context,
		Question: question,
		Refusal:  s.policy.RefusalText,
	})
	if err != nil {
		s.record(kindAnswer, outcomeError)
		return domain.Answer{}, fmt.Errorf("qa: render answer prompt: %w", err)
	}

	out, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.record(kindAnswer, outcomeError)
		return domain.Answer{}, fmt.Errorf("qa: generate answer: %w", err)
	}

	s.logger.Debug("Answer generated",
		zap.Int("citations", len(res.Citations)),
		zap.Float64("confidence", res.Confidence),
	)
	s.record(kindAnswer, outcomeAnswered)
	return domain.Answer{
		Answer:     strings.TrimSpace(out.Text),
		Citations:  res.Citations,
		Confidence: res.Confidence,
	}, nil
}

// Summarize summarizes the top chunks for a fixed query, optionally restricted
// to one source. There is no confidence gate and no noise filter.
func (s *Service) Summarize(ctx context.Context, source string) (domain.Summary, error) {
	results, err := s.retriever.Collect(ctx, s.policy.SummaryQuery, source)
	if err != nil {
		s.record(kindSummary, outcomeError)
		return domain.Summary{}, fmt.Errorf("qa: %w", err)
	}
	if len(results) == 0 {
		s.record(kindSummary, "no_match")
		return domain.Summary{Summary: s.policy.RefusalText, Citations: []string{}}, nil
	}

	var body strings.Builder
	citations := domain.NewCitationSet()
	for _, r := range results {
		body.WriteString(r.Chunk.Text)
		body.WriteString("\n\n")
		citations.Add(r.Chunk.Citation())
	}

	prompt, err := render(summaryPrompt, promptData{Context: body.String()})
	if err != nil {
		s.record(kindSummary, outcomeError)
		return domain.Summary{}, fmt.Errorf("qa: render summary prompt: %w", err)
	}

	out, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.record(kindSummary, outcomeError)
		return domain.Summary{}, fmt.Errorf("qa: generate summary: %w", err)
	}

	s.record(kindSummary, outcomeAnswered)
	return domain.Summary{
		Summary:   strings.TrimSpace(out.Text),
		Citations: citations.Strings(),
	}, nil
}

func (s *Service) record(kind, outcome string) {
	metrics.AnswersTotal.WithLabelValues(kind, outcome).Inc()
}
