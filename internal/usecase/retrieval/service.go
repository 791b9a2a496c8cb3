// Package retrieval finds evidence for a query and decides whether it is
// strong enough to answer from.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Reason explains a rejection. Callers see the same refusal for every reason.
type Reason string

// Rejection reasons.
const (
	ReasonNoMatch       Reason = "no_match"
	ReasonLowConfidence Reason = "low_confidence"
	ReasonAllFiltered   Reason = "all_filtered"
)

// Evidence is the context handed to the answer prompt.
type Evidence struct {
	Context    string
	Citations  []string
	Confidence float64
}

// Result is either accepted evidence or a rejection with its reason.
type Result struct {
	Evidence
	Rejected bool
	Reason   Reason
}

// Service runs scored retrieval.
type Service struct {
	embed  Embedder
	index  Index
	policy domain.Policy
	logger *zap.Logger
}

// New creates a retrieval service.
func New(embed Embedder, index Index, policy domain.Policy, logger *zap.Logger) *Service {
	return &Service{embed: embed, index: index, policy: policy, logger: logger}
}

// Collect returns the TopK nearest chunks, optionally restricted to one source.
// A missing index yields no results rather than an error.
func (s *Service) Collect(ctx context.Context, query, source string) ([]domain.RetrievalResult, error) {
	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.index.Search(emb.Embedding, s.policy.TopK, source)
	if err != nil {
		if errors.Is(err, domain.ErrIndexNotFound) {
			s.logger.Debug("No index available, treating as empty")
			return nil, nil
		}
		return nil, fmt.Errorf("search index: %w", err)
	}
	return results, nil
}

// Retrieve collects results, gates them on confidence and builds the context.
func (s *Service) Retrieve(ctx context.Context, query, source string) (Result, error) {
	results, err := s.Collect(ctx, query, source)
	if err != nil {
		return Result{}, err
	}
	if len(results) == 0 {
		return reject(ReasonNoMatch, 0), nil
	}

	distances := make([]float64, len(results))
	for i, r := range results {
		distances[i] = r.Distance
	}
	confidence := Confidence(averageDistance(distances))

	if confidence < s.policy.MinConfidence {
		s.logger.Debug("Retrieval below confidence floor",
			zap.Float64("confidence", confidence),
			zap.Float64("min_confidence", s.policy.MinConfidence),
		)
		return reject(ReasonLowConfidence, Floor2(confidence)), nil
	}

	texts := make([]string, 0, len(results))
	citations := domain.NewCitationSet()
	for _, r := range results {
		text := strings.TrimSpace(r.Chunk.Text)
		if utf8.RuneCountInString(text) < s.policy.MinChunkLength {
			continue
		}
		texts = append(texts, text)
		citations.Add(r.Chunk.Citation())
	}

	if len(texts) == 0 {
		return reject(ReasonAllFiltered, 0), nil
	}

	return Result{Evidence: Evidence{
		Context:    strings.Join(texts, "\n\n"),
		Citations:  citations.Strings(),
		Confidence: Round2(confidence),
	}}, nil
}

func reject(reason Reason, confidence float64) Result {
	return Result{
		Evidence: Evidence{Citations: []string{}, Confidence: confidence},
		Rejected: true,
		Reason:   reason,
	}
}
