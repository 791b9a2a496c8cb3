package domain

import "context"

type usageKey struct{}

// Usage collects provider token usage for a single request. The transport
// stores a pointer in the context, services add to it, the transport reads it
// back into response headers.
type Usage struct {
	EmbeddingTokens  int
	GenerationTokens int
}

// NewContextWithUsage returns a context carrying a fresh usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *Usage) {
	u := &Usage{}
	return context.WithValue(ctx, usageKey{}, u), u
}

// UsageFromContext returns the collector, or nil. All methods are nil-safe.
func UsageFromContext(ctx context.Context) *Usage {
	u, _ := ctx.Value(usageKey{}).(*Usage)
	return u
}

// AddEmbedding records embedding tokens.
func (u *Usage) AddEmbedding(n int) {
	if u != nil {
		u.EmbeddingTokens += n
	}
}

// AddGeneration records generation tokens.
func (u *Usage) AddGeneration(n int) {
	if u != nil {
		u.GenerationTokens += n
	}
}
