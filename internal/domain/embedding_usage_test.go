package domain

import (
	"context"
	"testing"
)

func TestUsage_CollectsThroughContext(t *testing.T) {
	ctx, u := NewContextWithUsage(context.Background())
	UsageFromContext(ctx).AddEmbedding(7)
	UsageFromContext(ctx).AddGeneration(40)
	UsageFromContext(ctx).AddEmbedding(3)

	if u.EmbeddingTokens != 10 {
		t.Errorf("EmbeddingTokens = %d, want 10", u.EmbeddingTokens)
	}
	if u.GenerationTokens != 40 {
		t.Errorf("GenerationTokens = %d, want 40", u.GenerationTokens)
	}
}

func TestUsage_NilSafe(t *testing.T) {
	u := UsageFromContext(context.Background())
	if u != nil {
		t.Fatal("expected nil usage without collector")
	}
	u.AddEmbedding(1)
	u.AddGeneration(1)
}
