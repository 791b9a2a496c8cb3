package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/db"
	"github.com/kailas-cloud/docqa/internal/domain"
)

type mockEmbedder struct {
	result     domain.EmbeddingResult
	err        error
	batchErr   error
	batchCalls int
	lastBatch  []string
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	m.lastBatch = texts
	if m.batchErr != nil {
		return domain.BatchEmbeddingResult{}, m.batchErr
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = m.result.Embedding
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: m.result.PromptTokens * len(texts),
		TotalTokens:  m.result.TotalTokens * len(texts),
	}, nil
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func newTestCachedEmbedder(t *testing.T, inner *mockEmbedder) (*CachedEmbedder, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	return New(inner, ms, "test-model", nil, zap.NewNop()), ms
}

func TestEmbed_CacheMiss(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 10,
		TotalTokens:  10,
	}}
	ce, ms := newTestCachedEmbedder(t, inner)

	var setKey string
	ms.setFn = func(_ context.Context, key string, _ []byte) error {
		setKey = key
		return nil
	}

	result, err := ce.Embed(context.Background(), "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.Embedding[0] != 0.1 {
		t.Fatalf("unexpected vector: %v", result.Embedding)
	}
	if result.TotalTokens != 10 {
		t.Fatalf("expected TotalTokens=10, got %d", result.TotalTokens)
	}
	if setKey != ce.cacheKey("test text") {
		t.Fatalf("expected cache put under %q, got %q", ce.cacheKey("test text"), setKey)
	}
}

func TestEmbed_CacheHit(t *testing.T) {
	inner := &mockEmbedder{err: errors.New("must not be called")}
	ce, ms := newTestCachedEmbedder(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return vectorToCacheBytes([]float32{0.4, 0.5}), nil
	}

	result, err := ce.Embed(context.Background(), "cached")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 2 || result.Embedding[1] != 0.5 {
		t.Fatalf("unexpected vector: %v", result.Embedding)
	}
	if result.TotalTokens != 0 {
		t.Errorf("expected 0 tokens on hit, got %d", result.TotalTokens)
	}
}

func TestEmbed_CorruptEntryFallsThrough(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	ce, ms := newTestCachedEmbedder(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte{1, 2, 3}, nil
	}

	result, err := ce.Embed(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Embedding[0] != 1 {
		t.Errorf("expected inner vector, got %v", result.Embedding)
	}
}

func TestEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	ce, _ := newTestCachedEmbedder(t, inner)

	_, err := ce.Embed(context.Background(), "x")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestCacheKey_NamespacedByModel(t *testing.T) {
	a := New(&mockEmbedder{}, &mockKVStore{}, "model-a", nil, zap.NewNop())
	b := New(&mockEmbedder{}, &mockKVStore{}, "model-b", nil, zap.NewNop())
	if a.cacheKey("same") == b.cacheKey("same") {
		t.Fatal("different models must not share cache keys")
	}
}

func TestBatchEmbed_MixedHitsMisses(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.5},
		PromptTokens: 3,
		TotalTokens:  3,
	}}
	ce, ms := newTestCachedEmbedder(t, inner)

	hitKey := ce.cacheKey("hit1")
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		if key == hitKey {
			return vectorToCacheBytes([]float32{0.9}), nil
		}
		return nil, db.ErrKeyNotFound
	}
	var puts int
	ms.setFn = func(_ context.Context, _ string, _ []byte) error {
		puts++
		return nil
	}

	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
	ce.cacheTotal = counter

	res, err := ce.BatchEmbed(context.Background(), []string{"miss1", "hit1", "miss2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(res.Embeddings))
	}
	if res.Embeddings[1][0] != 0.9 {
		t.Errorf("expected cached vec for index 1, got %v", res.Embeddings[1])
	}
	if res.Embeddings[0][0] != 0.5 || res.Embeddings[2][0] != 0.5 {
		t.Errorf("expected inner vec for misses, got %v, %v", res.Embeddings[0], res.Embeddings[2])
	}
	if res.TotalTokens != 6 {
		t.Errorf("expected TotalTokens=6 (2 misses * 3), got %d", res.TotalTokens)
	}
	if inner.batchCalls != 1 || len(inner.lastBatch) != 2 {
		t.Errorf("expected one inner call with 2 misses, got %d calls, last %v", inner.batchCalls, inner.lastBatch)
	}
	if puts != 2 {
		t.Errorf("expected 2 cache puts, got %d", puts)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("hit")); v != 1 {
		t.Errorf("expected 1 hit, got %f", v)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("miss")); v != 2 {
		t.Errorf("expected 2 misses, got %f", v)
	}
}

func TestBatchEmbed_AllHits(t *testing.T) {
	inner := &mockEmbedder{}
	ce, ms := newTestCachedEmbedder(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return vectorToCacheBytes([]float32{0.9, 0.8}), nil
	}

	res, err := ce.BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 2 || res.TotalTokens != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if inner.batchCalls != 0 {
		t.Errorf("expected 0 batch calls (all cache hits), got %d", inner.batchCalls)
	}
}

func TestBatchEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{batchErr: errors.New("api down")}
	ce, _ := newTestCachedEmbedder(t, inner)

	if _, err := ce.BatchEmbed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error from inner batch embedder")
	}
}

func TestBatchEmbed_Empty(t *testing.T) {
	ce, _ := newTestCachedEmbedder(t, &mockEmbedder{})

	res, err := ce.BatchEmbed(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Embeddings != nil {
		t.Errorf("expected nil for empty input")
	}
}

func TestMemoryStore_Evicts(t *testing.T) {
	s, err := NewMemoryStore(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	_ = s.Set(ctx, "a", []byte("1"))
	_ = s.Set(ctx, "b", []byte("2"))
	_ = s.Set(ctx, "c", []byte("3"))

	if _, err := s.Get(ctx, "a"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected oldest entry evicted, got %v", err)
	}
	if v, err := s.Get(ctx, "c"); err != nil || string(v) != "3" {
		t.Errorf("expected c=3, got %q, %v", v, err)
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", s.Len())
	}
}

func TestMemoryStore_WithCachedEmbedder(t *testing.T) {
	s, err := NewMemoryStore(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.25}, TotalTokens: 2}}
	ce := New(inner, s, "m", nil, zap.NewNop())

	if _, err := ce.BatchEmbed(context.Background(), []string{"x", "y"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := ce.BatchEmbed(context.Background(), []string{"x", "y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.batchCalls != 1 {
		t.Errorf("second call must be served from memory, got %d inner calls", inner.batchCalls)
	}
	if res.Embeddings[0][0] != 0.25 {
		t.Errorf("unexpected cached vector %v", res.Embeddings[0])
	}
}

type recordingKV struct {
	ttl time.Duration
	err error
}

func (r *recordingKV) Get(_ context.Context, _ string) ([]byte, error) { return nil, db.ErrKeyNotFound }
func (r *recordingKV) Set(_ context.Context, _ string, _ []byte) error { return nil }
func (r *recordingKV) SetWithTTL(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
	r.ttl = ttl
	return r.err
}

func TestTTLStore(t *testing.T) {
	kv := &recordingKV{}
	s := NewTTLStore(kv, time.Hour)

	if err := s.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kv.ttl != time.Hour {
		t.Errorf("expected ttl 1h, got %v", kv.ttl)
	}
	if _, err := s.Get(context.Background(), "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound to propagate, got %v", err)
	}
}
