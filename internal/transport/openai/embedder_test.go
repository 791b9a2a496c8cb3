package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/metrics"
)

func TestMain(m *testing.M) {
	if err := metrics.Register(prometheus.NewRegistry()); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type embeddingItem struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

// embeddingResponse mirrors the OpenAI-compatible API embedding response.
type embeddingResponse struct {
	Object string          `json:"object"`
	Data   []embeddingItem `json:"data"`
	Model  string          `json:"model"`
	Usage  struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

func embeddingServer(t *testing.T, items []embeddingItem, tokens int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		resp := embeddingResponse{Object: "list", Model: "test-model", Data: items}
		resp.Usage.PromptTokens = tokens
		resp.Usage.TotalTokens = tokens
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestEmbedder(url string) *Embedder {
	return NewEmbedder(&Config{
		APIKey:   "test-key",
		BaseURL:  url,
		Model:    "test-model",
		Provider: "test",
	}, zap.NewNop())
}

func TestEmbedder_Embed(t *testing.T) {
	server := embeddingServer(t, []embeddingItem{
		{Object: "embedding", Embedding: []float32{0.1, 0.2, 0.3, 0.4}},
	}, 10)

	result, err := newTestEmbedder(server.URL).Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(result.Embedding) != 4 {
		t.Fatalf("expected 4 dimensions, got %d", len(result.Embedding))
	}
	if result.Embedding[2] != 0.3 {
		t.Errorf("expected vec[2]=0.3, got %f", result.Embedding[2])
	}
	if result.PromptTokens != 10 || result.TotalTokens != 10 {
		t.Errorf("unexpected usage: %+v", result)
	}
}

func TestEmbedder_BatchEmbed_RestoresOrder(t *testing.T) {
	server := embeddingServer(t, []embeddingItem{
		{Object: "embedding", Embedding: []float32{0.3, 0.4}, Index: 1},
		{Object: "embedding", Embedding: []float32{0.1, 0.2}, Index: 0},
	}, 20)

	result, err := newTestEmbedder(server.URL).BatchEmbed(context.Background(), []string{"hello", "world"})
	if err != nil {
		t.Fatalf("BatchEmbed failed: %v", err)
	}
	if len(result.Embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(result.Embeddings))
	}
	if result.Embeddings[0][0] != 0.1 || result.Embeddings[1][0] != 0.3 {
		t.Errorf("order not restored by index: %v", result.Embeddings)
	}
	if result.TotalTokens != 20 {
		t.Errorf("expected TotalTokens=20, got %d", result.TotalTokens)
	}
}

func TestEmbedder_BatchEmbed_Empty(t *testing.T) {
	result, err := newTestEmbedder("http://unused").BatchEmbed(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Embeddings != nil {
		t.Errorf("expected nil embeddings for empty input, got %v", result.Embeddings)
	}
}

func TestEmbedder_BatchEmbed_CountMismatch(t *testing.T) {
	server := embeddingServer(t, []embeddingItem{
		{Object: "embedding", Embedding: []float32{0.1}, Index: 0},
	}, 5)

	_, err := newTestEmbedder(server.URL).BatchEmbed(context.Background(), []string{"a", "b"})
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error for count mismatch, got %v", err)
	}
}

func TestEmbedder_BatchEmbed_DuplicateIndex(t *testing.T) {
	server := embeddingServer(t, []embeddingItem{
		{Object: "embedding", Embedding: []float32{0.1}, Index: 0},
		{Object: "embedding", Embedding: []float32{0.2}, Index: 0},
	}, 5)

	_, err := newTestEmbedder(server.URL).BatchEmbed(context.Background(), []string{"a", "b"})
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error for duplicate index, got %v", err)
	}
}

func TestEmbedder_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer server.Close()

	_, err := newTestEmbedder(server.URL).Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error for 429 response, got %v", err)
	}
}

func TestEmbedder_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"test-model","object":"model"}]}`))
	}))
	defer server.Close()

	if err := newTestEmbedder(server.URL).HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected health error: %v", err)
	}
}
