package docqa

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type openAIConfig struct {
	apiKey  string
	baseURL string
	model   string
}

type clientConfig struct {
	rawDir   string
	indexDir string

	embedder  Embedder
	generator Generator
	openAIEmb *openAIConfig
	openAIGen *openAIConfig

	chunkSize      int
	chunkOverlap   int
	topK           int
	minConfidence  float64
	minChunkLength int
	maxBatchSize   int
	cacheSize      int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithDirs sets the raw document directory and the index directory.
// Defaults: data/raw_docs and data/index.
func WithDirs(rawDir, indexDir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.rawDir = rawDir
		c.indexDir = indexDir
	})
}

// WithEmbedder sets a custom embedding provider.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithGenerator sets a custom text generation provider.
func WithGenerator(g Generator) Option {
	return optionFunc(func(c *clientConfig) {
		c.generator = g
	})
}

// WithOpenAIEmbedding uses an OpenAI-compatible embeddings endpoint.
// An empty baseURL selects api.openai.com.
func WithOpenAIEmbedding(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIEmb = &openAIConfig{apiKey: apiKey, baseURL: baseURL, model: model}
	})
}

// WithOpenAIGeneration uses an OpenAI-compatible chat completions endpoint.
func WithOpenAIGeneration(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIGen = &openAIConfig{apiKey: apiKey, baseURL: baseURL, model: model}
	})
}

// WithChunking sets the chunk size and overlap in characters.
// Defaults: 800 and 100.
func WithChunking(size, overlap int) Option {
	return optionFunc(func(c *clientConfig) {
		c.chunkSize = size
		c.chunkOverlap = overlap
	})
}

// WithTopK sets how many chunks are retrieved per question. Default: 5.
func WithTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = k
	})
}

// WithMinConfidence sets the confidence floor below which questions are refused.
// Default: 0.25.
func WithMinConfidence(v float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.minConfidence = v
	})
}

// WithMinChunkLength sets the shortest chunk, in characters, kept as evidence.
// Default: 20.
func WithMinChunkLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.minChunkLength = n
	})
}

// WithMaxBatchSize caps the number of texts per embedding request. Default: 256.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithMemoryCache keeps up to size embeddings in an in-process LRU cache.
// Disabled by default.
func WithMemoryCache(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheSize = size
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
