package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/chunker"
	"github.com/kailas-cloud/docqa/internal/config"
	dbRedis "github.com/kailas-cloud/docqa/internal/db/redis"
	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/index"
	"github.com/kailas-cloud/docqa/internal/loader"
	"github.com/kailas-cloud/docqa/internal/metrics"
	"github.com/kailas-cloud/docqa/internal/repository/embcache"
	openaiTransport "github.com/kailas-cloud/docqa/internal/transport/openai"
	corpusuc "github.com/kailas-cloud/docqa/internal/usecase/corpus"
	embeddinguc "github.com/kailas-cloud/docqa/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/docqa/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/docqa/internal/usecase/ingest"
	qauc "github.com/kailas-cloud/docqa/internal/usecase/qa"
	retrievaluc "github.com/kailas-cloud/docqa/internal/usecase/retrieval"
	rewriteuc "github.com/kailas-cloud/docqa/internal/usecase/rewrite"
)

// app is the composition root shared by every command.
type app struct {
	formats *loader.Registry
	handle  *index.Handle
	ingest  *ingestuc.Service
	qa      *qauc.Service
	corpus  *corpusuc.Service
	health  *healthuc.Service
	close   func()
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	// Explicit registration (no init()); /metrics serves the default registry.
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	cache, closeCache, err := buildCacheStore(ctx, cfg.Embedding.Cache, logger)
	if err != nil {
		return nil, err
	}

	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.Provider.APIKey,
		BaseURL:    cfg.Embedding.Provider.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider.Name,
	}, logger)
	docEmbedder := buildEmbedder(base, cache, cfg.Embedding, cfg.Embedding.DocumentInstruction, logger)
	queryEmbedder := buildEmbedder(base, cache, cfg.Embedding, cfg.Embedding.QueryInstruction, logger)

	generator := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		Config: openaiTransport.Config{
			APIKey:   cfg.Generation.Provider.APIKey,
			BaseURL:  cfg.Generation.Provider.BaseURL,
			Model:    cfg.Generation.Model,
			Provider: cfg.Generation.Provider.Name,
		},
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
	}, logger)

	logger.Info("Providers configured",
		zap.String("embedding_provider", cfg.Embedding.Provider.Name),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("generation_provider", cfg.Generation.Provider.Name),
		zap.String("generation_model", cfg.Generation.Model),
		zap.String("cache", cfg.Embedding.Cache.Driver),
	)

	policy := cfg.Policy()
	splitter, err := chunker.New(policy.ChunkSize, policy.ChunkOverlap)
	if err != nil {
		closeCache()
		return nil, fmt.Errorf("create chunker: %w", err)
	}

	formats := loader.NewRegistry()
	store := index.NewStore(cfg.Storage.IndexDir)
	handle := index.NewHandle(store)
	logger.Info("Storage configured",
		zap.String("raw_dir", cfg.Storage.RawDir),
		zap.String("index_dir", cfg.Storage.IndexDir),
		zap.Bool("index_persisted", store.Exists()),
		zap.Strings("formats", formats.Extensions()),
	)

	retriever := retrievaluc.New(queryEmbedder, handle, policy, logger)
	rewriter := rewriteuc.New(generator, policy.HistoryTurns, logger)

	return &app{
		formats: formats,
		handle:  handle,
		ingest:  ingestuc.New(cfg.Storage.RawDir, formats, splitter, docEmbedder, store, handle, logger),
		qa:      qauc.New(rewriter, retriever, generator, policy, logger),
		corpus:  corpusuc.New(cfg.Storage.RawDir, formats, logger),
		health:  healthuc.New(handle, base, generator),
		close:   closeCache,
	}, nil
}

// cacheStore is satisfied by both embedding cache backends.
type cacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

func buildCacheStore(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (cacheStore, func(), error) {
	noop := func() {}
	switch cfg.Driver {
	case "memory":
		s, err := embcache.NewMemoryStore(cfg.Size)
		if err != nil {
			return nil, noop, fmt.Errorf("create memory cache: %w", err)
		}
		return s, noop, nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Redis.Addrs,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("create redis cache: %w", err)
		}
		if err := s.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
			s.Close()
			return nil, noop, fmt.Errorf("redis cache not ready: %w", err)
		}
		logger.Info("Connected to redis embedding cache", zap.Strings("addrs", cfg.Redis.Addrs))
		return embcache.NewTTLStore(s, time.Duration(cfg.TTLSec)*time.Second), s.Close, nil
	default:
		return nil, noop, nil
	}
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction
func buildEmbedder(
	base domain.Embedder,
	cache cacheStore,
	cfg config.EmbeddingConfig,
	instruction string,
	logger *zap.Logger,
) domain.Embedder {
	embedder := base
	if cache != nil {
		embedder = embcache.New(base, cache, cfg.Model, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, cfg.Provider.Name, cfg.Model, cfg.MaxBatchSize, logger,
	)

	// Instruction prefix (outermost, so the cache key includes it)
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}
