// Package ingest rebuilds the vector index from the raw document directory.
package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/index"
	"github.com/kailas-cloud/docqa/internal/metrics"
)

// Report summarizes one ingestion run.
type Report struct {
	Documents int
	Chunks    int
	Skipped   []string
	Version   string
	Duration  time.Duration
}

// Service runs full rebuilds. Runs are serialized.
type Service struct {
	mu        sync.Mutex
	rawDir    string
	loader    Loader
	splitter  Splitter
	embedder  domain.Embedder
	store     IndexStore
	publisher Publisher
	logger    *zap.Logger
}

// New creates an ingestion service reading from rawDir.
func New(
	rawDir string,
	loader Loader,
	splitter Splitter,
	embedder domain.Embedder,
	store IndexStore,
	publisher Publisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		rawDir:    rawDir,
		loader:    loader,
		splitter:  splitter,
		embedder:  embedder,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// RawDir returns the default source directory.
func (s *Service) RawDir() string { return s.rawDir }

// Ingest destroys the persisted index and rebuilds it from dir (the raw
// directory when dir is empty). An empty corpus leaves the system without an
// index and is not an error. Any failure after the destroy also leaves the
// system without an index until the next successful run.
func (s *Service) Ingest(ctx context.Context, dir string) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir == "" {
		dir = s.rawDir
	}
	start := time.Now()
	log := s.logger.With(zap.String("dir", dir))

	report, err := s.rebuild(ctx, dir)
	report.Duration = time.Since(start)
	metrics.IngestionDuration.Observe(report.Duration.Seconds())

	switch {
	case err != nil:
		s.publisher.Retire()
		metrics.IngestionRunsTotal.WithLabelValues("error").Inc()
		metrics.IndexDocuments.Set(0)
		metrics.IndexChunks.Set(0)
		log.Error("Ingestion failed, index retired", zap.Error(err))
		return report, err
	case report.Version == "":
		metrics.IngestionRunsTotal.WithLabelValues("empty").Inc()
		metrics.IndexDocuments.Set(0)
		metrics.IndexChunks.Set(0)
		log.Warn("Nothing to ingest, index retired",
			zap.Int("documents", report.Documents),
			zap.Strings("skipped", report.Skipped),
		)
		return report, nil
	}

	metrics.IngestionRunsTotal.WithLabelValues("ok").Inc()
	log.Info("Index rebuilt",
		zap.String("version", report.Version),
		zap.Int("documents", report.Documents),
		zap.Int("chunks", report.Chunks),
		zap.Strings("skipped", report.Skipped),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

func (s *Service) rebuild(ctx context.Context, dir string) (Report, error) {
	if err := s.store.Destroy(); err != nil {
		return Report{}, fmt.Errorf("ingest: %w", err)
	}

	loaded, err := s.loader.LoadDirectory(ctx, dir)
	if err != nil {
		return Report{}, fmt.Errorf("ingest: load: %w", err)
	}
	report := Report{Documents: len(loaded.Documents), Skipped: loaded.Skipped}
	if len(loaded.Documents) == 0 {
		s.publisher.Retire()
		return report, nil
	}

	chunks, err := s.splitter.Split(loaded.Documents)
	if err != nil {
		return report, fmt.Errorf("ingest: chunk: %w", err)
	}
	report.Chunks = len(chunks)
	if len(chunks) == 0 {
		s.publisher.Retire()
		return report, nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	embedded, err := domain.EmbedBatch(ctx, s.embedder, texts)
	if err != nil {
		return report, fmt.Errorf("ingest: embed: %w", err)
	}
	if len(embedded.Embeddings) != len(chunks) {
		return report, fmt.Errorf("ingest: got %d vectors for %d chunks: %w",
			len(embedded.Embeddings), len(chunks), domain.ErrEmbeddingProviderError)
	}

	entries := make([]index.Entry, len(chunks))
	for i := range chunks {
		entries[i] = index.Entry{Chunk: chunks[i], Vector: embedded.Embeddings[i]}
	}
	ix, err := index.Build(entries)
	if err != nil {
		return report, fmt.Errorf("ingest: build: %w", err)
	}
	if err := s.store.Save(ix); err != nil {
		return report, fmt.Errorf("ingest: persist: %w", err)
	}
	s.publisher.Publish(ix)

	report.Version = ix.Version()
	metrics.IndexDocuments.Set(float64(len(ix.Sources())))
	metrics.IndexChunks.Set(float64(ix.Len()))
	return report, nil
}
