package docqa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/chunker"
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

// Internal interfaces, replaced with fakes in tests.
type ingestUseCase interface {
	Ingest(ctx context.Context, dir string) (ingestuc.Report, error)
}

type qaUseCase interface {
	Answer(ctx context.Context, question string, history []domain.ConversationTurn, source string) (domain.Answer, error)
	Summarize(ctx context.Context, source string) (domain.Summary, error)
}

type corpusUseCase interface {
	List(ctx context.Context) ([]string, error)
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Turn is one earlier question and the answer it received.
type Turn struct {
	Question string
	Answer   string
}

// Answer is a grounded answer with its citations.
type Answer struct {
	Answer     string
	Citations  []string // "handbook.pdf | page 3" or "notes.md | page N/A"
	Confidence float64
}

// Refused reports whether the answer is the refusal text.
func (a Answer) Refused() bool { return a.Answer == RefusalText }

// Summary is a document summary with its citations.
type Summary struct {
	Summary   string
	Citations []string
}

// IngestReport describes one completed index rebuild.
type IngestReport struct {
	Documents int
	Chunks    int
	Skipped   []string
	Version   string
	Duration  time.Duration
}

// Client is the docqa SDK entry point.
type Client struct {
	ingestSvc ingestUseCase
	qaSvc     qaUseCase
	corpusSvc corpusUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a docqa Client. An embedding and a generation provider are
// required, either custom or OpenAI-compatible. The index already on disk,
// if any, is loaded on first use.
func New(opts ...Option) (*Client, error) {
	policy := domain.DefaultPolicy()
	cfg := &clientConfig{
		rawDir:         "data/raw_docs",
		indexDir:       "data/index",
		chunkSize:      policy.ChunkSize,
		chunkOverlap:   policy.ChunkOverlap,
		topK:           policy.TopK,
		minConfidence:  policy.MinConfidence,
		minChunkLength: policy.MinChunkLength,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	embedder, embHealth, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	generator, genHealth, err := buildGenerator(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	policy.ChunkSize = cfg.chunkSize
	policy.ChunkOverlap = cfg.chunkOverlap
	policy.TopK = cfg.topK
	policy.MinConfidence = cfg.minConfidence
	policy.MinChunkLength = cfg.minChunkLength
	return wireClient(cfg, policy, embedder, embHealth, generator, genHealth, obs)
}

func buildEmbedder(cfg *clientConfig) (domain.Embedder, domain.HealthChecker, error) {
	switch {
	case cfg.embedder != nil:
		return &embedderAdapter{inner: cfg.embedder}, healthOf(cfg.embedder), nil
	case cfg.openAIEmb != nil:
		e := openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:   cfg.openAIEmb.apiKey,
			BaseURL:  cfg.openAIEmb.baseURL,
			Model:    cfg.openAIEmb.model,
			Provider: "openai",
		}, zap.NewNop())
		return e, e, nil
	default:
		return nil, nil, errors.New("docqa: embedder required (use WithEmbedder or WithOpenAIEmbedding)")
	}
}

func buildGenerator(cfg *clientConfig) (domain.Generator, domain.HealthChecker, error) {
	switch {
	case cfg.generator != nil:
		return &generatorAdapter{inner: cfg.generator}, healthOf(cfg.generator), nil
	case cfg.openAIGen != nil:
		g := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
			Config: openaiTransport.Config{
				APIKey:   cfg.openAIGen.apiKey,
				BaseURL:  cfg.openAIGen.baseURL,
				Model:    cfg.openAIGen.model,
				Provider: "openai",
			},
		}, zap.NewNop())
		return g, g, nil
	default:
		return nil, nil, errors.New("docqa: generator required (use WithGenerator or WithOpenAIGeneration)")
	}
}

func wireClient(
	cfg *clientConfig,
	policy domain.Policy,
	embedder domain.Embedder, embHealth domain.HealthChecker,
	generator domain.Generator, genHealth domain.HealthChecker,
	obs *observer,
) (*Client, error) {
	// Internal services log nothing; SDK operations are observed via slog.
	logger := zap.NewNop()

	splitter, err := chunker.New(policy.ChunkSize, policy.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("docqa: %w", err)
	}

	provider, model := "custom", "custom"
	if cfg.embedder == nil && cfg.openAIEmb != nil {
		provider, model = "openai", cfg.openAIEmb.model
	}
	if cfg.cacheSize > 0 {
		mem, err := embcache.NewMemoryStore(cfg.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("docqa: create embedding cache: %w", err)
		}
		embedder = embcache.New(embedder, mem, model, metrics.EmbeddingCacheTotal, logger)
	}
	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, provider, model, cfg.maxBatchSize, logger)

	formats := loader.NewRegistry()
	store := index.NewStore(cfg.indexDir)
	handle := index.NewHandle(store)

	retriever := retrievaluc.New(embedder, handle, policy, logger)
	rewriter := rewriteuc.New(generator, policy.HistoryTurns, logger)

	return &Client{
		ingestSvc: ingestuc.New(cfg.rawDir, formats, splitter, embedder, store, handle, logger),
		qaSvc:     qauc.New(rewriter, retriever, generator, policy, logger),
		corpusSvc: corpusuc.New(cfg.rawDir, formats, logger),
		healthSvc: healthuc.New(handle, embHealth, genHealth),
		obs:       obs,
	}, nil
}

// Ingest rebuilds the index from dir, or from the raw directory when dir is
// empty. An empty directory leaves the client without an index and is not an error.
func (c *Client) Ingest(ctx context.Context, dir string) (_ IngestReport, err error) {
	start := time.Now()
	var r ingestuc.Report
	defer func() {
		c.obs.observe("ingest", start, err, slog.Int("documents", r.Documents), slog.Int("chunks", r.Chunks))
	}()

	r, err = c.ingestSvc.Ingest(ctx, dir)
	if err != nil {
		return IngestReport{}, fmt.Errorf("ingest: %w", err)
	}
	return IngestReport{
		Documents: r.Documents,
		Chunks:    r.Chunks,
		Skipped:   r.Skipped,
		Version:   r.Version,
		Duration:  r.Duration,
	}, nil
}

// Ask answers question from the indexed documents. history holds earlier
// turns, oldest first; document restricts retrieval to one file name.
// A refusal is a successful result, not an error.
func (c *Client) Ask(ctx context.Context, question string, history []Turn, document string) (Answer, error) {
	start := time.Now()

	turns := make([]domain.ConversationTurn, len(history))
	for i, t := range history {
		turns[i] = domain.ConversationTurn{Question: t.Question, Answer: t.Answer}
	}

	a, err := c.qaSvc.Answer(ctx, question, turns, document)
	if err != nil {
		c.obs.observe("ask", start, err, slog.String("document", document))
		return Answer{}, fmt.Errorf("ask: %w", err)
	}

	ans := Answer{Answer: a.Answer, Citations: a.Citations, Confidence: a.Confidence}
	status := statusOK
	if ans.Refused() {
		status = statusRefused
	}
	c.obs.record("ask", status, start, nil,
		slog.String("document", document),
		slog.Int("history_turns", len(history)),
		slog.Float64("confidence", ans.Confidence),
	)
	return ans, nil
}

// Summarize summarizes one document, or the whole corpus when document is empty.
func (c *Client) Summarize(ctx context.Context, document string) (_ Summary, err error) {
	start := time.Now()
	defer func() { c.obs.observe("summarize", start, err) }()

	s, err := c.qaSvc.Summarize(ctx, document)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}
	return Summary{Summary: s.Summary, Citations: s.Citations}, nil
}

// Documents lists the file names in the raw directory.
func (c *Client) Documents(ctx context.Context) (_ []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("documents", start, err) }()

	names, err := c.corpusSvc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}
	return names, nil
}

// AddDocument stores a document in the raw directory under filename. It does
// not rebuild the index; call Ingest afterwards.
func (c *Client) AddDocument(ctx context.Context, filename string, r io.Reader) (_ string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("add_document", start, err) }()

	name, err := c.corpusSvc.Save(ctx, filename, r)
	if err != nil {
		return "", fmt.Errorf("add document: %w", err)
	}
	return name, nil
}
