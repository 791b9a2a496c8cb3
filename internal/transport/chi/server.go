// Package chi exposes the question answering pipeline over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/loader"
	logpkg "github.com/kailas-cloud/docqa/internal/logger"
	healthuc "github.com/kailas-cloud/docqa/internal/usecase/health"
)

const statusRebuilt = "Index rebuilt successfully"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers.
type Server struct {
	answers        Answerer
	ingester       Ingester
	corpus         Corpus
	formats        Formats
	health         HealthChecker
	maxUploadBytes int64
	logger         *zap.Logger
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	answers Answerer,
	ingester Ingester,
	corpus Corpus,
	formats Formats,
	health HealthChecker,
	maxUploadBytes int64,
	logger *zap.Logger,
) *Server {
	s := &Server{
		answers:        answers,
		ingester:       ingester,
		corpus:         corpus,
		formats:        formats,
		health:         health,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnsupportedFileType, http.StatusBadRequest),
		sentinelHandler(domain.ErrInvalidDocument, http.StatusBadRequest),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway),
		sentinelHandler(domain.ErrGenerationProviderError, http.StatusBadGateway),
	}
	return s
}

// Upload handles POST /upload. Every file is checked before any is stored.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp file cleanup

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	for _, fh := range files {
		if !s.formats.Supported(fh.Filename) {
			writeError(w, http.StatusBadRequest, "Unsupported file type: "+loader.Ext(fh.Filename))
			return
		}
	}

	stored := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := s.saveUpload(r, fh)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		stored = append(stored, name)
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	report, err := s.ingester.Ingest(ctx, "")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, uploadResponse{
		Status:    statusRebuilt,
		Files:     stored,
		Documents: report.Documents,
		Chunks:    report.Chunks,
	})
}

func (s *Server) saveUpload(r *http.Request, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	name, err := s.corpus.Save(r.Context(), fh.Filename, f)
	if err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return name, nil
}

// Query handles POST /query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	answer, err := s.answers.Answer(ctx, req.Question, req.ChatHistory, req.Document)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, answer)
}

// Summarize handles POST /summarize. The body is optional.
func (s *Server) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	summary, err := s.answers.Summarize(ctx, req.Document)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setUsageHeaders(w, usage)
	writeJSON(w, http.StatusOK, summary)
}

// Documents handles GET /documents.
func (s *Server) Documents(w http.ResponseWriter, r *http.Request) {
	names, err := s.corpus.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentsResponse{Documents: names})
}

// HealthCheck handles GET /health. A missing index is degraded but still
// served with 200; a failing provider returns 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	for _, v := range report.Checks {
		if v == healthuc.CheckError {
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, httpStatus, report)
}

func setUsageHeaders(w http.ResponseWriter, usage *domain.Usage) {
	if usage == nil {
		return
	}
	if usage.EmbeddingTokens > 0 {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.EmbeddingTokens))
	}
	if usage.GenerationTokens > 0 {
		w.Header().Set("X-Generation-Tokens", strconv.Itoa(usage.GenerationTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnsupportedFileType,
		domain.ErrInvalidDocument,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, safeDomainMessage(err))
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
