package domain

import "errors"

var (
	// ErrIndexNotFound signals that no index has been built yet (or the last rebuild failed).
	ErrIndexNotFound = errors.New("index not found")
	// ErrCorruptIndex signals a persisted index that cannot be decoded.
	ErrCorruptIndex = errors.New("corrupt index")
	// ErrNoDocuments signals an ingestion run that found nothing loadable.
	ErrNoDocuments = errors.New("no documents to ingest")
	// ErrUnsupportedFileType signals a raw file outside the pdf/md/txt set.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrInvalidDocument signals a raw file whose content does not match its extension.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrVectorDimMismatch signals vectors of different lengths in one index.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a generation provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
)
