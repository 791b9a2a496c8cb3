package docqa

import "github.com/kailas-cloud/docqa/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrIndexNotFound           = domain.ErrIndexNotFound
	ErrCorruptIndex            = domain.ErrCorruptIndex
	ErrUnsupportedFileType     = domain.ErrUnsupportedFileType
	ErrInvalidDocument         = domain.ErrInvalidDocument
	ErrVectorDimMismatch       = domain.ErrVectorDimMismatch
	ErrEmbeddingProviderError  = domain.ErrEmbeddingProviderError
	ErrGenerationProviderError = domain.ErrGenerationProviderError
)

// RefusalText is the answer returned when the documents do not support one.
const RefusalText = domain.RefusalText
