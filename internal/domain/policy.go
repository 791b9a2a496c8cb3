package domain

// Default retrieval and chunking policy.
const (
	DefaultChunkSize      = 800
	DefaultChunkOverlap   = 100
	DefaultTopK           = 5
	DefaultMinConfidence  = 0.25
	DefaultMinChunkLength = 20
	DefaultHistoryTurns   = 3

	// RefusalText is returned verbatim whenever the corpus does not support an answer.
	RefusalText = "Not found in internal documents."
	// SummaryQuery is the fixed retrieval query used for summaries.
	SummaryQuery = "summarize the document"
)

// Policy groups the tunable thresholds of the question-answering pipeline.
type Policy struct {
	ChunkSize      int
	ChunkOverlap   int
	TopK           int
	MinConfidence  float64
	MinChunkLength int
	HistoryTurns   int
	RefusalText    string
	SummaryQuery   string
}

// DefaultPolicy returns the documented defaults.
func DefaultPolicy() Policy {
	return Policy{
		ChunkSize:      DefaultChunkSize,
		ChunkOverlap:   DefaultChunkOverlap,
		TopK:           DefaultTopK,
		MinConfidence:  DefaultMinConfidence,
		MinChunkLength: DefaultMinChunkLength,
		HistoryTurns:   DefaultHistoryTurns,
		RefusalText:    RefusalText,
		SummaryQuery:   SummaryQuery,
	}
}
