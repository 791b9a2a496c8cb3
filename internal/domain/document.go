package domain

import "strconv"

// NoPage is the page label used when a document has no pagination.
const NoPage = "N/A"

// Document is one loaded unit of the corpus. Paginated formats produce one
// Document per page; everything else produces one Document per file.
type Document struct {
	SourceID string
	Content  string
	Page     *int
}

// Chunk is a bounded slice of a single Document's text.
type Chunk struct {
	Text     string `json:"text"`
	SourceID string `json:"source_id"`
	Page     *int   `json:"page,omitempty"`
}

// PageLabel returns the page number as text, or NoPage.
func (c Chunk) PageLabel() string {
	return pageLabel(c.Page)
}

// Citation returns the provenance of the chunk.
func (c Chunk) Citation() Citation {
	return Citation{SourceID: c.SourceID, Page: c.Page}
}

// RetrievalResult pairs a chunk with its distance to the query (lower is closer).
type RetrievalResult struct {
	Chunk    Chunk
	Distance float64
}

// PageRef returns a pointer to n, for building paginated documents.
func PageRef(n int) *int {
	return &n
}

func pageLabel(p *int) string {
	if p == nil {
		return NoPage
	}
	return strconv.Itoa(*p)
}
