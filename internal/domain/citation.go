package domain

// Citation identifies where a piece of evidence came from.
type Citation struct {
	SourceID string
	Page     *int
}

// String renders "{source_id} | page {page}", with N/A for unpaginated sources.
func (c Citation) String() string {
	return c.SourceID + " | page " + pageLabel(c.Page)
}

// CitationSet collects citations deduplicated by (source, page).
// Strings() keeps first-seen order so output is stable across runs.
type CitationSet struct {
	seen  map[string]struct{}
	items []string
}

// NewCitationSet creates an empty set.
func NewCitationSet() *CitationSet {
	return &CitationSet{seen: make(map[string]struct{})}
}

// Add inserts c unless an equal citation is already present.
func (s *CitationSet) Add(c Citation) {
	key := c.String()
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, key)
}

// Len returns the number of distinct citations.
func (s *CitationSet) Len() int { return len(s.items) }

// Strings returns the rendered citations. Never nil.
func (s *CitationSet) Strings() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
