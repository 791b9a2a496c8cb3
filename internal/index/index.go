// Package index holds the immutable vector index snapshot, its on-disk store
// and the handle through which the current version is published.
package index

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Entry is one indexed chunk and its embedding.
type Entry struct {
	Chunk  domain.Chunk
	Vector []float32
}

// Index is an immutable snapshot. It is safe for concurrent readers.
type Index struct {
	version   string
	builtAt   time.Time
	dimension int
	entries   []Entry
}

// Build validates entries and creates a new snapshot with a fresh version id.
func Build(entries []Entry) (*Index, error) {
	return build(uuid.NewString(), time.Now().UTC(), entries)
}

func build(version string, builtAt time.Time, entries []Entry) (*Index, error) {
	if len(entries) == 0 {
		return nil, errors.New("index: no entries")
	}
	dim := len(entries[0].Vector)
	if dim == 0 {
		return nil, errors.New("index: empty vector")
	}
	own := make([]Entry, len(entries))
	for i := range entries {
		if len(entries[i].Vector) != dim {
			return nil, fmt.Errorf("index: entry %d has %d dimensions, want %d: %w",
				i, len(entries[i].Vector), dim, domain.ErrVectorDimMismatch)
		}
		own[i] = Entry{
			Chunk:  entries[i].Chunk,
			Vector: append([]float32(nil), entries[i].Vector...),
		}
	}
	return &Index{version: version, builtAt: builtAt, dimension: dim, entries: own}, nil
}

// Version returns the snapshot id.
func (ix *Index) Version() string { return ix.version }

// BuiltAt returns the build time.
func (ix *Index) BuiltAt() time.Time { return ix.builtAt }

// Dimension returns the vector length.
func (ix *Index) Dimension() int { return ix.dimension }

// Len returns the number of chunks.
func (ix *Index) Len() int { return len(ix.entries) }

// Sources lists the distinct source ids in sorted order.
func (ix *Index) Sources() []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range ix.entries {
		id := ix.entries[i].Chunk.SourceID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Search returns up to k nearest chunks by squared Euclidean distance,
// ascending. A non-empty source restricts results to that exact source id.
// Equal distances keep insertion order.
func (ix *Index) Search(vector []float32, k int, source string) ([]domain.RetrievalResult, error) {
	if len(vector) != ix.dimension {
		return nil, fmt.Errorf("index: query has %d dimensions, want %d: %w",
			len(vector), ix.dimension, domain.ErrVectorDimMismatch)
	}
	if k <= 0 {
		return nil, nil
	}

	type candidate struct {
		pos  int
		dist float64
	}
	candidates := make([]candidate, 0, len(ix.entries))
	for i := range ix.entries {
		if source != "" && ix.entries[i].Chunk.SourceID != source {
			continue
		}
		candidates = append(candidates, candidate{pos: i, dist: squaredL2(vector, ix.entries[i].Vector)})
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].dist < candidates[b].dist
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	out := make([]domain.RetrievalResult, len(candidates))
	for i, c := range candidates {
		out[i] = domain.RetrievalResult{Chunk: ix.entries[c.pos].Chunk, Distance: c.dist}
	}
	return out, nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
