package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kailas-cloud/docqa/internal/domain"
)

const fileName = "index.json"

// Store persists snapshots in a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. Nothing is touched on disk.
func NewStore(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

// Dir returns the index directory.
func (s *Store) Dir() string { return s.dir }

type payload struct {
	Version   string         `json:"version"`
	BuiltAt   time.Time      `json:"built_at"`
	Dimension int            `json:"dimension"`
	Entries   []payloadEntry `json:"entries"`
}

type payloadEntry struct {
	Chunk  domain.Chunk `json:"chunk"`
	Vector []float32    `json:"vector"`
}

// Save writes ix into a sibling staging directory and renames it into place.
// A reader never observes a partially written index.
func (s *Store) Save(ix *Index) error {
	p := payload{
		Version:   ix.version,
		BuiltAt:   ix.builtAt,
		Dimension: ix.dimension,
		Entries:   make([]payloadEntry, len(ix.entries)),
	}
	for i := range ix.entries {
		p.Entries[i] = payloadEntry{Chunk: ix.entries[i].Chunk, Vector: ix.entries[i].Vector}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("index: encode snapshot: %w", err)
	}

	parent := filepath.Dir(s.dir)
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return fmt.Errorf("index: ensure directory %q: %w", parent, err)
	}
	staging, err := os.MkdirTemp(parent, filepath.Base(s.dir)+".staging-")
	if err != nil {
		return fmt.Errorf("index: create staging dir: %w", err)
	}
	defer os.RemoveAll(staging) //nolint:errcheck // best-effort cleanup after rename

	if err := os.WriteFile(filepath.Join(staging, fileName), data, 0o600); err != nil {
		return fmt.Errorf("index: write snapshot: %w", err)
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("index: clear %q: %w", s.dir, err)
	}
	if err := os.Rename(staging, s.dir); err != nil {
		return fmt.Errorf("index: commit snapshot: %w", err)
	}
	return nil
}

// Load reads the persisted snapshot. It returns domain.ErrIndexNotFound when
// nothing is persisted and domain.ErrCorruptIndex when decoding fails.
func (s *Store) Load() (*Index, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, fileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrIndexNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: read %q: %w", s.dir, err)
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("index: decode %q: %v: %w", s.dir, err, domain.ErrCorruptIndex)
	}
	entries := make([]Entry, len(p.Entries))
	for i := range p.Entries {
		entries[i] = Entry{Chunk: p.Entries[i].Chunk, Vector: p.Entries[i].Vector}
	}
	ix, err := build(p.Version, p.BuiltAt, entries)
	if err != nil {
		return nil, fmt.Errorf("index: %q: %v: %w", s.dir, err, domain.ErrCorruptIndex)
	}
	if p.Dimension != 0 && p.Dimension != ix.dimension {
		return nil, fmt.Errorf("index: %q: stored dimension %d, vectors have %d: %w",
			s.dir, p.Dimension, ix.dimension, domain.ErrCorruptIndex)
	}
	return ix, nil
}

// Destroy removes the persisted index. Removing a missing index is not an error.
func (s *Store) Destroy() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("index: destroy %q: %w", s.dir, err)
	}
	return nil
}

// Exists reports whether a snapshot is persisted.
func (s *Store) Exists() bool {
	_, err := os.Stat(filepath.Join(s.dir, fileName))
	return err == nil
}
