package ingest

import (
	"context"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/index"
	"github.com/kailas-cloud/docqa/internal/loader"
)

// Loader reads the raw directory.
type Loader interface {
	LoadDirectory(ctx context.Context, dir string) (loader.Result, error)
}

// Splitter chunks documents.
type Splitter interface {
	Split(docs []domain.Document) ([]domain.Chunk, error)
}

// IndexStore persists snapshots.
type IndexStore interface {
	Destroy() error
	Save(ix *index.Index) error
}

// Publisher swaps the snapshot served to readers.
type Publisher interface {
	Publish(ix *index.Index)
	Retire()
}
