package index

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Handle publishes the current snapshot. Readers take a reference with
// Current and keep using it even if a newer version is published meanwhile.
type Handle struct {
	store   *Store
	current atomic.Pointer[Index]

	loadMu sync.Mutex
	// loaded is set once the store has been consulted, or a version was
	// published or retired, so a retired handle does not resurrect a stale disk copy.
	loaded atomic.Bool
}

// NewHandle creates a handle backed by store.
func NewHandle(store *Store) *Handle {
	return &Handle{store: store}
}

// Current returns the published snapshot, loading it from the store on first use.
// It returns domain.ErrIndexNotFound when no snapshot is available.
func (h *Handle) Current() (*Index, error) {
	if ix := h.current.Load(); ix != nil {
		return ix, nil
	}
	if h.loaded.Load() {
		return nil, domain.ErrIndexNotFound
	}

	h.loadMu.Lock()
	defer h.loadMu.Unlock()
	if ix := h.current.Load(); ix != nil {
		return ix, nil
	}
	if h.loaded.Load() {
		return nil, domain.ErrIndexNotFound
	}

	if !h.store.Exists() {
		h.loaded.Store(true)
		return nil, domain.ErrIndexNotFound
	}
	ix, err := h.store.Load()
	if err != nil {
		if errors.Is(err, domain.ErrIndexNotFound) {
			h.loaded.Store(true)
		}
		return nil, err
	}
	h.current.Store(ix)
	h.loaded.Store(true)
	return ix, nil
}

// Publish makes ix the current snapshot.
func (h *Handle) Publish(ix *Index) {
	h.loadMu.Lock()
	defer h.loadMu.Unlock()
	h.current.Store(ix)
	h.loaded.Store(true)
}

// Retire drops the current snapshot. Subsequent reads see domain.ErrIndexNotFound.
func (h *Handle) Retire() {
	h.loadMu.Lock()
	defer h.loadMu.Unlock()
	h.current.Store(nil)
	h.loaded.Store(true)
}

// Version returns the current version id, or "" when nothing is published.
func (h *Handle) Version() string {
	if ix := h.current.Load(); ix != nil {
		return ix.version
	}
	return ""
}

// Search runs a query against the current snapshot.
func (h *Handle) Search(vector []float32, k int, source string) ([]domain.RetrievalResult, error) {
	ix, err := h.Current()
	if err != nil {
		return nil, err
	}
	return ix.Search(vector, k, source)
}
