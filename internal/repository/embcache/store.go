package embcache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kailas-cloud/docqa/internal/db"
)

// MemoryStore is an in-process LRU store.
type MemoryStore struct {
	cache *lru.Cache[string, []byte]
}

// NewMemoryStore creates an LRU store holding at most size entries.
func NewMemoryStore(size int) (*MemoryStore, error) {
	c, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &MemoryStore{cache: c}, nil
}

// Get returns the value or db.ErrKeyNotFound.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

// Set stores a copy of value, evicting the least recently used entry when full.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.cache.Add(key, append([]byte(nil), value...))
	return nil
}

// Len returns the number of cached entries.
func (m *MemoryStore) Len() int { return m.cache.Len() }

// TTLStore adapts a db.KVStore so every write expires after ttl.
type TTLStore struct {
	kv  db.KVStore
	ttl time.Duration
}

// NewTTLStore wraps kv.
func NewTTLStore(kv db.KVStore, ttl time.Duration) *TTLStore {
	return &TTLStore{kv: kv, ttl: ttl}
}

// Get delegates to the underlying store.
func (s *TTLStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

// Set writes with the configured expiration.
func (s *TTLStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.kv.SetWithTTL(ctx, key, value, s.ttl); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
