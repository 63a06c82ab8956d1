package storage

import (
	"fmt"
	"sort"
	"sync"
)

// MemoryBackend keeps documents in a map. Used in tests and for dry runs.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string][]byte)}
}

func (b *MemoryBackend) Name() string { return "memory" }

func (b *MemoryBackend) EnsureRoot() error { return nil }

func (b *MemoryBackend) Read(key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.docs[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNoDocument)
	}
	return append([]byte(nil), data...), nil
}

func (b *MemoryBackend) Write(key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.docs[key] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.docs))
	for k := range b.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *MemoryBackend) Close() error { return nil }
