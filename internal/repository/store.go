package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Document keys of the persisted layout
const (
	KeyUsers       = "users"
	KeyAuctions    = "auctions"
	KeyCurrentUser = "currentUser"
)

// Store is the key-value document store shared by all repositories.
// Values are JSON documents; Load reports false when the key is absent.
type Store interface {
	Load(ctx context.Context, key string, dst any) (bool, error)
	Save(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// MemoryStore is a concurrency-safe in-memory implementation of Store.
// Documents are kept encoded so callers never share memory with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte // key: document name -> value: encoded document
}

// NewMemoryStore creates a new in-memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string][]byte),
	}
}

// Load decodes the document stored under key into dst
func (s *MemoryStore) Load(ctx context.Context, key string, dst any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.docs[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("memory store: decode %s: %w", key, err)
	}
	return true, nil
}

// Save encodes value and stores it under key, replacing any previous document
func (s *MemoryStore) Save(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("memory store: encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = data
	return nil
}

// Delete removes the document stored under key
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
	return nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}
