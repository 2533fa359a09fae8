package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store. A single mutex serializes all writes,
// which makes Transact genuinely atomic and keeps the backend usable from
// concurrent registers in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage
}

// NewMemoryStore creates an empty in-memory document store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]json.RawMessage)}
}

func (s *MemoryStore) Read(ctx context.Context, path string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.docs[path]
	if !ok {
		return nil, nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out, nil
}

func (s *MemoryStore) Write(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = raw
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, path string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make(map[string]any)
	if raw, ok := s.docs[path]; ok {
		if err := json.Unmarshal(raw, &merged); err != nil {
			return fmt.Errorf("update %s: existing value is not an object: %w", path, err)
		}
	}
	for k, v := range fields {
		merged[k] = v
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	s.docs[path] = raw
	return nil
}

func (s *MemoryStore) Push(ctx context.Context, collectionPath string, value any) (string, error) {
	id := uuid.New().String()
	if err := s.Write(ctx, Path(collectionPath, id), value); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MemoryStore) Remove(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Removing a path also removes everything nested under it.
	prefix := path + "/"
	for k := range s.docs {
		if k == path || strings.HasPrefix(k, prefix) {
			delete(s.docs, k)
		}
	}
	return nil
}

func (s *MemoryStore) List(ctx context.Context, collectionPath string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := collectionPath + "/"
	var out []Document
	for k, raw := range s.docs {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := k[len(prefix):]
		if strings.Contains(rest, "/") {
			continue // nested document, not a direct child
		}
		data := make(json.RawMessage, len(raw))
		copy(data, raw)
		out = append(out, Document{ID: rest, Data: data})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Transact(ctx context.Context, path string, fn func(current json.RawMessage) (any, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current json.RawMessage
	if raw, ok := s.docs[path]; ok {
		current = make(json.RawMessage, len(raw))
		copy(current, raw)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	s.docs[path] = raw
	return nil
}
