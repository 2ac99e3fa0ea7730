package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is a mutex-guarded in-memory Store with the same external
// semantics as the real backends. It backs service and handler tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]map[string]any // collection -> id -> doc
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	data := make(map[string]map[string]map[string]any, len(Collections))
	for _, c := range Collections {
		data[c] = map[string]map[string]any{}
	}
	return &MemoryStore{data: data}
}

// collection lazily creates the bucket for name. Callers must hold the
// write lock; read paths index s.data directly so an unknown collection
// never mutates the map under an RLock.
func (s *MemoryStore) collection(name string) map[string]map[string]any {
	if _, ok := s.data[name]; !ok {
		s.data[name] = map[string]map[string]any{}
	}
	return s.data[name]
}

// Insert implements Store.
func (s *MemoryStore) Insert(_ context.Context, collection, id string, doc map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(collection)[id] = copyDoc(doc)
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, collection, id string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.data[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDoc(doc), nil
}

// Query implements Store.
func (s *MemoryStore) Query(_ context.Context, collection string, opts Options) ([]map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []map[string]any{}
	for _, doc := range s.data[collection] {
		if matches(doc, opts.Filter) {
			matched = append(matched, copyDoc(doc))
		}
	}

	if opts.SortField != "" {
		field, desc := opts.SortField, opts.SortDesc
		sort.SliceStable(matched, func(i, j int) bool {
			less := lessValue(matched[i][field], matched[j][field])
			if desc {
				return !less && !equalValue(matched[i][field], matched[j][field])
			}
			return less
		})
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return []map[string]any{}, nil
		}
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

// Update implements Store.
func (s *MemoryStore) Update(_ context.Context, collection, id string, partial map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.collection(collection)[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range copyDoc(partial) {
		doc[k] = v
	}
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collection(collection)[id]; !ok {
		return ErrNotFound
	}
	delete(s.collection(collection), id)
	return nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context, collection string, filter Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, doc := range s.data[collection] {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

// Ping implements Store.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Name implements Store.
func (s *MemoryStore) Name() string { return "memory" }

// Close implements Store.
func (s *MemoryStore) Close() {}

func matches(doc map[string]any, f Filter) bool {
	for field, want := range f.Terms {
		got, _ := doc[field].(string)
		if got != want {
			return false
		}
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		title, _ := doc["title"].(string)
		description, _ := doc["description"].(string)
		if strings.Contains(strings.ToLower(title), needle) ||
			strings.Contains(strings.ToLower(description), needle) {
			return true
		}
		if tags, ok := doc["tags"].([]any); ok {
			for _, t := range tags {
				if tag, ok := t.(string); ok && tag == f.Search {
					return true
				}
			}
		}
		return false
	}
	return true
}

func lessValue(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return av < bv
	case float64:
		bv, _ := b.(float64)
		return av < bv
	}
	return false
}

func equalValue(a, b any) bool {
	return !lessValue(a, b) && !lessValue(b, a)
}

func copyDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		switch vv := v.(type) {
		case map[string]any:
			out[k] = copyDoc(vv)
		case []any:
			cp := make([]any, len(vv))
			copy(cp, vv)
			out[k] = cp
		default:
			out[k] = v
		}
	}
	return out
}
