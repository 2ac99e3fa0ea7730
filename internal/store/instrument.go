package store

import (
	"context"
	"time"

	"github.com/caseflow-systems/caseflow/internal/metrics"
)

// Instrument wraps a Store so every operation records its duration and any
// error under the backend's name.
func Instrument(s Store) Store {
	return &instrumentedStore{next: s}
}

type instrumentedStore struct {
	next Store
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	backend := s.next.Name()
	metrics.StorageDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
	if err != nil && err != ErrNotFound {
		metrics.StorageErrors.WithLabelValues(backend, op).Inc()
	}
}

func (s *instrumentedStore) Insert(ctx context.Context, collection, id string, doc map[string]any) error {
	start := time.Now()
	err := s.next.Insert(ctx, collection, id, doc)
	s.observe("insert", start, err)
	return err
}

func (s *instrumentedStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	start := time.Now()
	doc, err := s.next.Get(ctx, collection, id)
	s.observe("get", start, err)
	return doc, err
}

func (s *instrumentedStore) Query(ctx context.Context, collection string, opts Options) ([]map[string]any, error) {
	start := time.Now()
	docs, err := s.next.Query(ctx, collection, opts)
	s.observe("query", start, err)
	return docs, err
}

func (s *instrumentedStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	start := time.Now()
	err := s.next.Update(ctx, collection, id, partial)
	s.observe("update", start, err)
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, collection, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, collection, id)
	s.observe("delete", start, err)
	return err
}

func (s *instrumentedStore) Count(ctx context.Context, collection string, filter Filter) (int, error) {
	start := time.Now()
	n, err := s.next.Count(ctx, collection, filter)
	s.observe("count", start, err)
	return n, err
}

func (s *instrumentedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *instrumentedStore) Name() string { return s.next.Name() }

func (s *instrumentedStore) Close() { s.next.Close() }
