// Package store provides a uniform document storage interface with two
// interchangeable backends: a PostgreSQL document store and an OpenSearch
// index store. The backend is selected once at process start and never
// mixed within a running process.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection names used by the service layer.
const (
	CollectionCases    = "cases"
	CollectionComments = "comments"
	CollectionFiles    = "files"
	CollectionUsers    = "users"
	CollectionAlerts   = "alerts"
)

// Collections lists every collection the service persists, in the order
// indices and tables are bootstrapped.
var Collections = []string{
	CollectionCases,
	CollectionComments,
	CollectionFiles,
	CollectionUsers,
	CollectionAlerts,
}

// ErrNotFound is returned by Get, Update and Delete when no record with the
// given id exists in the collection.
var ErrNotFound = errors.New("record not found")

// Filter selects records within a collection. Terms are exact field matches
// ANDed together. Search, when set, additionally requires a case-insensitive
// substring match on title or description, or exact membership in the tags
// set (OR semantics across those three fields).
type Filter struct {
	Terms  map[string]string
	Search string
}

// Empty reports whether the filter matches every record.
func (f Filter) Empty() bool {
	return len(f.Terms) == 0 && f.Search == ""
}

// Options controls Query result ordering and pagination.
type Options struct {
	Filter    Filter
	SortField string
	SortDesc  bool
	Offset    int
	Limit     int
}

// Store is the uniform storage adapter. Records are JSON documents
// represented as map[string]any; both backends expose identical external
// semantics regardless of how the operation is executed internally.
type Store interface {
	// Insert adds a new record under id. Ids are process-generated and
	// never reused, so collisions are not expected.
	Insert(ctx context.Context, collection, id string, doc map[string]any) error

	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (map[string]any, error)

	// Query returns records matching the filter. An empty result is not an
	// error; an empty slice is returned.
	Query(ctx context.Context, collection string, opts Options) ([]map[string]any, error)

	// Update applies only the supplied fields to the record, leaving unset
	// fields untouched. Returns ErrNotFound if no record exists.
	Update(ctx context.Context, collection, id string, partial map[string]any) error

	// Delete removes the record, or returns ErrNotFound.
	Delete(ctx context.Context, collection, id string) error

	// Count returns the number of records matching the filter. An empty
	// filter counts the whole collection.
	Count(ctx context.Context, collection string, filter Filter) (int, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Name identifies the backend ("postgres" or "opensearch").
	Name() string

	// Close releases client connections and worker pools.
	Close()
}

// Encode converts a typed record into a JSON document.
func Encode(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	doc := map[string]any{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return doc, nil
}

// Decode converts a JSON document back into a typed record.
func Decode(doc map[string]any, v any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}
