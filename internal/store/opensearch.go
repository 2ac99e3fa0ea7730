package store

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2"

	"github.com/caseflow-systems/caseflow/internal/executor"
)

// OpenSearchConfig holds OpenSearch connection settings.
type OpenSearchConfig struct {
	URL         string
	Username    string
	Password    string
	Insecure    bool
	IndexPrefix string
	PoolSize    int
}

// OpenSearchStore implements Store against one index per collection. The
// client's calls are blocking network round-trips, so every operation is
// dispatched onto a bounded worker pool; callers see the same asynchronous
// behavior as the PostgreSQL backend.
type OpenSearchStore struct {
	client *opensearch.Client
	prefix string
	pool   *executor.Pool
}

// NewOpenSearchStore connects to OpenSearch, verifies the cluster is
// reachable, and creates the per-collection indices if absent.
func NewOpenSearchStore(ctx context.Context, cfg OpenSearchConfig) (*OpenSearchStore, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.Insecure,
			},
		},
	}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: httpClient.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create opensearch client: %w", err)
	}

	info, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("ping opensearch: %w", err)
	}
	defer info.Body.Close()
	if info.IsError() {
		return nil, fmt.Errorf("opensearch returned error: %s", info.Status())
	}

	pool, err := executor.New(cfg.PoolSize)
	if err != nil {
		return nil, err
	}

	s := &OpenSearchStore{client: client, prefix: cfg.IndexPrefix, pool: pool}
	if err := s.ensureIndices(ctx); err != nil {
		pool.Release()
		return nil, err
	}
	return s, nil
}

func (s *OpenSearchStore) indexName(collection string) string {
	return s.prefix + "-" + collection
}

// ensureIndices creates each collection index with its explicit mapping if
// it does not exist yet. The check-then-create is racy between processes;
// a duplicate-create rejection is treated as a no-op.
func (s *OpenSearchStore) ensureIndices(ctx context.Context) error {
	for _, collection := range Collections {
		if err := s.ensureIndex(ctx, collection); err != nil {
			return fmt.Errorf("ensure index for %s: %w", collection, err)
		}
	}
	return nil
}

func (s *OpenSearchStore) ensureIndex(ctx context.Context, collection string) error {
	name := s.indexName(collection)

	return s.pool.Do(func() error {
		exists, err := s.client.Indices.Exists(
			[]string{name},
			s.client.Indices.Exists.WithContext(ctx),
		)
		if err != nil {
			return err
		}
		exists.Body.Close()
		if exists.StatusCode == http.StatusOK {
			return nil
		}

		body, err := json.Marshal(indexMappings(collection))
		if err != nil {
			return err
		}

		res, err := s.client.Indices.Create(
			name,
			s.client.Indices.Create.WithBody(bytes.NewReader(body)),
			s.client.Indices.Create.WithContext(ctx),
		)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		if res.IsError() {
			payload, _ := io.ReadAll(res.Body)
			// Lost the create race to another process; the index is there.
			if strings.Contains(string(payload), "resource_already_exists_exception") {
				return nil
			}
			return fmt.Errorf("create index %s: %s - %s", name, res.Status(), string(payload))
		}
		return nil
	})
}

// Insert implements Store.
func (s *OpenSearchStore) Insert(ctx context.Context, collection, id string, doc map[string]any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	return s.pool.Do(func() error {
		res, err := s.client.Index(
			s.indexName(collection),
			bytes.NewReader(data),
			s.client.Index.WithDocumentID(id),
			s.client.Index.WithRefresh("true"),
			s.client.Index.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("index into %s: %w", collection, err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("index into %s: %s", collection, res.Status())
		}
		return nil
	})
}

// Get implements Store.
func (s *OpenSearchStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	var doc map[string]any

	err := s.pool.Do(func() error {
		res, err := s.client.Get(
			s.indexName(collection),
			id,
			s.client.Get.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("get from %s: %w", collection, err)
		}
		defer res.Body.Close()

		if res.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		if res.IsError() {
			return fmt.Errorf("get from %s: %s", collection, res.Status())
		}

		var envelope struct {
			Source map[string]any `json:"_source"`
		}
		if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
			return fmt.Errorf("decode get response: %w", err)
		}
		doc = envelope.Source
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Query implements Store.
func (s *OpenSearchStore) Query(ctx context.Context, collection string, opts Options) ([]map[string]any, error) {
	body := buildSearchBody(opts)
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	size := opts.Limit
	if size <= 0 {
		size = 1000
	}

	var docs []map[string]any
	err = s.pool.Do(func() error {
		res, err := s.client.Search(
			s.client.Search.WithContext(ctx),
			s.client.Search.WithIndex(s.indexName(collection)),
			s.client.Search.WithBody(bytes.NewReader(data)),
			s.client.Search.WithFrom(opts.Offset),
			s.client.Search.WithSize(size),
		)
		if err != nil {
			return fmt.Errorf("search %s: %w", collection, err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("search %s: %s", collection, res.String())
		}

		var result struct {
			Hits struct {
				Hits []struct {
					Source map[string]any `json:"_source"`
				} `json:"hits"`
			} `json:"hits"`
		}
		if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
			return fmt.Errorf("decode search response: %w", err)
		}

		docs = make([]map[string]any, 0, len(result.Hits.Hits))
		for _, hit := range result.Hits.Hits {
			docs = append(docs, hit.Source)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Update implements Store. Only the supplied fields are merged into the
// stored document.
func (s *OpenSearchStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	data, err := json.Marshal(map[string]any{"doc": partial})
	if err != nil {
		return fmt.Errorf("marshal partial document: %w", err)
	}

	return s.pool.Do(func() error {
		res, err := s.client.Update(
			s.indexName(collection),
			id,
			bytes.NewReader(data),
			s.client.Update.WithRefresh("true"),
			s.client.Update.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("update %s: %w", collection, err)
		}
		defer res.Body.Close()

		if res.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		if res.IsError() {
			return fmt.Errorf("update %s: %s", collection, res.Status())
		}
		return nil
	})
}

// Delete implements Store.
func (s *OpenSearchStore) Delete(ctx context.Context, collection, id string) error {
	return s.pool.Do(func() error {
		res, err := s.client.Delete(
			s.indexName(collection),
			id,
			s.client.Delete.WithRefresh("true"),
			s.client.Delete.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("delete from %s: %w", collection, err)
		}
		defer res.Body.Close()

		if res.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		if res.IsError() {
			return fmt.Errorf("delete from %s: %s", collection, res.Status())
		}
		return nil
	})
}

// Count implements Store.
func (s *OpenSearchStore) Count(ctx context.Context, collection string, filter Filter) (int, error) {
	body := map[string]any{"query": buildQuery(filter)}
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal count body: %w", err)
	}

	var count int
	err = s.pool.Do(func() error {
		res, err := s.client.Count(
			s.client.Count.WithContext(ctx),
			s.client.Count.WithIndex(s.indexName(collection)),
			s.client.Count.WithBody(bytes.NewReader(data)),
		)
		if err != nil {
			return fmt.Errorf("count %s: %w", collection, err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("count %s: %s", collection, res.String())
		}

		var result struct {
			Count int `json:"count"`
		}
		if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
			return fmt.Errorf("decode count response: %w", err)
		}
		count = result.Count
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ping implements Store.
func (s *OpenSearchStore) Ping(ctx context.Context) error {
	return s.pool.Do(func() error {
		res, err := s.client.Info(s.client.Info.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("ping opensearch: %w", err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("opensearch returned error: %s", res.Status())
		}
		return nil
	})
}

// Name implements Store.
func (s *OpenSearchStore) Name() string { return "opensearch" }

// Close implements Store.
func (s *OpenSearchStore) Close() { s.pool.Release() }

// buildSearchBody translates query options into OpenSearch DSL.
func buildSearchBody(opts Options) map[string]any {
	body := map[string]any{
		"query": buildQuery(opts.Filter),
	}
	if opts.SortField != "" {
		order := "asc"
		if opts.SortDesc {
			order = "desc"
		}
		body["sort"] = []any{
			map[string]any{
				opts.SortField: map[string]any{"order": order},
			},
		}
	}
	return body
}

// buildQuery translates a Filter into a bool query: term clauses are ANDed
// as filters; the free-text search becomes a should group requiring a
// multi-field relevance match on title/description or an exact tag term.
func buildQuery(f Filter) map[string]any {
	if f.Empty() {
		return map[string]any{"match_all": map[string]any{}}
	}

	boolQuery := map[string]any{}

	filter := []any{}
	for _, field := range sortedKeys(f.Terms) {
		filter = append(filter, map[string]any{
			"term": map[string]any{field: f.Terms[field]},
		})
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	if f.Search != "" {
		boolQuery["must"] = []any{
			map[string]any{
				"bool": map[string]any{
					"should": []any{
						map[string]any{
							"multi_match": map[string]any{
								"query":  f.Search,
								"fields": []string{"title", "description"},
							},
						},
						map[string]any{
							"term": map[string]any{"tags": f.Search},
						},
					},
					"minimum_should_match": 1,
				},
			},
		}
	}

	return map[string]any{"bool": boolQuery}
}
