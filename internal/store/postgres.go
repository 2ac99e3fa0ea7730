package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on a single JSONB documents table.
// Non-blocking I/O is handled natively by the pgx connection pool, so calls
// go straight to the pool without a worker-pool hop.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and verifies the connection.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Insert implements Store.
func (s *PostgresStore) Insert(ctx context.Context, collection, id string, doc map[string]any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)`,
		collection, id, data,
	)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get from %s: %w", collection, err)
	}
	doc := map[string]any{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

// Query implements Store.
func (s *PostgresStore) Query(ctx context.Context, collection string, opts Options) ([]map[string]any, error) {
	where, args := buildWhere(collection, opts.Filter)

	query := `SELECT doc FROM documents ` + where
	if opts.SortField != "" {
		dir := "ASC"
		if opts.SortDesc {
			dir = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s", orderExpr(opts.SortField), dir)
	}
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []map[string]any{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc := map[string]any{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return docs, nil
}

// Update implements Store. The partial document is merged into the stored
// one with the JSONB concatenation operator, leaving unset fields untouched.
func (s *PostgresStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	data, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("marshal partial document: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET doc = doc || $3 WHERE collection = $1 AND id = $2`,
		collection, id, data,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count implements Store.
func (s *PostgresStore) Count(ctx context.Context, collection string, filter Filter) (int, error) {
	where, args := buildWhere(collection, filter)
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

// Ping implements Store.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Name implements Store.
func (s *PostgresStore) Name() string { return "postgres" }

// Close implements Store.
func (s *PostgresStore) Close() { s.pool.Close() }

// buildWhere translates a Filter into a WHERE clause over the JSONB doc
// column. Term predicates are ANDed; the free-text search adds an OR group
// matching title/description substrings or exact tag membership.
func buildWhere(collection string, f Filter) (string, []any) {
	clauses := []string{"collection = $1"}
	args := []any{collection}

	fields := sortedKeys(f.Terms)
	for _, field := range fields {
		args = append(args, f.Terms[field])
		clauses = append(clauses, fmt.Sprintf("doc->>%s = $%d", quoteLiteral(field), len(args)))
	}

	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		pattern := len(args)
		args = append(args, f.Search)
		tag := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(doc->>'title' ILIKE $%d OR doc->>'description' ILIKE $%d OR doc->'tags' ? $%d)",
			pattern, pattern, tag,
		))
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic clause order keeps queries stable across calls.
	sort.Strings(keys)
	return keys
}

// dateSortFields lists the fields sorted chronologically. RFC3339 strings
// compare wrong lexicographically when fractional and whole-second
// timestamps mix ('Z' sorts after '.'), so these are cast to timestamptz.
var dateSortFields = map[string]bool{
	"created_at":      true,
	"updated_at":      true,
	"closed_at":       true,
	"uploaded_at":     true,
	"acknowledged_at": true,
	"completed_at":    true,
}

func orderExpr(field string) string {
	if dateSortFields[field] {
		return fmt.Sprintf("(doc->>%s)::timestamptz", quoteLiteral(field))
	}
	return "doc->>" + quoteLiteral(field)
}

// quoteLiteral quotes a JSON field name for interpolation into the query
// text. Field names come from the service layer, never from user input.
func quoteLiteral(field string) string {
	return "'" + strings.ReplaceAll(field, "'", "''") + "'"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
