// Package postgres provides Postgres-backed persistence for crawled
// documents.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ozanunsal/hikmet-crawler/internal/etl"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// DocumentStoreConfig controls the Postgres connection pool used for
// document rows.
type DocumentStoreConfig struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type queryCloser interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// DocumentStore upserts documents into Postgres, keyed by (kind, source_id).
// Updates refresh every content column but never touch created_at, so the
// first-seen timestamp survives re-crawls.
type DocumentStore struct {
	pool  queryCloser
	table string
}

// NewDocumentStore creates a Postgres-backed DocumentStore using the
// provided config.
func NewDocumentStore(ctx context.Context, cfg DocumentStoreConfig) (*DocumentStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "documents"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &DocumentStore{pool: pool, table: table}, nil
}

// NewDocumentStoreWithPool constructs a store from an existing pool
// (primarily for testing).
func NewDocumentStoreWithPool(pool queryCloser, table string) (*DocumentStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "documents"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &DocumentStore{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *DocumentStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Upsert writes one document and reports whether the row was inserted rather
// than updated. The xmax system column is zero only for freshly inserted
// rows, which is how the insert/update distinction is read back.
func (s *DocumentStore) Upsert(ctx context.Context, doc etl.Document) (inserted bool, err error) {
	if s == nil || s.pool == nil {
		return false, fmt.Errorf("document store is not configured")
	}
	if doc.Kind == "" || doc.SourceID == "" {
		return false, fmt.Errorf("document requires kind and source_id")
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	kind,
	source_id,
	type,
	work_type,
	lang,
	author,
	title,
	text_full,
	summary,
	collection,
	publication_date,
	publication_year,
	source_name,
	source_url,
	license,
	hash,
	safe_mode,
	created_at,
	updated_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19
)
ON CONFLICT (kind, source_id) DO UPDATE SET
	type = EXCLUDED.type,
	work_type = EXCLUDED.work_type,
	lang = EXCLUDED.lang,
	author = EXCLUDED.author,
	title = EXCLUDED.title,
	text_full = EXCLUDED.text_full,
	summary = EXCLUDED.summary,
	collection = EXCLUDED.collection,
	publication_date = EXCLUDED.publication_date,
	publication_year = EXCLUDED.publication_year,
	source_name = EXCLUDED.source_name,
	source_url = EXCLUDED.source_url,
	license = EXCLUDED.license,
	hash = EXCLUDED.hash,
	safe_mode = EXCLUDED.safe_mode,
	updated_at = EXCLUDED.updated_at
RETURNING (xmax = 0)`, s.table)

	args := []any{
		string(doc.Kind),
		doc.SourceID,
		doc.Type,
		doc.WorkType,
		doc.Lang,
		doc.Author,
		doc.Title,
		doc.TextFull,
		doc.Summary,
		doc.Collection,
		nullableString(doc.Date),
		doc.Year,
		doc.Source.Name,
		doc.Source.URL,
		doc.License,
		doc.Hash,
		doc.SafeMode,
		doc.CreatedAt,
		doc.UpdatedAt,
	}
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&inserted); err != nil {
		return false, fmt.Errorf("upsert document %s/%s: %w", doc.Kind, doc.SourceID, err)
	}
	return inserted, nil
}

// StoreBatch persists the documents in order and returns the insert/update
// counts. The first failure aborts the batch; the counts cover the documents
// written before it.
func (s *DocumentStore) StoreBatch(ctx context.Context, docs []etl.Document) (etl.StoreResult, error) {
	var result etl.StoreResult
	for _, doc := range docs {
		inserted, err := s.Upsert(ctx, doc)
		if err != nil {
			return result, err
		}
		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
