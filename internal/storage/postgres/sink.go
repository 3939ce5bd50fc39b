// Package postgres implements the generic record sink on PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chavan-arvind/files-utility/internal/reshape"
	"github.com/chavan-arvind/files-utility/internal/storage"
)

// Sink implements storage.Sink for Postgres on a pgx connection pool.
type Sink struct {
	pool  *pgxpool.Pool
	batch int
}

func init() {
	storage.Register("postgres", New)
}

// New creates a pooled Postgres sink and probes connectivity.
func New(ctx context.Context, cfg storage.Config) (storage.Sink, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Sink{pool: pool, batch: cfg.BatchSize}, nil
}

func (s *Sink) Close() { s.pool.Close() }

func (s *Sink) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Sink) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTableSQL()); err != nil {
		return fmt.Errorf("create table %s: %w", storage.TableName, err)
	}
	return nil
}

func (s *Sink) Append(ctx context.Context, recs []reshape.LongRecord) error {
	for _, batch := range storage.Batches(recs, s.batch) {
		q, args := buildInsertSQL(batch)
		if _, err := s.pool.Exec(ctx, q, args...); err != nil {
			return fmt.Errorf("append %d records: %w", len(batch), err)
		}
	}
	return nil
}

func createTableSQL() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  id BIGSERIAL PRIMARY KEY,
  source_file VARCHAR(255) NOT NULL,
  data_column VARCHAR(255) NOT NULL,
  data_value TEXT,
  inserted_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, pgIdent(storage.TableName))
}

// buildInsertSQL constructs one multi-row INSERT with numbered placeholders.
// Pure and deterministic so placeholder numbering is unit-testable without a
// database.
func buildInsertSQL(recs []reshape.LongRecord) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(pgIdent(storage.TableName))
	b.WriteString(" (")
	for i, c := range storage.InsertColumns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pgIdent(c))
	}
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(recs)*len(storage.InsertColumns))
	n := 1
	for i, r := range recs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := range storage.InsertColumns {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteString(")")
		args = append(args, storage.RecordArgs(r)...)
	}
	return b.String(), args
}

func pgIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
