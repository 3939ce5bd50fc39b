// Package sqlite implements the generic record sink on SQLite.
//
// SQLite stores the inserted_at column with TEXT affinity; the
// CURRENT_TIMESTAMP default produces "2006-01-02 15:04:05" strings, which is
// acceptable for an append-only audit column.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/chavan-arvind/files-utility/internal/reshape"
	"github.com/chavan-arvind/files-utility/internal/storage"
)

// Sink implements storage.Sink for SQLite.
type Sink struct {
	db    *sql.DB
	batch int
}

func init() {
	storage.Register("sqlite", New)
}

// New opens and probes a SQLite database. DSN examples:
// "file:ingest.db?cache=shared" or ":memory:" for tests.
func New(ctx context.Context, cfg storage.Config) (storage.Sink, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Sink{db: db, batch: cfg.BatchSize}, nil
}

func (s *Sink) Close() { _ = s.db.Close() }

func (s *Sink) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Sink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL()); err != nil {
		return fmt.Errorf("create table %s: %w", storage.TableName, err)
	}
	return nil
}

func (s *Sink) Append(ctx context.Context, recs []reshape.LongRecord) error {
	for _, batch := range storage.Batches(recs, s.batch) {
		q, args := buildInsertSQL(batch)
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("append %d records: %w", len(batch), err)
		}
	}
	return nil
}

func createTableSQL() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  source_file TEXT NOT NULL,
  data_column TEXT NOT NULL,
  data_value TEXT,
  inserted_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, sqlIdent(storage.TableName))
}

func buildInsertSQL(recs []reshape.LongRecord) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(sqlIdent(storage.TableName))
	b.WriteString(" (")
	for i, c := range storage.InsertColumns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sqlIdent(c))
	}
	b.WriteString(") VALUES ")

	placeholders := "(" + strings.TrimRight(strings.Repeat("?,", len(storage.InsertColumns)), ",") + ")"
	args := make([]any, 0, len(recs)*len(storage.InsertColumns))
	for i, r := range recs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
		args = append(args, storage.RecordArgs(r)...)
	}
	return b.String(), args
}

func sqlIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
