// Package mysql implements the generic record sink on MySQL, the default
// target store.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/chavan-arvind/files-utility/internal/reshape"
	"github.com/chavan-arvind/files-utility/internal/storage"
)

// Sink implements storage.Sink for MySQL.
type Sink struct {
	db    *sql.DB
	batch int
}

func init() {
	storage.Register("mysql", New)
}

// New opens and probes a MySQL connection. DSN format follows
// go-sql-driver/mysql, e.g. "user:pass@tcp(localhost:3306)/ingest".
func New(ctx context.Context, cfg storage.Config) (storage.Sink, error) {
	db, err := sql.Open("mysql", cfg.DSN)
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

// EnsureSchema creates the generic record table if absent. Idempotent; safe
// to run at every startup.
func (s *Sink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL()); err != nil {
		return fmt.Errorf("create table %s: %w", storage.TableName, err)
	}
	return nil
}

// Append inserts records in bounded multi-row statements. The table carries
// no uniqueness constraint, so re-appends duplicate rather than fail.
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
  id INT PRIMARY KEY AUTO_INCREMENT,
  source_file VARCHAR(255) NOT NULL,
  data_column VARCHAR(255) NOT NULL,
  data_value TEXT,
  inserted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`, sqlIdent(storage.TableName))
}

// buildInsertSQL constructs one multi-row INSERT and its args. Pure, so
// placeholder layout is unit-testable without a database.
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
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}
