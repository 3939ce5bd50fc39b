// Package storage defines the generic record sink and its backend registry.
//
// Every backend persists the same fixed-shape table; the long-format reshape
// upstream is what makes one table sufficient for arbitrarily-shaped source
// files. Backends register themselves from init() in their own packages,
// mirrored by the blank-import package storage/all.
package storage

import (
	"context"

	"github.com/chavan-arvind/files-utility/internal/reshape"
)

// TableName is the generic record table every backend creates.
const TableName = "all_data"

// InsertColumns are the writable columns of the generic table, in insert
// order. The identity and inserted_at columns are generated by the store.
var InsertColumns = []string{"source_file", "data_column", "data_value"}

// Config selects and parameterizes a backend.
type Config struct {
	// Kind is a registered backend kind: "mysql", "postgres", "sqlite", "mssql".
	Kind string
	// DSN is passed through to the backend driver; validation is
	// backend-specific.
	DSN string
	// BatchSize bounds how many records a single INSERT statement carries.
	// Zero selects DefaultBatchSize.
	BatchSize int
}

// DefaultBatchSize bounds multi-row INSERT statements when the config does
// not say otherwise.
const DefaultBatchSize = 500

// Sink is the storage contract the ingestion pipeline consumes.
//
// Append carries no uniqueness constraint: re-appending the same records is
// accepted by design (at-least-once ingestion with duplicate tolerance).
type Sink interface {
	// EnsureSchema idempotently creates the generic record table if absent.
	EnsureSchema(ctx context.Context) error

	// Append inserts records. Missing values are stored as NULL. Safe to call
	// repeatedly with the same records.
	Append(ctx context.Context, recs []reshape.LongRecord) error

	// Ping is a non-destructive connectivity probe.
	Ping(ctx context.Context) error

	// Close releases backend resources. Call once at shutdown.
	Close()
}

// Batches splits records into slices of at most size records. A size <= 0
// selects DefaultBatchSize. Shared by all backends so statement sizes stay
// bounded regardless of driver.
func Batches(recs []reshape.LongRecord, size int) [][]reshape.LongRecord {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]reshape.LongRecord
	for len(recs) > size {
		out = append(out, recs[:size])
		recs = recs[size:]
	}
	if len(recs) > 0 {
		out = append(out, recs)
	}
	return out
}

// RecordArgs flattens one record into driver args aligned with InsertColumns.
// Missing values become nil so the store receives NULL.
func RecordArgs(r reshape.LongRecord) []any {
	var value any
	if !r.Missing {
		value = r.Value
	}
	return []any{r.Source, r.Column, value}
}
