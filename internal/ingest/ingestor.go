// Package ingest turns tabular files into long-format records and appends
// them to a storage sink. The Ingestor handles one file end to end; the
// Watcher drives it from directory scans.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chavan-arvind/files-utility/internal/decode"
	"github.com/chavan-arvind/files-utility/internal/infer"
	"github.com/chavan-arvind/files-utility/internal/metrics"
	"github.com/chavan-arvind/files-utility/internal/reshape"
	"github.com/chavan-arvind/files-utility/internal/sanitize"
	"github.com/chavan-arvind/files-utility/internal/storage"
)

// Ingestor processes single files: decode, infer column types, reshape to
// long format, append to the sink.
type Ingestor struct {
	sink  storage.Sink
	log   *slog.Logger
	batch int
}

// NewIngestor wires an Ingestor to a sink. batchSize is used only to report
// batch counts; the sink performs the actual batching. A batchSize <= 0
// falls back to storage.DefaultBatchSize.
func NewIngestor(sink storage.Sink, log *slog.Logger, batchSize int) *Ingestor {
	if log == nil {
		log = slog.Default()
	}
	if batchSize <= 0 {
		batchSize = storage.DefaultBatchSize
	}
	return &Ingestor{sink: sink, log: log, batch: batchSize}
}

// ProcessFile ingests one file and returns the number of records appended.
//
// Every cell of the source table becomes one record, missing cells included
// (they land as SQL NULL). Duplicate content across runs is appended again;
// the sink table carries no uniqueness constraint.
func (ing *Ingestor) ProcessFile(ctx context.Context, path string) (int, error) {
	runID := uuid.NewString()
	source := filepath.Base(path)
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	start := time.Now()

	log := ing.log.With("run_id", runID, "file", source)
	log.Info("processing file", "format", format)

	n, err := ing.process(ctx, path, source)

	status := "ok"
	if err != nil {
		status = "error"
	}
	labels := metrics.Labels{"format": format, "status": status}
	metrics.IncCounter(metrics.FilesTotal, 1, labels)
	metrics.ObserveHistogram(metrics.FileDurationSeconds, time.Since(start).Seconds(), labels)

	if err != nil {
		return 0, fmt.Errorf("process %s: %w", source, err)
	}

	metrics.IncCounter(metrics.RecordsTotal, float64(n), metrics.Labels{"format": format})
	metrics.IncCounter(metrics.BatchesTotal, float64(batchCount(n, ing.batch)), nil)

	log.Info("file ingested",
		"records", n,
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return n, nil
}

func (ing *Ingestor) process(ctx context.Context, path, source string) (int, error) {
	raw, err := decode.Decode(path)
	if err != nil {
		return 0, err
	}

	table := infer.InferTable(raw)
	log := ing.log.With("file", source)
	log.Debug("schema inferred",
		"table", sanitize.TableName(table.Name),
		"columns", len(table.Columns),
		"rows", table.Rows(),
	)

	recs := reshape.ToLong(table, source)
	if len(recs) == 0 {
		log.Info("no data rows, nothing to append")
		return 0, nil
	}

	if err := ing.sink.Append(ctx, recs); err != nil {
		return 0, err
	}
	return len(recs), nil
}

func batchCount(n, batch int) int {
	if n <= 0 || batch <= 0 {
		return 0
	}
	return (n + batch - 1) / batch
}
