package postgres

import (
	"strings"
	"testing"

	"github.com/chavan-arvind/files-utility/internal/reshape"
)

// TestBuildInsertSQL pins the numbered-placeholder layout across rows.
func TestBuildInsertSQL(t *testing.T) {
	t.Parallel()

	recs := []reshape.LongRecord{
		{Source: "f.csv", Column: "a", Value: "1"},
		{Source: "f.csv", Column: "b", Missing: true},
		{Source: "f.csv", Column: "c", Value: "x"},
	}

	q, args := buildInsertSQL(recs)

	wantSQL := `INSERT INTO "all_data" ("source_file", "data_column", "data_value") ` +
		"VALUES ($1, $2, $3), ($4, $5, $6), ($7, $8, $9)"
	if q != wantSQL {
		t.Fatalf("sql=%q, want %q", q, wantSQL)
	}
	if len(args) != 9 {
		t.Fatalf("args=%d, want 9", len(args))
	}
	if args[5] != nil {
		t.Fatalf("args[5]=%v, want nil for missing value", args[5])
	}
	if args[8] != "x" {
		t.Fatalf("args[8]=%v, want %q", args[8], "x")
	}
}

// TestCreateTableSQL verifies the idempotent schema statement.
func TestCreateTableSQL(t *testing.T) {
	t.Parallel()

	q := createTableSQL()
	for _, want := range []string{
		`CREATE TABLE IF NOT EXISTS "all_data"`,
		"BIGSERIAL PRIMARY KEY",
		"source_file",
		"data_column",
		"data_value",
		"TIMESTAMPTZ NOT NULL DEFAULT now()",
	} {
		if !strings.Contains(q, want) {
			t.Fatalf("createTableSQL missing %q:\n%s", want, q)
		}
	}
}

// TestPGIdent verifies double-quote escaping.
func TestPGIdent(t *testing.T) {
	t.Parallel()

	if got := pgIdent("all_data"); got != `"all_data"` {
		t.Fatalf("pgIdent=%q", got)
	}
	if got := pgIdent(`we"ird`); got != `"we""ird"` {
		t.Fatalf("pgIdent=%q", got)
	}
}
