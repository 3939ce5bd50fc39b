// Package reshape flattens typed wide tables into long-format records.
//
// The long format is what lets files with arbitrary, unpredictable column
// sets all land in one fixed-shape sink table: every cell becomes one
// (source, column, value) record, so the sink never needs a per-file schema
// migration.
package reshape

import "github.com/chavan-arvind/files-utility/internal/infer"

// LongRecord is one cell of a wide table in long form. Records are
// independent; they may be appended individually or batched.
type LongRecord struct {
	// Source identifies the originating file; constant across one table.
	Source string
	// Column is the cell's sanitized column name.
	Column string
	// Value is the stringified typed value. Meaningless when Missing is set.
	Value string
	// Missing marks a cell with no value. Missing cells are still emitted so
	// row and column traceability survives the reshape; the sink stores them
	// as NULL.
	Missing bool
}

// ToLong emits one record per cell of the table, row by row in the table's
// column order. The ordering is deterministic: records r*C+c correspond to
// row r, column c of the input for a table with C columns.
func ToLong(t *infer.Table, source string) []LongRecord {
	rows := t.Rows()
	out := make([]LongRecord, 0, rows*len(t.Columns))
	for r := 0; r < rows; r++ {
		for c := range t.Columns {
			col := &t.Columns[c]
			out = append(out, LongRecord{
				Source:  source,
				Column:  col.StorageName,
				Value:   col.String(r),
				Missing: col.Values[r].Missing,
			})
		}
	}
	return out
}
