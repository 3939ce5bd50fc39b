// Package decode turns raw tabular files into wide, untyped string tables.
//
// Dispatch is purely by filename extension (case-insensitive): .csv is a
// delimited decode, .xlsx/.xls are spreadsheet decodes (first sheet only),
// and .html/.htm extract the first table element. Whole files are loaded into
// memory; there is no streaming path.
package decode

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat marks a filename extension the decoder does not
// recognize. Files failing with it must not be retried.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// DecodeError wraps a failure to decode the content of a recognized file
// (corrupt bytes, unreadable encoding, missing header row).
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode %s: %v", e.Path, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// RawTable is a wide, untyped table: ordered named columns over uniform-length
// rows. A missing cell is the empty string.
type RawTable struct {
	// Name is the source file's base name without extension.
	Name    string
	Columns []string
	Rows    [][]string
}

// Supported reports whether the decoder recognizes the filename's extension.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx", ".xls", ".html", ".htm":
		return true
	}
	return false
}

// Decode reads the file at path and produces its raw table. The header row
// becomes the column names. Returns ErrUnsupportedFormat for unrecognized
// extensions and *DecodeError for malformed content.
func Decode(path string) (*RawTable, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		t   *RawTable
		err error
	)
	switch ext {
	case ".csv":
		t, err = decodeCSV(path)
	case ".xlsx":
		t, err = decodeXLSX(path)
	case ".xls":
		t, err = decodeXLS(path)
	case ".html", ".htm":
		t, err = decodeHTML(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return t, nil
}

// normalizeRows forces every row to the header width: short rows are padded
// with missing cells, long rows are cut. This keeps the uniform row-length
// invariant without dropping data rows over trailing-cell quirks.
func normalizeRows(width int, rows [][]string) [][]string {
	out := rows[:0]
	for _, r := range rows {
		switch {
		case len(r) < width:
			padded := make([]string, width)
			copy(padded, r)
			r = padded
		case len(r) > width:
			r = r[:width]
		}
		out = append(out, r)
	}
	return out
}

// trimCells trims surrounding whitespace in place on every cell.
func trimCells(row []string) {
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}
}
