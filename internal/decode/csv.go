package decode

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeCSV reads a whole delimited file. The reader is intentionally
// tolerant: lazy quotes are accepted and records that cannot be parsed at all
// are skipped rather than failing the file.
func decodeCSV(path string) (*RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data, err = toUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty file")
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = ','
	r.FieldsPerRecord = -1 // widths normalized below
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	trimCells(header)
	header[0] = strings.TrimPrefix(header[0], "\uFEFF")

	rows := make([][]string, 0, 256)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Best-effort: a single malformed record must not fail the file.
			continue
		}
		trimCells(rec)
		rows = append(rows, rec)
	}

	return &RawTable{
		Columns: header,
		Rows:    normalizeRows(len(header), rows),
	}, nil
}

// toUTF8 converts file bytes to UTF-8. UTF-16 inputs are detected by BOM;
// anything that is not valid UTF-8 afterwards is treated as Windows-1252,
// the overwhelmingly common legacy encoding for spreadsheet exports.
func toUTF8(data []byte) ([]byte, error) {
	if len(data) >= 2 {
		isUTF16LE := data[0] == 0xFF && data[1] == 0xFE
		isUTF16BE := data[0] == 0xFE && data[1] == 0xFF
		if isUTF16LE || isUTF16BE {
			dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
			out, _, err := transform.Bytes(dec, data)
			return out, err
		}
	}
	if utf8.Valid(data) {
		return data, nil
	}
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	return out, err
}
