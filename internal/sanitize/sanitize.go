// Package sanitize converts arbitrary source strings (filenames, column
// headers) into identifiers that are safe to use as schema object names in
// the target store.
//
// All functions are pure and deterministic. Two distinct inputs may sanitize
// to the same identifier; collisions are not detected here (or anywhere else
// in the pipeline) and are an accepted gap.
package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// TablePrefix is prepended to every table identifier so the result can
	// never collide with a reserved or purely numeric name.
	TablePrefix = "t_"

	// tableMaxLen leaves room for TablePrefix under the store's 64-char limit.
	tableMaxLen = 63

	// columnMaxLen is the store's column identifier limit.
	columnMaxLen = 64

	// defaultTable is substituted when a name sanitizes to nothing.
	defaultTable = "table"

	// columnPrefix is prepended when a column name does not start with a letter.
	columnPrefix = "column_"
)

// TableName sanitizes a source name (typically a filename without extension)
// into a storage-safe table identifier.
//
// Policy, in order:
//   - every character that is not a word character is removed
//   - a leading run of digits is removed
//   - an empty result is replaced with a default token
//   - the result is truncated to 63 characters
//   - the fixed "t_" prefix is prepended
//
// Already-valid names still receive the prefix. That changes valid names on
// purpose: the prefix is what guarantees no collision with reserved or
// numeric-only identifiers.
func TableName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if isWord(r) {
			b.WriteRune(r)
		}
	}
	s := strings.TrimLeftFunc(b.String(), unicode.IsDigit)
	if s == "" {
		s = defaultTable
	}
	return TablePrefix + truncate(s, tableMaxLen)
}

// ColumnName sanitizes a column header into a storage-safe column identifier.
//
// Unlike TableName, invalid characters are replaced with underscores rather
// than removed, so the sanitized name keeps a positional correspondence with
// the original header in error messages.
func ColumnName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if isWord(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	s := b.String()

	first, _ := utf8.DecodeRuneInString(s)
	if s == "" || !unicode.IsLetter(first) {
		s = columnPrefix + s
	}
	return truncate(s, columnMaxLen)
}

// isWord reports whether r is a word character: a letter, a digit, or an
// underscore.
func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// truncate enforces identifier length limits while preserving UTF-8 validity.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	b := []byte(s)
	cut := maxLen
	for cut > 0 && !utf8.Valid(b[:cut]) {
		cut--
	}
	if cut <= 0 {
		return s[:maxLen]
	}
	return string(b[:cut])
}
