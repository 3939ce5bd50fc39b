package sanitize

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"
)

// TestTableName verifies the table identifier policy end to end: non-word
// characters removed, leading digit runs stripped, default token for empty
// results, truncation, and the fixed prefix.
func TestTableName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name passes through with prefix", "sales", "t_sales"},
		{"spaces and digits stripped", "2024 Sales Report", "t_SalesReport"},
		{"leading digit run removed", "99bottles", "t_bottles"},
		{"underscores kept", "monthly_report", "t_monthly_report"},
		{"punctuation removed", "a-b.c/d", "t_abcd"},
		{"empty input uses default", "", "t_table"},
		{"all symbols uses default", "!!!???", "t_table"},
		{"all digits uses default", "20240101", "t_table"},
		{"already valid still prefixed", "t_existing", "t_t_existing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TableName(tt.in); got != tt.want {
				t.Fatalf("TableName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestTableNameProperties checks the invariants every table identifier must
// hold regardless of input: prefix present, only word characters, bounded
// length, never starting with a digit after the prefix is accounted for.
func TestTableNameProperties(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", " ", "normal", "2024 Sales Report.csv", "ünïcödé name",
		strings.Repeat("x", 300), strings.Repeat("9", 300),
		"\x00\x01\x02", "name with\ttabs\nand newlines",
	}

	for _, in := range inputs {
		got := TableName(in)
		if !strings.HasPrefix(got, TablePrefix) {
			t.Fatalf("TableName(%q) = %q: missing prefix", in, got)
		}
		body := strings.TrimPrefix(got, TablePrefix)
		if body == "" {
			t.Fatalf("TableName(%q) = %q: empty after prefix", in, got)
		}
		if len(body) > 63 {
			t.Fatalf("TableName(%q) = %q: body exceeds 63 bytes", in, got)
		}
		for _, r := range got {
			if !isWord(r) {
				t.Fatalf("TableName(%q) = %q: non-word rune %q", in, got, r)
			}
		}
	}
}

// TestColumnName verifies underscore replacement (not deletion), the letter
// prefix rule, and truncation.
func TestColumnName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "age", "age"},
		{"space becomes underscore", "first name", "first_name"},
		{"symbols become underscores", "price ($)", "price____"},
		{"leading digit gets prefix", "2nd_col", "column_2nd_col"},
		{"leading underscore gets prefix", "_hidden", "column__hidden"},
		{"empty gets prefix", "", "column_"},
		{"unicode letters kept", "approved?", "approved_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ColumnName(tt.in); got != tt.want {
				t.Fatalf("ColumnName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestColumnNameProperties checks the invariants every column identifier must
// hold: non-empty, starts with a letter, word characters only, length <= 64.
func TestColumnNameProperties(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", "42", "  ", "name", "weird!@#chars", "_x",
		strings.Repeat("abc ", 100), "\uFEFFheader",
	}

	for _, in := range inputs {
		got := ColumnName(in)
		if got == "" {
			t.Fatalf("ColumnName(%q) is empty", in)
		}
		first, _ := utf8.DecodeRuneInString(got)
		if !unicode.IsLetter(first) {
			t.Fatalf("ColumnName(%q) = %q: does not start with a letter", in, got)
		}
		if len(got) > 64 {
			t.Fatalf("ColumnName(%q) = %q: exceeds 64 bytes", in, got)
		}
		for _, r := range got {
			if !isWord(r) {
				t.Fatalf("ColumnName(%q) = %q: non-word rune %q", in, got, r)
			}
		}
	}
}

// TestColumnNamePreservesLength verifies replacement keeps one output rune per
// input rune for inputs that need no prefix, preserving positional
// correspondence in error messages.
func TestColumnNamePreservesLength(t *testing.T) {
	t.Parallel()

	in := "price ($) net/gross"
	got := ColumnName(in)
	if utf8.RuneCountInString(got) != utf8.RuneCountInString(in) {
		t.Fatalf("ColumnName(%q) = %q: rune count changed", in, got)
	}
}

// TestSanitizeDeterministic guards the pure-function contract.
func TestSanitizeDeterministic(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "2024 Sales Report", "ünïcödé", "a b c"} {
		if TableName(in) != TableName(in) {
			t.Fatalf("TableName(%q) not deterministic", in)
		}
		if ColumnName(in) != ColumnName(in) {
			t.Fatalf("ColumnName(%q) not deterministic", in)
		}
	}
}
