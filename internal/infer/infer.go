// Package infer implements whole-column type inference over raw string
// tables.
//
// Inference is best-effort and never fails: each strategy (temporal, numeric,
// boolean) either succeeds for the entire column or is abandoned in favor of
// the next, and the final fallback keeps the column as text. Strategies are
// plain predicate+converter functions returning (Column, bool) rather than
// error values, so there is no exception-driven control flow to reason about.
//
// The strict whole-column rule exists because partially coerced temporal or
// numeric columns would silently corrupt values. The boolean strategy is the
// deliberate exception: it commits on a >80% match and drops the remainder to
// missing, because boolean literals are too ambiguous across sources for a
// strict rule to ever fire.
package infer

import (
	"strconv"
	"strings"
	"time"

	"github.com/chavan-arvind/files-utility/internal/decode"
	"github.com/chavan-arvind/files-utility/internal/sanitize"
)

// Kind tags the single inferred type shared by all non-missing values of a
// column.
type Kind int

const (
	Text Kind = iota
	Temporal
	Integer
	Float
	Boolean
)

func (k Kind) String() string {
	switch k {
	case Temporal:
		return "temporal"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	default:
		return "text"
	}
}

// Value is one typed cell. Only the field matching the column's Kind is
// meaningful. Missing values carry no payload.
type Value struct {
	Missing bool

	Time  time.Time
	Int   int64
	Float float64
	Bool  bool
	Text  string
}

// Column is a typed column: a display name, its sanitized storage name, and
// values that all share one inferred kind.
type Column struct {
	Name        string
	StorageName string
	Kind        Kind
	Values      []Value

	// Layout is the majority time layout observed while parsing a Temporal
	// column. Empty for other kinds.
	Layout string
}

// Table is an ordered sequence of typed columns sharing a row count. It is
// created once per source file and never mutated afterwards.
type Table struct {
	Name    string
	Columns []Column
}

// Rows returns the table's uniform row count.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// boolThreshold is the fraction of cells that must match a boolean literal
// before the boolean strategy commits. Strictly greater-than.
const boolThreshold = 0.8

// InferTable runs whole-column inference over every column of a raw table.
func InferTable(raw *decode.RawTable) *Table {
	t := &Table{Name: raw.Name, Columns: make([]Column, 0, len(raw.Columns))}
	cells := make([]string, len(raw.Rows))
	for i, name := range raw.Columns {
		for j, row := range raw.Rows {
			cells[j] = row[i]
		}
		t.Columns = append(t.Columns, InferColumn(name, cells))
	}
	return t
}

// InferColumn determines the best-fit kind for a column of raw cells,
// attempting temporal, numeric, and boolean strategies in that fixed order.
// The first strategy that succeeds for the whole column wins; otherwise the
// column stays text. Empty cells are missing and never veto a strict
// strategy, but a column with no non-missing evidence stays text: no strategy
// can fully succeed on an empty set.
func InferColumn(name string, cells []string) Column {
	col := Column{
		Name:        strings.TrimSpace(name),
		StorageName: sanitize.ColumnName(strings.TrimSpace(name)),
	}

	if c, ok := tryTemporal(cells); ok {
		col.Kind, col.Values, col.Layout = Temporal, c.values, c.layout
		return col
	}
	if kind, vals, ok := tryNumeric(cells); ok {
		col.Kind, col.Values = kind, vals
		return col
	}
	if vals, ok := tryBoolean(cells); ok {
		col.Kind, col.Values = Boolean, vals
		return col
	}

	col.Kind = Text
	col.Values = make([]Value, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			col.Values[i] = Value{Missing: true}
			continue
		}
		col.Values[i] = Value{Text: c}
	}
	return col
}

type temporalColumn struct {
	values []Value
	layout string
}

// tryTemporal parses every non-missing cell as a date or timestamp. It fails
// as soon as one cell does not parse, or when the column has no non-missing
// cells at all.
func tryTemporal(cells []string) (temporalColumn, bool) {
	out := temporalColumn{values: make([]Value, len(cells))}
	layoutCounts := map[string]int{}
	seen := false

	for i, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			out.values[i] = Value{Missing: true}
			continue
		}
		ts, layout, ok := parseTemporal(c)
		if !ok {
			return temporalColumn{}, false
		}
		seen = true
		layoutCounts[layout]++
		out.values[i] = Value{Time: ts}
	}
	if !seen {
		return temporalColumn{}, false
	}

	best, bestN := "", 0
	for lay, n := range layoutCounts {
		if n > bestN {
			best, bestN = lay, n
		}
	}
	out.layout = best
	return out, true
}

// tryNumeric parses every non-missing cell as an integer, falling back to
// float when any cell carries a fractional or non-integer numeric literal.
// Fails when any cell is not numeric at all, or when there is no evidence.
func tryNumeric(cells []string) (Kind, []Value, bool) {
	vals := make([]Value, len(cells))
	allInt := true
	seen := false

	for i, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			vals[i] = Value{Missing: true}
			continue
		}
		seen = true

		if allInt {
			if n, err := strconv.ParseInt(c, 10, 64); err == nil {
				vals[i] = Value{Int: n}
				continue
			}
			allInt = false
			// Re-parse everything before i as float.
			for j := 0; j < i; j++ {
				if !vals[j].Missing {
					vals[j] = Value{Float: float64(vals[j].Int)}
				}
			}
		}
		f, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return Text, nil, false
		}
		vals[i] = Value{Float: f}
	}
	if !seen {
		return Text, nil, false
	}
	if allInt {
		return Integer, vals, true
	}
	return Float, vals, true
}

// boolLiterals is the exact, case-sensitive literal set the boolean heuristic
// recognizes. "1" and "0" never reach this strategy in practice because the
// numeric strategy claims all-numeric columns first; they participate in
// mixed columns such as {"True","0"}.
var boolLiterals = map[string]bool{
	"true":  true,
	"false": false,
	"True":  true,
	"False": false,
	"1":     true,
	"0":     false,
}

// tryBoolean commits when strictly more than 80% of the column's cells match
// a recognized boolean literal. Recognized cells map to booleans; everything
// else, including previously non-missing text, drops to missing. The drop is
// an accepted lossy policy, not a bug.
func tryBoolean(cells []string) ([]Value, bool) {
	if len(cells) == 0 {
		return nil, false
	}
	matched := 0
	vals := make([]Value, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		b, ok := boolLiterals[c]
		if !ok {
			vals[i] = Value{Missing: true}
			continue
		}
		matched++
		vals[i] = Value{Bool: b}
	}
	if float64(matched)/float64(len(cells)) <= boolThreshold {
		return nil, false
	}
	return vals, true
}

// String renders a typed value back to its canonical string form. Missing
// values render as the empty string; the sink maps them to NULL.
//
// The forms are chosen so that re-inferring a stringified column yields the
// same kind: floats always carry a fractional or exponent marker, temporals
// use a parseable layout, booleans use the lowercase literals.
func (c *Column) String(i int) string {
	v := c.Values[i]
	if v.Missing {
		return ""
	}
	switch c.Kind {
	case Temporal:
		layout := c.Layout
		if layout == "" {
			layout = time.RFC3339
		}
		return v.Time.Format(layout)
	case Integer:
		return strconv.FormatInt(v.Int, 10)
	case Float:
		return formatFloat(v.Float)
	case Boolean:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Text
	}
}

// formatFloat renders a float so it can never be mistaken for an integer
// literal on re-parse.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEI") && !strings.Contains(s, "NaN") {
		s += ".0"
	}
	return s
}

// dateLayouts and timestampLayouts are the accepted temporal forms, most
// specific first within each group. Date-only layouts are tried before
// timestamps because bare dates are far more common in tabular exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"02/01/2006",
	"01/02/2006",
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"02.01.2006 15:04:05",
}

func parseTemporal(s string) (time.Time, string, bool) {
	for _, lay := range dateLayouts {
		if t, err := time.Parse(lay, s); err == nil {
			return t, lay, true
		}
	}
	for _, lay := range timestampLayouts {
		if t, err := time.Parse(lay, s); err == nil {
			return t, lay, true
		}
	}
	return time.Time{}, "", false
}
