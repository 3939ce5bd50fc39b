// Command inspect decodes one tabular file, runs schema inference, and
// prints the result without touching a database.
//
// This is the dry-run companion to ingestd: drop a file on the command line
// to see which table name, column names, and column types ingestion would
// use, plus the number of long-format records it would append.
//
// Output modes
//
//   - Default mode: a human-readable column summary on stdout.
//   - JSON mode (-json): a machine-readable description, convenient for
//     scripting and for diffing inference results across file revisions.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/chavan-arvind/files-utility/internal/decode"
	"github.com/chavan-arvind/files-utility/internal/infer"
	"github.com/chavan-arvind/files-utility/internal/reshape"
	"github.com/chavan-arvind/files-utility/internal/sanitize"
)

// columnInfo is the JSON shape for one inferred column.
type columnInfo struct {
	Name        string `json:"name"`
	StorageName string `json:"storage_name"`
	Kind        string `json:"kind"`
	Layout      string `json:"layout,omitempty"`
	Missing     int    `json:"missing"`
}

type fileInfo struct {
	File    string       `json:"file"`
	Table   string       `json:"table"`
	Rows    int          `json:"rows"`
	Records int          `json:"records"`
	Columns []columnInfo `json:"columns"`
}

func main() {
	var (
		flagJSON   = flag.Bool("json", false, "emit JSON instead of a text summary")
		flagPretty = flag.Bool("pretty", true, "pretty-print JSON output")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect [-json] <file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	raw, err := decode.Decode(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}

	table := infer.InferTable(raw)
	info := describe(path, table)

	if *flagJSON {
		enc := json.NewEncoder(os.Stdout)
		if *flagPretty {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(info); err != nil {
			fmt.Fprintf(os.Stderr, "inspect: encode: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printSummary(info)
}

func describe(path string, t *infer.Table) fileInfo {
	info := fileInfo{
		File:    path,
		Table:   sanitize.TableName(t.Name),
		Rows:    t.Rows(),
		Records: len(reshape.ToLong(t, path)),
	}
	for _, c := range t.Columns {
		missing := 0
		for _, v := range c.Values {
			if v.Missing {
				missing++
			}
		}
		info.Columns = append(info.Columns, columnInfo{
			Name:        c.Name,
			StorageName: c.StorageName,
			Kind:        c.Kind.String(),
			Layout:      c.Layout,
			Missing:     missing,
		})
	}
	return info
}

func printSummary(info fileInfo) {
	fmt.Printf("file:    %s\n", info.File)
	fmt.Printf("table:   %s\n", info.Table)
	fmt.Printf("rows:    %d\n", info.Rows)
	fmt.Printf("records: %d\n", info.Records)
	fmt.Printf("columns:\n")
	for _, c := range info.Columns {
		line := fmt.Sprintf("  %-30s %-10s", c.StorageName, c.Kind)
		if c.Layout != "" {
			line += " layout=" + c.Layout
		}
		if c.Missing > 0 {
			line += fmt.Sprintf(" missing=%d", c.Missing)
		}
		if c.Name != c.StorageName {
			line += fmt.Sprintf(" (from %q)", c.Name)
		}
		fmt.Println(line)
	}
}
