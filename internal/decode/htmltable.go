package decode

import (
	"errors"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// decodeHTML extracts the first <table> element from an HTML document. Header
// names come from the first row's <th> cells, or its <td> cells when the
// table carries no header markup.
func decodeHTML(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.New("no table element found")
	}

	var header []string
	var rows [][]string

	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("th, td")
		row := make([]string, 0, cells.Length())
		cells.Each(func(_ int, cell *goquery.Selection) {
			row = append(row, strings.TrimSpace(cell.Text()))
		})
		if len(row) == 0 {
			return
		}
		if header == nil {
			header = row
			return
		}
		rows = append(rows, row)
	})

	if len(header) == 0 {
		return nil, errors.New("table has no header row")
	}

	return &RawTable{
		Columns: header,
		Rows:    normalizeRows(len(header), rows),
	}, nil
}
