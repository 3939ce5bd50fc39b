package decode

import (
	"errors"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// decodeXLSX reads the first sheet of an OOXML workbook. The first row is the
// header; excelize trims trailing empty cells per row, so widths are
// normalized afterwards.
func decodeXLSX(path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return tableFromGrid(rows)
}

// decodeXLS reads the first sheet of a legacy binary workbook.
func decodeXLS(path string) (*RawTable, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}

	grid := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		grid = append(grid, cells)
	}
	return tableFromGrid(grid)
}

// tableFromGrid converts a sheet grid into a RawTable, treating the first row
// as the header.
func tableFromGrid(grid [][]string) (*RawTable, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, errors.New("sheet has no header row")
	}

	header := grid[0]
	trimCells(header)

	rows := make([][]string, 0, len(grid)-1)
	for _, r := range grid[1:] {
		trimCells(r)
		rows = append(rows, r)
	}

	return &RawTable{
		Columns: header,
		Rows:    normalizeRows(len(header), rows),
	}, nil
}
