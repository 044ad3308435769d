// Package xlsimport reads orders from broker spreadsheets in the legacy Excel
// (.xls) format.
//
// The first sheet must look like the CSV import/export format: a header row
// naming the Date, Quantity, Symbol and Price columns, then one row per buy.
package xlsimport

import (
	"fmt"
	"strings"

	"github.com/etnz/tally"
	"github.com/extrame/xls"
)

// Sheet is the part of a worksheet Records reads.
type Sheet interface {
	// Rows returns the number of rows.
	Rows() int
	// Cells returns the cells of row i, nil when the row is empty.
	Cells(i int) []string
}

// Import reads the first sheet of the workbook at 'path' into a book.
func Import(path, currency string) (*tally.Book, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", path, err)
	}
	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, fmt.Errorf("%q has no sheet", path)
	}
	return tally.ImportRecords(Records(worksheet{ws}), currency)
}

// Records maps every row but the first to the names found in the first
// (header) row. Cells are trimmed, empty rows give empty records.
func Records(s Sheet) []map[string]string {
	if s.Rows() == 0 {
		return nil
	}
	header := s.Cells(0)
	records := make([]map[string]string, 0, s.Rows()-1)
	for i := 1; i < s.Rows(); i++ {
		record := make(map[string]string)
		for j, cell := range s.Cells(i) {
			if j >= len(header) {
				break
			}
			if cell = strings.TrimSpace(cell); cell != "" {
				record[strings.TrimSpace(header[j])] = cell
			}
		}
		records = append(records, record)
	}
	return records
}

// worksheet adapts an xls sheet.
type worksheet struct{ ws *xls.WorkSheet }

func (w worksheet) Rows() int { return int(w.ws.MaxRow) + 1 }

func (w worksheet) Cells(i int) []string {
	row := w.ws.Row(i)
	if row == nil || row.LastCol() < 1 {
		return nil
	}
	cells := make([]string, row.LastCol())
	for j := range cells {
		cells[j] = row.Col(j)
	}
	return cells
}
