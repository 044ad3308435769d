package tally

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"github.com/etnz/tally/csvtable"
	"github.com/etnz/tally/date"
)

// this file contains functions to handle the import/export format.
// It is a CSV file with one row per buy, human readable and compatible with
// spreadsheets and brokers exports.

// CSV column names of the import/export format.
const (
	ColumnDate     = "Date"
	ColumnQuantity = "Quantity"
	ColumnSymbol   = "Symbol"
	ColumnPrice    = "Price"
	ColumnCurrency = "Currency"
)

// Header is the header row of the import/export format.
var Header = []string{ColumnDate, ColumnQuantity, ColumnSymbol, ColumnPrice, ColumnCurrency}

// ImportCSV reads a book from 'r' in the import/export format.
//
// See ImportRecords for how rows become orders.
func ImportCSV(r io.Reader, currency string) (*Book, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV: %w", err)
	}
	return ImportRecords(csvtable.Records(string(data)), currency)
}

// ImportRecords builds a book from rows keyed by column name, as read below
// the header row of a CSV file or a spreadsheet.
//
// Consecutive rows sharing the same Date text are grouped into one order. Order
// and buy IDs are allocated in row order, then orders are sorted newest first.
// Quantity and Price are coerced (see ParseCount and ParseAmount), the Currency
// column is ignored: every amount is in 'currency'.
//
// Rows without any field are skipped. A Date that cannot be parsed is an error.
func ImportRecords(records []map[string]string, currency string) (*Book, error) {
	b := NewBook(currency)
	var current *Order
	var previous string
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		raw := record[ColumnDate]
		if current == nil || raw != previous {
			on, err := date.Parse(raw)
			if err != nil {
				// i+2 because of the header row and rows counting from 1.
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
			current = b.newOrder(on)
			b.orders = append(b.orders, current)
			previous = raw
		}
		current.appendBuy(
			record[ColumnSymbol],
			Q(ParseCount(record[ColumnQuantity])),
			M(ParseAmount(record[ColumnPrice]), b.currency),
		)
	}

	slices.SortStableFunc(b.orders, func(x, y *Order) int { return y.date.Compare(x.date) })
	return b, nil
}

// ExportCSV writes the book to 'w' in the import/export format.
//
// Orders and buys are written in display order. Dates are written as
// month/day/year, quantities as whole numbers and prices rounded to the
// currency fraction.
func ExportCSV(w io.Writer, b *Book) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}
	for o := range b.Orders() {
		on := o.date.USString()
		for _, buy := range o.buys {
			row := []string{on, buy.Quantity.Fixed(), buy.Ticker, buy.Price.Fixed(), b.currency}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("cannot write order %d: %w", o.id, err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("cannot write CSV: %w", err)
	}
	return nil
}
