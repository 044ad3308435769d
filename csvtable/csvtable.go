// Package csvtable splits comma separated text into a table of fields.
//
// The tokenizer is deliberately lenient: it never fails. Quoted fields may
// contain separators and line breaks, a doubled quote inside a quoted field
// stands for a single quote, and anything between a closing quote and the
// next separator is dropped. An unterminated quote runs to the end of the
// input.
package csvtable

import "strings"

// Parse splits s into rows and fields.
//
// Rows end with "\r", "\n" or "\r\n". Every line start opens a row, so an
// empty line yields an empty row, but a trailing line break does not open
// one. A separator directly followed by a line break does not add an empty
// field.
func Parse(s string) [][]string {
	table := [][]string{}
	i, n := 0, len(s)
	for i < n {
		row := []string{}
		for i < n && !isEOL(s[i]) {
			var field string
			if s[i] == '"' {
				field, i = quoted(s, i+1)
			} else {
				start := i
				for i < n && !isSeparator(s[i]) {
					i++
				}
				field = s[start:i]
			}
			row = append(row, field)
			if i < n && s[i] == ',' {
				i++
			}
		}
		table = append(table, row)
		if i < n && s[i] == '\r' {
			i++
		}
		if i < n && s[i] == '\n' {
			i++
		}
	}
	return table
}

// quoted reads a quoted field starting right after its opening quote at i.
// It returns the unescaped field and the position of the next separator.
func quoted(s string, i int) (string, int) {
	var b strings.Builder
	n := len(s)
	for i < n {
		if s[i] == '"' {
			if i+1 < n && s[i+1] == '"' {
				b.WriteByte('"')
				i += 2
				continue
			}
			break
		}
		b.WriteByte(s[i])
		i++
	}
	if i < n && s[i] == '"' {
		i++
	}
	// garbage after the closing quote is skipped.
	for i < n && !isSeparator(s[i]) {
		i++
	}
	return b.String(), i
}

// Records parses s and maps every row but the first to the names found in the
// first (header) row.
//
// Fields beyond the header width are dropped, missing fields are absent from
// the record. Empty rows give empty records.
func Records(s string) []map[string]string {
	table := Parse(s)
	if len(table) == 0 {
		return nil
	}
	header := table[0]
	records := make([]map[string]string, 0, len(table)-1)
	for _, row := range table[1:] {
		record := make(map[string]string, len(row))
		for j, value := range row {
			if j >= len(header) {
				break
			}
			record[header[j]] = value
		}
		records = append(records, record)
	}
	return records
}

func isEOL(c byte) bool       { return c == '\r' || c == '\n' }
func isSeparator(c byte) bool { return c == ',' || isEOL(c) }
