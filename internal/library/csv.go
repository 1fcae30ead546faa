package library

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/maax3v3/swatchmatch/internal/match"
)

// DetectSeparator picks ';' when the header has at least as many semicolons
// as commas, a tab for tab-only headers, and ',' otherwise.
func DetectSeparator(header string) rune {
	semis := strings.Count(header, ";")
	commas := strings.Count(header, ",")
	switch {
	case semis > 0 && semis >= commas:
		return ';'
	case commas == 0 && strings.Contains(header, "\t"):
		return '\t'
	default:
		return ','
	}
}

// ParseCSV decodes delimited text with a header row. The separator is
// detected from the header; blank lines are ignored.
func ParseCSV(r io.Reader) ([]match.Entry, Stats, error) {
	var lines []string
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := s.Err(); err != nil {
		return nil, Stats{}, fmt.Errorf("reading delimited text: %w", err)
	}
	if len(lines) == 0 {
		return []match.Entry{}, Stats{}, nil
	}

	cr := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	cr.Comma = DetectSeparator(lines[0])
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("parsing delimited text: %w", err)
	}

	header := rows[0]
	records := make([]record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(record, len(header))
		for i, col := range header {
			col = strings.TrimSpace(col)
			if col == "" {
				col = fmt.Sprintf("column%d", i+1)
			}
			if i < len(row) {
				rec[col] = strings.TrimSpace(row[i])
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}
	entries, stats := collect(records)
	return entries, stats, nil
}
