package docreader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVReader handles CSV exports of curriculum tables. Each record becomes
// one line with its non-empty cells joined by spaces.
type CSVReader struct{}

func (p *CSVReader) Read(r io.Reader, filename string) (*Text, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	lines := make([]string, 0, len(records))
	for _, rec := range records {
		cells := make([]string, 0, len(rec))
		for _, cell := range rec {
			if cell = strings.TrimSpace(cell); cell != "" {
				cells = append(cells, cell)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, " "))
		}
	}

	return &Text{
		Title: trimExt(filename, ".csv"),
		Pages: []string{strings.Join(lines, "\n")},
	}, nil
}
