package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// ReadCSV parses an uploaded CSV into import rows. Ragged rows are allowed;
// missing trailing cells read as blank.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(WrapForStreaming(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		row := make(Row, len(rec))
		for i, cell := range rec {
			row[i] = cell
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DropHeader removes a leading header row. The first row counts as a header
// when its first cell matches the first template column, ignoring case,
// spacing and punctuation.
func DropHeader(rows []Row, columns []string) []Row {
	if len(rows) == 0 || len(columns) == 0 {
		return rows
	}
	if headerKey(rows[0].Text(0)) == headerKey(columns[0]) {
		return rows[1:]
	}
	return rows
}

func headerKey(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}

// WriteCSV writes header followed by records.
func WriteCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}
