package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadIndexCSV decodes index rows. Columns are matched by header name, so
// reordered or missing columns decode to empty fields.
func ReadIndexCSV(r io.Reader) ([]VideoRecord, error) {
	var rows []VideoRecord
	err := readCSV(r, func(header, values []string) {
		var rec VideoRecord
		for i, col := range header {
			if i < len(values) {
				rec.Set(col, values[i])
			}
		}
		rows = append(rows, rec)
	})
	return rows, err
}

// ReadLedgerCSV decodes ledger rows.
func ReadLedgerCSV(r io.Reader) ([]LedgerEntry, error) {
	var rows []LedgerEntry
	err := readCSV(r, func(header, values []string) {
		var e LedgerEntry
		for i, col := range header {
			if i < len(values) {
				e.Set(col, values[i])
			}
		}
		rows = append(rows, e)
	})
	return rows, err
}

// WriteIndexCSV encodes index rows with a header line.
func WriteIndexCSV(w io.Writer, rows []VideoRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(IndexColumns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLedgerCSV encodes ledger rows with a header line.
func WriteLedgerCSV(w io.Writer, rows []LedgerEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(LedgerColumns); err != nil {
		return err
	}
	for _, e := range rows {
		if err := cw.Write(e.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readCSV(r io.Reader, emit func(header, values []string)) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	for {
		values, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		for i := range values {
			values[i] = Normalize(values[i])
		}
		emit(header, values)
	}
}

// Normalize maps a persisted cell to its in-memory value: invalid UTF-8 is
// replaced and missing-value markers become the empty string.
func Normalize(v string) string {
	v = strings.ToValidUTF8(v, "\uFFFD")
	switch v {
	case "NaN", "nan", "<NA>":
		return ""
	}
	return v
}
