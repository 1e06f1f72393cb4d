// Package ingest feeds the core engine with edge records: parsed from CSV
// datasets or generated synthetically. The core itself performs no I/O;
// these adapters sit at its boundary.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mikey/graph-spam-filter/internal/core"
)

// CSVReader parses email traffic datasets of the form
// sender,recipient,count[,timestamp]. A header row naming the columns is
// detected case-insensitively and skipped. The count column is optional per
// row (default 1); timestamps are RFC 3339.
type CSVReader struct{}

// NewCSVReader creates a CSV reader.
func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

// ReadFile parses the dataset at path.
func (r *CSVReader) ReadFile(path string) ([]core.EdgeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return r.Read(f)
}

// Read parses a dataset from an arbitrary reader.
func (r *CSVReader) Read(in io.Reader) ([]core.EdgeRecord, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1 // timestamp column is optional
	cr.TrimLeadingSpace = true

	var records []core.EdgeRecord
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line+1, err)
		}
		line++

		if line == 1 && isHeader(row) {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("row %d: expected at least sender and recipient, got %d fields", line, len(row))
		}

		rec := core.EdgeRecord{
			Sender:    strings.TrimSpace(row[0]),
			Recipient: strings.TrimSpace(row[1]),
			Weight:    1,
		}
		if rec.Sender == "" || rec.Recipient == "" {
			return nil, fmt.Errorf("row %d: empty sender or recipient", line)
		}
		if len(row) >= 3 && strings.TrimSpace(row[2]) != "" {
			w, err := strconv.Atoi(strings.TrimSpace(row[2]))
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid count %q: %w", line, row[2], err)
			}
			rec.Weight = w
		}
		if len(row) >= 4 && strings.TrimSpace(row[3]) != "" {
			ts, err := time.Parse(time.RFC3339, strings.TrimSpace(row[3]))
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid timestamp %q: %w", line, row[3], err)
			}
			rec.Timestamp = ts
		}
		records = append(records, rec)
	}
	return records, nil
}

// isHeader reports whether a row looks like the column-name header.
func isHeader(row []string) bool {
	return len(row) >= 2 && strings.EqualFold(strings.TrimSpace(row[0]), "sender")
}

// WriteFile writes records to a CSV dataset at path, with a header row.
// Useful for persisting generated datasets.
func (r *CSVReader) WriteFile(path string, records []core.EdgeRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"sender", "recipient", "count", "timestamp"}); err != nil {
		return err
	}
	for _, rec := range records {
		ts := ""
		if !rec.Timestamp.IsZero() {
			ts = rec.Timestamp.Format(time.RFC3339)
		}
		row := []string{rec.Sender, rec.Recipient, strconv.Itoa(rec.Weight), ts}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
