package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"flats-scraper/models"
)

// utf8BOM lets spreadsheet tools detect the encoding of the accented headers.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TimestampLayout names output files after the local time of the write.
const TimestampLayout = "20060102_150405"

// CSVWriter writes each table to a new timestamped file in dir.
type CSVWriter struct {
	dir string
	now func() time.Time
}

// NewCSVWriter creates a CSVWriter. The directory is created on first write.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir, now: time.Now}
}

// WriteTable writes the header row and every row of t to
// <dir>/<YYYYMMDD_HHMMSS>.csv. An existing file is never overwritten.
func (c *CSVWriter) WriteTable(_ context.Context, _ string, t *models.Table) (string, error) {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", fmt.Errorf("csv: create output dir: %w", err)
	}

	path := filepath.Join(c.dir, c.now().Format(TimestampLayout)+".csv")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("csv: create file %q: %w", path, err)
	}

	if err := writeCSV(f, t); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("csv: close %q: %w", path, err)
	}
	return path, nil
}

func writeCSV(f *os.File, t *models.Table) error {
	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("csv: write BOM: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("csv: write rows: %w", err)
	}
	return nil
}

// Close is a no-op; every write opens and closes its own file.
func (c *CSVWriter) Close() error {
	return nil
}
