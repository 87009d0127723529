package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"flats-scraper/models"
)

const xlsxSheet = "Units"

// XLSXWriter writes a spreadsheet copy of the output next to the CSV file.
// Numbers and booleans keep their cell types.
type XLSXWriter struct {
	dir string
	now func() time.Time
}

func NewXLSXWriter(dir string) *XLSXWriter {
	return &XLSXWriter{dir: dir, now: time.Now}
}

func (x *XLSXWriter) WriteTable(_ context.Context, _ string, t *models.Table) (string, error) {
	if err := os.MkdirAll(x.dir, 0755); err != nil {
		return "", fmt.Errorf("xlsx: create output dir: %w", err)
	}
	path := filepath.Join(x.dir, x.now().Format(TimestampLayout)+".xlsx")
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("xlsx: create %q: %w", path, err)
	}

	if err := x.write(out, t); err != nil {
		out.Close()
		os.Remove(path)
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("xlsx: close %q: %w", path, err)
	}
	return path, nil
}

func (x *XLSXWriter) write(out io.Writer, t *models.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}

	for i, r := range t.Rows {
		cells := make([]interface{}, len(t.Columns))
		for j, c := range t.Columns {
			cells[j] = r[c].Interface()
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2) // A2, A3, ...
		if err != nil {
			return fmt.Errorf("xlsx: cell name: %w", err)
		}
		if err := f.SetSheetRow(xlsxSheet, addr, &cells); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("xlsx: save: %w", err)
	}
	return nil
}

func (x *XLSXWriter) Close() error {
	return nil
}
