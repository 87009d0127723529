package storage

import (
	"context"

	"flats-scraper/models"
)

// TableWriter is the interface any output backend must satisfy. WriteTable
// returns a human-readable location of what it wrote.
type TableWriter interface {
	WriteTable(ctx context.Context, runID string, t *models.Table) (string, error)
	Close() error
}

// FileUploader copies a written output file to remote storage.
type FileUploader interface {
	UploadFile(ctx context.Context, path string) (string, error)
}
