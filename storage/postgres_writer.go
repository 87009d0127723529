package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"flats-scraper/models"
)

// PostgresWriter stores each run's output rows as JSONB snapshots, so the
// history of a unit's price and allocation can be queried across runs.
type PostgresWriter struct {
	db       *sql.DB
	idColumn string
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter. idColumn names the unit key.
func NewPostgresWriter(ctx context.Context, dsn, idColumn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 3; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed: %w", err)
	}

	pw := &PostgresWriter{db: db, idColumn: idColumn}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS unit_snapshots (
			id         SERIAL PRIMARY KEY,
			run_id     UUID        NOT NULL,
			unit_id    TEXT        NOT NULL,
			data       JSONB       NOT NULL,
			scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (run_id, unit_id)
		);

		CREATE INDEX IF NOT EXISTS idx_unit_snapshots_unit ON unit_snapshots(unit_id);
		CREATE INDEX IF NOT EXISTS idx_unit_snapshots_run  ON unit_snapshots(run_id);
	`)
	return err
}

// WriteTable batch-inserts every row of the run.
func (pw *PostgresWriter) WriteTable(ctx context.Context, runID string, t *models.Table) (string, error) {
	const batchSize = 50
	for i := 0; i < len(t.Rows); i += batchSize {
		end := i + batchSize
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		if err := pw.insertBatch(ctx, runID, t.Columns, t.Rows[i:end]); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("postgres unit_snapshots (run %s)", runID), nil
}

func (pw *PostgresWriter) insertBatch(ctx context.Context, runID string, columns []string, batch []models.Row) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*3)

	for idx, r := range batch {
		data, err := RowJSON(columns, r)
		if err != nil {
			return err
		}
		base := idx * 3
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d)", base+1, base+2, base+3))
		valueArgs = append(valueArgs, runID, r[pw.idColumn].String(), string(data))
	}

	query := fmt.Sprintf(`
		INSERT INTO unit_snapshots (run_id, unit_id, data)
		VALUES %s
		ON CONFLICT (run_id, unit_id) DO NOTHING
	`, strings.Join(valueStrings, ","))

	if _, err := pw.db.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

// RowJSON encodes the row's declared columns as a JSON object. Absent values
// become null.
func RowJSON(columns []string, r models.Row) ([]byte, error) {
	obj := make(map[string]interface{}, len(columns))
	for _, c := range columns {
		obj[c] = r[c].Interface()
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("postgres: encode row: %w", err)
	}
	return data, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
