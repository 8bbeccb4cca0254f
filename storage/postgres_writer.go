package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"property-scraper/models"
)

const insertBatchSize = 50

// PostgresWriter mirrors the record snapshot of one run into PostgreSQL.
type PostgresWriter struct {
	db    *sql.DB
	runID uuid.UUID
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a writer whose rows are tagged with runID.
func NewPostgresWriter(dsn string, runID uuid.UUID) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db, runID: runID}
	if err := pw.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS scraped_records (
			id       SERIAL PRIMARY KEY,
			run_id   UUID        NOT NULL,
			seq      INTEGER     NOT NULL,
			data     JSONB       NOT NULL,
			saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (run_id, seq)
		);

		CREATE INDEX IF NOT EXISTS idx_scraped_records_run ON scraped_records(run_id);
	`)
	return err
}

// Write replaces this run's rows with records, in one transaction.
func (pw *PostgresWriter) Write(records []*models.Record) error {
	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM scraped_records WHERE run_id = $1`, pw.runID.String()); err != nil {
		return fmt.Errorf("postgres: clear run: %w", err)
	}

	for i := 0; i < len(records); i += insertBatchSize {
		end := i + insertBatchSize
		if end > len(records) {
			end = len(records)
		}
		query, args, err := buildInsert(pw.runID, i, records[i:end])
		if err != nil {
			return err
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// buildInsert renders one multi-row INSERT. offset is the sequence number of
// the first record in batch.
func buildInsert(runID uuid.UUID, offset int, batch []*models.Record) (string, []interface{}, error) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*3)

	for idx, r := range batch {
		data, err := r.MarshalJSON()
		if err != nil {
			return "", nil, fmt.Errorf("postgres: encode record %d: %w", offset+idx, err)
		}
		base := idx * 3
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d::jsonb)", base+1, base+2, base+3))
		valueArgs = append(valueArgs, runID.String(), offset+idx, string(data))
	}

	query := fmt.Sprintf(
		"INSERT INTO scraped_records (run_id, seq, data) VALUES %s",
		strings.Join(valueStrings, ","))
	return query, valueArgs, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// Count returns how many rows this run currently holds.
func (pw *PostgresWriter) Count() (int, error) {
	var n int
	err := pw.db.QueryRow(`SELECT COUNT(*) FROM scraped_records WHERE run_id = $1`, pw.runID.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("postgres: count: %w", err)
	}
	return n, nil
}
