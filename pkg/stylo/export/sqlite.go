package export

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/cognicore/stylo/pkg/stylo/features"
)

// SQLiteSink persists dataset builds into a SQLite database. Each
// build becomes one run, identified by a ULID, so successive builds
// of the same corpus can sit side by side and be compared.
type SQLiteSink struct {
	db      *sql.DB
	entropy *ulid.MonotonicEntropy
}

// OpenSQLite opens (creating if needed) the sink database with WAL
// mode enabled.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteSink{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close closes the database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	row_count INTEGER NOT NULL,
	columns TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS feature_rows (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	author TEXT NOT NULL,
	title TEXT NOT NULL,
	features TEXT NOT NULL,
	PRIMARY KEY(run_id, seq),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_feature_rows_author ON feature_rows(run_id, author);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// WriteRun stores the dataset as a new run and returns its ULID.
// Feature vectors are stored as JSON objects; sparse columns stay
// sparse on disk and are zero-filled on read, mirroring the
// in-memory table.
func (s *SQLiteSink) WriteRun(ctx context.Context, d *features.Dataset) (string, error) {
	runID := ulid.MustNew(ulid.Now(), s.entropy).String()

	columns, err := json.Marshal(d.Columns())
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, row_count, columns) VALUES (?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339), d.Len(), string(columns),
	); err != nil {
		return "", err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO feature_rows (run_id, seq, author, title, features) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for seq, row := range d.Rows() {
		vector, err := json.Marshal(row.Features)
		if err != nil {
			return "", err
		}
		if _, err := stmt.ExecContext(ctx, runID, seq, row.Author, row.Title, string(vector)); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// ReadRun loads a stored run back into a dataset, preserving row
// order.
func (s *SQLiteSink) ReadRun(ctx context.Context, runID string) (*features.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT author, title, features FROM feature_rows WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []features.Row
	for rows.Next() {
		var author, title, vector string
		if err := rows.Scan(&author, &title, &vector); err != nil {
			return nil, err
		}
		var feats map[string]float64
		if err := json.Unmarshal([]byte(vector), &feats); err != nil {
			return nil, err
		}
		out = append(out, features.Row{Author: author, Title: title, Features: feats})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return features.NewDataset(out), nil
}

// Runs lists stored run IDs, newest first. ULIDs sort
// lexicographically by creation time, so ordering by ID is ordering
// by time.
func (s *SQLiteSink) Runs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
