package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    collection TEXT NOT NULL,
    mode TEXT NOT NULL,
    status TEXT DEFAULT 'running',
    started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS run_iterations (
    run_id TEXT NOT NULL REFERENCES runs(id),
    iteration INTEGER NOT NULL,
    task_id TEXT NOT NULL,
    outcome TEXT NOT NULL,
    error TEXT,
    duration_ms INTEGER,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (run_id, iteration)
);
`

// SQLiteRunStore persists run history to a SQLite database.
type SQLiteRunStore struct {
	db *sql.DB
}

func NewSQLiteRunStore(dbPath string) (*SQLiteRunStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteRunStore{db: db}, nil
}

func (s *SQLiteRunStore) CreateRun(collection, mode string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, collection, mode) VALUES (?, ?, ?)`,
		id, collection, mode,
	)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

func (s *SQLiteRunStore) CompleteRun(id, status string) error {
	res, err := s.db.Exec(
		`UPDATE runs SET status = ?, finished_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

func (s *SQLiteRunStore) RecordIteration(rec IterationRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO run_iterations (run_id, iteration, task_id, outcome, error, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Iteration, rec.TaskID, rec.Outcome, rec.Error, rec.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("record iteration: %w", err)
	}
	return nil
}

func (s *SQLiteRunStore) ListRuns(limit int) ([]RunInfo, error) {
	query := `SELECT id, collection, mode, status, started_at, finished_at
	          FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Collection, &r.Mode, &r.Status, &r.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *SQLiteRunStore) GetIterations(runID string) ([]IterationRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, iteration, task_id, outcome, error, duration_ms, created_at
		 FROM run_iterations WHERE run_id = ? ORDER BY iteration`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("get iterations: %w", err)
	}
	defer rows.Close()

	var recs []IterationRecord
	for rows.Next() {
		var rec IterationRecord
		var errMsg sql.NullString
		var created time.Time
		if err := rows.Scan(&rec.RunID, &rec.Iteration, &rec.TaskID, &rec.Outcome, &errMsg, &rec.DurationMs, &created); err != nil {
			return nil, fmt.Errorf("scan iteration: %w", err)
		}
		rec.Error = errMsg.String
		rec.CreatedAt = created
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SQLiteRunStore) Close() error {
	return s.db.Close()
}
