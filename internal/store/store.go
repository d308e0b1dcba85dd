// Package store keeps the chapter checker's sqlite database: a cache of
// chapter contents known to be clean and a log of batch runs.
package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// CacheKey identifies a clean verdict: the same content checked with the
// same language and rule set is clean again.
type CacheKey struct {
	Hash         string
	Language     string
	RulesVersion string
}

type CacheStats struct {
	Entries   int
	TotalHits int
	Runs      int
}

// Run is one batch invocation and the outcome of each file.
type Run struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Language  string
	Files     []FileOutcome
}

type FileOutcome struct {
	Path   string
	Status string
	Error  string
}

// Count returns the number of files with the given status.
func (r Run) Count(status string) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == status {
			n++
		}
	}
	return n
}

// Hash returns the hex blake3 digest used as content key.
func Hash(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// workers share the handle; serialise writers
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS check_cache (
		content_hash TEXT NOT NULL,
		language TEXT NOT NULL,
		rules_version TEXT NOT NULL,
		hits INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (content_hash, language, rules_version)
	);

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		duration_ms INTEGER NOT NULL,
		language TEXT NOT NULL
	);

	-- run_files stores the outcome of every file of a run
	CREATE TABLE IF NOT EXISTS run_files (
		run_id TEXT NOT NULL,
		path TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		PRIMARY KEY (run_id, path),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// IsClean reports whether the key was recorded as clean and counts the hit.
func (s *Store) IsClean(ctx context.Context, key CacheKey) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE check_cache SET hits = hits + 1, last_used = ? WHERE content_hash = ? AND language = ? AND rules_version = ?`,
		time.Now(), key.Hash, key.Language, key.RulesVersion)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) MarkClean(ctx context.Context, key CacheKey) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO check_cache (content_hash, language, rules_version, hits, created_at, last_used) VALUES (?, ?, ?, 0, ?, ?)`,
		key.Hash, key.Language, key.RulesVersion, time.Now(), time.Now())
	return err
}

// ClearCache removes all clean verdicts and returns how many were removed.
func (s *Store) ClearCache(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM check_cache`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Stats(ctx context.Context) (*CacheStats, error) {
	stats := &CacheStats{}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM check_cache`).Scan(&stats.Entries, &stats.TotalHits)
	if err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&stats.Runs); err != nil {
		return nil, err
	}
	return stats, nil
}

// SaveRun stores a run and its file outcomes in one transaction.
func (s *Store) SaveRun(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ms, language) VALUES (?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.Duration.Milliseconds(), run.Language); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	for _, f := range run.Files {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO run_files (run_id, path, status, error) VALUES (?, ?, ?, ?)`,
			run.ID, f.Path, f.Status, f.Error); err != nil {
			return fmt.Errorf("failed to save outcome of %s: %w", f.Path, err)
		}
	}
	return tx.Commit()
}

// ListRuns returns the latest runs first, with their file outcomes.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, language FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}

	var runs []Run
	for rows.Next() {
		var r Run
		var ms int64
		if err := rows.Scan(&r.ID, &r.StartedAt, &ms, &r.Language); err != nil {
			rows.Close()
			return nil, err
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range runs {
		files, err := s.runFiles(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Files = files
	}
	return runs, nil
}

func (s *Store) runFiles(ctx context.Context, runID string) ([]FileOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, status, COALESCE(error, '') FROM run_files WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []FileOutcome
	for rows.Next() {
		var f FileOutcome
		if err := rows.Scan(&f.Path, &f.Status, &f.Error); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
