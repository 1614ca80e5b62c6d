// Package history persists hashrate samples and download attempts in SQLite
// so the CLI can report on past daemon activity.
package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

// Store manages history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Sample is one recorded hashrate observation.
type Sample struct {
	ID         int64
	RecordedAt time.Time
	Running    bool
	Hashrate   int64
}

// Attempt is one recorded release download attempt.
type Attempt struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Version    string
	URL        string
	Outcome    string
	Detail     string
}

// Open initializes or connects to the history database and applies
// migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// migrate applies pending schema files in name order. The database's
// user_version pragma tracks how many have been applied, so reopening an
// existing database only runs the new ones.
func (s *Store) migrate(ctx context.Context) error {
	names, err := fs.Glob(schemaFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list schema files: %w", err)
	}
	sort.Strings(names)

	var applied int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&applied); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for i, name := range names {
		version := i + 1
		if version <= applied {
			continue
		}
		ddl, err := fs.ReadFile(schemaFS, name)
		if err != nil {
			return fmt.Errorf("read schema file %s: %w", name, err)
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		if _, err := tx.ExecContext(ctx, string(ddl)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record schema version %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordSample appends one hashrate observation.
func (s *Store) RecordSample(ctx context.Context, running bool, hashrate int64) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO hashrate_samples (recorded_at, running, hashrate) VALUES (?, ?, ?)`,
		timestamp,
		running,
		hashrate,
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// RecentSamples returns up to limit samples, newest first.
func (s *Store) RecentSamples(ctx context.Context, limit int) ([]Sample, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, recorded_at, running, hashrate
         FROM hashrate_samples ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var sample Sample
		var recordedAt string
		if err := rows.Scan(&sample.ID, &recordedAt, &sample.Running, &sample.Hashrate); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		sample.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parse sample timestamp: %w", err)
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return samples, nil
}

// RecordAttempt appends one download attempt record. The id is the attempt
// UUID the caller generated when the download began.
func (s *Store) RecordAttempt(ctx context.Context, attempt Attempt) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO download_attempts (
            id, started_at, finished_at, version, url, outcome, detail
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		attempt.ID,
		attempt.StartedAt.UTC().Format(time.RFC3339Nano),
		attempt.FinishedAt.UTC().Format(time.RFC3339Nano),
		attempt.Version,
		attempt.URL,
		attempt.Outcome,
		attempt.Detail,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// RecentAttempts returns up to limit download attempts, newest first.
func (s *Store) RecentAttempts(ctx context.Context, limit int) ([]Attempt, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, started_at, finished_at, version, url, outcome, detail
         FROM download_attempts ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var attempt Attempt
		var startedAt, finishedAt string
		if err := rows.Scan(
			&attempt.ID, &startedAt, &finishedAt,
			&attempt.Version, &attempt.URL, &attempt.Outcome, &attempt.Detail,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if attempt.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse attempt timestamp: %w", err)
		}
		if attempt.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, fmt.Errorf("parse attempt timestamp: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

// Prune removes samples and attempts older than the retention window.
func (s *Store) Prune(ctx context.Context, retention time.Duration) error {
	cutoff := time.Now().UTC().Add(-retention).Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(
		ctx, `DELETE FROM hashrate_samples WHERE recorded_at < ?`, cutoff,
	); err != nil {
		return fmt.Errorf("prune samples: %w", err)
	}
	if _, err := s.db.ExecContext(
		ctx, `DELETE FROM download_attempts WHERE started_at < ?`, cutoff,
	); err != nil {
		return fmt.Errorf("prune attempts: %w", err)
	}
	return nil
}
