package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"heiconv/internal/codec"
	"heiconv/internal/convert"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped when the schema changes; an old database is
// rejected rather than migrated, since history is disposable.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible
// version.
var ErrSchemaMismatch = errors.New("history schema version mismatch")

// Store manages run-history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
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

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// RunInfo describes a run at the moment it starts.
type RunInfo struct {
	OutputDir string
	Format    codec.Format
	Quality   codec.Quality
	Workers   int
	Total     int
}

// BeginRun inserts a run row and returns its generated ID.
func (s *Store) BeginRun(ctx context.Context, info RunInfo) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var quality any
	if value, ok := info.Quality.Value(); ok {
		quality = value
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, output_dir, target_format, quality, workers, total, succeeded, failed)
         VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0)`,
		id, now, info.OutputDir, info.Format.String(), quality, info.Workers, info.Total,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordOutcome appends one task result. Safe for concurrent use; database/sql
// serializes access to the connection.
func (s *Store) RecordOutcome(ctx context.Context, runID string, outcome convert.Outcome) error {
	var kind, detail any
	if !outcome.Success {
		kind = outcome.Kind.String()
		detail = outcome.Detail
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO task_results (run_id, task_index, source_path, output_path, success, failure_kind, detail)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, outcome.Task.Index, outcome.Task.SourcePath, outcome.Task.FinalPath,
		boolToInt(outcome.Success), kind, detail,
	)
	if err != nil {
		return fmt.Errorf("insert task result: %w", err)
	}
	return nil
}

// FinishRun stamps the run row with its final tallies.
func (s *Store) FinishRun(ctx context.Context, runID string, summary convert.Summary) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, succeeded = ?, failed = ? WHERE id = ?`,
		now, summary.Succeeded, summary.Failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Run is one recorded conversion run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	OutputDir  string
	Format     string
	Workers    int
	Total      int
	Succeeded  int
	Failed     int
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, COALESCE(finished_at, ''), output_dir, target_format, workers, total, succeeded, failed
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &started, &finished, &run.OutputDir, &run.Format,
			&run.Workers, &run.Total, &run.Succeeded, &run.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished != "" {
			run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Failures returns the failed task results for one run, in index order.
func (s *Store) Failures(ctx context.Context, runID string) ([]convert.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT task_index, source_path, output_path, COALESCE(failure_kind, ''), COALESCE(detail, '')
         FROM task_results WHERE run_id = ? AND success = 0 ORDER BY task_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	var outcomes []convert.Outcome
	for rows.Next() {
		var outcome convert.Outcome
		var kind string
		if err := rows.Scan(&outcome.Task.Index, &outcome.Task.SourcePath, &outcome.Task.FinalPath,
			&kind, &outcome.Detail); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		outcome.Kind = parseKind(kind)
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

func parseKind(value string) convert.FailureKind {
	for _, kind := range []convert.FailureKind{
		convert.FailurePermissionDenied,
		convert.FailureDiskFull,
		convert.FailureCorruptInput,
		convert.FailureFinalize,
	} {
		if kind.String() == value {
			return kind
		}
	}
	return convert.FailureUnknown
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
