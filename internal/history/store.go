package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/todolint/internal/model"
)

// DBFileName is the name of the database file inside the history directory.
const DBFileName = "history.db"

// Store provides SQLite-based storage for run records.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging so that a `todolint history`
	// can read while another process records a run.
	EnableWAL bool
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database inside dir.
func Open(dir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dir, DBFileName)

	var dsn string
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		project TEXT NOT NULL,
		recorded_at INTEGER NOT NULL,
		files INTEGER NOT NULL,
		annotations INTEGER NOT NULL,
		warn_total INTEGER NOT NULL,
		warn_limit INTEGER,
		exceeded INTEGER NOT NULL,
		tag_counts TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project);
	CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs(recorded_at);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Run is the stored summary of one scan.
type Run struct {
	ID          string
	Project     string
	RecordedAt  time.Time
	Files       int
	Annotations int
	WarnTotal   int
	Limit       *int
	Exceeded    bool
	TagCounts   map[string]int
}

// NewRun summarizes result as a Run for project, stamped with now.
func NewRun(project string, result *model.ScanResult, now time.Time) Run {
	return Run{
		ID:          uuid.NewString(),
		Project:     project,
		RecordedAt:  now,
		Files:       len(result.Reports),
		Annotations: result.AnnotationCount(),
		WarnTotal:   result.TotalWarn,
		Limit:       result.Limit,
		Exceeded:    result.Exceeded,
		TagCounts:   result.TagCounts(),
	}
}

// SaveRun inserts run. An empty ID is replaced by a new UUID, and the ID
// that was stored is returned.
func (s *Store) SaveRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.TagCounts == nil {
		run.TagCounts = map[string]int{}
	}

	countsJSON, err := json.Marshal(run.TagCounts)
	if err != nil {
		return "", fmt.Errorf("failed to serialize tag counts: %w", err)
	}

	var limit sql.NullInt64
	if run.Limit != nil {
		limit = sql.NullInt64{Int64: int64(*run.Limit), Valid: true}
	}

	query := `
	INSERT INTO runs (id, project, recorded_at, files, annotations, warn_total, warn_limit, exceeded, tag_counts)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		run.ID,
		run.Project,
		run.RecordedAt.UnixNano(),
		run.Files,
		run.Annotations,
		run.WarnTotal,
		limit,
		run.Exceeded,
		string(countsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return run.ID, nil
}

const selectRun = `
	SELECT id, project, recorded_at, files, annotations, warn_total, warn_limit, exceeded, tag_counts
	FROM runs
`

// GetRun returns the run with the given ID, or ErrNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, selectRun+" WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return run, err
}

// ListRuns returns the newest runs first. An empty project lists every
// project; a limit of zero or less returns all runs.
func (s *Store) ListRuns(ctx context.Context, project string, limit int) ([]Run, error) {
	query := selectRun
	args := make([]any, 0, 2)
	if project != "" {
		query += " WHERE project = ?"
		args = append(args, project)
	}
	query += " ORDER BY recorded_at DESC, rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run        Run
		recordedAt int64
		limit      sql.NullInt64
		countsJSON string
	)
	err := row.Scan(
		&run.ID,
		&run.Project,
		&recordedAt,
		&run.Files,
		&run.Annotations,
		&run.WarnTotal,
		&limit,
		&run.Exceeded,
		&countsJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}

	run.RecordedAt = time.Unix(0, recordedAt)
	if limit.Valid {
		n := int(limit.Int64)
		run.Limit = &n
	}
	run.TagCounts = make(map[string]int)
	if err := json.Unmarshal([]byte(countsJSON), &run.TagCounts); err != nil {
		return Run{}, fmt.Errorf("failed to parse tag counts: %w", err)
	}
	return run, nil
}
