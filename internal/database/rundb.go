package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Far-Se/coduri-siruta/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "siruta.db"

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// RunDB stores run history in SQLite.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	// Read-only commands such as history leave it false.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run fetch with --history first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Path returns the database file path.
func (rdb *RunDB) Path() string {
	return rdb.dbPath
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL DEFAULT '',
		output_file TEXT NOT NULL,
		targets INTEGER NOT NULL,
		total_files INTEGER NOT NULL,
		localities INTEGER NOT NULL
	);

	-- One row per county document of a run
	CREATE TABLE IF NOT EXISTS run_targets (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		target_id INTEGER NOT NULL,
		url TEXT NOT NULL,
		status TEXT NOT NULL,
		status_code INTEGER NOT NULL DEFAULT 0,
		body_hash TEXT NOT NULL DEFAULT '',
		records INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, target_id)
	);

	CREATE INDEX IF NOT EXISTS idx_run_targets_target ON run_targets(target_id, run_id);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a run with one row per target and returns the new run id.
func (rdb *RunDB) SaveRun(ctx context.Context, run *model.Run) (int64, error) {
	summary := run.Summary()
	finished := summary.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after commit
	}()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (started_at, finished_at, output_file, targets, total_files, localities)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		formatTimestamp(summary.StartedAt),
		formatTimestamp(finished),
		summary.OutputFile,
		summary.Targets,
		summary.TotalFiles,
		summary.Localities,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO run_targets (run_id, target_id, url, status, status_code, body_hash, records, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare target insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range summary.Outcomes {
		if _, err := stmt.ExecContext(ctx,
			id,
			o.Target.ID,
			o.Target.URL,
			o.Status.String(),
			o.StatusCode,
			o.Hash,
			o.Records,
			o.Error,
		); err != nil {
			return 0, fmt.Errorf("failed to save target %d: %w", o.Target.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return id, nil
}

// ListRuns returns recorded runs, newest first, without outcomes.
// A limit <= 0 returns every run.
func (rdb *RunDB) ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error) {
	query := `
	SELECT id, started_at, finished_at, output_file, targets, total_files, localities
	FROM runs
	ORDER BY id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []model.RunSummary
	for rows.Next() {
		s, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *s)
	}

	return runs, rows.Err()
}

// GetRun returns one run with its outcomes. An outcome is marked Changed
// when its body digest differs from the digest recorded for the same
// target in the closest earlier run that downloaded it.
func (rdb *RunDB) GetRun(ctx context.Context, id int64) (*model.RunSummary, error) {
	row := rdb.db.QueryRowContext(ctx, `
	SELECT id, started_at, finished_at, output_file, targets, total_files, localities
	FROM runs
	WHERE id = ?
	`, id)

	summary, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := rdb.db.QueryContext(ctx, `
	SELECT t.target_id, t.url, t.status, t.status_code, t.body_hash, t.records, t.error,
		(SELECT p.body_hash FROM run_targets p
		 WHERE p.target_id = t.target_id AND p.run_id < t.run_id AND p.body_hash <> ''
		 ORDER BY p.run_id DESC LIMIT 1) AS previous_hash
	FROM run_targets t
	WHERE t.run_id = ?
	ORDER BY t.target_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run targets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o model.Outcome
		var previous sql.NullString

		if err := rows.Scan(
			&o.Target.ID,
			&o.Target.URL,
			&o.StatusName,
			&o.StatusCode,
			&o.Hash,
			&o.Records,
			&o.Error,
			&previous,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run target: %w", err)
		}

		status, err := model.ParseStatus(o.StatusName)
		if err != nil {
			return nil, err
		}
		o.Status = status
		if region, ok := model.RegionByID(o.Target.ID); ok {
			o.County = region.Name
		}
		o.Changed = o.Hash != "" && previous.Valid && previous.String != o.Hash

		summary.Outcomes = append(summary.Outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summary, nil
}

// LatestRunID returns the id of the most recent run.
func (rdb *RunDB) LatestRunID(ctx context.Context) (int64, error) {
	var id int64
	err := rdb.db.QueryRowContext(ctx, "SELECT id FROM runs ORDER BY id DESC LIMIT 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRunNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest run: %w", err)
	}
	return id, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.RunSummary, error) {
	var s model.RunSummary
	var started, finished string

	if err := row.Scan(
		&s.ID,
		&started,
		&finished,
		&s.OutputFile,
		&s.Targets,
		&s.TotalFiles,
		&s.Localities,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	s.StartedAt = parseTimestamp(started)
	s.FinishedAt = parseTimestamp(finished)
	return &s, nil
}

// storedTimestampFormat is how run times are written.
const storedTimestampFormat = time.RFC3339Nano

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(storedTimestampFormat)
}

// timestampFormats contains the timestamp formats accepted when reading.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	storedTimestampFormat,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite default datetime format
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
