// Package history keeps a SQLite ledger of pages uploaded to transfer
// targets, grouped into runs.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DateLayout is the format of Entry.EditionDate in the database.
const DateLayout = "2006-01-02"

// Entry is one uploaded file.
type Entry struct {
	ID          int64
	RunID       string
	Target      string
	LocalPath   string
	RemoteName  string
	EditionDate time.Time
	UploadedAt  time.Time
}

// Run summarises the entries sharing a run id.
type Run struct {
	ID         string
	Target     string
	Files      int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store manages the SQLite upload ledger
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens the ledger at dbPath, creating it and its parent directory
// when needed.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == ":memory:" {
		return openAndInitStore(dbPath)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	return openAndInitStore(dbPath)
}

func openAndInitStore(dbPath string) (*Store, error) {
	// The DSN parameter applies the busy timeout to every pooled connection,
	// the pragma below only to the first.
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Each connection to :memory: is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// busy_timeout goes first so the remaining pragmas wait on locks held by
	// a concurrent send.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := execWithRetry(db, schemaSQL, 5, 10*time.Millisecond); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry executes a statement, backing off exponentially while the
// database is locked.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// NewRun allocates an id grouping the uploads of one send.
func NewRun() string {
	return uuid.NewString()
}

// Record stores e. UploadedAt defaults to now; e.ID is set on success.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	if e.RunID == "" {
		return errors.New("record upload: empty run id")
	}
	if e.Target == "" {
		return errors.New("record upload: empty target")
	}
	if e.UploadedAt.IsZero() {
		e.UploadedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (run_id, target, local_path, remote_name, edition_date, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.RunID,
		e.Target,
		e.LocalPath,
		e.RemoteName,
		e.EditionDate.Format(DateLayout),
		e.UploadedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert upload: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	e.ID = id
	return nil
}

// Sent reports whether remoteName has already been uploaded to target.
func (s *Store) Sent(ctx context.Context, target, remoteName string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM uploads WHERE target = ? AND remote_name = ?`,
		target, remoteName,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query sent: %w", err)
	}
	return count > 0, nil
}

// Runs lists runs, newest first. An empty target lists every target.
func (s *Store) Runs(ctx context.Context, target string) ([]Run, error) {
	query := `SELECT run_id, target, COUNT(*), MIN(uploaded_at), MAX(uploaded_at)
		FROM uploads
		WHERE ? = '' OR target = ?
		GROUP BY run_id, target
		ORDER BY MAX(uploaded_at) DESC, MAX(id) DESC`

	rows, err := s.db.QueryContext(ctx, query, target, target)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(&r.ID, &r.Target, &r.Files, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		r.StartedAt = time.Unix(0, started)
		r.FinishedAt = time.Unix(0, finished)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

// Entries returns the files of one run in upload order.
func (s *Store) Entries(ctx context.Context, runID string) ([]Entry, error) {
	query := `SELECT id, run_id, target, local_path, remote_name, edition_date, uploaded_at
		FROM uploads
		WHERE run_id = ?
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var date string
		var uploaded int64
		if err := rows.Scan(&e.ID, &e.RunID, &e.Target, &e.LocalPath, &e.RemoteName, &date, &uploaded); err != nil {
			return nil, fmt.Errorf("scan entry row: %w", err)
		}
		e.EditionDate, err = time.ParseInLocation(DateLayout, date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse edition date %q: %w", date, err)
		}
		e.UploadedAt = time.Unix(0, uploaded)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entry rows: %w", err)
	}
	return entries, nil
}
