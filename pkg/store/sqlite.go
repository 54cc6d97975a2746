package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	errs "github.com/matzehuels/brickfall/pkg/errors"
	"github.com/matzehuels/brickfall/pkg/report"
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps reports in a local SQLite database. The full report is
// stored as JSON next to the columns needed for listing.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "empty sqlite path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "create %s", filepath.Dir(path))
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "open %s", path)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSQLite(db); err != nil {
		_ = db.Close()
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "init %s", path)
	}
	return &SQLiteStore{db: db}, nil
}

func initSQLite(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			input_hash TEXT NOT NULL,
			created_at TEXT NOT NULL,
			brick_count INTEGER NOT NULL,
			safe_count INTEGER NOT NULL,
			cascade_total INTEGER NOT NULL,
			body TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_reports_hash ON reports(input_hash);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, r *report.Report) error {
	if err := checkSave(r); err != nil {
		return err
	}
	body, err := report.Marshal(r)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode report %s", r.ID)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO reports
		(id, input_hash, created_at, brick_count, safe_count, cascade_total, body)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			input_hash=excluded.input_hash,
			created_at=excluded.created_at,
			brick_count=excluded.brick_count,
			safe_count=excluded.safe_count,
			cascade_total=excluded.cascade_total,
			body=excluded.body`,
		r.ID, r.InputHash, r.CreatedAt.UTC().Format(timeLayout),
		r.BrickCount, r.SafeCount, r.CascadeTotal, string(body))
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "save report %s", r.ID)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*report.Report, error) {
	if err := errs.ValidateReportID(id); err != nil {
		return nil, err
	}

	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM reports WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "get report %s", id)
	}
	return report.Unmarshal([]byte(body))
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, input_hash, created_at, brick_count, safe_count, cascade_total
		FROM reports ORDER BY created_at DESC, id ASC LIMIT ?`, listLimit(limit))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list reports")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.InputHash, &created, &e.BrickCount, &e.SafeCount, &e.CascadeTotal); err != nil {
			return nil, errs.Wrap(errs.ErrCodeStorage, err, "scan report row")
		}
		if e.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, errs.Wrap(errs.ErrCodeStorage, err, "report %s: bad created_at", e.ID)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list reports")
	}
	return out, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
