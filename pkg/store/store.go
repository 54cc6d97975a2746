// Package store persists analysis reports.
//
// Three backends implement [Store]:
//   - [MemoryStore]: process-local, for tests and short-lived servers
//   - [SQLiteStore]: a single local database file (CLI and single-node API)
//   - [MongoStore]: a shared MongoDB collection (multi-instance API)
//
// Reports are immutable once saved. Lookups of unknown IDs return an error
// carrying errors.ErrCodeNotFound.
package store

import (
	"context"
	"time"

	errs "github.com/matzehuels/brickfall/pkg/errors"
	"github.com/matzehuels/brickfall/pkg/report"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Entry is the listing view of a stored report.
type Entry struct {
	ID           string    `json:"id" bson:"_id"`
	InputHash    string    `json:"input_hash" bson:"input_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	BrickCount   int       `json:"brick_count" bson:"brick_count"`
	SafeCount    int       `json:"safe_count" bson:"safe_count"`
	CascadeTotal int       `json:"cascade_total" bson:"cascade_total"`
}

// Store is the interface for report storage backends.
type Store interface {
	// Save stores a report under its ID, replacing any previous copy.
	Save(ctx context.Context, r *report.Report) error

	// Get retrieves a report by ID.
	Get(ctx context.Context, id string) (*report.Report, error)

	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]Entry, error)

	// Close releases backend resources.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend  string // memory, sqlite, or mongo
	Path     string // sqlite database file
	MongoURI string
	Database string // mongo database name
}

// Open returns the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		s, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMongo:
		s, err := OpenMongo(ctx, cfg.MongoURI, cfg.Database)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
}

// EntryOf returns the listing view of r.
func EntryOf(r *report.Report) Entry {
	return Entry{
		ID:           r.ID,
		InputHash:    r.InputHash,
		CreatedAt:    r.CreatedAt,
		BrickCount:   r.BrickCount,
		SafeCount:    r.SafeCount,
		CascadeTotal: r.CascadeTotal,
	}
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeNotFound, "report %s not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

func checkSave(r *report.Report) error {
	if r == nil {
		return errs.New(errs.ErrCodeInvalidInput, "nil report")
	}
	return errs.ValidateReportID(r.ID)
}
