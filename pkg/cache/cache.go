// Package cache provides pluggable storage for computed analysis reports.
//
// Settling a large snapshot is strictly sequential, so the pipeline caches the
// finished report keyed by a hash of the input and the options that affect the
// result. Three backends are provided:
//   - [FileCache]: one compressed file per entry under a directory (CLI use)
//   - [RedisCache]: a shared Redis instance (API servers behind a balancer)
//   - [NullCache]: never stores anything (caching disabled, tests)
//
// Keys are produced by a [Keyer] so that callers never build key strings by
// hand. [ScopedKeyer] adds a prefix for multi-tenant deployments.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ReportKeyOpts holds the analysis options that change a report's content.
type ReportKeyOpts struct {
	Version int `json:"v"` // report schema version
}

// Keyer generates cache keys.
type Keyer interface {
	// ReportKey returns the key for the analysis report of an input.
	ReportKey(inputHash string, opts ReportKeyOpts) string

	// SnapshotKey returns the key for the settled snapshot of an input.
	SnapshotKey(inputHash string) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key generator.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ReportKey hashes the input hash together with the options.
func (DefaultKeyer) ReportKey(inputHash string, opts ReportKeyOpts) string {
	return hashKey("report", inputHash, opts)
}

// SnapshotKey returns "snapshot:<inputHash>".
func (DefaultKeyer) SnapshotKey(inputHash string) string {
	return "snapshot:" + inputHash
}

// Default entry lifetimes.
const (
	TTLReport   = 7 * 24 * time.Hour
	TTLSnapshot = 30 * 24 * time.Hour
)
