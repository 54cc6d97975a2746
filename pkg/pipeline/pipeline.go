// Package pipeline runs the settle → support → cascade analysis end to end.
//
// The CLI and the HTTP API both go through a [Runner] so that caching,
// logging, and instrumentation behave the same everywhere.
//
// # Stages
//
//  1. Settle: drop every brick as far as it will go (strictly sequential)
//  2. Build: derive the support graph from the frozen occupancy index
//  3. Analyze: count cascades per brick, optionally sharded across workers
//
// Each stage is also exposed on its own ([Settle], [Build], [Analyze]) for
// callers that need an intermediate result.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Bricks: bricks})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Report.SafeCount, result.Report.CascadeTotal)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/cache"
	errs "github.com/matzehuels/brickfall/pkg/errors"
	"github.com/matzehuels/brickfall/pkg/report"
	"github.com/matzehuels/brickfall/pkg/support"
)

// Input limits for a single run.
const (
	// MaxBricks bounds the number of bricks.
	MaxBricks = 100_000

	// MaxCells bounds the total volume of all bricks, and so the occupancy index.
	MaxCells = 1_000_000

	// MaxHeight bounds the z coordinate of every brick, and so the fall distance.
	MaxHeight = 100_000
)

// Options configures one pipeline run.
type Options struct {
	// Bricks is the parsed input. IDs must be 0..len-1.
	Bricks []brick.Brick `json:"bricks"`

	// Workers is the number of goroutines used for cascade analysis.
	// Zero or negative means one per CPU.
	Workers int `json:"workers,omitempty"`

	// Refresh skips the cache lookup and recomputes.
	Refresh bool `json:"refresh,omitempty"`

	// TTL is the cache lifetime of the report. Zero means cache.TTLReport.
	TTL time.Duration `json:"-"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Report is the analysis outcome. It is never shared with the cache.
	Report *report.Report

	// Settled holds the settled bricks, indexed by ID.
	Settled []brick.Brick

	// Graph is the support graph of the settled bricks.
	Graph *support.Graph

	// InputHash identifies the input for caching and storage.
	InputHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the report came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BrickCount  int
	EdgeCount   int
	Moved       int
	SettleTime  time.Duration
	BuildTime   time.Duration
	AnalyzeTime time.Duration
}

// Total returns the summed stage time.
func (s Stats) Total() time.Duration {
	return s.SettleTime + s.BuildTime + s.AnalyzeTime
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	ReportHit   bool // Whether the report came from cache
	SnapshotHit bool // Whether the settled snapshot came from cache
}

// ValidateAndSetDefaults checks the input size and fills defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Bricks) > MaxBricks {
		return errs.New(errs.ErrCodeInvalidInput, "%d bricks exceeds the limit of %d", len(o.Bricks), MaxBricks)
	}
	if err := checkExtent(o.Bricks); err != nil {
		return err
	}
	if o.TTL <= 0 {
		o.TTL = cache.TTLReport
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// checkExtent rejects bricks that are too tall or occupy too many cells.
func checkExtent(bricks []brick.Brick) error {
	cells := 0
	for _, b := range bricks {
		if b.MaxZ() > MaxHeight {
			return errs.New(errs.ErrCodeInvalidInput, "brick %d reaches z=%d, above the limit of %d", b.ID, b.MaxZ(), MaxHeight)
		}
		for _, n := range [...]int{b.Hi.X - b.Lo.X, b.Hi.Y - b.Lo.Y, b.Hi.Z - b.Lo.Z} {
			if n < 0 || n >= MaxCells {
				return errs.New(errs.ErrCodeInvalidInput, "brick %d spans more than %d cells", b.ID, MaxCells)
			}
		}
		cells += b.Volume()
		if cells > MaxCells {
			return errs.New(errs.ErrCodeInvalidInput, "bricks occupy more than %d cells in total", MaxCells)
		}
	}
	return nil
}

// ReportKeyOpts returns cache key options for the report.
func (o *Options) ReportKeyOpts() cache.ReportKeyOpts {
	return cache.ReportKeyOpts{Version: report.Version}
}
