package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/cache"
	bio "github.com/matzehuels/brickfall/pkg/io"
	"github.com/matzehuels/brickfall/pkg/observability"
	"github.com/matzehuels/brickfall/pkg/report"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// InputHash returns the content hash of bricks in canonical line form.
func InputHash(bricks []brick.Brick) (string, error) {
	var buf bytes.Buffer
	if err := bio.WriteBricks(&buf, bricks); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// Execute runs settle → build → analyze with report caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := InputHash(opts.Bricks)
	if err != nil {
		return nil, fmt.Errorf("hash input: %w", err)
	}
	key := r.Keyer.ReportKey(hash, opts.ReportKeyOpts())

	if !opts.Refresh {
		if res, ok := r.cachedResult(ctx, key, hash); ok {
			opts.Logger.Info("using cached report", "bricks", res.Stats.BrickCount)
			return res, nil
		}
	}

	result := &Result{InputHash: hash}
	result.Stats.BrickCount = len(opts.Bricks)

	// Stage 1: Settle
	start := time.Now()
	settled, err := Settle(ctx, opts.Bricks)
	if err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}
	result.Settled = settled.Bricks
	result.Stats.Moved = settled.Moved
	result.Stats.SettleTime = time.Since(start)

	opts.Logger.Info("settled bricks",
		"bricks", len(settled.Bricks),
		"moved", settled.Moved,
		"duration", result.Stats.SettleTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Build
	start = time.Now()
	g, err := Build(ctx, settled)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.BuildTime = time.Since(start)

	opts.Logger.Info("built support graph",
		"edges", g.EdgeCount(),
		"duration", result.Stats.BuildTime)

	// Stage 3: Analyze
	start = time.Now()
	sum, err := Analyze(ctx, g, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Stats.AnalyzeTime = time.Since(start)

	opts.Logger.Info("analyzed cascades",
		"safe", sum.SafeCount,
		"total", sum.CascadeTotal,
		"duration", result.Stats.AnalyzeTime)

	rep, err := report.New(hash, settled, g, sum)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	result.Report = rep

	if data, err := report.Marshal(rep); err == nil {
		if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "report", len(data))
		}
	}

	return result, nil
}

// cachedResult rebuilds a Result from a cached report.
func (r *Runner) cachedResult(ctx context.Context, key, hash string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "report")
		return nil, false
	}
	cached, err := report.Unmarshal(data)
	if err != nil || cached.InputHash != hash {
		observability.Cache().OnCacheMiss(ctx, "report")
		return nil, false
	}
	g, err := cached.Graph()
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "report")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "report")

	rep := cached.Clone()
	return &Result{
		Report:    rep,
		Settled:   rep.Settled(),
		Graph:     g,
		InputHash: hash,
		Stats: Stats{
			BrickCount: rep.BrickCount,
			EdgeCount:  rep.EdgeCount,
			Moved:      rep.Moved,
		},
		CacheInfo: CacheInfo{ReportHit: true},
	}, true
}

// SettleSnapshot settles bricks with snapshot caching and returns the settled
// bricks, indexed by ID, and whether they came from the cache.
func (r *Runner) SettleSnapshot(ctx context.Context, opts Options) ([]brick.Brick, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := InputHash(opts.Bricks)
	if err != nil {
		return nil, false, fmt.Errorf("hash input: %w", err)
	}
	key := r.Keyer.SnapshotKey(hash)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if bricks, err := bio.ReadBricks(bytes.NewReader(data)); err == nil && len(bricks) == len(opts.Bricks) {
				observability.Cache().OnCacheHit(ctx, "snapshot")
				return bricks, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "snapshot")
	}

	res, err := Settle(ctx, opts.Bricks)
	if err != nil {
		return nil, false, fmt.Errorf("settle: %w", err)
	}
	opts.Logger.Info("settled bricks", "bricks", len(res.Bricks), "moved", res.Moved)

	var buf bytes.Buffer
	if err := bio.WriteBricks(&buf, res.Bricks); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLSnapshot); err == nil {
			observability.Cache().OnCacheSet(ctx, "snapshot", buf.Len())
		}
	}
	return res.Bricks, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
