package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/cascade"
	"github.com/matzehuels/brickfall/pkg/observability"
	"github.com/matzehuels/brickfall/pkg/settle"
	"github.com/matzehuels/brickfall/pkg/support"
)

// Settle runs the settling engine and reports it to the pipeline hooks.
func Settle(ctx context.Context, bricks []brick.Brick) (*settle.Result, error) {
	hooks := observability.Pipeline()
	hooks.OnSettleStart(ctx, len(bricks))

	start := time.Now()
	res, err := settle.SettleContext(ctx, bricks)
	moved := 0
	if res != nil {
		moved = res.Moved
	}
	hooks.OnSettleComplete(ctx, moved, time.Since(start), err)
	return res, err
}

// Build derives the support graph from a settling result.
func Build(ctx context.Context, res *settle.Result) (*support.Graph, error) {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(res.Bricks))

	start := time.Now()
	g, err := support.Build(res.Bricks, res.Occupancy)
	edges := 0
	if g != nil {
		edges = g.EdgeCount()
	}
	hooks.OnBuildComplete(ctx, edges, time.Since(start), err)
	return g, err
}

// Analyze runs one cascade query per brick.
func Analyze(ctx context.Context, g *support.Graph, workers int) (cascade.Summary, error) {
	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, g.Len(), workers)

	start := time.Now()
	sum, err := cascade.New(g).Summarize(ctx, workers)
	hooks.OnAnalyzeComplete(ctx, sum.SafeCount, sum.CascadeTotal, time.Since(start), err)
	return sum, err
}
