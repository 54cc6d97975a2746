// Package report assembles the outcome of one analysis run into a portable
// document.
//
// A [Report] carries the headline numbers (safe count and cascade total), run
// statistics, and one [BrickEntry] per brick listing its settled position,
// supports, dependents, and cascade size. Reports are what the pipeline
// caches, what the store persists, and what the API returns.
//
// Reports serialize to JSON ([WriteJSON], [ReadJSON]) and YAML ([WriteYAML]).
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/cascade"
	errs "github.com/matzehuels/brickfall/pkg/errors"
	"github.com/matzehuels/brickfall/pkg/settle"
	"github.com/matzehuels/brickfall/pkg/support"
)

// Version is bumped whenever the report layout or the analysis semantics
// change, so cached reports from older builds are not reused.
const Version = 1

// Report is the full result of analyzing one brick snapshot.
type Report struct {
	ID           string       `json:"id" yaml:"id" bson:"_id"`
	Version      int          `json:"version" yaml:"version" bson:"version"`
	InputHash    string       `json:"input_hash" yaml:"input_hash" bson:"input_hash"`
	CreatedAt    time.Time    `json:"created_at" yaml:"created_at" bson:"created_at"`
	BrickCount   int          `json:"brick_count" yaml:"brick_count" bson:"brick_count"`
	EdgeCount    int          `json:"edge_count" yaml:"edge_count" bson:"edge_count"`
	Moved        int          `json:"moved" yaml:"moved" bson:"moved"`
	SafeCount    int          `json:"safe_count" yaml:"safe_count" bson:"safe_count"`
	CascadeTotal int          `json:"cascade_total" yaml:"cascade_total" bson:"cascade_total"`
	Bricks       []BrickEntry `json:"bricks" yaml:"bricks" bson:"bricks"`
}

// BrickEntry describes one settled brick.
type BrickEntry struct {
	ID    brick.ID    `json:"id" yaml:"id" bson:"id"`
	Lo    brick.Coord `json:"lo" yaml:"lo" bson:"lo"`
	Hi    brick.Coord `json:"hi" yaml:"hi" bson:"hi"`
	Drop  int         `json:"drop" yaml:"drop" bson:"drop"`
	Below []brick.ID  `json:"below" yaml:"below" bson:"below"`
	Above []brick.ID  `json:"above" yaml:"above" bson:"above"`
	Falls int         `json:"falls" yaml:"falls" bson:"falls"`
}

// Safe reports whether removing the brick fells nothing else.
func (e BrickEntry) Safe() bool { return e.Falls == 0 }

// New builds a report from the three stages of an analysis. The result must
// come from the same run as g and sum. A fresh random ID is assigned.
func New(inputHash string, res *settle.Result, g *support.Graph, sum cascade.Summary) (*Report, error) {
	n := len(res.Bricks)
	if g.Len() != n || len(sum.Counts) != n {
		return nil, errs.New(errs.ErrCodeInvariant,
			"report: %d bricks, graph of %d, %d cascade counts", n, g.Len(), len(sum.Counts))
	}

	r := &Report{
		ID:           uuid.NewString(),
		Version:      Version,
		InputHash:    inputHash,
		CreatedAt:    time.Now().UTC(),
		BrickCount:   n,
		EdgeCount:    g.EdgeCount(),
		Moved:        res.Moved,
		SafeCount:    sum.SafeCount,
		CascadeTotal: sum.CascadeTotal,
		Bricks:       make([]BrickEntry, n),
	}
	for i, b := range res.Bricks {
		r.Bricks[i] = BrickEntry{
			ID:    b.ID,
			Lo:    b.Lo,
			Hi:    b.Hi,
			Drop:  res.Drops[i],
			Below: nonNil(g.Below(b.ID)),
			Above: nonNil(g.Above(b.ID)),
			Falls: sum.Counts[i],
		}
	}
	return r, nil
}

// Entry returns the entry for id.
func (r *Report) Entry(id brick.ID) (BrickEntry, error) {
	if id < 0 || int(id) >= len(r.Bricks) {
		return BrickEntry{}, errs.New(errs.ErrCodeUnknownBrick, "brick %d not in report", id)
	}
	return r.Bricks[id], nil
}

// Settled returns the settled bricks recorded in the report, indexed by ID.
func (r *Report) Settled() []brick.Brick {
	out := make([]brick.Brick, len(r.Bricks))
	for i, e := range r.Bricks {
		out[i] = brick.Brick{ID: e.ID, Lo: e.Lo, Hi: e.Hi}
	}
	return out
}

// Graph rebuilds the support graph recorded in the report.
func (r *Report) Graph() (*support.Graph, error) {
	g := support.New(len(r.Bricks))
	for _, e := range r.Bricks {
		for _, lower := range e.Below {
			if err := g.AddEdge(e.ID, lower); err != nil {
				return nil, err
			}
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Summary returns the cascade summary recorded in the report.
func (r *Report) Summary() cascade.Summary {
	counts := make([]int, len(r.Bricks))
	for i, e := range r.Bricks {
		counts[i] = e.Falls
	}
	return cascade.Summary{SafeCount: r.SafeCount, CascadeTotal: r.CascadeTotal, Counts: counts}
}

// Clone returns a copy of the report with a new ID and creation time. The
// pipeline uses it so that a cached report is never shared between callers.
func (r *Report) Clone() *Report {
	c := *r
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	c.Bricks = make([]BrickEntry, len(r.Bricks))
	for i, e := range r.Bricks {
		e.Below = append([]brick.ID{}, e.Below...)
		e.Above = append([]brick.ID{}, e.Above...)
		c.Bricks[i] = e
	}
	return &c
}

func nonNil(ids []brick.ID) []brick.ID {
	if ids == nil {
		return []brick.ID{}
	}
	return append([]brick.ID{}, ids...)
}
