package cascade

import (
	"cmp"
	"context"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/brickfall/pkg/brick"
)

// Summary aggregates one cascade query per brick.
type Summary struct {
	// SafeCount is the number of bricks whose removal fells nothing else.
	SafeCount int `json:"safe_count"`

	// CascadeTotal is the sum over all bricks of the number of other bricks
	// that fall when that brick is removed.
	CascadeTotal int `json:"cascade_total"`

	// Counts holds the per-brick cascade size, indexed by brick ID.
	Counts []int `json:"counts"`
}

// Safe returns the bricks that can be removed without felling anything,
// in ascending order.
func (s Summary) Safe() []brick.ID {
	var ids []brick.ID
	for id, n := range s.Counts {
		if n == 0 {
			ids = append(ids, brick.ID(id))
		}
	}
	return ids
}

// Critical returns up to n bricks with the largest cascades, largest first
// and ties broken by ascending id. Bricks with an empty cascade are omitted.
func (s Summary) Critical(n int) []brick.ID {
	var ids []brick.ID
	for id, c := range s.Counts {
		if c > 0 {
			ids = append(ids, brick.ID(id))
		}
	}
	slices.SortFunc(ids, func(a, b brick.ID) int {
		if c := cmp.Compare(s.Counts[b], s.Counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if n >= 0 && len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

// Summarize runs a cascade query for every brick.
//
// workers <= 0 uses GOMAXPROCS; workers == 1 runs on the calling goroutine.
// The context is checked between bricks so long analyses can be cancelled.
func (a *Analyzer) Summarize(ctx context.Context, workers int) (Summary, error) {
	n := a.g.Len()
	counts := make([]int, n)

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, max(n, 1))

	if workers == 1 {
		if err := a.countRange(ctx, counts, 0, n); err != nil {
			return Summary{}, err
		}
		return reduce(counts), nil
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			return a.countRange(ctx, counts, lo, hi)
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return reduce(counts), nil
}

// countRange fills counts[lo:hi]. Each worker owns a disjoint slot range.
func (a *Analyzer) countRange(ctx context.Context, counts []int, lo, hi int) error {
	var q query
	for id := lo; id < hi; id++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		counts[id] = len(q.run(a.g, brick.ID(id))) - 1
	}
	return nil
}

func reduce(counts []int) Summary {
	s := Summary{Counts: counts}
	for _, c := range counts {
		if c == 0 {
			s.SafeCount++
		}
		s.CascadeTotal += c
	}
	return s
}
