package cascade

import (
	"slices"

	"github.com/matzehuels/brickfall/pkg/brick"
	errs "github.com/matzehuels/brickfall/pkg/errors"
)

// Graph is the read-only view of the support relation the analyzer needs.
// *support.Graph satisfies it.
type Graph interface {
	Len() int
	Contains(id brick.ID) bool
	Below(id brick.ID) []brick.ID
	Above(id brick.ID) []brick.ID
}

// Analyzer evaluates cascade queries against one support graph.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	g Graph
}

// New returns an analyzer over g.
func New(g Graph) *Analyzer {
	return &Analyzer{g: g}
}

// Len returns the number of bricks in the underlying graph.
func (a *Analyzer) Len() int { return a.g.Len() }

// Fall returns the falling set for removing x: x itself plus every
// brick that loses all of its supports, in ascending id order.
func (a *Analyzer) Fall(x brick.ID) ([]brick.ID, error) {
	if !a.g.Contains(x) {
		return nil, errs.New(errs.ErrCodeUnknownBrick, "brick %d is not in the support graph", x)
	}
	var q query
	falling := q.run(a.g, x)
	slices.Sort(falling)
	return falling, nil
}

// Count returns how many bricks other than x fall when x is removed.
func (a *Analyzer) Count(x brick.ID) (int, error) {
	if !a.g.Contains(x) {
		return 0, errs.New(errs.ErrCodeUnknownBrick, "brick %d is not in the support graph", x)
	}
	var q query
	return len(q.run(a.g, x)) - 1, nil
}

// query holds the scratch state of one falling-set computation. A zero query
// is ready to use; reusing one across calls on the same goroutine avoids
// reallocating its maps.
type query struct {
	falling  map[brick.ID]bool
	felled   map[brick.ID]int // falling supports seen per candidate
	worklist []brick.ID
	members  []brick.ID
}

func (q *query) reset() {
	if q.falling == nil {
		q.falling = make(map[brick.ID]bool)
		q.felled = make(map[brick.ID]int)
	}
	clear(q.falling)
	clear(q.felled)
	q.worklist = q.worklist[:0]
	q.members = q.members[:0]
}

// run returns the members of the falling set for x in discovery order.
// The returned slice is owned by q and valid until the next run.
func (q *query) run(g Graph, x brick.ID) []brick.ID {
	q.reset()
	q.falling[x] = true
	q.worklist = append(q.worklist, x)
	q.members = append(q.members, x)

	for len(q.worklist) > 0 {
		f := q.worklist[len(q.worklist)-1]
		q.worklist = q.worklist[:len(q.worklist)-1]

		for _, y := range g.Above(f) {
			if q.falling[y] {
				continue
			}
			q.felled[y]++
			if q.felled[y] == len(g.Below(y)) {
				q.falling[y] = true
				q.worklist = append(q.worklist, y)
				q.members = append(q.members, y)
			}
		}
	}
	return q.members
}
