package support

import (
	"fmt"
	"slices"

	"github.com/matzehuels/brickfall/pkg/brick"
	errs "github.com/matzehuels/brickfall/pkg/errors"
)

// Edge records that Upper rests directly on Lower.
type Edge struct {
	Upper brick.ID `json:"upper"`
	Lower brick.ID `json:"lower"`
}

// Graph is the support relation between n bricks.
//
// The zero value is an empty graph; use [New] to size one.
type Graph struct {
	below [][]brick.ID // id -> bricks it rests on
	above [][]brick.ID // id -> bricks resting on it
	edges int
}

// New creates a graph over bricks 0..n-1 with no edges.
func New(n int) *Graph {
	return &Graph{
		below: make([][]brick.ID, n),
		above: make([][]brick.ID, n),
	}
}

// Len returns the number of bricks in the graph.
func (g *Graph) Len() int { return len(g.below) }

// EdgeCount returns the number of support contacts.
func (g *Graph) EdgeCount() int { return g.edges }

// Contains reports whether id names a brick in the graph.
func (g *Graph) Contains(id brick.ID) bool {
	return id >= 0 && int(id) < len(g.below)
}

// AddEdge records that upper rests on lower. Adding an existing edge is a
// no-op. Self-edges and unknown identifiers are rejected.
func (g *Graph) AddEdge(upper, lower brick.ID) error {
	if !g.Contains(upper) {
		return errs.New(errs.ErrCodeUnknownBrick, "unknown upper brick %d", upper)
	}
	if !g.Contains(lower) {
		return errs.New(errs.ErrCodeUnknownBrick, "unknown lower brick %d", lower)
	}
	if upper == lower {
		return errs.New(errs.ErrCodeInvariant, "brick %d cannot rest on itself", upper)
	}
	if slices.Contains(g.below[upper], lower) {
		return nil
	}
	g.below[upper] = insertSorted(g.below[upper], lower)
	g.above[lower] = insertSorted(g.above[lower], upper)
	g.edges++
	return nil
}

// Below returns the bricks id rests on, sorted ascending. The slice is a
// read-only view. An empty result means id rests on the floor.
func (g *Graph) Below(id brick.ID) []brick.ID {
	g.mustContain(id)
	return g.below[id]
}

// Above returns the bricks resting on id, sorted ascending. The slice is a
// read-only view.
func (g *Graph) Above(id brick.ID) []brick.ID {
	g.mustContain(id)
	return g.above[id]
}

// RestsOn reports whether upper rests directly on lower.
func (g *Graph) RestsOn(upper, lower brick.ID) bool {
	g.mustContain(upper)
	g.mustContain(lower)
	_, found := slices.BinarySearch(g.below[upper], lower)
	return found
}

// Grounded returns the bricks resting on the floor, in ascending order.
func (g *Graph) Grounded() []brick.ID {
	var ids []brick.ID
	for id, b := range g.below {
		if len(b) == 0 {
			ids = append(ids, brick.ID(id))
		}
	}
	return ids
}

// Unloaded returns the bricks with nothing resting on them, in ascending
// order. Removing one of these never causes another brick to fall.
func (g *Graph) Unloaded() []brick.ID {
	var ids []brick.ID
	for id, a := range g.above {
		if len(a) == 0 {
			ids = append(ids, brick.ID(id))
		}
	}
	return ids
}

// SoleSupports returns, in ascending order, the bricks that are the only
// support of at least one other brick.
func (g *Graph) SoleSupports() []brick.ID {
	sole := make([]bool, len(g.below))
	for _, b := range g.below {
		if len(b) == 1 {
			sole[b[0]] = true
		}
	}
	var ids []brick.ID
	for id, ok := range sole {
		if ok {
			ids = append(ids, brick.ID(id))
		}
	}
	return ids
}

// Edges returns every contact ordered by upper then lower brick.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for upper, lowers := range g.below {
		for _, lower := range lowers {
			edges = append(edges, Edge{Upper: brick.ID(upper), Lower: lower})
		}
	}
	return edges
}

// Validate checks that Below and Above are exact inverses, sorted, free of
// duplicates and self-edges, and agree with the edge count.
func (g *Graph) Validate() error {
	if len(g.below) != len(g.above) {
		return errs.New(errs.ErrCodeInvariant, "adjacency size mismatch: %d below, %d above", len(g.below), len(g.above))
	}

	count := 0
	for upper, lowers := range g.below {
		if err := checkList(brick.ID(upper), lowers, len(g.below)); err != nil {
			return err
		}
		for _, lower := range lowers {
			if _, ok := slices.BinarySearch(g.above[lower], brick.ID(upper)); !ok {
				return errs.New(errs.ErrCodeInvariant, "brick %d rests on %d but is missing from its load", upper, lower)
			}
		}
		count += len(lowers)
	}

	reverse := 0
	for lower, uppers := range g.above {
		if err := checkList(brick.ID(lower), uppers, len(g.above)); err != nil {
			return err
		}
		for _, upper := range uppers {
			if _, ok := slices.BinarySearch(g.below[upper], brick.ID(lower)); !ok {
				return errs.New(errs.ErrCodeInvariant, "brick %d carries %d but is missing from its supports", lower, upper)
			}
		}
		reverse += len(uppers)
	}

	if count != reverse || count != g.edges {
		return errs.New(errs.ErrCodeInvariant, "edge count mismatch: %d below, %d above, %d recorded", count, reverse, g.edges)
	}
	return nil
}

func checkList(owner brick.ID, ids []brick.ID, n int) error {
	for i, id := range ids {
		if id < 0 || int(id) >= n {
			return errs.New(errs.ErrCodeInvariant, "brick %d references unknown brick %d", owner, id)
		}
		if id == owner {
			return errs.New(errs.ErrCodeInvariant, "brick %d references itself", owner)
		}
		if i > 0 && ids[i-1] >= id {
			return errs.New(errs.ErrCodeInvariant, "adjacency of brick %d is not strictly sorted", owner)
		}
	}
	return nil
}

func (g *Graph) mustContain(id brick.ID) {
	if !g.Contains(id) {
		panic(fmt.Sprintf("support: brick %d not in graph of %d bricks", id, len(g.below)))
	}
}

func insertSorted(ids []brick.ID, id brick.ID) []brick.ID {
	i, _ := slices.BinarySearch(ids, id)
	return slices.Insert(ids, i, id)
}
