package support

import (
	"github.com/matzehuels/brickfall/pkg/brick"
	errs "github.com/matzehuels/brickfall/pkg/errors"
)

// Occupancy resolves a lattice cell to the brick occupying it.
// *settle.Occupancy satisfies this interface.
type Occupancy interface {
	At(c brick.Coord) (brick.ID, bool)
}

// freezer is implemented by occupancy indexes that know whether their
// settling pass has finished.
type freezer interface {
	Frozen() bool
}

// Build derives the support graph from settled bricks indexed by ID and the
// occupancy index of the same settling pass.
//
// For each brick the layer directly beneath it is probed; every distinct
// owner other than the brick itself becomes a support. Cells owned by the
// brick itself (the lower cells of a vertical brick) are skipped.
func Build(bricks []brick.Brick, occ Occupancy) (*Graph, error) {
	if f, ok := occ.(freezer); ok && !f.Frozen() {
		return nil, errs.New(errs.ErrCodeInvariant, "occupancy read before settling finished")
	}

	g := New(len(bricks))
	for i, b := range bricks {
		if int(b.ID) != i {
			return nil, errs.New(errs.ErrCodeInvalidInput, "brick at index %d has id %d; bricks must be indexed by id", i, b.ID)
		}
		for c := range b.ShiftedDown(1).Cells() {
			owner, ok := occ.At(c)
			if !ok || owner == b.ID {
				continue
			}
			if !g.Contains(owner) {
				return nil, errs.New(errs.ErrCodeInvariant, "cell %v below brick %d is owned by unknown brick %d", c, b.ID, owner)
			}
			if err := g.AddEdge(b.ID, owner); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}
