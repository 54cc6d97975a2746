package settle

import (
	"github.com/matzehuels/brickfall/pkg/brick"
)

// Occupancy maps every cell of a settled brick to the brick's identifier.
// A cell maps to at most one brick.
//
// The zero value is not usable; occupancies are created by [Settle].
type Occupancy struct {
	cells  map[brick.Coord]brick.ID
	frozen bool
}

func newOccupancy(sizeHint int) *Occupancy {
	return &Occupancy{cells: make(map[brick.Coord]brick.ID, sizeHint)}
}

// At returns the brick owning c, if any.
func (o *Occupancy) At(c brick.Coord) (brick.ID, bool) {
	id, ok := o.cells[c]
	return id, ok
}

// Len returns the number of occupied cells.
func (o *Occupancy) Len() int { return len(o.cells) }

// Frozen reports whether the settling pass that owns o has finished.
func (o *Occupancy) Frozen() bool { return o.frozen }

// collides reports whether any cell of b is below the floor or occupied.
func (o *Occupancy) collides(b brick.Brick) bool {
	if b.MinZ() < brick.FloorZ {
		return true
	}
	for c := range b.Cells() {
		if _, taken := o.cells[c]; taken {
			return true
		}
	}
	return false
}

// owner returns the first occupied cell's owner among b's cells.
func (o *Occupancy) owner(b brick.Brick) (brick.ID, bool) {
	for c := range b.Cells() {
		if id, taken := o.cells[c]; taken {
			return id, true
		}
	}
	return 0, false
}

func (o *Occupancy) insert(b brick.Brick) {
	if o.frozen {
		panic("settle: insert into frozen occupancy")
	}
	for c := range b.Cells() {
		o.cells[c] = b.ID
	}
}

func (o *Occupancy) freeze() { o.frozen = true }
