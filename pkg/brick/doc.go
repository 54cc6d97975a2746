// Package brick models axis-aligned bricks on an integer lattice.
//
// # Overview
//
// A [Brick] is a cuboid of unit cells described by two inclusive corner
// coordinates, [Brick.Lo] and [Brick.Hi]. In practice exactly one axis spans
// a range (a rod of cells) or none does (a single cube). Each brick carries a
// stable [ID] equal to its position in the input; identifiers are the only
// cross-reference key used by the settling engine, the support graph and the
// cascade analyzer, so no package ever holds pointers into another's data.
//
// # Geometry
//
// [Brick.Cells] yields every occupied unit cell as an iterator (x outermost,
// then y, then z). The sequence is finite and may be ranged over any number of
// times. [Brick.ShiftedDown] returns a translated copy for probing a trial
// position without touching the original:
//
//	probe := b.ShiftedDown(1)
//	for c := range probe.Cells() {
//	    if occupied(c) {
//	        // blocked
//	    }
//	}
//
// # Parsing
//
// [ParseLine] reads the `x1,y1,z1~x2,y2,z2` text form; pkg/io builds whole
// snapshots on top of it. Swapped endpoints are normalized so that Lo <= Hi on every axis.
// Negative coordinates, cells in the ground plane (z = 0), wrong token counts
// and bricks spanning more than one axis are rejected with an INVALID_BRICK
// error from pkg/errors.
//
// # Floor
//
// The plane z = 0 is solid ground. The lowest legal resting height for a cell
// is [FloorZ].
package brick
