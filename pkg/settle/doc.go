// Package settle drops bricks under discrete gravity until every brick rests
// on the floor or on another brick.
//
// # Algorithm
//
// Bricks are processed in ascending order of their lowest cell; bricks at the
// same height keep their input order (a stable sort). Each brick is probed one
// unit lower at a time and the move is committed while every probed cell is
// at or above [brick.FloorZ] and not yet occupied. Once blocked, the brick's
// cells are recorded in the [Occupancy] index under its identifier.
//
// Processing low to high is what makes a single pass sufficient: anything a
// brick can come to rest on starts no higher than the brick itself and is
// therefore already settled when the brick falls.
//
// # Occupancy
//
// The occupancy index is private to one settling pass. [Settle] freezes it
// before returning, so the support graph builder and tests can read it but
// nothing can add cells after the fact.
//
// # Preconditions
//
// Input bricks must not overlap. A brick whose starting cells are already
// claimed by a settled brick is reported as an INVARIANT_VIOLATION error.
package settle
