package brick

import (
	"fmt"
	"iter"
)

// ID identifies a brick by its 0-based position in the input.
type ID int

// Axis names the direction along which a brick extends.
type Axis int

const (
	// AxisNone marks a single-cell brick.
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "none"
}

// Brick is an axis-aligned cuboid between two inclusive corners.
//
// Bricks are plain values. The settling engine produces lowered copies
// rather than mutating shared state.
type Brick struct {
	ID ID    `json:"id"`
	Lo Coord `json:"lo"`
	Hi Coord `json:"hi"`
}

// New returns a brick with corners normalized so that Lo <= Hi on every axis.
func New(id ID, a, b Coord) Brick {
	lx, hx := minMax(a.X, b.X)
	ly, hy := minMax(a.Y, b.Y)
	lz, hz := minMax(a.Z, b.Z)
	return Brick{
		ID: id,
		Lo: Coord{X: lx, Y: ly, Z: lz},
		Hi: Coord{X: hx, Y: hy, Z: hz},
	}
}

// String formats the brick in input form ("x1,y1,z1~x2,y2,z2").
func (b Brick) String() string {
	return b.Lo.String() + "~" + b.Hi.String()
}

// Label is a short human-readable name used in logs, tables and diagrams.
func (b Brick) Label() string {
	return fmt.Sprintf("#%d", b.ID)
}

// MinZ returns the height of the brick's lowest cells.
func (b Brick) MinZ() int { return b.Lo.Z }

// MaxZ returns the height of the brick's highest cells.
func (b Brick) MaxZ() int { return b.Hi.Z }

// Volume returns the number of unit cells the brick occupies.
func (b Brick) Volume() int {
	return (b.Hi.X - b.Lo.X + 1) * (b.Hi.Y - b.Lo.Y + 1) * (b.Hi.Z - b.Lo.Z + 1)
}

// Span reports which axis the brick extends along, or AxisNone for a single
// cell. Bricks extending along more than one axis report the first such axis;
// use [Validate] to reject them.
func (b Brick) Span() Axis {
	switch {
	case b.Hi.X > b.Lo.X:
		return AxisX
	case b.Hi.Y > b.Lo.Y:
		return AxisY
	case b.Hi.Z > b.Lo.Z:
		return AxisZ
	}
	return AxisNone
}

// Cells yields every unit cell of the brick, x outermost and z innermost.
// The sequence can be ranged over repeatedly.
func (b Brick) Cells() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for x := b.Lo.X; x <= b.Hi.X; x++ {
			for y := b.Lo.Y; y <= b.Hi.Y; y++ {
				for z := b.Lo.Z; z <= b.Hi.Z; z++ {
					if !yield(Coord{X: x, Y: y, Z: z}) {
						return
					}
				}
			}
		}
	}
}

// CellSlice collects [Brick.Cells] into a slice.
func (b Brick) CellSlice() []Coord {
	cells := make([]Coord, 0, b.Volume())
	for c := range b.Cells() {
		cells = append(cells, c)
	}
	return cells
}

// Contains reports whether c is one of the brick's cells.
func (b Brick) Contains(c Coord) bool {
	return c.X >= b.Lo.X && c.X <= b.Hi.X &&
		c.Y >= b.Lo.Y && c.Y <= b.Hi.Y &&
		c.Z >= b.Lo.Z && c.Z <= b.Hi.Z
}

// ShiftedDown returns a copy translated by -n on the z axis.
// The receiver is left untouched.
func (b Brick) ShiftedDown(n int) Brick {
	b.Lo.Z -= n
	b.Hi.Z -= n
	return b
}

// Overlaps reports whether the two bricks share at least one cell.
func (b Brick) Overlaps(o Brick) bool {
	return b.Lo.X <= o.Hi.X && o.Lo.X <= b.Hi.X &&
		b.Lo.Y <= o.Hi.Y && o.Lo.Y <= b.Hi.Y &&
		b.Lo.Z <= o.Hi.Z && o.Lo.Z <= b.Hi.Z
}

// Footprint reports whether the x/y projections of the two bricks intersect.
func (b Brick) Footprint(o Brick) bool {
	return b.Lo.X <= o.Hi.X && o.Lo.X <= b.Hi.X &&
		b.Lo.Y <= o.Hi.Y && o.Lo.Y <= b.Hi.Y
}
