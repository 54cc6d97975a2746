package brick

import "fmt"

// FloorZ is the lowest z a settled cell may occupy. The plane below it is ground.
const FloorZ = 1

// Coord is a unit cell on the integer lattice.
type Coord struct {
	X int `json:"x" yaml:"x" bson:"x"`
	Y int `json:"y" yaml:"y" bson:"y"`
	Z int `json:"z" yaml:"z" bson:"z"`
}

// String formats the coordinate in input form ("x,y,z").
func (c Coord) String() string {
	return fmt.Sprintf("%d,%d,%d", c.X, c.Y, c.Z)
}

// Down returns the cell n units below c.
func (c Coord) Down(n int) Coord {
	return Coord{X: c.X, Y: c.Y, Z: c.Z - n}
}

// Less orders coordinates by z, then y, then x.
func (c Coord) Less(o Coord) bool {
	if c.Z != o.Z {
		return c.Z < o.Z
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

func minMax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
