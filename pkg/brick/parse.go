package brick

import (
	"strconv"
	"strings"

	errs "github.com/matzehuels/brickfall/pkg/errors"
)

// ParseCoord parses "x,y,z" into a Coord. Surrounding whitespace around each
// component is ignored. Components must be non-negative integers.
func ParseCoord(s string) (Coord, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Coord{}, errs.New(errs.ErrCodeInvalidBrick, "coordinate %q: expected 3 components, got %d", s, len(parts))
	}

	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Coord{}, errs.Wrap(errs.ErrCodeInvalidBrick, err, "coordinate %q: component %d is not an integer", s, i+1)
		}
		if n < 0 {
			return Coord{}, errs.New(errs.ErrCodeInvalidBrick, "coordinate %q: component %d is negative", s, i+1)
		}
		v[i] = n
	}
	return Coord{X: v[0], Y: v[1], Z: v[2]}, nil
}

// ParseLine parses one "x1,y1,z1~x2,y2,z2" line into a brick with the given id.
// Endpoints may be given in either order.
func ParseLine(id ID, line string) (Brick, error) {
	if err := errs.ValidateLine(line); err != nil {
		return Brick{}, err
	}

	ends := strings.Split(strings.TrimSpace(line), "~")
	if len(ends) != 2 {
		return Brick{}, errs.New(errs.ErrCodeInvalidBrick, "brick %q: expected 2 endpoints separated by '~', got %d", line, len(ends))
	}

	a, err := ParseCoord(ends[0])
	if err != nil {
		return Brick{}, err
	}
	b, err := ParseCoord(ends[1])
	if err != nil {
		return Brick{}, err
	}

	br := New(id, a, b)
	if err := Validate(br); err != nil {
		return Brick{}, err
	}
	return br, nil
}

// Validate checks the shape invariants of a brick: non-negative ordered
// corners above the floor plane and at most one spanning axis.
func Validate(b Brick) error {
	if b.ID < 0 {
		return errs.New(errs.ErrCodeInvalidBrick, "brick id %d is negative", b.ID)
	}
	if b.Lo.X < 0 || b.Lo.Y < 0 || b.Lo.Z < 0 {
		return errs.New(errs.ErrCodeInvalidBrick, "brick %s: negative coordinate", b)
	}
	if b.Lo.Z < FloorZ {
		return errs.New(errs.ErrCodeInvalidBrick, "brick %s: z=%d is ground, lowest legal z is %d", b, b.Lo.Z, FloorZ)
	}
	if b.Lo.X > b.Hi.X || b.Lo.Y > b.Hi.Y || b.Lo.Z > b.Hi.Z {
		return errs.New(errs.ErrCodeInvalidBrick, "brick %s: corners are not ordered", b)
	}

	spans := 0
	if b.Hi.X > b.Lo.X {
		spans++
	}
	if b.Hi.Y > b.Lo.Y {
		spans++
	}
	if b.Hi.Z > b.Lo.Z {
		spans++
	}
	if spans > 1 {
		return errs.New(errs.ErrCodeInvalidBrick, "brick %s spans %d axes, want at most 1", b, spans)
	}
	return nil
}
