package support_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/brickfall/pkg/brick"
	errs "github.com/matzehuels/brickfall/pkg/errors"
	"github.com/matzehuels/brickfall/pkg/settle"
	"github.com/matzehuels/brickfall/pkg/support"
)

const sample = `1,0,1~1,2,1
0,0,2~2,0,2
0,2,3~2,2,3
0,0,4~0,2,4
2,0,5~2,2,5
0,1,6~2,1,6
1,1,8~1,1,9`

func build(t *testing.T, input string) *support.Graph {
	t.Helper()
	var bricks []brick.Brick
	for i, line := range strings.Split(input, "\n") {
		b, err := brick.ParseLine(brick.ID(i), line)
		if err != nil {
			t.Fatalf("parse line %d: %v", i+1, err)
		}
		bricks = append(bricks, b)
	}
	res, err := settle.Settle(bricks)
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	g, err := support.Build(res.Bricks, res.Occupancy)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestBuildSample(t *testing.T) {
	g := build(t, sample)

	below := map[brick.ID][]brick.ID{
		0: nil,
		1: {0},
		2: {0},
		3: {1, 2},
		4: {1, 2},
		5: {3, 4},
		6: {5},
	}
	above := map[brick.ID][]brick.ID{
		0: {1, 2},
		1: {3, 4},
		2: {3, 4},
		3: {5},
		4: {5},
		5: {6},
		6: nil,
	}

	for id, want := range below {
		if diff := cmp.Diff(want, g.Below(id), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Below(%d) mismatch (-want +got):\n%s", id, diff)
		}
	}
	for id, want := range above {
		if diff := cmp.Diff(want, g.Above(id), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Above(%d) mismatch (-want +got):\n%s", id, diff)
		}
	}
	if g.EdgeCount() != 9 {
		t.Errorf("EdgeCount() = %d, want 9", g.EdgeCount())
	}
}

func TestBuildConsistency(t *testing.T) {
	g := build(t, sample)
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	for a := range brick.ID(g.Len()) {
		for b := range brick.ID(g.Len()) {
			inAbove := contains(g.Above(a), b)
			inBelow := contains(g.Below(b), a)
			if inAbove != inBelow {
				t.Errorf("%d in Above(%d) = %v but %d in Below(%d) = %v", b, a, inAbove, a, b, inBelow)
			}
		}
	}
}

func TestBuildVerticalBrickSkipsItself(t *testing.T) {
	g := build(t, `0,0,1~0,0,4
0,0,5~0,0,5`)

	if len(g.Below(0)) != 0 {
		t.Errorf("Below(0) = %v, vertical floor brick should rest on nothing", g.Below(0))
	}
	if diff := cmp.Diff([]brick.ID{0}, g.Below(1)); diff != "" {
		t.Errorf("Below(1) mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildMultipleContactsOneEdge(t *testing.T) {
	// Brick 1 touches brick 0 along three cells; that is still a single edge.
	g := build(t, `0,0,1~2,0,1
0,0,2~2,0,2`)
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestBuildFloorBricks(t *testing.T) {
	g := build(t, `0,0,1~0,0,1
5,5,3~5,7,3`)
	if diff := cmp.Diff([]brick.ID{0, 1}, g.Grounded()); diff != "" {
		t.Errorf("Grounded() mismatch (-want +got):\n%s", diff)
	}
}

type mapOccupancy map[brick.Coord]brick.ID

func (m mapOccupancy) At(c brick.Coord) (brick.ID, bool) {
	id, ok := m[c]
	return id, ok
}

type thawed struct{ mapOccupancy }

func (thawed) Frozen() bool { return false }

func TestBuildErrors(t *testing.T) {
	b := brick.New(0, brick.Coord{X: 0, Y: 0, Z: 2}, brick.Coord{X: 0, Y: 0, Z: 2})

	t.Run("unknown owner", func(t *testing.T) {
		occ := mapOccupancy{{X: 0, Y: 0, Z: 1}: 9, {X: 0, Y: 0, Z: 2}: 0}
		_, err := support.Build([]brick.Brick{b}, occ)
		if !errs.Is(err, errs.ErrCodeInvariant) {
			t.Errorf("Build() error = %v, want %s", err, errs.ErrCodeInvariant)
		}
	})

	t.Run("not frozen", func(t *testing.T) {
		_, err := support.Build([]brick.Brick{b}, thawed{mapOccupancy{}})
		if !errs.Is(err, errs.ErrCodeInvariant) {
			t.Errorf("Build() error = %v, want %s", err, errs.ErrCodeInvariant)
		}
	})

	t.Run("not indexed by id", func(t *testing.T) {
		other := brick.New(1, brick.Coord{X: 3, Y: 0, Z: 1}, brick.Coord{X: 3, Y: 0, Z: 1})
		_, err := support.Build([]brick.Brick{other, b}, mapOccupancy{})
		if !errs.Is(err, errs.ErrCodeInvalidInput) {
			t.Errorf("Build() error = %v, want %s", err, errs.ErrCodeInvalidInput)
		}
	})
}

func contains(ids []brick.ID, id brick.ID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
