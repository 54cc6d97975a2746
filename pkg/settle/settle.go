package settle

import (
	"cmp"
	"context"
	"slices"

	"github.com/matzehuels/brickfall/pkg/brick"
	errs "github.com/matzehuels/brickfall/pkg/errors"
)

// Result is the outcome of one settling pass.
type Result struct {
	// Bricks holds the final position of every brick, indexed by ID.
	Bricks []brick.Brick

	// Order lists brick IDs in the order they were settled.
	Order []brick.ID

	// Drops records how many units each brick fell, indexed by ID.
	Drops []int

	// Moved counts bricks with a non-zero drop.
	Moved int

	// Occupancy is the frozen cell index built during the pass.
	Occupancy *Occupancy
}

// Order returns the settling order for bricks: ascending lowest z with ties
// kept in input order.
func Order(bricks []brick.Brick) []brick.ID {
	order := make([]brick.ID, len(bricks))
	for i, b := range bricks {
		order[i] = b.ID
	}
	byID := index(bricks)
	slices.SortStableFunc(order, func(a, b brick.ID) int {
		return cmp.Compare(bricks[byID[a]].MinZ(), bricks[byID[b]].MinZ())
	})
	return order
}

// maxPresize caps the occupancy map's initial capacity.
const maxPresize = 1 << 20

// Settle drops every brick as far as it will go and returns the settled
// configuration. The input slice is not modified.
//
// Brick IDs must be exactly 0..len(bricks)-1 in any order.
func Settle(bricks []brick.Brick) (*Result, error) {
	return SettleContext(context.Background(), bricks)
}

// SettleContext is like [Settle] but stops between bricks once ctx is done,
// returning ctx.Err().
func SettleContext(ctx context.Context, bricks []brick.Brick) (*Result, error) {
	if err := checkIDs(bricks); err != nil {
		return nil, err
	}

	res := &Result{
		Bricks:    make([]brick.Brick, len(bricks)),
		Order:     Order(bricks),
		Drops:     make([]int, len(bricks)),
		Occupancy: newOccupancy(min(volume(bricks), maxPresize)),
	}
	byID := index(bricks)

	for _, id := range res.Order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := bricks[byID[id]]
		if other, taken := res.Occupancy.owner(b); taken {
			return nil, errs.New(errs.ErrCodeInvariant,
				"brick %d (%s) overlaps settled brick %d before falling", b.ID, b, other)
		}

		final, drop := fall(b, res.Occupancy)
		res.Occupancy.insert(final)
		res.Bricks[id] = final
		res.Drops[id] = drop
		if drop > 0 {
			res.Moved++
		}
	}

	res.Occupancy.freeze()
	return res, nil
}

// fall lowers b one unit at a time while the next position is legal.
func fall(b brick.Brick, occ *Occupancy) (brick.Brick, int) {
	drop := 0
	for {
		next := b.ShiftedDown(1)
		if occ.collides(next) {
			return b, drop
		}
		b = next
		drop++
	}
}

func checkIDs(bricks []brick.Brick) error {
	seen := make([]bool, len(bricks))
	for _, b := range bricks {
		if b.ID < 0 || int(b.ID) >= len(bricks) {
			return errs.New(errs.ErrCodeInvalidInput, "brick id %d out of range [0,%d)", b.ID, len(bricks))
		}
		if seen[b.ID] {
			return errs.New(errs.ErrCodeInvalidInput, "duplicate brick id %d", b.ID)
		}
		seen[b.ID] = true
	}
	return nil
}

// index maps brick IDs to positions in bricks.
func index(bricks []brick.Brick) map[brick.ID]int {
	m := make(map[brick.ID]int, len(bricks))
	for i, b := range bricks {
		m[b.ID] = i
	}
	return m
}

func volume(bricks []brick.Brick) int {
	n := 0
	for _, b := range bricks {
		n += b.Volume()
	}
	return n
}
