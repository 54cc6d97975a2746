package support

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/brickfall/pkg/brick"
	errs "github.com/matzehuels/brickfall/pkg/errors"
)

func TestAddEdge(t *testing.T) {
	g := New(3)
	if err := g.AddEdge(2, 0); err != nil {
		t.Fatalf("AddEdge(2, 0): %v", err)
	}
	if err := g.AddEdge(2, 1); err != nil {
		t.Fatalf("AddEdge(2, 1): %v", err)
	}
	if err := g.AddEdge(2, 0); err != nil {
		t.Fatalf("duplicate AddEdge(2, 0): %v", err)
	}

	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if diff := cmp.Diff([]brick.ID{0, 1}, g.Below(2)); diff != "" {
		t.Errorf("Below(2) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]brick.ID{2}, g.Above(0)); diff != "" {
		t.Errorf("Above(0) mismatch (-want +got):\n%s", diff)
	}
	if !g.RestsOn(2, 1) || g.RestsOn(1, 2) {
		t.Error("RestsOn should follow edge direction")
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := New(2)
	tests := []struct {
		name         string
		upper, lower brick.ID
		code         errs.Code
	}{
		{"unknown upper", 5, 0, errs.ErrCodeUnknownBrick},
		{"unknown lower", 0, -1, errs.ErrCodeUnknownBrick},
		{"self edge", 1, 1, errs.ErrCodeInvariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.AddEdge(tt.upper, tt.lower)
			if !errs.Is(err, tt.code) {
				t.Errorf("AddEdge(%d, %d) error = %v, want %s", tt.upper, tt.lower, err, tt.code)
			}
		})
	}
	if g.EdgeCount() != 0 {
		t.Errorf("failed AddEdge calls recorded %d edges", g.EdgeCount())
	}
}

func TestUnknownLookupPanics(t *testing.T) {
	g := New(2)
	defer func() {
		if recover() == nil {
			t.Error("Below(7) should panic for an unknown brick")
		}
	}()
	_ = g.Below(7)
}

func TestValidateDetectsCorruption(t *testing.T) {
	g := New(3)
	_ = g.AddEdge(1, 0)
	_ = g.AddEdge(2, 1)

	// Break the inverse relation by hand.
	g.above[0] = nil
	if err := g.Validate(); !errs.Is(err, errs.ErrCodeInvariant) {
		t.Errorf("Validate() = %v, want %s", err, errs.ErrCodeInvariant)
	}
}

func TestQueries(t *testing.T) {
	g := New(5)
	// 1 and 2 rest on 0; 3 rests on 1 and 2; 4 rests on 3.
	for _, e := range []Edge{{1, 0}, {2, 0}, {3, 1}, {3, 2}, {4, 3}} {
		if err := g.AddEdge(e.Upper, e.Lower); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}

	if diff := cmp.Diff([]brick.ID{0}, g.Grounded()); diff != "" {
		t.Errorf("Grounded() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]brick.ID{4}, g.Unloaded()); diff != "" {
		t.Errorf("Unloaded() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]brick.ID{0, 3}, g.SoleSupports()); diff != "" {
		t.Errorf("SoleSupports() mismatch (-want +got):\n%s", diff)
	}

	want := []Edge{{1, 0}, {2, 0}, {3, 1}, {3, 2}, {4, 3}}
	if diff := cmp.Diff(want, g.Edges()); diff != "" {
		t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
	}
}

func TestZeroGraph(t *testing.T) {
	var g Graph
	if g.Len() != 0 || g.EdgeCount() != 0 {
		t.Errorf("zero Graph has Len %d, EdgeCount %d", g.Len(), g.EdgeCount())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("zero Graph Validate: %v", err)
	}
	if diff := cmp.Diff([]Edge{}, g.Edges(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("zero Graph Edges mismatch:\n%s", diff)
	}
}
