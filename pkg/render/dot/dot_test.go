package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/report"
)

// stack is a three-brick tower: 0 on the floor, 1 on 0, 2 on 1.
func stack() *report.Report {
	c := func(z int) brick.Coord { return brick.Coord{X: 0, Y: 0, Z: z} }
	return &report.Report{
		BrickCount:   3,
		SafeCount:    1,
		CascadeTotal: 3,
		Bricks: []report.BrickEntry{
			{ID: 0, Lo: c(1), Hi: c(1), Below: []brick.ID{}, Above: []brick.ID{1}, Falls: 2},
			{ID: 1, Lo: c(2), Hi: c(2), Below: []brick.ID{0}, Above: []brick.ID{2}, Falls: 1},
			{ID: 2, Lo: c(3), Hi: c(3), Below: []brick.ID{1}, Above: []brick.ID{}, Falls: 0},
		},
	}
}

func TestToDOT(t *testing.T) {
	out := ToDOT(stack(), Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=BT;",
		`"b0" -> "floor";`,
		`"b1" -> "b0";`,
		`"b2" -> "b1";`,
		`"b2" [label="#2", fillcolor=palegreen];`,
		`"b0" [label="#0"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "orange") || strings.Contains(out, "tomato") {
		t.Error("highlight colors present without Highlight")
	}
}

func TestToDOTDetailed(t *testing.T) {
	out := ToDOT(stack(), Options{Detailed: true})
	if !strings.Contains(out, `label="#1\n0,0,2~0,0,2\nfalls: 1"`) {
		t.Errorf("detailed label missing:\n%s", out)
	}
}

func TestToDOTHighlight(t *testing.T) {
	out := ToDOT(stack(), Options{Highlight: true, Removed: 1, Falling: []brick.ID{1, 2}})

	if !strings.Contains(out, `"b1" [label="#1", fillcolor=tomato`) {
		t.Errorf("removed brick not highlighted:\n%s", out)
	}
	if !strings.Contains(out, `"b2" [label="#2", fillcolor=orange];`) {
		t.Errorf("falling brick not highlighted:\n%s", out)
	}
	if !strings.Contains(out, `"b0" [label="#0"];`) {
		t.Errorf("unaffected brick changed:\n%s", out)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
