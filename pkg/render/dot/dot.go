package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/brickfall/pkg/brick"
	"github.com/matzehuels/brickfall/pkg/report"
)

// Options configures support graph rendering.
type Options struct {
	// Detailed adds coordinates and cascade size to node labels.
	// When false, only the brick label ("#id") is shown.
	Detailed bool

	// Highlight enables the cascade highlight for Removed and Falling.
	Highlight bool

	// Removed is the brick whose removal is being shown.
	Removed brick.ID

	// Falling lists the bricks that fall when Removed is taken out.
	// Removed itself may be included.
	Falling []brick.ID
}

const floorNode = "floor"

// ToDOT converts a report's support graph to Graphviz DOT source.
func ToDOT(r *report.Report, opts Options) string {
	falling := make(map[brick.ID]bool, len(opts.Falling))
	for _, id := range opts.Falling {
		falling[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	fmt.Fprintf(&buf, "  %q [shape=plaintext, style=\"\", label=\"floor\"];\n", floorNode)
	buf.WriteString("\n")

	for _, e := range r.Bricks {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(e, opts.Detailed))}
		switch {
		case opts.Highlight && e.ID == opts.Removed:
			attrs = append(attrs, "fillcolor=tomato", "style=\"rounded,filled,bold\"")
		case opts.Highlight && falling[e.ID]:
			attrs = append(attrs, "fillcolor=orange")
		case e.Safe():
			attrs = append(attrs, "fillcolor=palegreen")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(e.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range r.Bricks {
		if len(e.Below) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(e.ID), floorNode)
			continue
		}
		for _, lower := range e.Below {
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(e.ID), nodeID(lower))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id brick.ID) string {
	return "b" + strconv.Itoa(int(id))
}

func fmtLabel(e report.BrickEntry, detailed bool) string {
	b := brick.Brick{ID: e.ID, Lo: e.Lo, Hi: e.Hi}
	if !detailed {
		return b.Label()
	}
	return fmt.Sprintf("%s\n%s\nfalls: %d", b.Label(), b, e.Falls)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// width and height match the viewBox, so the image scales cleanly in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
