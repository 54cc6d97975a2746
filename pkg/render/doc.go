// Package render turns analysis results into pictures.
//
// The [dot] subpackage emits the support graph as Graphviz DOT and renders it
// to SVG. [ToPDF] and [ToPNG] convert any SVG further using the external
// rsvg-convert tool (from librsvg):
//
//	svg, err := dot.RenderSVG(ctx, dot.ToDOT(r, dot.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
package render
