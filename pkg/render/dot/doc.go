// Package dot renders a brick support graph as a Graphviz diagram.
//
// Each brick becomes a box and each support relation an arrow from the
// upper brick to the brick it rests on. Bricks resting on the floor point at
// a single "floor" node drawn at the bottom. Bricks that are safe to remove
// are filled green.
//
// # Usage
//
//	src := dot.ToDOT(r, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//
// # Cascade Highlight
//
// Setting [Options.Removed] and [Options.Falling] marks a removed brick in
// red and the bricks that would fall after its removal in orange:
//
//	falling, _ := analyzer.Fall(3)
//	src := dot.ToDOT(r, dot.Options{Removed: 3, Falling: falling, Highlight: true})
package dot
