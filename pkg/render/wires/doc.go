// Package wires renders a flow module the way the editor shows it.
//
// Unlike the nodelink package, nothing is laid out: every node is drawn as
// a box at its stored X/Y with inputs on the left edge and outputs on the
// right edge, and every connection is drawn with the same Bezier geometry
// the editor uses ([curve.Options.Path]), including reroute points.
//
//	svg, err := wires.RenderSVG(g.Modules["Home"], wires.DefaultOptions())
//
// [StaticLocator] exposes the same port placement as a canvas.Locator, so
// a headless view session can compute connection paths without a DOM.
package wires
