// Package curve synthesizes the cubic Bézier paths drawn for connections.
//
// # Overview
//
// A connection runs from an output port anchor to an input port anchor,
// optionally through user-placed reroute points. [Segments] turns that
// chain into one [Segment] per hop using [Curve], choosing a [Mode] per hop:
// the first hop opens from the source port, the last closes into the target
// port and interior hops use the Other mode. [Path] renders the result as
// SVG path data, either one path per segment or a single joined path.
//
//	segs := curve.Segments(curve.Point{X: 0}, curve.Point{X: 100}, nil, 0.5, 0.5)
//	// segs[0].Control1 == {50 0}, segs[0].Control2 == {50 0}
//
// All coordinates are canvas coordinates: callers remove viewport pan and
// zoom before calling. The package is pure and safe for concurrent use.
package curve
