package curve

import (
	"strconv"
	"strings"
)

// Point is a canvas-space coordinate.
type Point struct {
	X, Y float64
}

// Mode selects how the two control-point offsets of a segment are signed.
type Mode int

const (
	// Symmetric pulls the curve out of the start to the right and into the
	// end from the left. Used for edges without reroute points.
	Symmetric Mode = iota
	// Open starts a rerouted edge at its source port.
	Open
	// Close ends a rerouted edge at its target port.
	Close
	// Other joins two interior reroute points.
	Other
)

var modeNames = [...]string{"symmetric", "open", "close", "other"}

// String returns the lower-case mode name.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
	return modeNames[m]
}

// Segment is one cubic Bézier from Start to End.
type Segment struct {
	Start    Point
	Control1 Point
	Control2 Point
	End      Point
}

// String returns the segment as SVG path data: "M x0 y0 C c1x c1y c2x c2y x1 y1".
func (s Segment) String() string {
	var b strings.Builder
	b.Grow(64)
	b.WriteString("M ")
	writePoint(&b, s.Start)
	b.WriteString(" C ")
	writePoint(&b, s.Control1)
	b.WriteByte(' ')
	writePoint(&b, s.Control2)
	b.WriteByte(' ')
	writePoint(&b, s.End)
	return b.String()
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
}

// Curve builds the segment from p0 to p1. Both control points sit at the
// height of their own endpoint, offset horizontally by |x1-x0|*curvature.
//
// For a rightward edge (x0 < x1) every mode pulls the first control point
// right of p0 and the second left of p1. For a leftward or vertical edge
// (x0 >= x1) the signs depend on mode so the curve stays convex:
//
//	mode       control 1    control 2
//	symmetric  x0 + d       x1 - d
//	open       x0 + d       x1 + d
//	close      x0 - d       x1 - d
//	other      x0 - d       x1 + d
func Curve(p0, p1 Point, curvature float64, mode Mode) Segment {
	d := abs(p1.X-p0.X) * curvature
	hx1, hx2 := p0.X+d, p1.X-d

	if p0.X >= p1.X {
		switch mode {
		case Open:
			hx1, hx2 = p0.X+d, p1.X+d
		case Close:
			hx1, hx2 = p0.X-d, p1.X-d
		case Other:
			hx1, hx2 = p0.X-d, p1.X+d
		}
	}

	return Segment{
		Start:    p0,
		Control1: Point{X: hx1, Y: p0.Y},
		Control2: Point{X: hx2, Y: p1.Y},
		End:      p1,
	}
}

// Segments builds the curve chain from anchor a through points to anchor b.
//
//   - no points: one Symmetric segment a->b using curvatureEnd
//   - one point: a->p (Open) and p->b (Close), both using curvatureEnd
//   - n points: a->p0 (Open, curvatureEnd), p[i]->p[i+1] (Other,
//     curvatureMid), p[n-1]->b (Close, curvatureEnd)
func Segments(a, b Point, points []Point, curvatureEnd, curvatureMid float64) []Segment {
	if len(points) == 0 {
		return []Segment{Curve(a, b, curvatureEnd, Symmetric)}
	}

	segs := make([]Segment, 0, len(points)+1)
	segs = append(segs, Curve(a, points[0], curvatureEnd, Open))
	for i := 0; i+1 < len(points); i++ {
		segs = append(segs, Curve(points[i], points[i+1], curvatureMid, Other))
	}
	segs = append(segs, Curve(points[len(points)-1], b, curvatureEnd, Close))
	return segs
}

// Path renders Segments as SVG path data. With fixed set, each segment is
// returned as its own path so it can be edited independently; otherwise
// the result holds a single path concatenating every segment.
func Path(a, b Point, points []Point, curvatureEnd, curvatureMid float64, fixed bool) []string {
	segs := Segments(a, b, points, curvatureEnd, curvatureMid)
	if fixed {
		out := make([]string, len(segs))
		for i, s := range segs {
			out[i] = s.String()
		}
		return out
	}

	var buf strings.Builder
	for i, s := range segs {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(s.String())
	}
	return []string{buf.String()}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
