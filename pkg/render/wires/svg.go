package wires

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/render/curve"
)

const wiresCSS = `
    .node rect { fill: #fff; stroke: #333; stroke-width: 1.5; }
    .node .title { font: 13px sans-serif; fill: #222; }
    .port { fill: #fff; stroke: #333; stroke-width: 1.5; }
    .connection { fill: none; stroke: #4b6cb7; stroke-width: 2.5; }
    .reroute { fill: #4b6cb7; }`

// Options configures RenderSVG.
type Options struct {
	Curves   curve.Options
	Geometry Geometry
	// Padding is added around the bounding box of all boxes and points.
	Padding float64
}

// DefaultOptions returns default curves and geometry with 20px padding.
func DefaultOptions() Options {
	return Options{Curves: curve.DefaultOptions(), Geometry: DefaultGeometry(), Padding: 20}
}

// Wire is the rendered path data of one connection.
type Wire struct {
	Connection flow.Connection `json:"connection"`
	Points     []flow.Point    `json:"points,omitempty"`
	Paths      []string        `json:"paths"`
}

// Paths computes the path data of every connection in m, in the order of
// [flow.Module.Connections].
func Paths(m *flow.Module, opts Options) ([]Wire, error) {
	loc := NewStaticLocator(ModuleLookup{m}, opts.Geometry)
	var wires []Wire
	for _, c := range m.Connections() {
		a, err := loc.PortAnchor(c.SourceNode, flow.Output, c.OutputPort)
		if err != nil {
			return nil, err
		}
		b, err := loc.PortAnchor(c.TargetNode, flow.Input, c.InputPort)
		if err != nil {
			return nil, err
		}
		eps := m.Nodes[c.SourceNode].Port(flow.Output, c.OutputPort).Connections
		var stored []flow.Point
		for _, ep := range eps {
			if ep.Node == c.TargetNode && ep.Port == c.InputPort {
				stored = ep.Points
				break
			}
		}
		pts := make([]curve.Point, len(stored))
		for i, p := range stored {
			pts[i] = curve.Point{X: p.X, Y: p.Y}
		}
		wires = append(wires, Wire{Connection: c, Points: stored, Paths: opts.Curves.Path(a, b, pts)})
	}
	return wires, nil
}

// RenderSVG draws m at its stored coordinates: one box per node with its
// ports, and every connection as a Bezier path through its reroute points.
func RenderSVG(m *flow.Module, opts Options) ([]byte, error) {
	wires, err := Paths(m, opts)
	if err != nil {
		return nil, err
	}

	b := newBounds()
	for _, n := range m.Nodes {
		b.add(n.X, n.Y)
		b.add(n.X+opts.Geometry.Width, n.Y+opts.Geometry.Height(n))
	}
	for _, w := range wires {
		for _, p := range w.Points {
			b.add(p.X, p.Y)
		}
	}
	minX, minY, width, height := b.box(opts.Padding)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX, minY, width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", wiresCSS)

	for _, id := range m.NodeIDs() {
		renderNode(&buf, m.Nodes[id], opts.Geometry)
	}
	for _, w := range wires {
		renderWire(&buf, w)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func renderNode(buf *bytes.Buffer, n *flow.Node, g Geometry) {
	class := "node"
	if n.Class != "" {
		class += " " + escapeAttr(n.Class)
	}
	fmt.Fprintf(buf, `  <g class="%s" id="node-%s">`+"\n", class, escapeAttr(string(n.ID)))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6"/>`+"\n",
		n.X, n.Y, g.Width, g.Height(n))
	fmt.Fprintf(buf, `    <text class="title" x="%.1f" y="%.1f">`, n.X+8, n.Y+g.Header*0.65)
	xml.EscapeText(buf, []byte(n.Name))
	buf.WriteString("</text>\n")
	for _, side := range []flow.Side{flow.Input, flow.Output} {
		for i := range n.Ports(side) {
			p := g.Anchor(n, side, i+1)
			fmt.Fprintf(buf, `    <circle class="port %s" cx="%.1f" cy="%.1f" r="5"/>`+"\n",
				flow.PortName(side, i+1), p.X, p.Y)
		}
	}
	buf.WriteString("  </g>\n")
}

func renderWire(buf *bytes.Buffer, w Wire) {
	c := w.Connection
	attrs := fmt.Sprintf(`class="connection node_in_node-%s node_out_node-%s %s %s"`,
		escapeAttr(string(c.TargetNode)), escapeAttr(string(c.SourceNode)), c.OutputPort, c.InputPort)
	for _, d := range w.Paths {
		fmt.Fprintf(buf, `  <path %s d="%s"/>`+"\n", attrs, d)
	}
	for _, p := range w.Points {
		fmt.Fprintf(buf, `  <circle class="reroute" cx="%.1f" cy="%.1f" r="4"/>`+"\n", p.X, p.Y)
	}
}

func escapeAttr(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

type bounds struct{ minX, minY, maxX, maxY float64 }

func newBounds() bounds {
	return bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

func (b *bounds) add(x, y float64) {
	b.minX, b.maxX = min(b.minX, x), max(b.maxX, x)
	b.minY, b.maxY = min(b.minY, y), max(b.maxY, y)
}

// box returns the padded bounding box. An empty bounds yields a box of
// twice the padding at the origin.
func (b bounds) box(pad float64) (x, y, w, h float64) {
	if math.IsInf(b.minX, 1) {
		return -pad, -pad, 2 * pad, 2 * pad
	}
	return b.minX - pad, b.minY - pad, b.maxX - b.minX + 2*pad, b.maxY - b.minY + 2*pad
}
