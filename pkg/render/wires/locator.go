package wires

import (
	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/render/curve"
)

// Geometry sizes the box drawn for every node.
type Geometry struct {
	Width   float64 // box width
	Header  float64 // height of the title bar above the first port
	PortGap float64 // vertical distance between two ports
}

// DefaultGeometry matches the default editor stylesheet.
func DefaultGeometry() Geometry {
	return Geometry{Width: 160, Header: 28, PortGap: 22}
}

// Height returns the box height for n: the header plus one row per port on
// the taller side, and at least one row.
func (g Geometry) Height(n *flow.Node) float64 {
	rows := max(1, len(n.Inputs), len(n.Outputs))
	return g.Header + float64(rows)*g.PortGap
}

// Anchor returns the position of the index-th (1-based) port on side.
// Inputs sit on the left edge, outputs on the right edge.
func (g Geometry) Anchor(n *flow.Node, side flow.Side, index int) curve.Point {
	x := n.X
	if side == flow.Output {
		x += g.Width
	}
	return curve.Point{X: x, Y: n.Y + g.Header + (float64(index)-0.5)*g.PortGap}
}

// NodeLookup resolves node ids. *flow.Store satisfies it.
type NodeLookup interface {
	GetNode(id flow.NodeID) (*flow.Node, error)
}

// ModuleLookup adapts an exported module to NodeLookup.
type ModuleLookup struct{ Module *flow.Module }

// GetNode returns the node or NODE_NOT_FOUND.
func (m ModuleLookup) GetNode(id flow.NodeID) (*flow.Node, error) {
	n, ok := m.Module.Nodes[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %s not found", id)
	}
	return n, nil
}

// StaticLocator places port anchors on fixed-size node boxes. It reports
// canvas coordinates, which a view session at zoom 1 and zero origin uses
// unchanged.
type StaticLocator struct {
	nodes    NodeLookup
	geometry Geometry
}

// NewStaticLocator returns a locator over nodes.
func NewStaticLocator(nodes NodeLookup, g Geometry) *StaticLocator {
	return &StaticLocator{nodes: nodes, geometry: g}
}

// PortAnchor returns the anchor of a named port, or NODE_NOT_FOUND /
// PORT_NOT_FOUND.
func (l *StaticLocator) PortAnchor(id flow.NodeID, side flow.Side, port string) (curve.Point, error) {
	n, err := l.nodes.GetNode(id)
	if err != nil {
		return curve.Point{}, err
	}
	i := flow.PortIndex(side, port)
	if i == 0 || i > len(n.Ports(side)) {
		return curve.Point{}, errors.New(errors.ErrCodePortNotFound, "node %s has no port %q", id, port)
	}
	return l.geometry.Anchor(n, side, i), nil
}
