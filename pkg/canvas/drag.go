package canvas

import (
	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/events"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/render/curve"
)

// dragState tracks one in-progress drag. Exactly one of node or reroute is
// set.
type dragState struct {
	node    flow.NodeID
	reroute *rerouteTarget
	last    curve.Point // last pointer position, screen space
	moved   bool
}

type rerouteTarget struct {
	conn  flow.Connection
	index int
}

// Dragging reports whether a drag is in progress.
func (s *Session) Dragging() bool { return s.drag != nil }

// BeginDrag starts dragging a node from the given pointer position and
// selects it.
func (s *Session) BeginDrag(id flow.NodeID, pointer curve.Point) error {
	if err := s.SelectNode(id); err != nil {
		return err
	}
	s.drag = &dragState{node: id, last: pointer}
	return nil
}

// BeginRerouteDrag starts dragging reroute point index of c.
func (s *Session) BeginRerouteDrag(c flow.Connection, index int, pointer curve.Point) error {
	points, err := s.store.ReroutePoints(c)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(points) {
		return errors.New(errors.ErrCodeInvalidInput, "reroute point %d out of range [0,%d)", index, len(points))
	}
	s.drag = &dragState{reroute: &rerouteTarget{conn: c, index: index}, last: pointer}
	return nil
}

// DragTo moves the dragged item to follow the pointer. Node deltas are
// divided by the zoom factor; reroute points are placed at the pointer's
// canvas position. Without an active drag it does nothing.
func (s *Session) DragTo(pointer curve.Point) error {
	d := s.drag
	if d == nil {
		return nil
	}

	if d.reroute != nil {
		p := s.viewport.ScreenToCanvas(pointer)
		if err := s.store.MoveReroutePoint(d.reroute.conn, d.reroute.index, flow.Point{X: p.X, Y: p.Y}); err != nil {
			return err
		}
		d.last, d.moved = pointer, true
		return nil
	}

	n, err := s.store.GetNode(d.node)
	if err != nil {
		s.drag = nil
		return err
	}
	zoom := s.viewport.Zoom
	x := n.X + (pointer.X-d.last.X)/zoom
	y := n.Y + (pointer.Y-d.last.Y)/zoom
	if err := s.store.MoveNode(d.node, x, y); err != nil {
		return err
	}
	d.last, d.moved = pointer, true
	return nil
}

// EndDrag finishes the drag and reports whether anything moved.
func (s *Session) EndDrag() bool {
	if s.drag == nil {
		return false
	}
	moved := s.drag.moved
	s.drag = nil
	return moved
}

// PendingConnection is the half-drawn edge between BeginConnection and
// CompleteConnection. It is the payload of connectionStart.
type PendingConnection struct {
	SourceNode flow.NodeID `json:"sourceNode"`
	OutputPort string      `json:"outputPort"`
}

// Pending returns the connection being drawn, if any.
func (s *Session) Pending() (PendingConnection, bool) {
	if s.pending == nil {
		return PendingConnection{}, false
	}
	return *s.pending, true
}

// BeginConnection starts drawing an edge from an output port.
// Emits connectionStart.
func (s *Session) BeginConnection(node flow.NodeID, outputPort string) error {
	n, err := s.store.GetNode(node)
	if err != nil {
		return err
	}
	if n.Port(flow.Output, outputPort) == nil {
		return errors.New(errors.ErrCodePortNotFound, "node %s has no port %q", node, outputPort)
	}
	s.pending = &PendingConnection{SourceNode: node, OutputPort: outputPort}
	s.emit(events.ConnectionStart, *s.pending)
	return nil
}

// CompleteConnection drops the pending edge on an input port and adds it to
// the store. The pending state is cleared whether or not the store accepts
// the edge. Reports false for an edge that already existed.
func (s *Session) CompleteConnection(target flow.NodeID, inputPort string) (bool, error) {
	if s.pending == nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "no connection in progress")
	}
	p := *s.pending
	s.pending = nil
	return s.store.AddConnection(flow.Connection{
		SourceNode: p.SourceNode,
		OutputPort: p.OutputPort,
		TargetNode: target,
		InputPort:  inputPort,
	})
}

// CancelConnection abandons the pending edge. Emits connectionCancel when a
// connection was in progress.
func (s *Session) CancelConnection() {
	if s.pending == nil {
		return
	}
	s.pending = nil
	s.emit(events.ConnectionCancel, true)
}
