package flow

import (
	"slices"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/events"
)

// AddConnection creates the edge c, storing it on both the source output
// port and the target input port.
//
// Returns NODE_NOT_FOUND or PORT_NOT_FOUND when an endpoint does not exist
// and CROSS_MODULE_EDGE when the two nodes live in different modules.
// Adding an edge that already exists is not an error: the call reports
// false and leaves the store unchanged. Emits connectionCreated when an
// edge is created.
func (s *Store) AddConnection(c Connection) (bool, error) {
	src, out, tgt, in, err := s.resolve(c)
	if err != nil {
		return false, err
	}
	if s.where[src.ID] != s.where[tgt.ID] {
		return false, errors.New(errors.ErrCodeCrossModuleEdge,
			"cannot connect %s (module %q) to %s (module %q)", src.ID, s.where[src.ID], tgt.ID, s.where[tgt.ID])
	}
	if indexEndpoint(out.Connections, c.TargetNode, c.InputPort) >= 0 {
		return false, nil
	}

	out.Connections = append(out.Connections, Endpoint{Node: c.TargetNode, Port: c.InputPort})
	in.Connections = append(in.Connections, Endpoint{Node: c.SourceNode, Port: c.OutputPort})

	s.logger.Debug("connection added", "edge", c.String())
	s.emit(events.ConnectionCreated, c)
	return true, nil
}

// RemoveConnection removes both stored halves of c. Reports whether the
// edge existed; removing an absent edge is not an error.
// Emits connectionRemoved when an edge is removed.
func (s *Store) RemoveConnection(c Connection) bool {
	if !s.detach(c) {
		return false
	}
	s.logger.Debug("connection removed", "edge", c.String())
	s.emit(events.ConnectionRemoved, c)
	return true
}

// HasConnection reports whether the edge c exists.
func (s *Store) HasConnection(c Connection) bool {
	_, out, _, _, err := s.resolve(c)
	return err == nil && indexEndpoint(out.Connections, c.TargetNode, c.InputPort) >= 0
}

// RemoveNodeConnections removes every edge touching the node, as source or
// target. Emits connectionRemoved per edge.
func (s *Store) RemoveNodeConnections(id NodeID) error {
	if _, _, err := s.lookup(id); err != nil {
		return err
	}
	var b batch
	s.detachAll(id, &b)
	s.flush(b)
	return nil
}

// NodeConnections returns every edge touching the node, outgoing edges
// first, each group in port order.
func (s *Store) NodeConnections(id NodeID) ([]Connection, error) {
	n, _, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return nodeConnections(n), nil
}

// Connections returns every edge in module, ordered by source node, output
// port, then storage order.
func (s *Store) Connections(module string) ([]Connection, error) {
	m, ok := s.graph.Modules[module]
	if !ok {
		return nil, errors.New(errors.ErrCodeModuleNotFound, "module %q not found", module)
	}
	return m.Connections(), nil
}

// nodeConnections lists the edges on both sides of n.
func nodeConnections(n *Node) []Connection {
	var conns []Connection
	for i, p := range n.Outputs {
		for _, ep := range p.Connections {
			conns = append(conns, Connection{SourceNode: n.ID, TargetNode: ep.Node, OutputPort: PortName(Output, i+1), InputPort: ep.Port})
		}
	}
	for i, p := range n.Inputs {
		for _, ep := range p.Connections {
			conns = append(conns, Connection{SourceNode: ep.Node, TargetNode: n.ID, OutputPort: ep.Port, InputPort: PortName(Input, i+1)})
		}
	}
	return conns
}

// portConnections lists the edges attached to one port of n.
func portConnections(n *Node, side Side, index int) []Connection {
	p := n.Ports(side)[index-1]
	conns := make([]Connection, 0, len(p.Connections))
	name := PortName(side, index)
	for _, ep := range p.Connections {
		if side == Output {
			conns = append(conns, Connection{SourceNode: n.ID, TargetNode: ep.Node, OutputPort: name, InputPort: ep.Port})
		} else {
			conns = append(conns, Connection{SourceNode: ep.Node, TargetNode: n.ID, OutputPort: ep.Port, InputPort: name})
		}
	}
	return conns
}

// resolve returns the live nodes and ports addressed by c.
func (s *Store) resolve(c Connection) (src *Node, out *Port, tgt *Node, in *Port, err error) {
	if src, _, err = s.lookup(c.SourceNode); err != nil {
		return
	}
	if tgt, _, err = s.lookup(c.TargetNode); err != nil {
		return
	}
	if out = src.Port(Output, c.OutputPort); out == nil {
		err = errors.New(errors.ErrCodePortNotFound, "node %s has no port %q", c.SourceNode, c.OutputPort)
		return
	}
	if in = tgt.Port(Input, c.InputPort); in == nil {
		err = errors.New(errors.ErrCodePortNotFound, "node %s has no port %q", c.TargetNode, c.InputPort)
		return
	}
	return
}

// detach removes both halves of c without emitting. Reports whether the
// output-side half existed.
func (s *Store) detach(c Connection) bool {
	_, out, _, in, err := s.resolve(c)
	if err != nil {
		return false
	}
	i := indexEndpoint(out.Connections, c.TargetNode, c.InputPort)
	if i < 0 {
		return false
	}
	out.Connections = slices.Delete(out.Connections, i, i+1)
	if j := indexEndpoint(in.Connections, c.SourceNode, c.OutputPort); j >= 0 {
		in.Connections = slices.Delete(in.Connections, j, j+1)
	}
	return true
}

// detachAll removes every edge touching id and records the removals in b.
func (s *Store) detachAll(id NodeID, b *batch) {
	n := s.node(id)
	if n == nil {
		return
	}
	for _, c := range nodeConnections(n) {
		// self-loops are listed from both sides; the second detach is a no-op
		if s.detach(c) {
			b.add(events.ConnectionRemoved, c)
		}
	}
}

func indexEndpoint(eps []Endpoint, node NodeID, port string) int {
	return slices.IndexFunc(eps, func(ep Endpoint) bool { return ep.Node == node && ep.Port == port })
}
