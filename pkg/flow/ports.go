package flow

import (
	"slices"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/events"
)

// AddPort appends one port to the given side of the node and returns its
// name (input_<n+1> or output_<n+1>).
func (s *Store) AddPort(id NodeID, side Side) (string, error) {
	n, _, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	if side == Output {
		n.Outputs = append(n.Outputs, Port{})
	} else {
		n.Inputs = append(n.Inputs, Port{})
	}
	name := PortName(side, len(n.Ports(side)))
	s.logger.Debug("port added", "id", id, "port", name)
	return name, nil
}

// RemovePort deletes the named port and renumbers the ports after it so the
// side stays contiguous from 1.
//
// The removal is applied as one unit, in this order:
//
//  1. every edge attached to the port is detached from both endpoints
//  2. the port is deleted; later ports shift down by one index
//  3. every remote endpoint that referenced a shifted port by its old name
//     is rewritten to the new name
//
// Detaching first keeps the removed port's stale name out of the rewrite.
// Returns PORT_NOT_FOUND if the node has no such port on side; nothing is
// changed in that case. Emits connectionRemoved per detached edge, then
// portRemoved with the removed port's original name.
func (s *Store) RemovePort(id NodeID, side Side, name string) error {
	n, _, err := s.lookup(id)
	if err != nil {
		return err
	}
	index := PortIndex(side, name)
	if index == 0 || index > len(n.Ports(side)) {
		return errors.New(errors.ErrCodePortNotFound, "node %s has no %s port %q", id, side, name)
	}

	var b batch
	for _, c := range portConnections(n, side, index) {
		if s.detach(c) {
			b.add(events.ConnectionRemoved, c)
		}
	}

	if side == Output {
		n.Outputs = slices.Delete(n.Outputs, index-1, index)
	} else {
		n.Inputs = slices.Delete(n.Inputs, index-1, index)
	}
	s.renumberPorts(n, side, index)
	b.add(events.PortRemoved, PortRef{Node: id, Side: side, Port: name})

	s.logger.Debug("port removed", "id", id, "port", name, "remaining", len(n.Ports(side)))
	s.flush(b)
	return nil
}

// renumberPorts rewrites remote references after the port at removed was
// deleted from side. Ports now at positions >= removed were previously one
// index higher; each remote endpoint naming (n, oldName) on the opposite
// side of a neighbour is renamed in a single pass over an old->new map.
func (s *Store) renumberPorts(n *Node, side Side, removed int) {
	ports := n.Ports(side)
	renames := make(map[string]string, len(ports)-removed+1)
	type remote struct {
		node NodeID
		port string
	}
	var neighbours []remote
	for k := removed; k <= len(ports); k++ {
		renames[PortName(side, k+1)] = PortName(side, k)
		for _, ep := range ports[k-1].Connections {
			r := remote{ep.Node, ep.Port}
			if !slices.Contains(neighbours, r) {
				neighbours = append(neighbours, r)
			}
		}
	}
	if len(neighbours) == 0 {
		return
	}

	for _, r := range neighbours {
		rn := s.node(r.node)
		if rn == nil {
			continue
		}
		rp := rn.Port(side.Opposite(), r.port)
		if rp == nil {
			continue
		}
		for i := range rp.Connections {
			ep := &rp.Connections[i]
			if ep.Node != n.ID {
				continue
			}
			if renamed, ok := renames[ep.Port]; ok {
				ep.Port = renamed
			}
		}
	}
}
