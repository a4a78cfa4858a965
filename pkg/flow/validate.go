package flow

import (
	"slices"

	"github.com/matzehuels/flowcanvas/pkg/errors"
)

// Validate checks the structural invariants of the graph and returns the
// first violation found, as an INVALID_FORMAT error:
//
//   - the default module exists
//   - every node is stored under its own id and ids are unique graph-wide
//   - every endpoint names an existing node in the same module and an
//     existing port on the opposite side
//   - every edge is stored exactly once on the output port and exactly once
//     on the input port, each half naming the other
//   - reroute points appear only on output-side endpoints
//
// Modules and nodes are visited in sorted order so the reported violation
// is deterministic.
func (g *Graph) Validate() error {
	if _, ok := g.Modules[DefaultModule]; !ok {
		return invalid("default module %q is missing", DefaultModule)
	}

	owner := make(map[NodeID]string, g.NodeCount())
	names := make([]string, 0, len(g.Modules))
	for name := range g.Modules {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		m := g.Modules[name]
		if m == nil {
			return invalid("module %q is nil", name)
		}
		for id, n := range m.Nodes {
			if n == nil {
				return invalid("module %q: node %s is nil", name, id)
			}
			if n.ID != id {
				return invalid("module %q: node stored under %s has id %s", name, id, n.ID)
			}
			if other, dup := owner[id]; dup {
				return invalid("node id %s appears in modules %q and %q", id, other, name)
			}
			owner[id] = name
		}
	}

	for _, name := range names {
		m := g.Modules[name]
		ids := make([]NodeID, 0, len(m.Nodes))
		for id := range m.Nodes {
			ids = append(ids, id)
		}
		slices.SortFunc(ids, compareIDs)
		for _, id := range ids {
			if err := validateNode(m, m.Nodes[id]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate checks the store's graph. See Graph.Validate.
func (s *Store) Validate() error { return s.graph.Validate() }

func validateNode(m *Module, n *Node) error {
	for i, p := range n.Outputs {
		out := PortName(Output, i+1)
		for j, ep := range p.Connections {
			if slices.IndexFunc(p.Connections[:j], func(o Endpoint) bool { return o.Node == ep.Node && o.Port == ep.Port }) >= 0 {
				return invalid("node %s %s: duplicate edge to %s.%s", n.ID, out, ep.Node, ep.Port)
			}
			remote, ok := m.Nodes[ep.Node]
			if !ok {
				return invalid("node %s %s: target %s is not in the same module", n.ID, out, ep.Node)
			}
			in := remote.Port(Input, ep.Port)
			if in == nil {
				return invalid("node %s %s: target %s has no port %q", n.ID, out, ep.Node, ep.Port)
			}
			if indexEndpoint(in.Connections, n.ID, out) < 0 {
				return invalid("edge %s.%s->%s.%s is missing on the input side", n.ID, out, ep.Node, ep.Port)
			}
		}
	}
	for i, p := range n.Inputs {
		in := PortName(Input, i+1)
		for j, ep := range p.Connections {
			if len(ep.Points) > 0 {
				return invalid("node %s %s: reroute points stored on the input side", n.ID, in)
			}
			if slices.IndexFunc(p.Connections[:j], func(o Endpoint) bool { return o.Node == ep.Node && o.Port == ep.Port }) >= 0 {
				return invalid("node %s %s: duplicate edge from %s.%s", n.ID, in, ep.Node, ep.Port)
			}
			remote, ok := m.Nodes[ep.Node]
			if !ok {
				return invalid("node %s %s: source %s is not in the same module", n.ID, in, ep.Node)
			}
			out := remote.Port(Output, ep.Port)
			if out == nil {
				return invalid("node %s %s: source %s has no port %q", n.ID, in, ep.Node, ep.Port)
			}
			if indexEndpoint(out.Connections, n.ID, in) < 0 {
				return invalid("edge %s.%s->%s.%s is missing on the output side", ep.Node, ep.Port, n.ID, in)
			}
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidFormat, format, args...)
}
