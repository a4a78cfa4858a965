// Package flow provides the flow graph engine: modules of positioned nodes
// whose numbered input and output ports are joined by directed connections.
//
// # Overview
//
// A [Graph] maps module names to [Module] values, each holding nodes keyed
// by [NodeID]. The module named [DefaultModule] ("Home") always exists.
// A [Store] owns one graph and is the only way to mutate it: every
// operation either applies completely or returns an error and leaves the
// graph untouched.
//
// # Basic Usage
//
//	s := flow.NewStore()
//	a, _ := s.AddNode(flow.NodeSpec{Name: "source", Outputs: 1})
//	b, _ := s.AddNode(flow.NodeSpec{Name: "sink", Inputs: 1, X: 300})
//	s.AddConnection(flow.Connection{
//	    SourceNode: a, OutputPort: "output_1",
//	    TargetNode: b, InputPort: "input_1",
//	})
//
// # Ports
//
// Ports are named input_<k> and output_<k>, 1-based and contiguous; the
// name is the ordering. [Store.AddPort] appends a port. [Store.RemovePort]
// detaches the port's edges, deletes it and renames every later port one
// index down, rewriting the references stored on neighbouring nodes so no
// edge ever points at a stale name.
//
// # Connections
//
// Each edge is stored twice: on the source's output port as
// {target, input port} and on the target's input port as
// {source, output port}. The two halves are kept in lockstep by every
// operation and checked by [Graph.Validate]. Edges never cross modules.
// Adding an existing edge and removing a missing one are no-ops reported
// through a boolean.
//
// Reroute points ([Store.AddReroutePoint] and friends) are ordered
// waypoints kept on the output-side half of an edge.
//
// # Node IDs
//
// An [IDAllocator] chosen at construction produces ids. The sequential
// policy yields "1", "2", ... and continues after the highest integer id
// when a graph is imported. The UUID policy yields random version-4 UUIDs.
//
// # Events
//
// Mutations raise events on an [events.Bus] (see package events for the
// names) after the change has been applied, so listeners always observe a
// consistent graph.
//
// # Concurrency
//
// A Store is not safe for concurrent use. Hosts that serve several callers
// must serialize access to it.
package flow
