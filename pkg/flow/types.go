package flow

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/flowcanvas/pkg/errors"
)

// DefaultModule is the module every graph starts with. It can be switched
// away from but never removed.
const DefaultModule = "Home"

// =============================================================================
// Node IDs
// =============================================================================

// NodeID identifies a node across the whole graph. Sequential allocators
// produce decimal integers ("1", "2", ...), random allocators produce
// 36-character UUID strings.
//
// In JSON, integer ids are written as numbers and everything else as
// strings, so exported sequential graphs read {"id": 3}.
type NodeID string

// IntID returns the NodeID for a sequential integer id.
func IntID(n int) NodeID { return NodeID(strconv.Itoa(n)) }

// Int returns the integer value of a sequential id. The second result is
// false for UUIDs and for strings that are not in canonical decimal form.
func (id NodeID) Int() (int, bool) {
	n, err := strconv.Atoi(string(id))
	if err != nil || strconv.Itoa(n) != string(id) {
		return 0, false
	}
	return n, true
}

// String returns the id as a string.
func (id NodeID) String() string { return string(id) }

// MarshalJSON writes integer ids as JSON numbers and other ids as strings.
func (id NodeID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int(); ok {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *NodeID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NodeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("node id: %w", err)
	}
	v, err := n.Int64()
	if err != nil {
		return fmt.Errorf("node id %s: %w", n, err)
	}
	*id = NodeID(strconv.FormatInt(v, 10))
	return nil
}

// compareIDs orders integer ids numerically ahead of string ids, which are
// ordered lexically.
func compareIDs(a, b NodeID) int {
	an, aok := a.Int()
	bn, bok := b.Int()
	switch {
	case aok && bok:
		return an - bn
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(string(a), string(b))
}

// =============================================================================
// Ports
// =============================================================================

// Side selects the input or output half of a node.
type Side int

const (
	// Input ports receive connections from output ports.
	Input Side = iota
	// Output ports originate connections.
	Output
)

// String returns "input" or "output".
func (s Side) String() string {
	if s == Output {
		return "output"
	}
	return "input"
}

// Opposite returns the side a connection on s points to.
func (s Side) Opposite() Side {
	if s == Output {
		return Input
	}
	return Output
}

// PortRef names one port of a node.
type PortRef struct {
	Node NodeID `json:"node"`
	Side Side   `json:"side"`
	Port string `json:"port"`
}

// String renders the port as "1.output_2".
func (r PortRef) String() string { return r.Node.String() + "." + r.Port }

// ParseSide parses "input" or "output".
func ParseSide(s string) (Side, error) {
	switch s {
	case "input":
		return Input, nil
	case "output":
		return Output, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid port side: %q", s)
}

// PortName returns the conventional name of the 1-based port index on side,
// e.g. PortName(Output, 2) == "output_2".
func PortName(side Side, index int) string {
	return side.String() + "_" + strconv.Itoa(index)
}

// PortIndex parses a port name on the given side and returns its 1-based
// index, or 0 if the name does not belong to that side.
func PortIndex(side Side, name string) int {
	rest, ok := strings.CutPrefix(name, side.String()+"_")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || strconv.Itoa(n) != rest {
		return 0
	}
	return n
}

// Point is a canvas-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Endpoint is one half of a stored connection. On an output port it names
// the target node and input port; on an input port it names the source node
// and output port. Reroute points are kept on the output side only.
type Endpoint struct {
	Node   NodeID  `json:"node"`
	Port   string  `json:"port"`
	Points []Point `json:"points,omitempty"`
}

// Port holds the ordered connection list of one input or output.
type Port struct {
	Connections []Endpoint `json:"connections"`
}

// Connection addresses a directed edge from an output port to an input port.
type Connection struct {
	SourceNode NodeID `json:"sourceNode"`
	TargetNode NodeID `json:"targetNode"`
	OutputPort string `json:"outputPort"`
	InputPort  string `json:"inputPort"`
}

// String renders the edge as "1.output_1->2.input_1".
func (c Connection) String() string {
	return fmt.Sprintf("%s.%s->%s.%s", c.SourceNode, c.OutputPort, c.TargetNode, c.InputPort)
}

// =============================================================================
// Content
// =============================================================================

// ContentKind tags how a node's body is produced by the rendering layer.
type ContentKind string

const (
	// ContentPlain is inline markup rendered as-is.
	ContentPlain ContentKind = "plain"
	// ContentTemplate references a template registered with the renderer.
	ContentTemplate ContentKind = "template"
	// ContentComponent describes an external component tree to mount.
	ContentComponent ContentKind = "component"
)

// Content is the closed variant describing a node's body. The engine never
// interprets Body; renderers switch on Kind.
type Content struct {
	Kind ContentKind `json:"contentKind"`
	Body string      `json:"content"`
}

// Plain returns inline content.
func Plain(markup string) Content { return Content{Kind: ContentPlain, Body: markup} }

// TemplateRef returns content referencing a registered template by name.
func TemplateRef(name string) Content { return Content{Kind: ContentTemplate, Body: name} }

// ExternalComponent returns content describing an external component.
func ExternalComponent(descriptor string) Content {
	return Content{Kind: ContentComponent, Body: descriptor}
}

// Valid reports whether the kind is one of the three known variants.
func (c Content) Valid() bool {
	switch c.Kind {
	case ContentPlain, ContentTemplate, ContentComponent:
		return true
	}
	return false
}

// =============================================================================
// Nodes, Modules, Graph
// =============================================================================

// Node is a positioned vertex with contiguous, 1-based input and output
// ports. Inputs[k] is the port named input_<k+1>.
type Node struct {
	ID      NodeID
	Name    string
	Data    map[string]any
	Class   string
	Content Content
	Inputs  []Port
	Outputs []Port
	X, Y    float64
}

// Ports returns the port slice for side.
func (n *Node) Ports(side Side) []Port {
	if side == Output {
		return n.Outputs
	}
	return n.Inputs
}

// Port returns the named port on side, or nil if it does not exist.
func (n *Node) Port(side Side, name string) *Port {
	ports := n.Ports(side)
	i := PortIndex(side, name)
	if i == 0 || i > len(ports) {
		return nil
	}
	return &ports[i-1]
}

// NodeRecord is the serialized node shape: ports keyed by their names.
// Codecs other than JSON encode this record rather than Node.
type NodeRecord struct {
	ID          NodeID          `json:"id"`
	Name        string          `json:"name"`
	Data        map[string]any  `json:"data"`
	Class       string          `json:"class"`
	Content     string          `json:"content"`
	ContentKind ContentKind     `json:"contentKind"`
	Inputs      map[string]Port `json:"inputs"`
	Outputs     map[string]Port `json:"outputs"`
	X           float64         `json:"x"`
	Y           float64         `json:"y"`
}

// Record returns the serialized shape of the node.
func (n *Node) Record() NodeRecord {
	r := NodeRecord{
		ID:          n.ID,
		Name:        n.Name,
		Data:        n.Data,
		Class:       n.Class,
		Content:     n.Content.Body,
		ContentKind: n.Content.Kind,
		Inputs:      portsByName(Input, n.Inputs),
		Outputs:     portsByName(Output, n.Outputs),
		X:           n.X,
		Y:           n.Y,
	}
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	return r
}

// NodeFromRecord rebuilds a node from its serialized shape. Port names must
// be contiguous from 1 on each side; an empty content kind means plain.
func NodeFromRecord(r NodeRecord) (*Node, error) {
	inputs, err := portsFromNames(Input, r.Inputs)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", r.ID, err)
	}
	outputs, err := portsFromNames(Output, r.Outputs)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", r.ID, err)
	}
	n := &Node{
		ID:      r.ID,
		Name:    r.Name,
		Data:    r.Data,
		Class:   r.Class,
		Content: Content{Kind: r.ContentKind, Body: r.Content},
		Inputs:  inputs,
		Outputs: outputs,
		X:       r.X,
		Y:       r.Y,
	}
	if n.Content.Kind == "" {
		n.Content.Kind = ContentPlain
	}
	return n, nil
}

// MarshalJSON writes the node as its NodeRecord.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Record())
}

// UnmarshalJSON reads a NodeRecord and rebuilds the port slices.
func (n *Node) UnmarshalJSON(data []byte) error {
	var r NodeRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	node, err := NodeFromRecord(r)
	if err != nil {
		return err
	}
	*n = *node
	return nil
}

func portsByName(side Side, ports []Port) map[string]Port {
	m := make(map[string]Port, len(ports))
	for i, p := range ports {
		if p.Connections == nil {
			p.Connections = []Endpoint{}
		}
		m[PortName(side, i+1)] = p
	}
	return m
}

func portsFromNames(side Side, m map[string]Port) ([]Port, error) {
	ports := make([]Port, len(m))
	seen := make([]bool, len(m))
	for name, p := range m {
		i := PortIndex(side, name)
		if i == 0 || i > len(m) || seen[i-1] {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s ports are not contiguous: unexpected %q", side, name)
		}
		seen[i-1] = true
		ports[i-1] = p
	}
	return ports, nil
}

// Module is a named, isolated subgraph.
type Module struct {
	Nodes map[NodeID]*Node `json:"nodes"`
}

// NewModule returns an empty module.
func NewModule() *Module {
	return &Module{Nodes: make(map[NodeID]*Node)}
}

// NodeIDs returns the ids of the module's nodes in id order.
func (m *Module) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(m.Nodes))
	for id := range m.Nodes {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, compareIDs)
	return ids
}

// Connections lists every edge of the module from its output side,
// ordered by source node, output port, then storage order.
func (m *Module) Connections() []Connection {
	var conns []Connection
	for _, id := range m.NodeIDs() {
		for i, p := range m.Nodes[id].Outputs {
			for _, ep := range p.Connections {
				conns = append(conns, Connection{
					SourceNode: id,
					TargetNode: ep.Node,
					OutputPort: PortName(Output, i+1),
					InputPort:  ep.Port,
				})
			}
		}
	}
	return conns
}

// Graph is the export/import payload: every module keyed by name.
type Graph struct {
	Modules map[string]*Module `json:"modules"`
}

// NewGraph returns a graph holding only an empty default module.
func NewGraph() *Graph {
	return &Graph{Modules: map[string]*Module{DefaultModule: NewModule()}}
}

// NodeCount returns the number of nodes across all modules.
func (g *Graph) NodeCount() int {
	n := 0
	for _, m := range g.Modules {
		n += len(m.Nodes)
	}
	return n
}

// ConnectionCount returns the number of edges across all modules, counting
// each edge once from its output side.
func (g *Graph) ConnectionCount() int {
	n := 0
	for _, m := range g.Modules {
		for _, node := range m.Nodes {
			for _, p := range node.Outputs {
				n += len(p.Connections)
			}
		}
	}
	return n
}
