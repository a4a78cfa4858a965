package flow

import "maps"

// Clone returns a deep copy of the node. Payload values are copied
// recursively for JSON-shaped data (maps, slices, scalars).
func (n *Node) Clone() *Node {
	c := *n
	c.Data = cloneData(n.Data)
	c.Inputs = clonePorts(n.Inputs)
	c.Outputs = clonePorts(n.Outputs)
	return &c
}

// Clone returns a deep copy of the module.
func (m *Module) Clone() *Module {
	c := NewModule()
	for id, n := range m.Nodes {
		c.Nodes[id] = n.Clone()
	}
	return c
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{Modules: make(map[string]*Module, len(g.Modules))}
	for name, m := range g.Modules {
		if m == nil {
			c.Modules[name] = NewModule()
			continue
		}
		c.Modules[name] = m.Clone()
	}
	return c
}

func clonePorts(ports []Port) []Port {
	if ports == nil {
		return nil
	}
	out := make([]Port, len(ports))
	for i, p := range ports {
		out[i].Connections = cloneEndpoints(p.Connections)
	}
	return out
}

func cloneEndpoints(eps []Endpoint) []Endpoint {
	out := make([]Endpoint, len(eps))
	for i, ep := range eps {
		out[i] = Endpoint{Node: ep.Node, Port: ep.Port}
		if ep.Points != nil {
			out[i].Points = append([]Point(nil), ep.Points...)
		}
	}
	return out
}

// cloneData copies a payload map. Nil stays nil.
func cloneData(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneData(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]string:
		return maps.Clone(t)
	case []string:
		return append([]string(nil), t...)
	case []float64:
		return append([]float64(nil), t...)
	case []int:
		return append([]int(nil), t...)
	default:
		return v
	}
}
