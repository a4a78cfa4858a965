package wires

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/flowcanvas/pkg/canvas"
	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/render/curve"
)

var _ canvas.Locator = (*StaticLocator)(nil)

// pair builds two nodes 300px apart joined output_1 -> input_1.
func pair(t *testing.T) (*flow.Store, flow.Connection) {
	t.Helper()
	s := flow.NewStore()
	a, err := s.AddNode(flow.NodeSpec{Name: "a", Outputs: 1, X: 0, Y: 0})
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.AddNode(flow.NodeSpec{Name: "b <x>", Inputs: 2, X: 300, Y: 100})
	if err != nil {
		t.Fatal(err)
	}
	c := flow.Connection{SourceNode: a, OutputPort: "output_1", TargetNode: b, InputPort: "input_1"}
	if _, err := s.AddConnection(c); err != nil {
		t.Fatal(err)
	}
	return s, c
}

func TestGeometry(t *testing.T) {
	g := Geometry{Width: 100, Header: 20, PortGap: 10}
	n := &flow.Node{X: 5, Y: 7, Inputs: make([]flow.Port, 3), Outputs: make([]flow.Port, 1)}

	if h := g.Height(n); h != 50 {
		t.Errorf("Height() = %v, want 50", h)
	}
	if h := g.Height(&flow.Node{}); h != 30 {
		t.Errorf("Height(no ports) = %v, want 30", h)
	}
	if p := g.Anchor(n, flow.Input, 2); p != (curve.Point{X: 5, Y: 42}) {
		t.Errorf("Anchor(input 2) = %v, want {5 42}", p)
	}
	if p := g.Anchor(n, flow.Output, 1); p != (curve.Point{X: 105, Y: 32}) {
		t.Errorf("Anchor(output 1) = %v, want {105 32}", p)
	}
}

func TestStaticLocator(t *testing.T) {
	s, c := pair(t)
	loc := NewStaticLocator(s, DefaultGeometry())

	p, err := loc.PortAnchor(c.SourceNode, flow.Output, "output_1")
	if err != nil {
		t.Fatalf("PortAnchor() error = %v", err)
	}
	if p != (curve.Point{X: 160, Y: 39}) {
		t.Errorf("PortAnchor(output_1) = %v, want {160 39}", p)
	}

	tests := []struct {
		name string
		id   flow.NodeID
		side flow.Side
		port string
		code errors.Code
	}{
		{"UnknownNode", "99", flow.Output, "output_1", errors.ErrCodeNodeNotFound},
		{"PortOutOfRange", c.SourceNode, flow.Output, "output_2", errors.ErrCodePortNotFound},
		{"WrongSide", c.SourceNode, flow.Input, "output_1", errors.ErrCodePortNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loc.PortAnchor(tt.id, tt.side, tt.port)
			if !errors.Is(err, tt.code) {
				t.Errorf("PortAnchor() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestPathsMatchCurve(t *testing.T) {
	s, c := pair(t)
	m := s.ExportAll().Modules[flow.DefaultModule]

	wires, err := Paths(m, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(wires) != 1 {
		t.Fatalf("Paths() returned %d wires, want 1", len(wires))
	}
	want := curve.DefaultOptions().Path(curve.Point{X: 160, Y: 39}, curve.Point{X: 300, Y: 139}, nil)
	if len(wires[0].Paths) != 1 || wires[0].Paths[0] != want[0] {
		t.Errorf("Paths() = %v, want %v", wires[0].Paths, want)
	}
	if wires[0].Connection != c {
		t.Errorf("Connection = %v, want %v", wires[0].Connection, c)
	}
}

func TestPathsWithReroute(t *testing.T) {
	s, c := pair(t)
	if _, err := s.AddReroutePoint(c, -1, flow.Point{X: 230, Y: 60}); err != nil {
		t.Fatal(err)
	}
	m := s.ExportAll().Modules[flow.DefaultModule]

	opts := DefaultOptions()
	opts.Curves.FixCurvature = true
	wires, err := Paths(m, opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(wires[0].Paths); got != 2 {
		t.Errorf("fixed curvature with one point gave %d paths, want 2", got)
	}
	if !strings.HasSuffix(wires[0].Paths[0], "230 60") {
		t.Errorf("first segment %q should end at the reroute point", wires[0].Paths[0])
	}
}

func TestRenderSVG(t *testing.T) {
	s, c := pair(t)
	if _, err := s.AddReroutePoint(c, -1, flow.Point{X: 500, Y: -50}); err != nil {
		t.Fatal(err)
	}
	m := s.ExportAll().Modules[flow.DefaultModule]

	svg, err := RenderSVG(m, DefaultOptions())
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	for _, want := range []string{
		`viewBox="-20.0 -70.0 540.0 262.0"`,
		`id="node-1"`,
		`b &lt;x&gt;`,
		`class="connection node_in_node-2 node_out_node-1 output_1 input_1"`,
		`class="reroute" cx="500.0" cy="-50.0"`,
		`class="port input_2"`,
	} {
		if !bytes.Contains(svg, []byte(want)) {
			t.Errorf("RenderSVG() missing %q in:\n%s", want, svg)
		}
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg, err := RenderSVG(flow.NewModule(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte(`viewBox="-20.0 -20.0 40.0 40.0"`)) {
		t.Errorf("RenderSVG(empty) = %s", svg)
	}
}
