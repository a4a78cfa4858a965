package flow

import (
	"slices"
	"testing"

	ferrors "github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/events"
)

func TestAddPort(t *testing.T) {
	s := newTestStore()
	id := mustAdd(t, s, NodeSpec{Inputs: 1})

	tests := []struct {
		side Side
		want string
	}{
		{Input, "input_2"},
		{Output, "output_1"},
		{Output, "output_2"},
		{Input, "input_3"},
	}
	for _, tt := range tests {
		got, err := s.AddPort(id, tt.side)
		if err != nil {
			t.Fatalf("AddPort(%s) error = %v", tt.side, err)
		}
		if got != tt.want {
			t.Errorf("AddPort(%s) = %q, want %q", tt.side, got, tt.want)
		}
	}
	if _, err := s.AddPort("9", Input); !ferrors.Is(err, ferrors.ErrCodeNodeNotFound) {
		t.Errorf("AddPort(missing) error = %v, want NODE_NOT_FOUND", err)
	}
}

func TestRemovePortDropsItsConnection(t *testing.T) {
	s := newTestStore()
	a := mustAdd(t, s, NodeSpec{Name: "A", Outputs: 1})
	b := mustAdd(t, s, NodeSpec{Name: "B", Inputs: 1})
	mustConnect(t, s, edge(a, "output_1", b, "input_1"))
	got := recordEvents(t, s, events.ConnectionRemoved, events.PortRemoved)

	if err := s.RemovePort(a, Output, "output_1"); err != nil {
		t.Fatalf("RemovePort() error = %v", err)
	}

	na, _ := s.GetNode(a)
	nb, _ := s.GetNode(b)
	if len(na.Outputs) != 0 {
		t.Errorf("A outputs = %d, want 0", len(na.Outputs))
	}
	if len(nb.Inputs[0].Connections) != 0 {
		t.Errorf("B input_1 = %v, want no orphaned entry", nb.Inputs[0].Connections)
	}
	if want := []string{"connectionRemoved:1.output_1->2.input_1", "portRemoved:1.output_1"}; !slices.Equal(*got, want) {
		t.Errorf("events = %v, want %v", *got, want)
	}
	mustValidate(t, s)
}

func TestRemovePortNotFound(t *testing.T) {
	s := newTestStore()
	id := mustAdd(t, s, NodeSpec{Inputs: 2, Outputs: 1})

	for _, tc := range []struct {
		side Side
		name string
	}{
		{Input, "input_3"},
		{Input, "input_0"},
		{Input, "output_1"},
		{Output, "output_2"},
		{Output, "garbage"},
	} {
		if err := s.RemovePort(id, tc.side, tc.name); !ferrors.Is(err, ferrors.ErrCodePortNotFound) {
			t.Errorf("RemovePort(%s, %q) error = %v, want PORT_NOT_FOUND", tc.side, tc.name, err)
		}
	}
	n, _ := s.GetNode(id)
	if len(n.Inputs) != 2 || len(n.Outputs) != 1 {
		t.Errorf("ports = %d/%d after failed removals, want 2/1", len(n.Inputs), len(n.Outputs))
	}
}

// fan builds A(3 outputs) -> B(3 inputs) with edges
// o1->i1, o2->i2, o3->i3, o3->i1.
func fan(t *testing.T) (*Store, NodeID, NodeID) {
	t.Helper()
	s := newTestStore()
	a := mustAdd(t, s, NodeSpec{Outputs: 3})
	b := mustAdd(t, s, NodeSpec{Inputs: 3})
	mustConnect(t, s, edge(a, "output_1", b, "input_1"))
	mustConnect(t, s, edge(a, "output_2", b, "input_2"))
	mustConnect(t, s, edge(a, "output_3", b, "input_3"))
	mustConnect(t, s, edge(a, "output_3", b, "input_1"))
	return s, a, b
}

func TestRemoveOutputPortRenumbersRemoteReferences(t *testing.T) {
	s, a, b := fan(t)
	if _, err := s.AddReroutePoint(edge(a, "output_3", b, "input_3"), 0, Point{X: 5, Y: 6}); err != nil {
		t.Fatal(err)
	}

	before, _ := s.NodeConnections(a)
	if err := s.RemovePort(a, Output, "output_2"); err != nil {
		t.Fatalf("RemovePort() error = %v", err)
	}
	mustValidate(t, s)

	after, _ := s.NodeConnections(a)
	if len(after) != len(before)-1 {
		t.Errorf("connections = %d, want %d", len(after), len(before)-1)
	}

	nb, _ := s.GetNode(b)
	tests := []struct {
		port int
		want []Endpoint
	}{
		{0, []Endpoint{{Node: a, Port: "output_1"}, {Node: a, Port: "output_2"}}},
		{1, []Endpoint{}},
		{2, []Endpoint{{Node: a, Port: "output_2"}}},
	}
	for _, tt := range tests {
		if got := nb.Inputs[tt.port].Connections; !slices.EqualFunc(got, tt.want, endpointEqual) {
			t.Errorf("B input_%d = %v, want %v", tt.port+1, got, tt.want)
		}
	}

	pts, err := s.ReroutePoints(edge(a, "output_2", b, "input_3"))
	if err != nil {
		t.Fatalf("ReroutePoints(renamed edge) error = %v", err)
	}
	if want := []Point{{X: 5, Y: 6}}; !slices.Equal(pts, want) {
		t.Errorf("points = %v, want %v", pts, want)
	}
}

func TestRemoveInputPortRenumbersRemoteReferences(t *testing.T) {
	s, a, b := fan(t)

	if err := s.RemovePort(b, Input, "input_1"); err != nil {
		t.Fatalf("RemovePort() error = %v", err)
	}
	mustValidate(t, s)

	na, _ := s.GetNode(a)
	tests := []struct {
		port int
		want []Endpoint
	}{
		{0, []Endpoint{}},
		{1, []Endpoint{{Node: b, Port: "input_1"}}},
		{2, []Endpoint{{Node: b, Port: "input_2"}}},
	}
	for _, tt := range tests {
		if got := na.Outputs[tt.port].Connections; !slices.EqualFunc(got, tt.want, endpointEqual) {
			t.Errorf("A output_%d = %v, want %v", tt.port+1, got, tt.want)
		}
	}
}

func TestRemovePortPreservesConnectivityCount(t *testing.T) {
	for _, removed := range []string{"output_1", "output_2", "output_3"} {
		t.Run(removed, func(t *testing.T) {
			s, a, b := fan(t)
			na, _ := s.GetNode(a)
			total := s.ExportAll().ConnectionCount()
			onPort := len(na.Port(Output, removed).Connections)

			if err := s.RemovePort(a, Output, removed); err != nil {
				t.Fatalf("RemovePort() error = %v", err)
			}
			if got := s.ExportAll().ConnectionCount(); got != total-onPort {
				t.Errorf("ConnectionCount() = %d, want %d", got, total-onPort)
			}
			conns, _ := s.NodeConnections(b)
			for _, c := range conns {
				if !s.HasConnection(c) {
					t.Errorf("remote reference %s does not resolve", c)
				}
			}
			mustValidate(t, s)
		})
	}
}

func TestRemovePortOnSelfLoop(t *testing.T) {
	s := newTestStore()
	n := mustAdd(t, s, NodeSpec{Inputs: 2, Outputs: 2})
	mustConnect(t, s, edge(n, "output_1", n, "input_1"))
	mustConnect(t, s, edge(n, "output_2", n, "input_2"))

	if err := s.RemovePort(n, Output, "output_1"); err != nil {
		t.Fatal(err)
	}
	mustValidate(t, s)
	if !s.HasConnection(edge(n, "output_1", n, "input_2")) {
		t.Error("self-loop not renamed to output_1->input_2")
	}

	if err := s.RemovePort(n, Input, "input_1"); err != nil {
		t.Fatal(err)
	}
	mustValidate(t, s)
	if !s.HasConnection(edge(n, "output_1", n, "input_1")) {
		t.Error("self-loop not renamed to output_1->input_1")
	}
}
