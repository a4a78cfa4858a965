package canvas

import (
	"io"
	"math"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	ferrors "github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/events"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/render/curve"
)

type fakeMounter struct {
	log []string
}

func (m *fakeMounter) Mount(n *flow.Node) error {
	m.log = append(m.log, "mount:"+n.ID.String()+":"+string(n.Content.Kind))
	return nil
}

func (m *fakeMounter) Unmount(id flow.NodeID) error {
	m.log = append(m.log, "unmount:"+id.String())
	return nil
}

// gridLocator puts output ports at (x+100, y) and input ports at (x, y) of
// the node, in screen space.
type gridLocator struct{ store *flow.Store }

func (l gridLocator) PortAnchor(id flow.NodeID, side flow.Side, _ string) (curve.Point, error) {
	n, err := l.store.GetNode(id)
	if err != nil {
		return curve.Point{}, err
	}
	if side == flow.Output {
		return curve.Point{X: n.X + 100, Y: n.Y}, nil
	}
	return curve.Point{X: n.X, Y: n.Y}, nil
}

func quietStore(opts ...flow.Option) *flow.Store {
	return flow.NewStore(append([]flow.Option{flow.WithLogger(log.New(io.Discard))}, opts...)...)
}

func newSession(t *testing.T, store *flow.Store, opts ...Option) *Session {
	t.Helper()
	s, err := NewSession(store, append([]Option{WithLogger(log.New(io.Discard))}, opts...)...)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func record(t *testing.T, bus *events.Bus, names ...string) *[]string {
	t.Helper()
	var got []string
	for _, name := range names {
		if _, err := bus.On(name, func(any) error {
			got = append(got, name)
			return nil
		}); err != nil {
			t.Fatal(err)
		}
	}
	return &got
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScreenToCanvas(t *testing.T) {
	tests := []struct {
		name   string
		v      Viewport
		screen curve.Point
		want   curve.Point
	}{
		{"Identity", Viewport{Width: 800, Height: 600, Zoom: 1}, curve.Point{X: 10, Y: 20}, curve.Point{X: 10, Y: 20}},
		{"Panned", Viewport{OriginX: 100, OriginY: 50, Width: 800, Height: 600, Zoom: 1}, curve.Point{X: 150, Y: 70}, curve.Point{X: 50, Y: 20}},
		{"Zoomed", Viewport{Width: 800, Height: 600, Zoom: 2}, curve.Point{X: 200, Y: 100}, curve.Point{X: 100, Y: 50}},
		{"PannedAndZoomed", Viewport{OriginX: 40, OriginY: 40, Width: 800, Height: 600, Zoom: 0.5}, curve.Point{X: 140, Y: 90}, curve.Point{X: 200, Y: 100}},
		{"Unsized", Viewport{Zoom: 2}, curve.Point{X: 8, Y: 4}, curve.Point{X: 4, Y: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.ScreenToCanvas(tt.screen)
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) {
				t.Errorf("ScreenToCanvas(%v) = %v, want %v", tt.screen, got, tt.want)
			}
			back := tt.v.CanvasToScreen(got)
			if !approx(back.X, tt.screen.X) || !approx(back.Y, tt.screen.Y) {
				t.Errorf("CanvasToScreen() = %v, want %v", back, tt.screen)
			}
		})
	}
}

func TestZoomStepsWithinLimits(t *testing.T) {
	store := quietStore()
	s := newSession(t, store)
	got := record(t, store.Events(), events.Zoom)

	for range 20 {
		s.ZoomIn()
	}
	if z := s.Viewport().Zoom; z != DefaultZoomMax {
		t.Errorf("zoom after many ZoomIn = %v, want %v", z, DefaultZoomMax)
	}
	for range 20 {
		s.ZoomOut()
	}
	if z := s.Viewport().Zoom; z != DefaultZoomMin {
		t.Errorf("zoom after many ZoomOut = %v, want %v", z, DefaultZoomMin)
	}
	s.ZoomReset()
	if z := s.Viewport().Zoom; z != 1 {
		t.Errorf("zoom after reset = %v, want 1", z)
	}
	// 6 steps up to 1.6, 11 down to 0.5, one reset
	if len(*got) != 18 {
		t.Errorf("zoom events = %d, want 18", len(*got))
	}
}

func TestSelection(t *testing.T) {
	store := quietStore()
	a, _ := store.AddNode(flow.NodeSpec{Outputs: 1})
	b, _ := store.AddNode(flow.NodeSpec{Inputs: 1})
	c := flow.Connection{SourceNode: a, OutputPort: "output_1", TargetNode: b, InputPort: "input_1"}
	if _, err := store.AddConnection(c); err != nil {
		t.Fatal(err)
	}
	s := newSession(t, store)
	got := record(t, store.Events(), events.NodeSelected, events.NodeUnselected, events.ConnectionSelected, events.ConnectionUnselected)

	if err := s.SelectNode(a); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectNode(b); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectConnection(c); err != nil {
		t.Fatal(err)
	}
	s.ClearSelection()

	want := []string{
		events.NodeSelected,
		events.NodeUnselected, events.NodeSelected,
		events.NodeUnselected, events.ConnectionSelected,
		events.ConnectionUnselected,
	}
	if !slices.Equal(*got, want) {
		t.Errorf("events = %v, want %v", *got, want)
	}

	if err := s.SelectNode("77"); !ferrors.Is(err, ferrors.ErrCodeNodeNotFound) {
		t.Errorf("SelectNode(missing) error = %v, want NODE_NOT_FOUND", err)
	}
	missing := flow.Connection{SourceNode: b, OutputPort: "output_1", TargetNode: a, InputPort: "input_1"}
	if err := s.SelectConnection(missing); !ferrors.Is(err, ferrors.ErrCodeConnectionNotFound) {
		t.Errorf("SelectConnection(missing) error = %v, want CONNECTION_NOT_FOUND", err)
	}
}

func TestDeleteSelection(t *testing.T) {
	store := quietStore()
	a, _ := store.AddNode(flow.NodeSpec{Outputs: 1})
	b, _ := store.AddNode(flow.NodeSpec{Inputs: 1})
	c := flow.Connection{SourceNode: a, OutputPort: "output_1", TargetNode: b, InputPort: "input_1"}
	if _, err := store.AddConnection(c); err != nil {
		t.Fatal(err)
	}
	s := newSession(t, store)

	if err := s.SelectConnection(c); err != nil {
		t.Fatal(err)
	}
	if ok, err := s.DeleteSelection(); err != nil || !ok {
		t.Fatalf("DeleteSelection(connection) = %v, %v", ok, err)
	}
	if store.HasConnection(c) {
		t.Error("connection survived DeleteSelection")
	}

	if err := s.SelectNode(a); err != nil {
		t.Fatal(err)
	}
	if ok, err := s.DeleteSelection(); err != nil || !ok {
		t.Fatalf("DeleteSelection(node) = %v, %v", ok, err)
	}
	if _, err := store.GetNode(a); err == nil {
		t.Error("node survived DeleteSelection")
	}
	if ok, _ := s.DeleteSelection(); ok {
		t.Error("DeleteSelection() with nothing selected = true")
	}
}

func TestSelectionClearedWithRemovedEdge(t *testing.T) {
	store := quietStore()
	a, _ := store.AddNode(flow.NodeSpec{Outputs: 1})
	b, _ := store.AddNode(flow.NodeSpec{Inputs: 1})
	c := flow.Connection{SourceNode: a, OutputPort: "output_1", TargetNode: b, InputPort: "input_1"}
	if _, err := store.AddConnection(c); err != nil {
		t.Fatal(err)
	}
	s := newSession(t, store)
	got := record(t, store.Events(), events.ConnectionUnselected)

	if err := s.SelectConnection(c); err != nil {
		t.Fatal(err)
	}
	if err := store.RemoveNode(b); err != nil {
		t.Fatal(err)
	}
	if sel, ok := s.SelectedConnection(); ok {
		t.Errorf("SelectedConnection() = %s after its edge was removed", sel)
	}
	if want := []string{events.ConnectionUnselected}; !slices.Equal(*got, want) {
		t.Errorf("events = %v, want %v", *got, want)
	}
}

func TestPortRemovalClearsShiftedSelection(t *testing.T) {
	store := quietStore()
	a, _ := store.AddNode(flow.NodeSpec{Outputs: 3})
	b, _ := store.AddNode(flow.NodeSpec{Inputs: 1})
	second := flow.Connection{SourceNode: a, OutputPort: "output_2", TargetNode: b, InputPort: "input_1"}
	third := flow.Connection{SourceNode: a, OutputPort: "output_3", TargetNode: b, InputPort: "input_1"}
	for _, c := range []flow.Connection{second, third} {
		if _, err := store.AddConnection(c); err != nil {
			t.Fatal(err)
		}
	}
	s := newSession(t, store)

	if err := s.SelectConnection(second); err != nil {
		t.Fatal(err)
	}
	if err := store.RemovePort(a, flow.Output, "output_1"); err != nil {
		t.Fatal(err)
	}
	if sel, ok := s.SelectedConnection(); ok {
		t.Fatalf("SelectedConnection() = %s after its port was renumbered", sel)
	}
	if ok, err := s.DeleteSelection(); err != nil || ok {
		t.Errorf("DeleteSelection() = %v, %v, want nothing removed", ok, err)
	}

	// old output_2 and output_3 edges, both shifted down by one
	for _, port := range []string{"output_1", "output_2"} {
		c := flow.Connection{SourceNode: a, OutputPort: port, TargetNode: b, InputPort: "input_1"}
		if !store.HasConnection(c) {
			t.Errorf("HasConnection(%s) = false", c)
		}
	}
}

func TestPortRemovalCancelsShiftedPending(t *testing.T) {
	store := quietStore()
	a, _ := store.AddNode(flow.NodeSpec{Outputs: 3})
	s := newSession(t, store)
	got := record(t, store.Events(), events.ConnectionCancel)

	if err := s.BeginConnection(a, "output_1"); err != nil {
		t.Fatal(err)
	}
	if err := store.RemovePort(a, flow.Output, "output_3"); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Pending(); !ok {
		t.Fatal("pending connection on an unshifted port was cancelled")
	}

	if err := s.BeginConnection(a, "output_2"); err != nil {
		t.Fatal(err)
	}
	if err := store.RemovePort(a, flow.Output, "output_1"); err != nil {
		t.Fatal(err)
	}
	if p, ok := s.Pending(); ok {
		t.Errorf("Pending() = %+v after its port was renumbered", p)
	}
	if want := []string{events.ConnectionCancel}; !slices.Equal(*got, want) {
		t.Errorf("events = %v, want %v", *got, want)
	}
}

func TestDragNodeScalesByZoom(t *testing.T) {
	store := quietStore()
	id, _ := store.AddNode(flow.NodeSpec{X: 100, Y: 100})
	s := newSession(t, store, WithViewport(Viewport{Width: 800, Height: 600, Zoom: 2}))

	if err := s.BeginDrag(id, curve.Point{X: 500, Y: 500}); err != nil {
		t.Fatal(err)
	}
	if err := s.DragTo(curve.Point{X: 540, Y: 480}); err != nil {
		t.Fatal(err)
	}
	if err := s.DragTo(curve.Point{X: 560, Y: 480}); err != nil {
		t.Fatal(err)
	}
	if !s.EndDrag() {
		t.Error("EndDrag() = false, want true")
	}

	n, _ := store.GetNode(id)
	if n.X != 130 || n.Y != 90 {
		t.Errorf("position = (%v,%v), want (130,90)", n.X, n.Y)
	}
	if s.SelectedNode() != id {
		t.Errorf("SelectedNode() = %q, want %q", s.SelectedNode(), id)
	}
	if s.EndDrag() {
		t.Error("second EndDrag() = true")
	}
}

func TestDragReroutePoint(t *testing.T) {
	store := quietStore()
	a, _ := store.AddNode(flow.NodeSpec{Outputs: 1})
	b, _ := store.AddNode(flow.NodeSpec{Inputs: 1})
	c := flow.Connection{SourceNode: a, OutputPort: "output_1", TargetNode: b, InputPort: "input_1"}
	if _, err := store.AddConnection(c); err != nil {
		t.Fatal(err)
	}
	s := newSession(t, store, WithViewport(Viewport{OriginX: 10, OriginY: 10, Width: 800, Height: 600, Zoom: 1}))

	if _, err := s.AddRerouteAt(c, 0, curve.Point{X: 60, Y: 60}); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginRerouteDrag(c, 0, curve.Point{X: 60, Y: 60}); err != nil {
		t.Fatal(err)
	}
	if err := s.DragTo(curve.Point{X: 110, Y: 30}); err != nil {
		t.Fatal(err)
	}
	s.EndDrag()

	pts, _ := store.ReroutePoints(c)
	if want := []flow.Point{{X: 100, Y: 20}}; !slices.Equal(pts, want) {
		t.Errorf("points = %v, want %v", pts, want)
	}
	if err := s.BeginRerouteDrag(c, 3, curve.Point{}); !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
		t.Errorf("BeginRerouteDrag(out of range) error = %v, want INVALID_INPUT", err)
	}
}

func TestDrawConnection(t *testing.T) {
	store := quietStore()
	a, _ := store.AddNode(flow.NodeSpec{Outputs: 1})
	b, _ := store.AddNode(flow.NodeSpec{Inputs: 1})
	s := newSession(t, store)
	got := record(t, store.Events(), events.ConnectionStart, events.ConnectionCreated, events.ConnectionCancel)

	if err := s.BeginConnection(a, "output_2"); !ferrors.Is(err, ferrors.ErrCodePortNotFound) {
		t.Errorf("BeginConnection(bad port) error = %v, want PORT_NOT_FOUND", err)
	}
	if err := s.BeginConnection(a, "output_1"); err != nil {
		t.Fatal(err)
	}
	if p, ok := s.Pending(); !ok || p.SourceNode != a {
		t.Errorf("Pending() = %+v, %v", p, ok)
	}
	ok, err := s.CompleteConnection(b, "input_1")
	if err != nil || !ok {
		t.Fatalf("CompleteConnection() = %v, %v", ok, err)
	}
	if _, ok := s.Pending(); ok {
		t.Error("pending connection not cleared")
	}
	if _, err := s.CompleteConnection(b, "input_1"); !ferrors.Is(err, ferrors.ErrCodeInvalidInput) {
		t.Errorf("CompleteConnection() without pending error = %v, want INVALID_INPUT", err)
	}

	if err := s.BeginConnection(a, "output_1"); err != nil {
		t.Fatal(err)
	}
	s.CancelConnection()
	s.CancelConnection()

	want := []string{events.ConnectionStart, events.ConnectionCreated, events.ConnectionStart, events.ConnectionCancel}
	if !slices.Equal(*got, want) {
		t.Errorf("events = %v, want %v", *got, want)
	}
}

func TestConnectionPath(t *testing.T) {
	store := quietStore()
	a, _ := store.AddNode(flow.NodeSpec{Outputs: 1})
	b, _ := store.AddNode(flow.NodeSpec{Inputs: 1, X: 200})
	c := flow.Connection{SourceNode: a, OutputPort: "output_1", TargetNode: b, InputPort: "input_1"}
	if _, err := store.AddConnection(c); err != nil {
		t.Fatal(err)
	}

	noLocator := newSession(t, store)
	if _, err := noLocator.ConnectionPath(c); !ferrors.Is(err, ferrors.ErrCodeUnsupported) {
		t.Errorf("ConnectionPath() without locator error = %v, want UNSUPPORTED", err)
	}
	noLocator.Close()

	s := newSession(t, store,
		WithLocator(gridLocator{store}),
		WithViewport(Viewport{Width: 800, Height: 600, Zoom: 1}),
	)
	paths, err := s.ConnectionPath(c)
	if err != nil {
		t.Fatalf("ConnectionPath() error = %v", err)
	}
	if want := []string{"M 100 0 C 150 0 150 0 200 0"}; !slices.Equal(paths, want) {
		t.Errorf("ConnectionPath() = %v, want %v", paths, want)
	}

	fixed := newSession(t, store,
		WithLocator(gridLocator{store}),
		WithCurves(curve.Options{Curvature: 0.5, RerouteCurvatureStartEnd: 0.5, RerouteCurvature: 0.5, FixCurvature: true}),
	)
	if _, err := store.AddReroutePoint(c, -1, flow.Point{X: 150, Y: 80}); err != nil {
		t.Fatal(err)
	}
	paths, err = fixed.ConnectionPath(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Errorf("fixed ConnectionPath() = %d paths, want 2", len(paths))
	}
}

func TestMountingFollowsActiveModule(t *testing.T) {
	store := quietStore()
	home, _ := store.AddNode(flow.NodeSpec{Content: flow.TemplateRef("card")})
	if err := store.CreateModule("Other"); err != nil {
		t.Fatal(err)
	}
	other, _ := store.AddNode(flow.NodeSpec{Module: "Other"})

	m := &fakeMounter{}
	s := newSession(t, store, WithMounter(m), WithViewport(DefaultViewport(800, 600)))
	if want := []flow.NodeID{home}; !slices.Equal(s.Mounted(), want) {
		t.Errorf("Mounted() = %v, want %v", s.Mounted(), want)
	}

	s.ZoomIn()
	if err := s.SelectNode(home); err != nil {
		t.Fatal(err)
	}
	if err := store.SwitchModule("Other"); err != nil {
		t.Fatal(err)
	}
	if want := []flow.NodeID{other}; !slices.Equal(s.Mounted(), want) {
		t.Errorf("Mounted() after switch = %v, want %v", s.Mounted(), want)
	}
	if s.Viewport().Zoom != 1 || s.SelectedNode() != "" {
		t.Errorf("view not reset: zoom %v, selected %q", s.Viewport().Zoom, s.SelectedNode())
	}

	added, _ := store.AddNode(flow.NodeSpec{})
	if err := store.RemoveNode(other); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"mount:1:template",
		"unmount:1",
		"mount:2:plain",
		"mount:3:plain",
		"unmount:2",
	}
	if !slices.Equal(m.log, want) {
		t.Errorf("mount log = %v, want %v", m.log, want)
	}
	if want := []flow.NodeID{added}; !slices.Equal(s.Mounted(), want) {
		t.Errorf("Mounted() = %v, want %v", s.Mounted(), want)
	}
}
