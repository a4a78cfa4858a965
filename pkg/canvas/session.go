package canvas

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/events"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/render/curve"
)

// Locator reports where port anchors are drawn, in screen coordinates.
type Locator interface {
	PortAnchor(node flow.NodeID, side flow.Side, port string) (curve.Point, error)
}

// Mounter attaches and detaches a node's visual content. Mount receives a
// copy of the node; implementations switch on node.Content.Kind.
type Mounter interface {
	Mount(node *flow.Node) error
	Unmount(id flow.NodeID) error
}

// Session is the transient view state of one editor: viewport, selection,
// an in-progress drag or connection, and the set of mounted nodes. It never
// holds graph data of its own; every structural change goes through the
// Store.
//
// A Session is not safe for concurrent use.
type Session struct {
	store   *flow.Store
	bus     *events.Bus
	logger  *log.Logger
	locator Locator
	mounter Mounter

	curves   curve.Options
	limits   ZoomLimits
	viewport Viewport
	initial  Viewport

	selectedNode flow.NodeID
	selectedConn *flow.Connection
	drag         *dragState
	pending      *PendingConnection
	mounted      map[flow.NodeID]bool

	subs []subscription
}

type subscription struct {
	event string
	id    events.ListenerID
}

// Option configures a Session.
type Option func(*Session)

// WithLocator sets the anchor locator used by ConnectionPath.
func WithLocator(l Locator) Option { return func(s *Session) { s.locator = l } }

// WithMounter enables content mounting.
func WithMounter(m Mounter) Option { return func(s *Session) { s.mounter = m } }

// WithCurves sets the curvature options.
func WithCurves(o curve.Options) Option { return func(s *Session) { s.curves = o } }

// WithZoomLimits sets the zoom range and step.
func WithZoomLimits(l ZoomLimits) Option { return func(s *Session) { s.limits = l } }

// WithViewport sets the initial viewport. Module switches reset to it.
func WithViewport(v Viewport) Option { return func(s *Session) { s.viewport = v } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(s *Session) { s.logger = l } }

// NewSession attaches a view session to store. It subscribes to the
// store's node, connection, port and module events; call Close to detach. When a Mounter is
// configured, the nodes of the active module are mounted immediately.
func NewSession(store *flow.Store, opts ...Option) (*Session, error) {
	s := &Session{
		store:    store,
		bus:      store.Events(),
		curves:   curve.DefaultOptions(),
		limits:   DefaultZoomLimits(),
		viewport: DefaultViewport(0, 0),
		mounted:  make(map[flow.NodeID]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.viewport.Zoom == 0 {
		s.viewport.Zoom = 1
	}
	s.initial = s.viewport

	handlers := []struct {
		event string
		fn    events.Listener
	}{
		{events.NodeCreated, s.onNodeCreated},
		{events.NodeRemoved, s.onNodeRemoved},
		{events.ConnectionRemoved, s.onConnectionRemoved},
		{events.PortRemoved, s.onPortRemoved},
		{events.ModuleChanged, s.onModuleChanged},
		{events.Import, s.onImport},
	}
	for _, h := range handlers {
		id, err := s.bus.On(h.event, h.fn)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.subs = append(s.subs, subscription{h.event, id})
	}

	if err := s.mountActive(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close unsubscribes the session from the store's events.
func (s *Session) Close() {
	for _, sub := range s.subs {
		s.bus.Off(sub.event, sub.id)
	}
	s.subs = nil
}

// Store returns the store the session edits.
func (s *Session) Store() *flow.Store { return s.store }

// Viewport returns the current viewport.
func (s *Session) Viewport() Viewport { return s.viewport }

// SetViewport replaces the viewport, e.g. after the host resized or panned
// the canvas. The zoom factor is clamped to the limits.
func (s *Session) SetViewport(v Viewport) {
	v.Zoom = s.limits.clampZoom(v.Zoom)
	s.viewport = v
}

// Pan shifts the canvas origin by a screen-space delta.
func (s *Session) Pan(dx, dy float64) {
	s.viewport.OriginX += dx
	s.viewport.OriginY += dy
}

// ZoomIn raises the zoom by one step unless already at the maximum.
// Emits zoom with the new factor.
func (s *Session) ZoomIn() { s.setZoom(s.viewport.Zoom + s.limits.Step) }

// ZoomOut lowers the zoom by one step unless already at the minimum.
// Emits zoom with the new factor.
func (s *Session) ZoomOut() { s.setZoom(s.viewport.Zoom - s.limits.Step) }

// ZoomReset returns to zoom 1. Emits zoom when the factor changed.
func (s *Session) ZoomReset() { s.setZoom(1) }

func (s *Session) setZoom(z float64) {
	z = s.limits.clampZoom(z)
	if z == s.viewport.Zoom {
		return
	}
	s.viewport.Zoom = z
	s.emit(events.Zoom, z)
}

// ScreenToCanvas maps a screen coordinate through the current viewport.
func (s *Session) ScreenToCanvas(p curve.Point) curve.Point {
	return s.viewport.ScreenToCanvas(p)
}

// ConnectionPath returns the SVG path data for c, resolving the port
// anchors through the Locator and routing through the stored reroute
// points. With FixCurvature set there is one path per segment.
func (s *Session) ConnectionPath(c flow.Connection) ([]string, error) {
	if s.locator == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no port locator configured")
	}
	points, err := s.store.ReroutePoints(c)
	if err != nil {
		return nil, err
	}
	a, err := s.locator.PortAnchor(c.SourceNode, flow.Output, c.OutputPort)
	if err != nil {
		return nil, err
	}
	b, err := s.locator.PortAnchor(c.TargetNode, flow.Input, c.InputPort)
	if err != nil {
		return nil, err
	}

	pts := make([]curve.Point, len(points))
	for i, p := range points {
		pts[i] = curve.Point{X: p.X, Y: p.Y}
	}
	return s.curves.Path(s.viewport.ScreenToCanvas(a), s.viewport.ScreenToCanvas(b), pts), nil
}

// AddRerouteAt inserts a reroute point at a screen position. segment is
// the index of the path segment the user clicked; the point is inserted
// before reroute point segment, so clicking segment 0 adds a new first
// point.
func (s *Session) AddRerouteAt(c flow.Connection, segment int, screen curve.Point) (int, error) {
	p := s.viewport.ScreenToCanvas(screen)
	return s.store.AddReroutePoint(c, segment, flow.Point{X: p.X, Y: p.Y})
}

// emit raises a view event. Listener failures are logged.
func (s *Session) emit(name string, payload any) {
	if err := s.bus.Emit(name, payload); err != nil {
		s.logger.Warn("event listener failed", "event", name, "err", err)
	}
}

// reset returns the view state to its initial values.
func (s *Session) reset() {
	s.viewport = s.initial
	s.selectedNode = ""
	s.selectedConn = nil
	s.drag = nil
	s.pending = nil
}
