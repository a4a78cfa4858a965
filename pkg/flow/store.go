package flow

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/events"
)

// Store owns the canonical graph. Every mutation goes through it, runs to
// completion, and only then raises its events on the bus.
//
// The zero value is not usable - use NewStore. Store is not safe for
// concurrent use; callers sharing one Store across goroutines must
// serialize access (see internal/server).
type Store struct {
	graph  *Graph
	active string
	where  map[NodeID]string // node id -> module name
	ids    IDAllocator
	bus    *events.Bus
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithAllocator sets the id allocator. The allocator cannot be changed
// after construction.
func WithAllocator(a IDAllocator) Option { return func(s *Store) { s.ids = a } }

// WithBus sets the event bus the store emits on.
func WithBus(b *events.Bus) Option { return func(s *Store) { s.bus = b } }

// WithLogger sets the logger used for mutation tracing.
func WithLogger(l *log.Logger) Option { return func(s *Store) { s.logger = l } }

// NewStore creates a store holding an empty default module, which is also
// the active module. Without options it allocates sequential ids, emits on
// a private bus and logs to log.Default().
func NewStore(opts ...Option) *Store {
	s := &Store{
		graph:  NewGraph(),
		active: DefaultModule,
		where:  make(map[NodeID]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = NewSequentialAllocator()
	}
	if s.bus == nil {
		s.bus = events.NewBus()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Events returns the bus the store emits on.
func (s *Store) Events() *events.Bus { return s.bus }

// IDPolicy reports the allocation policy fixed at construction.
func (s *Store) IDPolicy() IDPolicy { return s.ids.Policy() }

// =============================================================================
// Event batching
// =============================================================================

type emission struct {
	name    string
	payload any
}

// batch collects the events of one operation so they are raised after the
// whole mutation has been applied.
type batch []emission

func (b *batch) add(name string, payload any) { *b = append(*b, emission{name, payload}) }

// flush emits the batch in order. A listener error cannot roll back an
// applied mutation; it is logged, the remaining listeners of that event are
// skipped, and the next event of the batch is still emitted.
func (s *Store) flush(b batch) {
	for _, e := range b {
		if err := s.bus.Emit(e.name, e.payload); err != nil {
			s.logger.Warn("event listener failed", "event", e.name, "err", err)
		}
	}
}

func (s *Store) emit(name string, payload any) { s.flush(batch{{name, payload}}) }

// =============================================================================
// Lookup
// =============================================================================

// lookup returns the live node and its module name.
func (s *Store) lookup(id NodeID) (*Node, string, error) {
	module, ok := s.where[id]
	if !ok {
		return nil, "", errors.New(errors.ErrCodeNodeNotFound, "node %s not found", id)
	}
	return s.graph.Modules[module].Nodes[id], module, nil
}

// node returns the live node or nil.
func (s *Store) node(id NodeID) *Node {
	n, _, err := s.lookup(id)
	if err != nil {
		return nil
	}
	return n
}

// =============================================================================
// Nodes
// =============================================================================

// NodeSpec describes a node to add.
type NodeSpec struct {
	Name    string
	Inputs  int // number of input ports
	Outputs int // number of output ports
	X, Y    float64
	Class   string
	Data    map[string]any
	Content Content
	// Module is the target module; empty means the active module.
	Module string
}

// AddNode allocates an id, builds spec.Inputs input ports and spec.Outputs
// output ports named contiguously from 1, and stores the node.
// Returns INVALID_ARITY for negative port counts and MODULE_NOT_FOUND for an
// unknown target module. Emits nodeCreated.
func (s *Store) AddNode(spec NodeSpec) (NodeID, error) {
	if spec.Inputs < 0 || spec.Outputs < 0 {
		return "", errors.New(errors.ErrCodeInvalidArity, "port counts must not be negative (inputs=%d, outputs=%d)", spec.Inputs, spec.Outputs)
	}
	module := spec.Module
	if module == "" {
		module = s.active
	}
	mod, ok := s.graph.Modules[module]
	if !ok {
		return "", errors.New(errors.ErrCodeModuleNotFound, "module %q not found", module)
	}
	content := spec.Content
	if content.Kind == "" {
		content.Kind = ContentPlain
	}
	if !content.Valid() {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown content kind %q", content.Kind)
	}

	id := s.ids.Next()
	n := &Node{
		ID:      id,
		Name:    spec.Name,
		Data:    cloneData(spec.Data),
		Class:   spec.Class,
		Content: content,
		Inputs:  make([]Port, spec.Inputs),
		Outputs: make([]Port, spec.Outputs),
		X:       spec.X,
		Y:       spec.Y,
	}
	if n.Data == nil {
		n.Data = map[string]any{}
	}
	mod.Nodes[id] = n
	s.where[id] = module

	s.logger.Debug("node added", "id", id, "module", module, "inputs", spec.Inputs, "outputs", spec.Outputs)
	s.emit(events.NodeCreated, id)
	return id, nil
}

// RemoveNode removes every connection touching the node, in both
// directions, and then deletes it. Emits connectionRemoved per edge and then
// nodeRemoved.
func (s *Store) RemoveNode(id NodeID) error {
	_, module, err := s.lookup(id)
	if err != nil {
		return err
	}

	var b batch
	s.detachAll(id, &b)
	delete(s.graph.Modules[module].Nodes, id)
	delete(s.where, id)
	b.add(events.NodeRemoved, id)

	s.logger.Debug("node removed", "id", id, "module", module)
	s.flush(b)
	return nil
}

// GetNode returns an isolated deep copy of the node.
func (s *Store) GetNode(id NodeID) (*Node, error) {
	n, _, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return n.Clone(), nil
}

// ModuleOf returns the name of the module holding the node.
func (s *Store) ModuleOf(id NodeID) (string, error) {
	_, module, err := s.lookup(id)
	return module, err
}

// FindNodesByName returns the ids of all nodes named name, across all
// modules, in id order.
func (s *Store) FindNodesByName(name string) []NodeID {
	var ids []NodeID
	for _, m := range s.graph.Modules {
		for id, n := range m.Nodes {
			if n.Name == name {
				ids = append(ids, id)
			}
		}
	}
	slices.SortFunc(ids, compareIDs)
	return ids
}

// NodeIDs returns the ids of the nodes in module, in id order.
func (s *Store) NodeIDs(module string) ([]NodeID, error) {
	m, ok := s.graph.Modules[module]
	if !ok {
		return nil, errors.New(errors.ErrCodeModuleNotFound, "module %q not found", module)
	}
	return m.NodeIDs(), nil
}

// UpdateNodePayload replaces the node's bound data wholesale.
// Emits nodeDataChanged.
func (s *Store) UpdateNodePayload(id NodeID, data map[string]any) error {
	n, _, err := s.lookup(id)
	if err != nil {
		return err
	}
	n.Data = cloneData(data)
	if n.Data == nil {
		n.Data = map[string]any{}
	}
	s.logger.Debug("node data updated", "id", id)
	s.emit(events.NodeDataChanged, id)
	return nil
}

// MoveNode sets the node's canvas position. Emits nodeMoved.
func (s *Store) MoveNode(id NodeID, x, y float64) error {
	n, _, err := s.lookup(id)
	if err != nil {
		return err
	}
	n.X, n.Y = x, y
	s.emit(events.NodeMoved, id)
	return nil
}
