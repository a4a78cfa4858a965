package flow

import (
	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/events"
)

// ExportAll returns a deep copy of every module. Emits export with the
// copy.
func (s *Store) ExportAll() *Graph {
	g := s.graph.Clone()
	s.emit(events.Export, g)
	return g
}

// ImportAll replaces the whole store with a deep copy of g. The graph must
// pass Validate, otherwise INVALID_FORMAT is returned and the store is left
// unchanged. A missing default module is added. The active module is kept
// when it still exists and falls back to DefaultModule otherwise. The
// sequential allocator continues after the highest imported integer id.
// Emits import.
func (s *Store) ImportAll(g *Graph) error {
	if g == nil {
		return errors.New(errors.ErrCodeInvalidInput, "graph is nil")
	}
	next := g.Clone()
	if _, ok := next.Modules[DefaultModule]; !ok {
		next.Modules[DefaultModule] = NewModule()
	}
	if err := next.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "import rejected")
	}

	s.load(next)
	s.logger.Debug("graph imported", "modules", len(next.Modules), "nodes", next.NodeCount())
	s.emit(events.Import, "import")
	return nil
}

// Clear resets the store to an empty default module. The allocator restarts
// from 1. No events are emitted.
func (s *Store) Clear() {
	s.load(NewGraph())
}

func (s *Store) load(g *Graph) {
	s.graph = g
	s.where = make(map[NodeID]string, g.NodeCount())
	ids := make([]NodeID, 0, len(s.where))
	for name, m := range g.Modules {
		for id := range m.Nodes {
			s.where[id] = name
			ids = append(ids, id)
		}
	}
	if _, ok := g.Modules[s.active]; !ok {
		s.active = DefaultModule
	}
	s.ids.Sync(ids)
}
