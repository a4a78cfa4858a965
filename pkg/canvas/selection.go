package canvas

import (
	"fmt"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/events"
	"github.com/matzehuels/flowcanvas/pkg/flow"
)

// SelectedNode returns the selected node id, or "" when none is selected.
func (s *Session) SelectedNode() flow.NodeID { return s.selectedNode }

// SelectedConnection returns the selected connection, if any.
func (s *Session) SelectedConnection() (flow.Connection, bool) {
	if s.selectedConn == nil {
		return flow.Connection{}, false
	}
	return *s.selectedConn, true
}

// SelectNode selects a node, unselecting any previous selection first.
// Emits nodeSelected.
func (s *Session) SelectNode(id flow.NodeID) error {
	if _, err := s.store.GetNode(id); err != nil {
		return err
	}
	if s.selectedNode == id {
		return nil
	}
	s.ClearSelection()
	s.selectedNode = id
	s.emit(events.NodeSelected, id)
	return nil
}

// SelectConnection selects an edge, unselecting any previous selection
// first. Emits connectionSelected.
func (s *Session) SelectConnection(c flow.Connection) error {
	if !s.store.HasConnection(c) {
		return errors.New(errors.ErrCodeConnectionNotFound, "connection %s not found", c)
	}
	s.ClearSelection()
	s.selectedConn = &c
	s.emit(events.ConnectionSelected, c)
	return nil
}

// ClearSelection drops the current selection. Emits nodeUnselected or
// connectionUnselected when something was selected.
func (s *Session) ClearSelection() {
	if s.selectedNode != "" {
		s.selectedNode = ""
		s.emit(events.NodeUnselected, true)
	}
	if s.selectedConn != nil {
		s.selectedConn = nil
		s.emit(events.ConnectionUnselected, true)
	}
}

// DeleteSelection removes the selected node or connection from the store.
// Reports whether anything was removed.
func (s *Session) DeleteSelection() (bool, error) {
	switch {
	case s.selectedNode != "":
		id := s.selectedNode
		s.ClearSelection()
		if err := s.store.RemoveNode(id); err != nil {
			return false, err
		}
		return true, nil
	case s.selectedConn != nil:
		c := *s.selectedConn
		s.ClearSelection()
		return s.store.RemoveConnection(c), nil
	}
	return false, nil
}

func (s *Session) onConnectionRemoved(payload any) error {
	c, ok := payload.(flow.Connection)
	if !ok {
		return fmt.Errorf("connectionRemoved payload %T", payload)
	}
	if s.selectedConn != nil && *s.selectedConn == c {
		s.selectedConn = nil
		s.emit(events.ConnectionUnselected, true)
	}
	return nil
}

// onPortRemoved drops selection and pending state that names a port at or
// after the removed one: those names now refer to different ports.
func (s *Session) onPortRemoved(payload any) error {
	ref, ok := payload.(flow.PortRef)
	if !ok {
		return fmt.Errorf("portRemoved payload %T", payload)
	}
	removed := flow.PortIndex(ref.Side, ref.Port)
	shifted := func(node flow.NodeID, side flow.Side, port string) bool {
		return node == ref.Node && side == ref.Side && flow.PortIndex(side, port) >= removed
	}

	if c := s.selectedConn; c != nil &&
		(shifted(c.SourceNode, flow.Output, c.OutputPort) || shifted(c.TargetNode, flow.Input, c.InputPort)) {
		s.selectedConn = nil
		s.emit(events.ConnectionUnselected, true)
	}
	if p := s.pending; p != nil && shifted(p.SourceNode, flow.Output, p.OutputPort) {
		s.pending = nil
		s.emit(events.ConnectionCancel, true)
	}
	return nil
}
