package canvas

import (
	"fmt"
	"slices"

	"github.com/matzehuels/flowcanvas/pkg/flow"
)

// Mounted returns the ids of the nodes whose content is mounted, sorted.
func (s *Session) Mounted() []flow.NodeID {
	ids := make([]flow.NodeID, 0, len(s.mounted))
	for id := range s.mounted {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Session) onNodeCreated(payload any) error {
	id, ok := payload.(flow.NodeID)
	if !ok {
		return fmt.Errorf("nodeCreated payload %T", payload)
	}
	if m, err := s.store.ModuleOf(id); err != nil || m != s.store.ActiveModule() {
		return nil
	}
	return s.mount(id)
}

func (s *Session) onNodeRemoved(payload any) error {
	id, ok := payload.(flow.NodeID)
	if !ok {
		return fmt.Errorf("nodeRemoved payload %T", payload)
	}
	if s.selectedNode == id {
		s.selectedNode = ""
	}
	if s.drag != nil && s.drag.node == id {
		s.drag = nil
	}
	if s.pending != nil && s.pending.SourceNode == id {
		s.pending = nil
	}
	return s.unmount(id)
}

// onModuleChanged discards everything rendered for the previous module,
// resets the view and mounts the new active module.
func (s *Session) onModuleChanged(any) error {
	return s.reload()
}

func (s *Session) onImport(any) error {
	return s.reload()
}

func (s *Session) reload() error {
	for _, id := range s.Mounted() {
		if err := s.unmount(id); err != nil {
			return err
		}
	}
	s.reset()
	return s.mountActive()
}

func (s *Session) mountActive() error {
	ids, err := s.store.NodeIDs(s.store.ActiveModule())
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.mount(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) mount(id flow.NodeID) error {
	if s.mounter == nil || s.mounted[id] {
		return nil
	}
	n, err := s.store.GetNode(id)
	if err != nil {
		return err
	}
	if err := s.mounter.Mount(n); err != nil {
		return fmt.Errorf("mount node %s: %w", id, err)
	}
	s.mounted[id] = true
	return nil
}

func (s *Session) unmount(id flow.NodeID) error {
	if s.mounter == nil || !s.mounted[id] {
		return nil
	}
	delete(s.mounted, id)
	if err := s.mounter.Unmount(id); err != nil {
		return fmt.Errorf("unmount node %s: %w", id, err)
	}
	return nil
}
