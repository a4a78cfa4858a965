package flow

import (
	"slices"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/events"
)

// ActiveModule returns the name of the module node operations default to.
func (s *Store) ActiveModule() string { return s.active }

// Modules returns every module name, with DefaultModule first and the rest
// sorted.
func (s *Store) Modules() []string {
	names := make([]string, 0, len(s.graph.Modules))
	for name := range s.graph.Modules {
		if name != DefaultModule {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return append([]string{DefaultModule}, names...)
}

// HasModule reports whether the module exists.
func (s *Store) HasModule(name string) bool {
	_, ok := s.graph.Modules[name]
	return ok
}

// Module returns a deep copy of one module without emitting export.
func (s *Store) Module(name string) (*Module, error) {
	m, ok := s.graph.Modules[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeModuleNotFound, "module %q not found", name)
	}
	return m.Clone(), nil
}

// CreateModule inserts an empty module. Returns MODULE_ALREADY_EXISTS if the
// name is taken and INVALID_INPUT for names rejected by
// errors.ValidateModuleName. Emits moduleCreated.
func (s *Store) CreateModule(name string) error {
	if err := errors.ValidateModuleName(name); err != nil {
		return err
	}
	if s.HasModule(name) {
		return errors.New(errors.ErrCodeModuleAlreadyExists, "module %q already exists", name)
	}
	s.graph.Modules[name] = NewModule()
	s.logger.Debug("module created", "module", name)
	s.emit(events.ModuleCreated, name)
	return nil
}

// SwitchModule makes name the active module. Emits moduleChanged even when
// name is already active, so views can reload.
func (s *Store) SwitchModule(name string) error {
	if !s.HasModule(name) {
		return errors.New(errors.ErrCodeModuleNotFound, "module %q not found", name)
	}
	s.active = name
	s.logger.Debug("module switched", "module", name)
	s.emit(events.ModuleChanged, name)
	return nil
}

// RemoveModule deletes a module and all of its nodes. Removing the active
// module first switches to DefaultModule (emitting moduleChanged). The
// default module itself cannot be removed. Emits moduleRemoved.
func (s *Store) RemoveModule(name string) error {
	if name == DefaultModule {
		return errors.New(errors.ErrCodeCannotRemoveDefaultModule, "module %q cannot be removed", name)
	}
	m, ok := s.graph.Modules[name]
	if !ok {
		return errors.New(errors.ErrCodeModuleNotFound, "module %q not found", name)
	}

	var b batch
	if s.active == name {
		s.active = DefaultModule
		b.add(events.ModuleChanged, DefaultModule)
	}
	// edges never leave a module, so dropping the nodes leaves no dangling halves
	for id := range m.Nodes {
		delete(s.where, id)
	}
	delete(s.graph.Modules, name)
	b.add(events.ModuleRemoved, name)

	s.logger.Debug("module removed", "module", name, "nodes", len(m.Nodes))
	s.flush(b)
	return nil
}
