// Package events provides the synchronous observer registry used by the
// flow graph engine to announce mutations.
//
// # Semantics
//
// A [Bus] maps event names to ordered listener lists:
//   - [Bus.On] appends a listener and returns a [ListenerID] handle
//   - [Bus.Off] removes the registration identified by that handle
//   - [Bus.Emit] calls every listener for the name, in registration order,
//     on the caller's goroutine
//
// Delivery is not isolated: the first listener that returns an error stops
// delivery to the listeners registered after it, and Emit returns that
// error. Emitting a name nobody listens to is a no-op.
//
// The bus does not buffer or coalesce. Listeners observe mutations in the
// order they happen and may call back into the store that emitted the
// event; the store finishes its own mutation before emitting.
//
// # Usage
//
//	bus := events.NewBus()
//	id, err := bus.On(events.NodeCreated, func(p any) error {
//	    log.Info("created", "node", p)
//	    return nil
//	})
//	...
//	bus.Off(events.NodeCreated, id)
package events

import (
	"fmt"
	"sync"

	"github.com/matzehuels/flowcanvas/pkg/errors"
)

// Listener receives the payload of an emitted event.
type Listener func(payload any) error

// ListenerID identifies one registration on a Bus.
type ListenerID uint64

type registration struct {
	id ListenerID
	fn Listener
}

// Bus is a synchronous, ordered observer registry.
// The zero value is not usable; use NewBus.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]registration
	nextID    ListenerID
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]registration)}
}

// On registers fn for the named event and returns a handle for Off.
// Returns INVALID_EVENT_NAME for an empty name and INVALID_LISTENER for a
// nil listener.
func (b *Bus) On(event string, fn Listener) (ListenerID, error) {
	if event == "" {
		return 0, errors.New(errors.ErrCodeInvalidEventName, "event name must not be empty")
	}
	if fn == nil {
		return 0, errors.New(errors.ErrCodeInvalidListener, "listener for %q must not be nil", event)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.listeners[event] = append(b.listeners[event], registration{id: b.nextID, fn: fn})
	return b.nextID, nil
}

// Off removes the registration with the given handle from the named event.
// Reports whether a registration was removed.
func (b *Bus) Off(event string, id ListenerID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.listeners[event]
	for i, r := range regs {
		if r.id == id {
			b.listeners[event] = append(regs[:i:i], regs[i+1:]...)
			if len(b.listeners[event]) == 0 {
				delete(b.listeners, event)
			}
			return true
		}
	}
	return false
}

// Emit delivers payload to every listener of event in registration order.
// Listeners registered while Emit runs are not called for this emission.
// The first listener error aborts delivery and is returned.
func (b *Bus) Emit(event string, payload any) error {
	b.mu.RLock()
	regs := b.listeners[event]
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	b.mu.RUnlock()

	for _, r := range snapshot {
		if err := r.fn(payload); err != nil {
			return fmt.Errorf("%s listener %d: %w", event, r.id, err)
		}
	}
	return nil
}

// ListenerCount returns the number of listeners registered for event.
func (b *Bus) ListenerCount(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[event])
}
