package flow

import (
	"github.com/google/uuid"

	"github.com/matzehuels/flowcanvas/pkg/errors"
)

// IDPolicy selects how a Store allocates node ids.
type IDPolicy string

const (
	// PolicySequential allocates 1, 2, 3, ...
	PolicySequential IDPolicy = "sequential"
	// PolicyUUID allocates random version-4 UUID strings.
	PolicyUUID IDPolicy = "uuid"
)

// ParseIDPolicy parses "sequential" or "uuid".
func ParseIDPolicy(s string) (IDPolicy, error) {
	switch IDPolicy(s) {
	case PolicySequential, PolicyUUID:
		return IDPolicy(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "invalid id policy: %q", s)
}

// IDAllocator produces unique node ids for one Store.
type IDAllocator interface {
	// Next returns a fresh id.
	Next() NodeID
	// Sync re-derives allocator state from the ids present after a bulk
	// import.
	Sync(existing []NodeID)
	// Policy reports which policy the allocator implements.
	Policy() IDPolicy
}

// NewAllocator returns the allocator for policy.
func NewAllocator(policy IDPolicy) IDAllocator {
	if policy == PolicyUUID {
		return NewRandomAllocator()
	}
	return NewSequentialAllocator()
}

// SequentialAllocator hands out increasing integers starting at 1.
type SequentialAllocator struct {
	next int
}

// NewSequentialAllocator returns an allocator whose first id is 1.
func NewSequentialAllocator() *SequentialAllocator {
	return &SequentialAllocator{next: 1}
}

// Next returns the next integer id.
func (a *SequentialAllocator) Next() NodeID {
	id := IntID(a.next)
	a.next++
	return id
}

// Sync sets the next id to max(existing integer ids)+1, or 1 when there are
// none. Non-integer ids are ignored.
func (a *SequentialAllocator) Sync(existing []NodeID) {
	highest := 0
	for _, id := range existing {
		if n, ok := id.Int(); ok && n > highest {
			highest = n
		}
	}
	a.next = highest + 1
}

// Policy returns PolicySequential.
func (a *SequentialAllocator) Policy() IDPolicy { return PolicySequential }

// RandomAllocator hands out random version-4 UUIDs.
type RandomAllocator struct{}

// NewRandomAllocator returns a UUID allocator.
func NewRandomAllocator() *RandomAllocator { return &RandomAllocator{} }

// Next returns a new random UUID.
func (RandomAllocator) Next() NodeID { return NodeID(uuid.NewString()) }

// Sync is a no-op: random ids carry no counter.
func (RandomAllocator) Sync([]NodeID) {}

// Policy returns PolicyUUID.
func (RandomAllocator) Policy() IDPolicy { return PolicyUUID }
