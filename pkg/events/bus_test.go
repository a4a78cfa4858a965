package events

import (
	"errors"
	"slices"
	"testing"

	ferrors "github.com/matzehuels/flowcanvas/pkg/errors"
)

func TestOnRejectsInvalidRegistrations(t *testing.T) {
	b := NewBus()

	if _, err := b.On("", func(any) error { return nil }); !ferrors.Is(err, ferrors.ErrCodeInvalidEventName) {
		t.Errorf("On(\"\") error = %v, want INVALID_EVENT_NAME", err)
	}
	if _, err := b.On(NodeCreated, nil); !ferrors.Is(err, ferrors.ErrCodeInvalidListener) {
		t.Errorf("On(nil) error = %v, want INVALID_LISTENER", err)
	}
	if got := b.ListenerCount(NodeCreated); got != 0 {
		t.Errorf("ListenerCount() = %d, want 0", got)
	}
}

func TestEmitDeliversInRegistrationOrder(t *testing.T) {
	b := NewBus()
	var order []string

	for _, name := range []string{"first", "second", "third"} {
		if _, err := b.On(NodeMoved, func(p any) error {
			order = append(order, name+":"+p.(string))
			return nil
		}); err != nil {
			t.Fatalf("On() error = %v", err)
		}
	}

	if err := b.Emit(NodeMoved, "7"); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	want := []string{"first:7", "second:7", "third:7"}
	if !slices.Equal(order, want) {
		t.Errorf("delivery order = %v, want %v", order, want)
	}
}

func TestEmitUnknownEventIsNoop(t *testing.T) {
	if err := NewBus().Emit("nobody-listens", nil); err != nil {
		t.Errorf("Emit() error = %v, want nil", err)
	}
}

func TestEmitStopsAtFailingListener(t *testing.T) {
	b := NewBus()
	boom := errors.New("boom")
	var calls []int

	b.On(Zoom, func(any) error { calls = append(calls, 1); return nil })
	b.On(Zoom, func(any) error { calls = append(calls, 2); return boom })
	b.On(Zoom, func(any) error { calls = append(calls, 3); return nil })

	err := b.Emit(Zoom, 1.1)
	if !errors.Is(err, boom) {
		t.Fatalf("Emit() error = %v, want %v", err, boom)
	}
	if !slices.Equal(calls, []int{1, 2}) {
		t.Errorf("calls = %v, want [1 2]", calls)
	}
}

func TestOffRemovesOnlyThatRegistration(t *testing.T) {
	b := NewBus()
	var calls []string

	first, _ := b.On(Import, func(any) error { calls = append(calls, "a"); return nil })
	b.On(Import, func(any) error { calls = append(calls, "b"); return nil })

	if !b.Off(Import, first) {
		t.Fatal("Off() = false, want true")
	}
	if b.Off(Import, first) {
		t.Error("second Off() = true, want false")
	}

	b.Emit(Import, "import")
	if !slices.Equal(calls, []string{"b"}) {
		t.Errorf("calls = %v, want [b]", calls)
	}
}

func TestListenerMayRegisterDuringEmit(t *testing.T) {
	b := NewBus()
	late := 0

	b.On(ModuleCreated, func(any) error {
		_, err := b.On(ModuleCreated, func(any) error { late++; return nil })
		return err
	})

	if err := b.Emit(ModuleCreated, "Other"); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if late != 0 {
		t.Errorf("late listener called %d times during registering emit, want 0", late)
	}

	b.Emit(ModuleCreated, "Again")
	if late != 1 {
		t.Errorf("late listener called %d times, want 1", late)
	}
}
