package event

import (
	"context"
	"log/slog"
	"sync"
)

// Observer handles a published event. Returning an error never aborts
// dispatch to the remaining observers; the dispatcher logs it and moves on.
type Observer interface {
	Handle(ctx context.Context, e Event) error
}

// Dispatcher invokes every attached observer synchronously, in attachment
// order. The zero value is not usable; call NewDispatcher.
type Dispatcher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewDispatcher creates a Dispatcher with no observers attached.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Attach registers an observer. Attaching the same observer twice is a no-op.
func (d *Dispatcher) Attach(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.observers {
		if existing == o {
			return
		}
	}
	d.observers = append(d.observers, o)
}

// Detach removes a registered observer. Detaching an unknown observer is a
// no-op.
func (d *Dispatcher) Detach(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, existing := range d.observers {
		if existing == o {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to every attached observer. Observer failures
// are swallowed here; an observer that needs its errors handled must handle
// them itself.
func (d *Dispatcher) Publish(ctx context.Context, e Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	for _, o := range observers {
		if err := o.Handle(ctx, e); err != nil {
			slog.Error("event observer failed", "kind", e.Kind, "error", err)
		}
	}
}
