package input

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nahome/folio3d/internal/logger"
)

// Handler receives one event.
type Handler func(Event)

// Handle identifies a registration.
type Handle uuid.UUID

func (h Handle) String() string { return uuid.UUID(h).String() }

type listener struct {
	handle  Handle
	kind    EventType
	label   string
	handler Handler
}

// Registry accounts for every listener added so teardown can remove all of
// them. It is used from the frame loop only.
type Registry struct {
	listeners []listener
	log       *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{log: logger.Named("input")}
}

// On registers h for events of kind. label names the listener in logs.
// A nil handler is ignored and yields the zero handle.
func (r *Registry) On(kind EventType, label string, h Handler) Handle {
	if h == nil {
		return Handle{}
	}
	handle := Handle(uuid.New())
	r.listeners = append(r.listeners, listener{handle: handle, kind: kind, label: label, handler: h})
	r.log.Debug("listener added",
		zap.Stringer("event", kind),
		zap.String("label", label),
		zap.Stringer("handle", handle))
	return handle
}

// Off removes a registration. Removing an unknown or already removed handle
// is a no-op; it reports whether anything was removed.
func (r *Registry) Off(h Handle) bool {
	for i, l := range r.listeners {
		if l.handle == h {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Dispatch delivers each event to the listeners of its type in
// registration order.
func (r *Registry) Dispatch(events ...Event) {
	for _, ev := range events {
		// Handlers may register or remove listeners; iterate a snapshot.
		snapshot := append([]listener(nil), r.listeners...)
		for _, l := range snapshot {
			if l.kind == ev.Type {
				l.handler(ev)
			}
		}
	}
}

// Len returns the number of live registrations.
func (r *Registry) Len() int { return len(r.listeners) }

// Close removes every listener and returns how many were removed.
func (r *Registry) Close() int {
	n := len(r.listeners)
	for _, l := range r.listeners {
		r.log.Debug("listener removed",
			zap.Stringer("event", l.kind),
			zap.String("label", l.label))
	}
	r.listeners = nil
	return n
}
