package todolist

import "slices"

// EventKind names the mutation that produced an Event.
type EventKind int

const (
	EventAdded EventKind = iota
	EventToggled
	EventRemoved
	EventRestored
	EventReordered
	EventEdited
	EventLoaded
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventToggled:
		return "toggled"
	case EventRemoved:
		return "removed"
	case EventRestored:
		return "restored"
	case EventReordered:
		return "reordered"
	case EventEdited:
		return "edited"
	case EventLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Event describes one successful mutation. TaskID is empty for EventLoaded.
type Event struct {
	Kind   EventKind
	TaskID string
}

type observer struct {
	fn func(Event)
}

// Subscribe registers fn to be called after every successful mutation, in
// registration order. The returned func removes the registration.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	o := &observer{fn: fn}
	m.observers = append(m.observers, o)
	return func() {
		m.observers = slices.DeleteFunc(m.observers, func(x *observer) bool { return x == o })
	}
}

func (m *Manager) notify(e Event) {
	// Copy so observers may unsubscribe while being notified.
	for _, o := range slices.Clone(m.observers) {
		o.fn(e)
	}
}
