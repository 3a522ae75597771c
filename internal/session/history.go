// Package session implements browser-style session history: an entry
// stack with pushState/replaceState, back/forward traversal, and
// popstate dispatch to registered listeners.
package session

// State is the payload persisted alongside a history entry. It is
// written once when the entry is created; later changes require a new
// entry. Ext is an opaque slot for extension payloads and is nil when
// no extension claimed the entry.
type State struct {
	Location string
	Title    string
	Snippets map[string]string
	Ext      any
}

// Snapshot captures the page's addressable identity at one moment:
// the visible location, the document title, and the persisted state.
// It is never mutated after creation.
type Snapshot struct {
	Location string
	Title    string
	State    *State
}

// PopstateEvent is delivered to popstate listeners after a history
// traversal. State is the target entry's persisted state (nil for
// entries created without one). A listener may stop propagation to
// keep the event from later listeners.
type PopstateEvent struct {
	State   *State
	stopped bool
}

// StopPropagation keeps the event from reaching listeners registered
// after the current one.
func (e *PopstateEvent) StopPropagation() { e.stopped = true }

// Stopped reports whether propagation was stopped.
func (e *PopstateEvent) Stopped() bool { return e.stopped }

type entry struct {
	location string
	title    string
	state    *State
}

// History manages the session-history stack and the document title.
// Traversal moves the current position and dispatches a popstate
// event; it deliberately does not touch the document title, which is
// only changed through SetTitle.
type History struct {
	entries   []entry
	pos       int
	title     string
	listeners []func(*PopstateEvent)

	// Traversals requested while a popstate event is being handled are
	// queued and dispatched after the current handler returns, the way
	// browsers deliver popstate asynchronously.
	queue       []*PopstateEvent
	dispatching bool
}

// NewHistory creates a history whose initial entry has the given
// location and title and no persisted state.
func NewHistory(location, title string) *History {
	return &History{
		entries: []entry{{location: location, title: title}},
		pos:     0,
		title:   title,
	}
}

// OnPopstate registers a popstate listener. Listeners run in
// registration order; register navigation-owning listeners first so
// they can stop propagation to the rest.
func (h *History) OnPopstate(fn func(*PopstateEvent)) {
	h.listeners = append(h.listeners, fn)
}

// PushState appends a new entry after the current position, dropping
// any forward entries. The document title is not changed.
func (h *History) PushState(state *State, title, location string) {
	h.entries = h.entries[:h.pos+1]
	h.entries = append(h.entries, entry{location: location, title: title, state: state})
	h.pos = len(h.entries) - 1
}

// ReplaceState overwrites the current entry in place.
func (h *History) ReplaceState(state *State, title, location string) {
	h.entries[h.pos] = entry{location: location, title: title, state: state}
}

// Back traverses one entry backward. Returns false at the first entry.
func (h *History) Back() bool { return h.Go(-1) }

// Forward traverses one entry forward. Returns false at the last entry.
func (h *History) Forward() bool { return h.Go(1) }

// Go traverses delta entries and dispatches a popstate event for the
// target. Out-of-range deltas are ignored. When called from inside a
// popstate listener the event is queued and dispatched after the
// current one finishes.
func (h *History) Go(delta int) bool {
	next := h.pos + delta
	if delta == 0 || next < 0 || next >= len(h.entries) {
		return false
	}
	h.pos = next
	h.queue = append(h.queue, &PopstateEvent{State: h.entries[next].state})

	if h.dispatching {
		return true
	}
	h.dispatching = true
	for len(h.queue) > 0 {
		ev := h.queue[0]
		h.queue = h.queue[1:]
		for _, fn := range h.listeners {
			fn(ev)
			if ev.Stopped() {
				break
			}
		}
	}
	h.dispatching = false
	return true
}

// Location returns the current entry's location.
func (h *History) Location() string { return h.entries[h.pos].location }

// State returns the current entry's persisted state, which may be nil.
func (h *History) State() *State { return h.entries[h.pos].state }

// Title returns the document title.
func (h *History) Title() string { return h.title }

// SetTitle changes the document title.
func (h *History) SetTitle(title string) { h.title = title }

// Capture snapshots the current location, document title, and state.
func (h *History) Capture() Snapshot {
	return Snapshot{Location: h.Location(), Title: h.title, State: h.State()}
}

// Len returns the number of entries in the stack.
func (h *History) Len() int { return len(h.entries) }

// CanGoBack reports whether there is a previous entry.
func (h *History) CanGoBack() bool { return h.pos > 0 }

// CanGoForward reports whether there is a next entry.
func (h *History) CanGoForward() bool { return h.pos < len(h.entries)-1 }
