// Package modal keeps the modal overlay's open/closed lifecycle in
// sync with session history. It decides, per modal session, whether
// closing the overlay behaves like ordinary back-navigation or pushes
// a fresh history entry, reconciles native popstate traversal with the
// overlay state, and cancels superseded in-flight modal updates.
package modal

import "github.com/modsurf/modsurf/internal/snippet"

// Direction is the history strategy governing one modal session,
// fixed at the moment the modal opens.
type Direction string

const (
	// Backwards maps modal open/close onto ordinary back-navigation.
	Backwards Direction = "backwards"
	// Forwards makes closing the modal push a new, distinct entry.
	Forwards Direction = "forwards"
)

// DirectionFrom parses a declared direction, defaulting to Backwards,
// which best matches ordinary back-navigation expectations.
func DirectionFrom(s string) Direction {
	if s == string(Forwards) {
		return Forwards
	}
	return Backwards
}

// Record is the modal payload embedded in a persisted history state.
// It is written once when the state is built and never mutated.
type Record struct {
	Shown     bool
	Direction Direction
	Options   any
}

// Modal is the overlay collaborator contract. Show is idempotent: the
// OnShow callbacks run only on the hidden-to-shown transition, and
// OnHide/OnHidden only on the reverse. OnHide callbacks run before the
// overlay visually closes; OnHidden after it has finished closing.
type Modal interface {
	Show(opener *snippet.Element, options any)
	Hide()
	IsShown() bool
	OptionsFor(el *snippet.Element) any
	SetOptions(options any)
	OnShow(fn func())
	OnHide(fn func())
	OnHidden(fn func())
}

// LoadDispatcher is optionally implemented by modals whose content
// depends on options and must refresh on every successful update.
type LoadDispatcher interface {
	DispatchLoad(options any)
}

// Reloader performs a full page reload, the escape hatch used when a
// modal history entry cannot be restored from partial content.
type Reloader interface {
	Reload()
}

// ReloaderFunc adapts a function to the Reloader interface.
type ReloaderFunc func()

// Reload calls the function.
func (f ReloaderFunc) Reload() { f() }
