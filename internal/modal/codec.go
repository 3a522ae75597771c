package modal

import "github.com/modsurf/modsurf/internal/session"

// BuildRecord assembles the modal payload for a history state about to
// be persisted. A navigation can be explicitly redirected out of the
// modal context even while the modal is shown; such states, and states
// built while the modal is closed, carry no payload.
func BuildRecord(shown bool, dir Direction, options any, suppressed bool) *Record {
	if !shown || suppressed {
		return nil
	}
	return &Record{Shown: true, Direction: dir, Options: options}
}

// IsModalState reports whether a persisted state is modal-owned: its
// extension slot holds a modal record marked shown. A state with no
// payload, or a payload not marked shown, reads as non-modal.
func IsModalState(st *session.State) bool {
	if st == nil {
		return false
	}
	rec, ok := st.Ext.(*Record)
	return ok && rec != nil && rec.Shown
}

// ReadState extracts the frozen direction and options from a state's
// modal payload, defaulting to Backwards and nil options when the
// payload is missing.
func ReadState(st *session.State) (Direction, any) {
	if st == nil {
		return Backwards, nil
	}
	rec, ok := st.Ext.(*Record)
	if !ok || rec == nil {
		return Backwards, nil
	}
	return rec.Direction, rec.Options
}
