package modal

import "github.com/modsurf/modsurf/internal/snippet"

// inflightRegistry enforces at most one in-flight request per scope
// key. Entries appear on request start and leave on natural
// completion; a cancelled request's entry is the responsibility of
// whoever cancelled it.
type inflightRegistry map[string]*snippet.AbortHandle

// start cancels any request still in flight under key, then records
// the new handle, so only the most recent request survives to
// completion.
func (r inflightRegistry) start(key string, h *snippet.AbortHandle) {
	if prev, ok := r[key]; ok {
		prev.Abort()
	}
	r[key] = h
}

// complete removes the finished request's entry unless the request was
// itself cancelled: a cancelled request's slot was already taken over
// by its superseder, and removing it would drop the live handle.
func (r inflightRegistry) complete(key string, h *snippet.AbortHandle, cancelled bool) {
	if cancelled {
		return
	}
	delete(r, key)
}

// cancel aborts whatever is still in flight under key and clears the
// entry.
func (r inflightRegistry) cancel(key string) {
	if h, ok := r[key]; ok {
		h.Abort()
		delete(r, key)
	}
}
