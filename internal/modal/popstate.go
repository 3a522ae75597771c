package modal

import "github.com/modsurf/modsurf/internal/session"

// handlePopstate is the top-level reaction to native history
// traversal. It runs ahead of every other popstate listener and
// decides whether to reopen the modal, close it, reload the page, or
// let the event through to the host's restore machinery.
func (x *Extension) handlePopstate(ev *session.PopstateEvent) {
	st := ev.State
	if st == nil {
		st = x.initial.State
	}
	if st == nil || x.modal == nil {
		return
	}

	targetModal := IsModalState(st)
	x.popstateCycle = true
	x.popstateTarget = &session.Snapshot{Location: st.Location, Title: st.Title, State: st}
	defer func() {
		x.lastState = &session.Snapshot{
			Location: x.history.Location(),
			Title:    x.history.Title(),
			State:    st,
		}
		x.popstateCycle = false
		x.popstateTarget = nil
	}()

	if x.walkingBack {
		ev.StopPropagation()
		if targetModal {
			x.history.Back()
			return
		}
		if st.Title != "" {
			x.history.SetTitle(st.Title)
		}
		x.walkingBack = false
		return
	}

	if targetModal && !IsModalState(x.initial.State) {
		dir, opts := ReadState(st)
		x.tracker.restore(dir, opts)
		x.modal.Show(nil, opts)
		if x.cache.Enabled() {
			// Content is already available from the cache; reapply
			// options now. Otherwise the host's pending fetch carries
			// out the reapplication once it completes.
			x.modal.SetOptions(opts)
			if ld, ok := x.modal.(LoadDispatcher); ok {
				ld.DispatchLoad(opts)
			}
		}
		return
	}

	// This page was loaded directly into a modal context and lacks the
	// support content needed to restore one; a full reload is the only
	// way out.
	if IsModalState(x.initial.State) {
		x.endSession()
		x.reloader.Reload()
		ev.StopPropagation()
		return
	}

	// Plain traversal with no modal on screen; the host's restore
	// machinery handles it.
	if !x.modal.IsShown() {
		return
	}

	// Non-modal target while the modal is open: the traversal itself
	// is the close. Disabling history tracking first keeps the close
	// sequence from creating a duplicate entry for a navigation that
	// already happened.
	x.tracker.disable()
	x.modal.Hide()
	if st.Title != "" {
		// The overlay kept the underlying page visible, so only the
		// title needs restoring.
		x.history.SetTitle(st.Title)
	}
	ev.StopPropagation()
}
