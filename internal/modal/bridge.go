package modal

import (
	"strconv"

	"github.com/modsurf/modsurf/internal/session"
	"github.com/modsurf/modsurf/internal/snippet"
)

// ShownHeader is appended to every modal-scoped request so the server
// can apply modal-specific rendering rules.
const ShownHeader = "X-Modal-Opened"

// handleInteraction marks modal-triggered navigations and fixes the
// session's direction and open-options at open time.
func (x *Extension) handleInteraction(ev *snippet.InteractionEvent) {
	el := ev.Element
	if !el.Has(snippet.AttrModal) && !el.InModal {
		return
	}
	ev.Options.Modal = true
	if x.suppressHistory {
		ev.Options.History = false
	}
	x.tracker.observe(el, x.modal.IsShown(), x.modal.OptionsFor(el))
	ev.Options.ModalOptions = x.tracker.options
}

// handleBefore opens the modal for modal-scoped requests before their
// headers are finalized and marks the outgoing request as modal-aware.
func (x *Extension) handleBefore(ev *snippet.BeforeEvent) {
	if !ev.Options.Modal {
		return
	}
	x.modal.Show(ev.Options.Element, ev.Options.ModalOptions)
	ev.Header.Set(ShownHeader, strconv.FormatBool(x.modal.IsShown()))
}

// handleStart registers the request's cancellation handle, aborting
// whatever was still in flight under the same scope.
func (x *Extension) handleStart(ev *snippet.StartEvent) {
	x.inflight.start(ev.Options.Scope(), ev.Handle)
}

// handleComplete releases the registry slot for naturally completed
// requests. Cancelled requests leave the slot alone: it already
// belongs to the request that superseded them.
func (x *Extension) handleComplete(ev *snippet.CompleteEvent) {
	x.inflight.complete(ev.Options.Scope(), ev.Handle, ev.Cancelled)
}

// handleBuildState embeds the modal payload into a history state about
// to be persisted. Only builds that happen while the modal is shown
// mark history recording active; entries created before an open belong
// to no modal session and must not arm the close reconciliation.
func (x *Extension) handleBuildState(ev *snippet.BuildStateEvent) {
	if x.modal.IsShown() {
		x.tracker.markActive()
	}
	ev.State.Ext = BuildRecord(x.modal.IsShown(), x.tracker.direction, x.tracker.options, ev.Options.ModalSuppress)
}

// handleSuccess reacts to an applied content update: it refreshes
// lastState, downgrades history for the rest of the session when this
// request had it disabled, and either closes the modal on the
// response's signal or reapplies the current options.
func (x *Extension) handleSuccess(ev *snippet.SuccessEvent) {
	snap := x.history.Capture()
	x.lastState = &snap

	if !ev.Options.Modal {
		return
	}
	if !ev.Options.History && !ev.Options.Restore {
		// One-way downgrade: sub-navigations inside a no-history modal
		// also skip history for the rest of this session.
		x.suppressHistory = true
	}
	if ev.Payload.CloseModal {
		x.modal.Hide()
		return
	}
	x.modal.SetOptions(x.tracker.options)
	if ld, ok := x.modal.(LoadDispatcher); ok {
		ld.DispatchLoad(x.tracker.options)
	}
}

// handleRestore marks options built for a popstate restore as
// modal-scoped when the traversed-to state carries a modal payload.
func (x *Extension) handleRestore(ev *snippet.RestoreEvent) {
	if !IsModalState(ev.State) {
		return
	}
	ev.Options.Modal = true
	_, opts := ReadState(ev.State)
	ev.Options.ModalOptions = opts
}

// handleShow runs on the modal's hidden-to-shown transition. In
// forwards mode it records the page state that existed before the
// open, so it can be restored as a genuinely new entry after close.
func (x *Extension) handleShow() {
	x.modal.SetOptions(x.tracker.options)
	if x.tracker.direction != Forwards {
		return
	}
	snap := x.history.Capture()
	if x.popstateCycle && x.popstateTarget != nil {
		snap = *x.popstateTarget
	}
	x.originalStates = append(x.originalStates, snap)
}

// handleHide runs synchronously before the modal visually closes and
// aborts whatever modal-scoped request is still in flight, since its
// result would update content inside a region about to disappear.
func (x *Extension) handleHide() {
	x.inflight.cancel(snippet.ModalScope)
}

// handleHidden runs after the modal has finished closing and
// reconciles history with the closed overlay.
func (x *Extension) handleHidden() {
	if !x.tracker.active {
		// The session recorded no history entries; there is nothing to
		// reconcile, only session state to drop.
		x.endSession()
		return
	}

	if x.tracker.direction == Backwards {
		// Walk back through the run of consecutive modal entries; the
		// popstate handler keeps walking until a non-modal entry
		// appears.
		x.walkingBack = true
		x.endSession()
		if !x.history.Back() {
			x.walkingBack = false
		}
		return
	}

	var saved *session.Snapshot
	if n := len(x.originalStates); n > 0 {
		snap := x.originalStates[n-1]
		saved = &snap
	}

	if saved != nil && saved.Location != x.history.Location() {
		x.history.PushState(saved.State, saved.Title, saved.Location)
		x.history.SetTitle(saved.Title)
		x.lastState = saved
	}
	x.endSession()
}
