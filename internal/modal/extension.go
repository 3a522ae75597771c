package modal

import (
	"github.com/modsurf/modsurf/internal/session"
	"github.com/modsurf/modsurf/internal/snippet"
)

// Extension is the modal/history synchronization session: one
// instance per modal collaborator, holding all the state that one
// open-to-hidden modal session accumulates. All fields are confined to
// the event loop; handlers restore the invariants on every exit path.
type Extension struct {
	history  *session.History
	modal    Modal
	cache    *snippet.Cache
	reloader Reloader

	tracker  *directionTracker
	inflight inflightRegistry

	// originalStates holds, in forwards mode only, the page state that
	// existed immediately before the modal opened. Depth stays at one
	// in practice: reopening an already-open modal does not re-push.
	originalStates []session.Snapshot

	// lastState is the most recently observed page identity,
	// overwritten on every applied update and every popstate.
	lastState *session.Snapshot

	// suppressHistory downgrades every later modal-scoped request of
	// this session once one of them ran with history disabled.
	suppressHistory bool

	// popstateCycle is set for the remainder of one popstate-triggered
	// cycle, telling the show handler that the open was caused by
	// traversal rather than direct interaction; popstateTarget is the
	// traversal target observed in that cycle.
	popstateCycle  bool
	popstateTarget *session.Snapshot

	// walkingBack is set during the multi-step programmatic walk
	// backward through consecutive modal entries.
	walkingBack bool

	// initial is the page identity captured at attach time. A modal
	// initial state means this instance was loaded directly into a
	// modal context and cannot safely restore one.
	initial session.Snapshot
}

// Attach wires the extension into the engine's lifecycle hooks, the
// modal's lifecycle callbacks, and the session's popstate dispatch.
// Call it before any other popstate listener registers so the
// extension can suppress events it owns.
func Attach(engine *snippet.Engine, m Modal, reloader Reloader) *Extension {
	x := &Extension{
		history:  engine.History(),
		modal:    m,
		cache:    engine.Cache(),
		reloader: reloader,
		tracker:  newDirectionTracker(),
		inflight: make(inflightRegistry),
	}
	x.initial = x.history.Capture()

	x.history.OnPopstate(x.handlePopstate)

	engine.OnInteraction(x.handleInteraction)
	engine.OnBefore(x.handleBefore)
	engine.OnStart(x.handleStart)
	engine.OnSuccess(x.handleSuccess)
	engine.OnComplete(x.handleComplete)
	engine.OnBuildState(x.handleBuildState)
	engine.OnRestore(x.handleRestore)

	m.OnShow(x.handleShow)
	m.OnHide(x.handleHide)
	m.OnHidden(x.handleHidden)

	return x
}

// endSession drops everything scoped to a single modal session:
// tracker state, the history downgrade, and any saved pre-open page
// states. Every close path ends here, traversal-driven ones included.
func (x *Extension) endSession() {
	x.tracker.clean()
	x.suppressHistory = false
	x.originalStates = nil
}

// Direction returns the strategy governing the current modal session.
func (x *Extension) Direction() Direction { return x.tracker.direction }

// LastState returns the most recently observed page identity, or nil
// before the first update.
func (x *Extension) LastState() *session.Snapshot { return x.lastState }

// WalkingBack reports whether the extension is mid walk-back.
func (x *Extension) WalkingBack() bool { return x.walkingBack }
