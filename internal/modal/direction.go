package modal

import "github.com/modsurf/modsurf/internal/snippet"

// directionTracker selects and freezes the history strategy for one
// modal session. active records whether a history state was built or
// restored during the session; a close sequence with no history
// activity has nothing to reconcile.
type directionTracker struct {
	active    bool
	direction Direction
	options   any
}

func newDirectionTracker() *directionTracker {
	return &directionTracker{direction: Backwards}
}

// observe fixes direction and open-options at open time. While the
// modal is already shown, re-triggering interactions inside it leave
// both untouched; only open-time selection matters.
func (t *directionTracker) observe(el *snippet.Element, shown bool, options any) {
	if shown {
		return
	}
	declared, _ := el.Attr(snippet.AttrModalHistory)
	t.direction = DirectionFrom(declared)
	t.options = options
}

// restore overwrites direction and options from a navigated-to modal
// entry. A modal entry implies a prior state build, so history
// recording is necessarily active for this session.
func (t *directionTracker) restore(dir Direction, options any) {
	t.direction = dir
	t.options = options
	t.active = true
}

// markActive records that a history state was built this session.
func (t *directionTracker) markActive() { t.active = true }

// disable turns history reconciliation off for the rest of the
// session, making the close sequence inert.
func (t *directionTracker) disable() { t.active = false }

// clean resets the tracker to its defaults so nothing leaks into the
// next modal session.
func (t *directionTracker) clean() {
	t.active = false
	t.direction = Backwards
	t.options = nil
}
