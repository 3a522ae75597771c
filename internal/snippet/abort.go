package snippet

import "context"

// AbortHandle is the cancellation handle for one in-flight request.
// Abort cancels the request's context and marks the handle so that
// completion processing can tell a superseded request from one that
// finished naturally. All mutation happens on the event loop; the
// context alone crosses into the fetch goroutine.
type AbortHandle struct {
	ctx     context.Context
	cancel  context.CancelFunc
	aborted bool
}

// NewAbortHandle creates a handle rooted in the given parent context.
func NewAbortHandle(parent context.Context) *AbortHandle {
	ctx, cancel := context.WithCancel(parent)
	return &AbortHandle{ctx: ctx, cancel: cancel}
}

// Abort cancels the request.
func (a *AbortHandle) Abort() {
	a.aborted = true
	a.cancel()
}

// Aborted reports whether the request was cancelled.
func (a *AbortHandle) Aborted() bool { return a.aborted }

// Context returns the context governing the request's network work.
func (a *AbortHandle) Context() context.Context { return a.ctx }

// Release frees the handle's resources after natural completion.
func (a *AbortHandle) Release() { a.cancel() }
