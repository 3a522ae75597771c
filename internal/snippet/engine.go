// Package snippet implements the partial-content update engine: it
// fetches pages, extracts snippet regions, and replays content on
// history traversal. Extensions observe and steer every request
// through lifecycle hooks.
package snippet

import (
	"context"
	"net/http"

	"github.com/modsurf/modsurf/internal/session"
)

// InteractionEvent fires when a navigation is triggered by an element.
// Hooks may write flags back into Options.
type InteractionEvent struct {
	Element *Element
	Options *Options
}

// BeforeEvent fires before a request's headers are finalized.
type BeforeEvent struct {
	Options *Options
	Header  http.Header
}

// StartEvent fires when a request becomes in-flight, carrying its
// cancellation handle.
type StartEvent struct {
	Options *Options
	Handle  *AbortHandle
}

// SuccessEvent fires after a payload has been applied.
type SuccessEvent struct {
	Options *Options
	Payload *Payload
}

// CompleteEvent fires when a request finishes, naturally or by
// cancellation.
type CompleteEvent struct {
	Options   *Options
	Handle    *AbortHandle
	Cancelled bool
}

// BuildStateEvent fires while a history state is being assembled,
// before it is persisted. Hooks write their payload into State.Ext.
type BuildStateEvent struct {
	Options *Options
	State   *session.State
}

// RestoreEvent fires when a traversed-to state is about to be
// restored, before cache lookup. Hooks may mark the fresh Options.
type RestoreEvent struct {
	State   *session.State
	Options *Options
}

// Engine coordinates fetches, snippet application, and history
// integration. It is confined to one logical thread of control: only
// Fetch may run on a goroutine, everything else happens on the event
// loop.
type Engine struct {
	fetcher *Fetcher
	history *session.History
	cache   *Cache

	onInteraction []func(*InteractionEvent)
	onBefore      []func(*BeforeEvent)
	onStart       []func(*StartEvent)
	onSuccess     []func(*SuccessEvent)
	onComplete    []func(*CompleteEvent)
	onBuildState  []func(*BuildStateEvent)
	onRestore     []func(*RestoreEvent)
}

// NewEngine creates an engine over the given fetcher, session history
// and payload cache.
func NewEngine(fetcher *Fetcher, history *session.History, cache *Cache) *Engine {
	return &Engine{fetcher: fetcher, history: history, cache: cache}
}

// History returns the session history the engine records into.
func (e *Engine) History() *session.History { return e.history }

// Cache returns the payload cache collaborator.
func (e *Engine) Cache() *Cache { return e.cache }

// OnInteraction registers an interaction hook.
func (e *Engine) OnInteraction(fn func(*InteractionEvent)) {
	e.onInteraction = append(e.onInteraction, fn)
}

// OnBefore registers a hook run before request headers are finalized.
func (e *Engine) OnBefore(fn func(*BeforeEvent)) { e.onBefore = append(e.onBefore, fn) }

// OnStart registers a hook run when a request becomes in-flight.
func (e *Engine) OnStart(fn func(*StartEvent)) { e.onStart = append(e.onStart, fn) }

// OnSuccess registers a hook run after a payload was applied.
func (e *Engine) OnSuccess(fn func(*SuccessEvent)) { e.onSuccess = append(e.onSuccess, fn) }

// OnComplete registers a hook run when a request finishes.
func (e *Engine) OnComplete(fn func(*CompleteEvent)) { e.onComplete = append(e.onComplete, fn) }

// OnBuildState registers a hook run while history states are built.
func (e *Engine) OnBuildState(fn func(*BuildStateEvent)) {
	e.onBuildState = append(e.onBuildState, fn)
}

// OnRestore registers a hook run when a traversed-to state is restored.
func (e *Engine) OnRestore(fn func(*RestoreEvent)) { e.onRestore = append(e.onRestore, fn) }

// Request is one prepared content fetch. Fetch may run on a
// goroutine; Apply must run back on the event loop.
type Request struct {
	Options *Options
	Handle  *AbortHandle
	Header  http.Header
}

// NewRequest prepares a request for an element-triggered navigation,
// running the interaction, before and start hooks.
func (e *Engine) NewRequest(el *Element) *Request {
	opts := &Options{URL: el.Href, Element: el, History: true}
	if v, ok := el.Attr(AttrHistory); ok && v == "off" {
		opts.History = false
	}
	if el.Has(AttrModalSuppress) {
		opts.ModalSuppress = true
	}
	for _, fn := range e.onInteraction {
		fn(&InteractionEvent{Element: el, Options: opts})
	}
	return e.prepare(opts)
}

// Visit prepares a request for a direct navigation (no triggering
// element), such as an address-bar entry.
func (e *Engine) Visit(url string) *Request {
	return e.prepare(&Options{URL: NormalizeURL(url), History: true})
}

func (e *Engine) prepare(opts *Options) *Request {
	header := make(http.Header)
	for _, fn := range e.onBefore {
		fn(&BeforeEvent{Options: opts, Header: header})
	}
	r := &Request{
		Options: opts,
		Handle:  NewAbortHandle(context.Background()),
		Header:  header,
	}
	for _, fn := range e.onStart {
		fn(&StartEvent{Options: opts, Handle: r.Handle})
	}
	return r
}

// Fetch performs the network work for a request. Safe to call from a
// goroutine; it only touches the handle's context.
func (e *Engine) Fetch(r *Request) (*Payload, error) {
	result, err := e.fetcher.Fetch(r.Handle.Context(), r.Options.URL, r.Header)
	if err != nil {
		return nil, err
	}
	return ParsePayload(result)
}

// Apply finalizes a finished request on the event loop. A cancelled
// request only fires its complete hook: its payload is discarded and
// no history entry is created. For natural completions the payload is
// applied, a history entry is pushed when the request asked for one,
// and the cache is updated.
func (e *Engine) Apply(r *Request, p *Payload, fetchErr error) error {
	cancelled := r.Handle.Aborted()
	defer func() {
		for _, fn := range e.onComplete {
			fn(&CompleteEvent{Options: r.Options, Handle: r.Handle, Cancelled: cancelled})
		}
	}()
	if cancelled {
		return nil
	}
	r.Handle.Release()
	if fetchErr != nil {
		return fetchErr
	}

	if p.Title != "" {
		e.history.SetTitle(p.Title)
	}
	e.cache.Add(p.URL, p)

	if r.Options.History {
		st := &session.State{Location: p.URL, Title: p.Title}
		if e.cache.Enabled() {
			st.Snippets = p.Snippets
		}
		for _, fn := range e.onBuildState {
			fn(&BuildStateEvent{Options: r.Options, State: st})
		}
		if r.Options.Replace {
			e.history.ReplaceState(st, p.Title, p.URL)
		} else {
			e.history.PushState(st, p.Title, p.URL)
		}
	}

	for _, fn := range e.onSuccess {
		fn(&SuccessEvent{Options: r.Options, Payload: p})
	}
	return nil
}

// Restore applies a traversed-to state after a popstate. When the
// cache holds the target's payload, or the state itself carries
// snippets, content is applied immediately and nil is returned.
// Otherwise the returned request must be fetched and applied by the
// caller; until then the page keeps its stale content.
func (e *Engine) Restore(st *session.State) *Request {
	opts := &Options{URL: st.Location, Restore: true}
	for _, fn := range e.onRestore {
		fn(&RestoreEvent{State: st, Options: opts})
	}

	if e.cache.Enabled() {
		p, ok := e.cache.Get(st.Location)
		if !ok && len(st.Snippets) > 0 {
			p = &Payload{URL: st.Location, Title: st.Title, Snippets: st.Snippets}
			ok = true
		}
		if ok {
			if p.Title != "" {
				e.history.SetTitle(p.Title)
			}
			for _, fn := range e.onSuccess {
				fn(&SuccessEvent{Options: opts, Payload: p})
			}
			return nil
		}
	}

	return e.prepare(opts)
}
