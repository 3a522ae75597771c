package snippet

import (
	"errors"
	"testing"

	"github.com/modsurf/modsurf/internal/session"
)

func newTestEngine(t *testing.T, cacheEnabled bool) (*Engine, *session.History) {
	t.Helper()
	history := session.NewHistory("https://example.test/", "Home")
	cache, err := NewCache(8, cacheEnabled)
	if err != nil {
		t.Fatalf("creating cache: %v", err)
	}
	return NewEngine(NewFetcher(), history, cache), history
}

func testPayload(url, title string) *Payload {
	return &Payload{
		URL:      url,
		Title:    title,
		Snippets: map[string]string{"content": "<p>" + title + "</p>"},
	}
}

func TestApplyPushesHistoryAndTitle(t *testing.T) {
	e, history := newTestEngine(t, true)

	req := e.Visit("https://example.test/a")
	if err := e.Apply(req, testPayload("https://example.test/a", "A"), nil); err != nil {
		t.Fatalf("applying: %v", err)
	}

	if history.Len() != 2 {
		t.Errorf("history length = %d, want 2", history.Len())
	}
	if history.Location() != "https://example.test/a" {
		t.Errorf("location = %q", history.Location())
	}
	if history.Title() != "A" {
		t.Errorf("title = %q, want %q", history.Title(), "A")
	}
	st := history.State()
	if st == nil || st.Location != "https://example.test/a" {
		t.Fatalf("state = %+v", st)
	}
	if len(st.Snippets) == 0 {
		t.Error("state should carry snippets while the cache is enabled")
	}
}

func TestApplyWithCacheDisabledOmitsStateSnippets(t *testing.T) {
	e, history := newTestEngine(t, false)

	req := e.Visit("https://example.test/a")
	if err := e.Apply(req, testPayload("https://example.test/a", "A"), nil); err != nil {
		t.Fatalf("applying: %v", err)
	}
	if st := history.State(); st.Snippets != nil {
		t.Error("state should not carry snippets while the cache is disabled")
	}
}

func TestApplyReplaceOverwritesCurrentEntry(t *testing.T) {
	e, history := newTestEngine(t, true)

	req := e.Visit("https://example.test/")
	req.Options.Replace = true
	if err := e.Apply(req, testPayload("https://example.test/", "Home"), nil); err != nil {
		t.Fatalf("applying: %v", err)
	}

	if history.Len() != 1 {
		t.Errorf("history length = %d, want 1", history.Len())
	}
	if history.State() == nil {
		t.Error("initial entry should now carry a state")
	}
}

func TestApplyCancelledDiscardsEverything(t *testing.T) {
	e, history := newTestEngine(t, true)

	completes := 0
	var sawCancelled bool
	e.OnComplete(func(ev *CompleteEvent) {
		completes++
		sawCancelled = ev.Cancelled
	})
	successes := 0
	e.OnSuccess(func(ev *SuccessEvent) { successes++ })

	req := e.Visit("https://example.test/a")
	req.Handle.Abort()
	if err := e.Apply(req, testPayload("https://example.test/a", "A"), nil); err != nil {
		t.Fatalf("applying: %v", err)
	}

	if history.Len() != 1 || history.Title() != "Home" {
		t.Error("cancelled request must not touch history or title")
	}
	if successes != 0 {
		t.Error("cancelled request must not fire success hooks")
	}
	if completes != 1 || !sawCancelled {
		t.Errorf("complete hooks = %d (cancelled=%v), want one cancelled completion", completes, sawCancelled)
	}
}

func TestApplyFetchErrorStillCompletes(t *testing.T) {
	e, history := newTestEngine(t, true)

	completes := 0
	e.OnComplete(func(ev *CompleteEvent) { completes++ })

	req := e.Visit("https://example.test/a")
	wantErr := errors.New("connection refused")
	if err := e.Apply(req, nil, wantErr); !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want %v", err, wantErr)
	}
	if completes != 1 {
		t.Errorf("complete hooks = %d, want 1", completes)
	}
	if history.Len() != 1 {
		t.Error("failed request must not create a history entry")
	}
}

func TestNewRequestHonorsHistoryAttr(t *testing.T) {
	e, _ := newTestEngine(t, true)

	el := &Element{Href: "https://example.test/a"}
	el.SetAttr(AttrHistory, "off")
	req := e.NewRequest(el)
	if req.Options.History {
		t.Error("data-history=off should disable the history entry")
	}

	el2 := &Element{Href: "https://example.test/b"}
	el2.SetAttr(AttrModalSuppress, "")
	req2 := e.NewRequest(el2)
	if !req2.Options.ModalSuppress {
		t.Error("data-modal-suppress should set the suppress flag")
	}
	if !req2.Options.History {
		t.Error("history stays on by default")
	}
}

func TestHookOrderForElementRequest(t *testing.T) {
	e, _ := newTestEngine(t, true)

	var order []string
	e.OnInteraction(func(ev *InteractionEvent) { order = append(order, "interaction") })
	e.OnBefore(func(ev *BeforeEvent) { order = append(order, "before") })
	e.OnStart(func(ev *StartEvent) { order = append(order, "start") })

	e.NewRequest(&Element{Href: "https://example.test/a"})

	want := []string{"interaction", "before", "start"}
	if len(order) != len(want) {
		t.Fatalf("hooks = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("hooks = %v, want %v", order, want)
		}
	}
}

func TestBuildStateRunsBeforePush(t *testing.T) {
	e, history := newTestEngine(t, true)

	e.OnBuildState(func(ev *BuildStateEvent) {
		if history.Len() != 1 {
			t.Error("state build must happen before the entry is pushed")
		}
		ev.State.Ext = "tagged"
	})
	e.OnSuccess(func(ev *SuccessEvent) {
		if history.Len() != 2 {
			t.Error("success hooks must run after the entry is pushed")
		}
	})

	req := e.Visit("https://example.test/a")
	if err := e.Apply(req, testPayload("https://example.test/a", "A"), nil); err != nil {
		t.Fatalf("applying: %v", err)
	}
	if history.State().Ext != "tagged" {
		t.Error("hook-written extension payload should be persisted")
	}
}

func TestRestoreFromCache(t *testing.T) {
	e, history := newTestEngine(t, true)

	req := e.Visit("https://example.test/a")
	if err := e.Apply(req, testPayload("https://example.test/a", "A"), nil); err != nil {
		t.Fatalf("applying: %v", err)
	}
	history.SetTitle("elsewhere")

	restores, successes := 0, 0
	e.OnRestore(func(ev *RestoreEvent) {
		restores++
		if !ev.Options.Restore {
			t.Error("restore options should carry the restore mark")
		}
	})
	e.OnSuccess(func(ev *SuccessEvent) { successes++ })

	if pending := e.Restore(history.State()); pending != nil {
		t.Fatal("cache hit should restore immediately")
	}
	if restores != 1 || successes != 1 {
		t.Errorf("restore/success hooks = %d/%d, want 1/1", restores, successes)
	}
	if history.Title() != "A" {
		t.Errorf("title = %q, want %q", history.Title(), "A")
	}
}

func TestRestoreFromStateSnippets(t *testing.T) {
	e, history := newTestEngine(t, true)

	st := &session.State{
		Location: "https://example.test/gone",
		Title:    "Gone",
		Snippets: map[string]string{"content": "<p>saved</p>"},
	}

	var got *Payload
	e.OnSuccess(func(ev *SuccessEvent) { got = ev.Payload })

	if pending := e.Restore(st); pending != nil {
		t.Fatal("state-carried snippets should restore immediately")
	}
	if got == nil || got.Snippets["content"] != "<p>saved</p>" {
		t.Errorf("payload = %+v", got)
	}
	if history.Title() != "Gone" {
		t.Errorf("title = %q, want %q", history.Title(), "Gone")
	}
}

func TestRestoreColdReturnsPendingRequest(t *testing.T) {
	for _, cacheEnabled := range []bool{true, false} {
		e, _ := newTestEngine(t, cacheEnabled)

		pending := e.Restore(&session.State{Location: "https://example.test/cold"})
		if pending == nil {
			t.Fatalf("cache=%v: cold restore should return a request to fetch", cacheEnabled)
		}
		if !pending.Options.Restore {
			t.Errorf("cache=%v: pending request should carry the restore mark", cacheEnabled)
		}
		if pending.Options.URL != "https://example.test/cold" {
			t.Errorf("cache=%v: url = %q", cacheEnabled, pending.Options.URL)
		}
		if pending.Handle == nil {
			t.Errorf("cache=%v: pending request needs a cancellation handle", cacheEnabled)
		}
	}
}

func TestCacheDisabledNeverStores(t *testing.T) {
	cache, err := NewCache(8, false)
	if err != nil {
		t.Fatalf("creating cache: %v", err)
	}
	cache.Add("https://example.test/a", &Payload{URL: "https://example.test/a"})
	if _, ok := cache.Get("https://example.test/a"); ok {
		t.Error("disabled cache must not hit")
	}
	if cache.Enabled() {
		t.Error("Enabled should report false")
	}

	var nilCache *Cache
	if nilCache.Enabled() {
		t.Error("nil cache should read as disabled")
	}
}

func TestOptionsScope(t *testing.T) {
	if (&Options{}).Scope() != DefaultScope {
		t.Error("plain options should use the default scope")
	}
	if (&Options{Modal: true}).Scope() != ModalScope {
		t.Error("modal options should use the modal scope")
	}
}
