package session

import "testing"

func newTestHistory() *History {
	h := NewHistory("https://example.test/", "Home")
	h.ReplaceState(&State{Location: "https://example.test/", Title: "Home"}, "Home", "https://example.test/")
	return h
}

func TestPushStateTruncatesForwardEntries(t *testing.T) {
	h := newTestHistory()
	h.PushState(&State{Location: "https://example.test/a"}, "A", "https://example.test/a")
	h.PushState(&State{Location: "https://example.test/b"}, "B", "https://example.test/b")
	h.Back()
	h.PushState(&State{Location: "https://example.test/c"}, "C", "https://example.test/c")

	if h.Len() != 3 {
		t.Errorf("length = %d, want 3 (forward entries dropped)", h.Len())
	}
	if h.Location() != "https://example.test/c" {
		t.Errorf("location = %q, want the new entry", h.Location())
	}
	if h.CanGoForward() {
		t.Error("forward entries should be gone after a push")
	}
}

func TestTraversalDoesNotChangeTitle(t *testing.T) {
	h := newTestHistory()
	h.PushState(&State{Location: "https://example.test/a"}, "A", "https://example.test/a")
	h.SetTitle("A")

	h.Back()
	if h.Title() != "A" {
		t.Errorf("title = %q, want %q (traversal leaves the title alone)", h.Title(), "A")
	}
	if h.Location() != "https://example.test/" {
		t.Errorf("location = %q, want the initial entry", h.Location())
	}
}

func TestGoOutOfRange(t *testing.T) {
	h := newTestHistory()
	if h.Back() {
		t.Error("back at the first entry should report failure")
	}
	if h.Forward() {
		t.Error("forward at the last entry should report failure")
	}
	if h.Go(0) {
		t.Error("a zero delta should be ignored")
	}
}

func TestStopPropagation(t *testing.T) {
	h := newTestHistory()
	h.PushState(&State{Location: "https://example.test/a"}, "A", "https://example.test/a")

	first, second := 0, 0
	h.OnPopstate(func(ev *PopstateEvent) {
		first++
		ev.StopPropagation()
	})
	h.OnPopstate(func(ev *PopstateEvent) { second++ })

	h.Back()
	if first != 1 || second != 0 {
		t.Errorf("listeners ran %d/%d times, want 1/0", first, second)
	}
}

func TestNestedTraversalIsQueued(t *testing.T) {
	h := newTestHistory()
	h.PushState(&State{Location: "https://example.test/a"}, "A", "https://example.test/a")
	h.PushState(&State{Location: "https://example.test/b"}, "B", "https://example.test/b")

	var order []string
	depth, maxDepth := 0, 0
	h.OnPopstate(func(ev *PopstateEvent) {
		depth++
		if depth > maxDepth {
			maxDepth = depth
		}
		order = append(order, ev.State.Location)
		if ev.State.Location == "https://example.test/a" {
			// A traversal issued mid-dispatch must not re-enter.
			h.Back()
		}
		depth--
	})

	h.Back()

	if maxDepth != 1 {
		t.Errorf("max dispatch depth = %d, want 1", maxDepth)
	}
	want := []string{"https://example.test/a", "https://example.test/"}
	if len(order) != len(want) {
		t.Fatalf("dispatched %d events, want %d: %v", len(order), len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, order[i], want[i])
		}
	}
	if h.Location() != "https://example.test/" {
		t.Errorf("location = %q, want the initial entry", h.Location())
	}
}

func TestReplaceStateKeepsPosition(t *testing.T) {
	h := newTestHistory()
	h.PushState(&State{Location: "https://example.test/a"}, "A", "https://example.test/a")
	h.ReplaceState(&State{Location: "https://example.test/a2"}, "A2", "https://example.test/a2")

	if h.Len() != 2 {
		t.Errorf("length = %d, want 2", h.Len())
	}
	if h.Location() != "https://example.test/a2" {
		t.Errorf("location = %q, want the replacement", h.Location())
	}
	if !h.CanGoBack() {
		t.Error("replace must not drop earlier entries")
	}
}

func TestCapture(t *testing.T) {
	h := newTestHistory()
	st := &State{Location: "https://example.test/a", Title: "A"}
	h.PushState(st, "A", "https://example.test/a")
	h.SetTitle("A")

	snap := h.Capture()
	if snap.Location != "https://example.test/a" || snap.Title != "A" || snap.State != st {
		t.Errorf("snapshot = %+v", snap)
	}
}
