package modal

import (
	"context"
	"testing"

	"github.com/modsurf/modsurf/internal/snippet"
)

func TestInflightStartSupersedes(t *testing.T) {
	r := make(inflightRegistry)
	a := snippet.NewAbortHandle(context.Background())
	b := snippet.NewAbortHandle(context.Background())

	r.start(snippet.ModalScope, a)
	r.start(snippet.ModalScope, b)

	if !a.Aborted() {
		t.Error("first handle should be aborted by the second start")
	}
	if b.Aborted() {
		t.Error("second handle must stay live")
	}
	if r[snippet.ModalScope] != b {
		t.Error("registry should hold the superseding handle")
	}
}

func TestInflightCancelledCompletionKeepsSuperseder(t *testing.T) {
	r := make(inflightRegistry)
	a := snippet.NewAbortHandle(context.Background())
	b := snippet.NewAbortHandle(context.Background())
	r.start(snippet.ModalScope, a)
	r.start(snippet.ModalScope, b)

	r.complete(snippet.ModalScope, a, true)
	if r[snippet.ModalScope] != b {
		t.Error("cancelled completion must not remove the live entry")
	}

	r.complete(snippet.ModalScope, b, false)
	if len(r) != 0 {
		t.Errorf("registry size = %d, want 0 after natural completion", len(r))
	}
}

func TestInflightScopesAreIndependent(t *testing.T) {
	r := make(inflightRegistry)
	page := snippet.NewAbortHandle(context.Background())
	modal := snippet.NewAbortHandle(context.Background())

	r.start(snippet.DefaultScope, page)
	r.start(snippet.ModalScope, modal)

	if page.Aborted() || modal.Aborted() {
		t.Error("requests in different scopes must not cancel each other")
	}

	r.cancel(snippet.ModalScope)
	if !modal.Aborted() {
		t.Error("cancel should abort the scoped handle")
	}
	if page.Aborted() {
		t.Error("cancel must not touch other scopes")
	}
	if _, ok := r[snippet.DefaultScope]; !ok {
		t.Error("other scopes should keep their entries")
	}
}

func TestInflightCancelEmptyScope(t *testing.T) {
	r := make(inflightRegistry)
	r.cancel(snippet.ModalScope)
	if len(r) != 0 {
		t.Errorf("registry size = %d, want 0", len(r))
	}
}
