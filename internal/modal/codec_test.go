package modal

import (
	"testing"

	"github.com/modsurf/modsurf/internal/session"
)

func TestBuildRecord(t *testing.T) {
	tests := []struct {
		name       string
		shown      bool
		suppressed bool
		wantNil    bool
	}{
		{"shown", true, false, false},
		{"hidden", false, false, true},
		{"suppressed", true, true, true},
		{"hidden and suppressed", false, true, true},
	}
	for _, tt := range tests {
		rec := BuildRecord(tt.shown, Forwards, "opts", tt.suppressed)
		if (rec == nil) != tt.wantNil {
			t.Errorf("%s: record = %v, want nil=%v", tt.name, rec, tt.wantNil)
			continue
		}
		if rec == nil {
			continue
		}
		if !rec.Shown || rec.Direction != Forwards || rec.Options != "opts" {
			t.Errorf("%s: record = %+v", tt.name, rec)
		}
	}
}

func TestIsModalState(t *testing.T) {
	tests := []struct {
		name string
		st   *session.State
		want bool
	}{
		{"nil state", nil, false},
		{"no payload", &session.State{}, false},
		{"foreign payload", &session.State{Ext: "something else"}, false},
		{"nil record", &session.State{Ext: (*Record)(nil)}, false},
		{"record not shown", &session.State{Ext: &Record{Shown: false}}, false},
		{"record shown", &session.State{Ext: &Record{Shown: true}}, true},
	}
	for _, tt := range tests {
		if got := IsModalState(tt.st); got != tt.want {
			t.Errorf("%s: IsModalState = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestReadStateDefaults(t *testing.T) {
	for _, st := range []*session.State{
		nil,
		{},
		{Ext: 42},
		{Ext: (*Record)(nil)},
	} {
		dir, opts := ReadState(st)
		if dir != Backwards || opts != nil {
			t.Errorf("ReadState(%v) = %q, %v; want %q, nil", st, dir, opts, Backwards)
		}
	}

	dir, opts := ReadState(&session.State{Ext: &Record{Shown: true, Direction: Forwards, Options: "o"}})
	if dir != Forwards || opts != "o" {
		t.Errorf("ReadState = %q, %v; want %q, %q", dir, opts, Forwards, "o")
	}
}

func TestDirectionFrom(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"forwards", Forwards},
		{"backwards", Backwards},
		{"", Backwards},
		{"sideways", Backwards},
	}
	for _, tt := range tests {
		if got := DirectionFrom(tt.in); got != tt.want {
			t.Errorf("DirectionFrom(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
