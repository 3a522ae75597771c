package snippet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchSendsExtraHeaders(t *testing.T) {
	var gotModal string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotModal = r.Header.Get("X-Modal-Opened")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><head><title>ok</title></head><body></body></html>"))
	}))
	defer srv.Close()

	extra := make(http.Header)
	extra.Set("X-Modal-Opened", "true")

	f := NewFetcher()
	result, err := f.Fetch(context.Background(), srv.URL, extra)
	if err != nil {
		t.Fatalf("fetching: %v", err)
	}
	if gotModal != "true" {
		t.Errorf("X-Modal-Opened = %q, want %q", gotModal, "true")
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("status = %d", result.StatusCode)
	}
	if !IsHTML(result.ContentType) {
		t.Errorf("content type = %q", result.ContentType)
	}
}

func TestFetchFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("moved"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewFetcher()
	result, err := f.Fetch(context.Background(), srv.URL+"/old", nil)
	if err != nil {
		t.Fatalf("fetching: %v", err)
	}
	if result.FinalURL != srv.URL+"/new" {
		t.Errorf("final URL = %q, want %q", result.FinalURL, srv.URL+"/new")
	}
}

func TestFetchCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher()
	if _, err := f.Fetch(ctx, srv.URL, nil); err == nil {
		t.Fatal("expected an error from the cancelled context")
	}
}
