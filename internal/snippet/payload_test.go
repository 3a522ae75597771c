package snippet

import (
	"net/http"
	"testing"
)

func htmlResult(url, body string, header http.Header) *FetchResult {
	if header == nil {
		header = make(http.Header)
	}
	return &FetchResult{
		URL:         url,
		FinalURL:    url,
		StatusCode:  200,
		ContentType: "text/html; charset=utf-8",
		Header:      header,
		Body:        []byte(body),
	}
}

func TestParsePayloadExtractsSnippets(t *testing.T) {
	body := `<html><head><title> Products </title></head><body>
		<div data-snippet="list"><ul><li>one</li></ul></div>
		<div data-snippet id="detail"><p>two</p></div>
		<div data-snippet></div>
	</body></html>`

	p, err := ParsePayload(htmlResult("https://example.test/products", body, nil))
	if err != nil {
		t.Fatalf("parsing payload: %v", err)
	}

	if p.Title != "Products" {
		t.Errorf("title = %q, want %q", p.Title, "Products")
	}
	if len(p.Snippets) != 2 {
		t.Fatalf("snippet count = %d, want 2: %v", len(p.Snippets), p.Snippets)
	}
	if _, ok := p.Snippets["list"]; !ok {
		t.Error("missing snippet keyed by data-snippet value")
	}
	if _, ok := p.Snippets["detail"]; !ok {
		t.Error("missing snippet keyed by id fallback")
	}
	if p.CloseModal {
		t.Error("close-modal should be unset without a signal")
	}
	if !p.HasSnippets() {
		t.Error("HasSnippets should report true")
	}
}

func TestParsePayloadCloseModalSignals(t *testing.T) {
	marker := `<html><body><div data-modal-close></div></body></html>`
	p, err := ParsePayload(htmlResult("https://example.test/", marker, nil))
	if err != nil {
		t.Fatalf("parsing payload: %v", err)
	}
	if !p.CloseModal {
		t.Error("element marker should set close-modal")
	}

	header := make(http.Header)
	header.Set(CloseModalHeader, "1")
	p, err = ParsePayload(htmlResult("https://example.test/", "<html><body></body></html>", header))
	if err != nil {
		t.Fatalf("parsing payload: %v", err)
	}
	if !p.CloseModal {
		t.Error("response header should set close-modal")
	}
}

func TestParsePayloadNonHTML(t *testing.T) {
	result := &FetchResult{
		URL:         "https://example.test/data.json",
		FinalURL:    "https://example.test/data.json",
		ContentType: "application/json",
		Header:      make(http.Header),
		Body:        []byte(`{"ok":true}`),
	}
	p, err := ParsePayload(result)
	if err != nil {
		t.Fatalf("parsing payload: %v", err)
	}
	if p.HasSnippets() || p.Title != "" || len(p.Links) != 0 {
		t.Errorf("non-HTML payload should carry only the raw body: %+v", p)
	}
	if string(p.Body) != `{"ok":true}` {
		t.Errorf("body = %q", p.Body)
	}
}

func TestHarvestLinks(t *testing.T) {
	fragment := `<div>
		<a href="/detail" data-modal data-modal-history="forwards">Detail</a>
		<a href="https://other.test/x">Elsewhere</a>
		<a href="#section">Anchor</a>
		<a href="">Empty</a>
	</div>`

	links := HarvestLinks(fragment, "https://example.test/products", true)
	if len(links) != 2 {
		t.Fatalf("link count = %d, want 2: %+v", len(links), links)
	}

	first := links[0]
	if first.Href != "https://example.test/detail" {
		t.Errorf("href = %q, want resolved absolute URL", first.Href)
	}
	if first.Text != "Detail" {
		t.Errorf("text = %q, want %q", first.Text, "Detail")
	}
	if !first.Has(AttrModal) {
		t.Error("data-modal attribute should be carried over")
	}
	if v, _ := first.Attr(AttrModalHistory); v != "forwards" {
		t.Errorf("data-modal-history = %q, want %q", v, "forwards")
	}
	if !first.InModal {
		t.Error("harvested element should carry the in-modal mark")
	}
	if first.Index != 1 || links[1].Index != 2 {
		t.Errorf("indexes = %d, %d; want 1, 2", first.Index, links[1].Index)
	}

	if links[1].Href != "https://other.test/x" {
		t.Errorf("absolute href = %q, should pass through untouched", links[1].Href)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"example.test", "https://example.test"},
		{"  example.test  ", "https://example.test"},
		{"http://example.test", "http://example.test"},
		{"https://example.test/a", "https://example.test/a"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsHTML(t *testing.T) {
	if !IsHTML("text/html; charset=utf-8") {
		t.Error("text/html should be recognized")
	}
	if !IsHTML("application/xhtml+xml") {
		t.Error("xhtml should be recognized")
	}
	if IsHTML("application/json") {
		t.Error("json is not HTML")
	}
}
