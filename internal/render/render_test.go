package render

import (
	"testing"

	"github.com/modsurf/modsurf/internal/snippet"
)

func TestSnippetsRendersRegionsInOrder(t *testing.T) {
	p := &snippet.Payload{
		URL:   "https://example.test/products",
		Title: "Products",
		Snippets: map[string]string{
			"list":    `<ul><li>one</li><li>two</li></ul>`,
			"heading": `<h2>Catalog</h2>`,
		},
	}

	page := Snippets(p, 80)
	if page.Content == "" {
		t.Fatal("content should not be empty")
	}
	if page.Title != "Products" {
		t.Errorf("title = %q, want %q", page.Title, "Products")
	}
}

func TestSnippetsHarvestsModalLinks(t *testing.T) {
	p := &snippet.Payload{
		URL: "https://example.test/products",
		Snippets: map[string]string{
			"list": `<p><a href="/detail" data-modal>Detail</a> and <a href="https://other.test/">away</a></p>`,
		},
	}

	page := Snippets(p, 80)
	if len(page.Links) != 2 {
		t.Fatalf("link count = %d, want 2", len(page.Links))
	}
	first := page.Links[0]
	if first.Href != "https://example.test/detail" {
		t.Errorf("href = %q, want resolved URL", first.Href)
	}
	if !first.Has(snippet.AttrModal) {
		t.Error("data-modal attribute should survive rendering")
	}
	if first.Index != 1 || page.Links[1].Index != 2 {
		t.Errorf("indexes = %d, %d; want 1, 2", first.Index, page.Links[1].Index)
	}
	if first.InModal {
		t.Error("page-level links must not carry the in-modal mark")
	}
}

func TestFragmentMarksModalInterior(t *testing.T) {
	page := Fragment(`<p><a href="/next">Next</a></p>`, "https://example.test/detail", 60, true)
	if len(page.Links) != 1 {
		t.Fatalf("link count = %d, want 1", len(page.Links))
	}
	if !page.Links[0].InModal {
		t.Error("modal fragment links should carry the in-modal mark")
	}
}

func TestFullPageNonHTML(t *testing.T) {
	p := &snippet.Payload{
		URL:         "https://example.test/data.txt",
		ContentType: "text/plain",
		Body:        []byte("plain content"),
	}

	page, err := FullPage(p, 80)
	if err != nil {
		t.Fatalf("rendering: %v", err)
	}
	if page.Content == "" {
		t.Error("content should not be empty")
	}
}

func TestFragmentTable(t *testing.T) {
	fragment := `<table>
<thead><tr><th>Name</th><th>Value</th></tr></thead>
<tbody>
<tr><td>Foo</td><td>Bar</td></tr>
<tr><td>Baz</td><td>Qux</td></tr>
</tbody>
</table>`

	page := Fragment(fragment, "https://example.test/", 80, false)
	if page.Content == "" {
		t.Error("content should not be empty")
	}
}

func TestFragmentEmpty(t *testing.T) {
	page := Fragment("", "https://example.test/", 80, false)
	if page == nil {
		t.Fatal("page should not be nil")
	}
	if len(page.Links) != 0 {
		t.Errorf("link count = %d, want 0", len(page.Links))
	}
}
