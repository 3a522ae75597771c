package storage

import "testing"

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(t.TempDir())
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestVisitLogAddAndRecent(t *testing.T) {
	vl := NewVisitLog(openTestDB(t))

	vl.Add("https://example.test/a", "A", false)
	vl.Add("https://example.test/detail", "Detail", true)

	visits := vl.Recent(10)
	if len(visits) != 2 {
		t.Fatalf("visit count = %d, want 2", len(visits))
	}
	if visits[0].URL != "https://example.test/detail" {
		t.Errorf("newest visit = %q, want the modal one", visits[0].URL)
	}
	if !visits[0].InModal {
		t.Error("modal visit should carry the in-modal flag")
	}
	if visits[1].InModal {
		t.Error("page visit should not carry the in-modal flag")
	}
}

func TestVisitLogDeduplicatesConsecutive(t *testing.T) {
	vl := NewVisitLog(openTestDB(t))

	vl.Add("https://example.test/a", "A", false)
	vl.Add("https://example.test/a", "A again", false)

	if vl.Count() != 1 {
		t.Fatalf("visit count = %d, want 1", vl.Count())
	}
	if got := vl.Recent(1)[0].Title; got != "A again" {
		t.Errorf("title = %q, want the refreshed one", got)
	}
}

func TestVisitLogSearch(t *testing.T) {
	vl := NewVisitLog(openTestDB(t))

	vl.Add("https://example.test/products", "Products", false)
	vl.Add("https://example.test/about", "About", false)

	results := vl.Search("product", 10)
	if len(results) != 1 {
		t.Fatalf("result count = %d, want 1", len(results))
	}
	if results[0].URL != "https://example.test/products" {
		t.Errorf("result = %q", results[0].URL)
	}
}

func TestVisitLogIgnoresEmptyURL(t *testing.T) {
	vl := NewVisitLog(openTestDB(t))
	vl.Add("", "nothing", false)
	if vl.Count() != 0 {
		t.Errorf("visit count = %d, want 0", vl.Count())
	}
}

func TestVisitLogClear(t *testing.T) {
	vl := NewVisitLog(openTestDB(t))
	vl.Add("https://example.test/a", "A", false)
	vl.Clear()
	if vl.Count() != 0 {
		t.Errorf("visit count = %d, want 0 after clear", vl.Count())
	}
}
