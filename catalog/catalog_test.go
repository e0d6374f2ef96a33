package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func sampleProducts() []Product {
	return []Product{
		{ID: "P1", Name: "Wireless Mouse", Description: "Ergonomic wireless mouse", Category: "Electronics", Price: 19.99},
		{ID: "P2", Name: "Mechanical Keyboard", Description: "Clicky keys", Category: "Home & Office", Price: 89.50},
		{ID: "P3", Name: "Desk Lamp", Description: "LED lamp", Category: "Home & Office", Price: 24.00},
		{ID: "P4", Name: "Go Programming", Description: "A book about Go", Category: "Books", Price: 35.00},
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	c := New(sampleProducts())
	p, ok := c.Lookup("P1")
	if !ok {
		t.Fatal("expected P1 to exist")
	}
	if p.Name != "Wireless Mouse" {
		t.Fatalf("unexpected name: %s", p.Name)
	}
	if _, ok := c.Lookup("missing"); ok {
		t.Fatal("expected missing id to be absent")
	}
}

func TestCategoriesDistinctSorted(t *testing.T) {
	t.Parallel()

	c := New(sampleProducts())
	categories := c.Categories()
	want := []string{"Books", "Electronics", "Home & Office"}
	if len(categories) != len(want) {
		t.Fatalf("expected %d categories, got %v", len(want), categories)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, categories)
		}
	}
}

func TestSearchKeywordMatch(t *testing.T) {
	t.Parallel()

	c := New(sampleProducts())

	found := c.Search("lamp")
	if len(found) != 1 || found[0].ID != "P3" {
		t.Fatalf("unexpected results: %v", found)
	}

	// any keyword is enough
	found = c.Search("mouse xyzzy")
	if len(found) != 1 || found[0].ID != "P1" {
		t.Fatalf("unexpected results: %v", found)
	}

	if found := c.Search("   "); found != nil {
		t.Fatalf("expected nil for blank query, got %v", found)
	}
}

func TestSearchAccessoriesHeuristic(t *testing.T) {
	t.Parallel()

	c := New(sampleProducts())
	found := c.Search("computer accessories")
	if len(found) != 2 {
		t.Fatalf("expected mouse+keyboard, got %v", found)
	}
	ids := map[string]bool{found[0].ID: true, found[1].ID: true}
	if !ids["P1"] || !ids["P2"] {
		t.Fatalf("unexpected heuristic results: %v", found)
	}
}

func TestLoadMissingFileYieldsEmptyCatalog(t *testing.T) {
	t.Parallel()

	c := Load(filepath.Join(t.TempDir(), "absent.json"))
	if c.Len() != 0 {
		t.Fatalf("expected empty catalog, got %d products", c.Len())
	}
}

func TestLoadMalformedFileYieldsEmptyCatalog(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "products.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	c := Load(path)
	if c.Len() != 0 {
		t.Fatalf("expected empty catalog, got %d products", c.Len())
	}
}

func TestLoadValidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "products.json")
	payload := `[{"id":"P1","name":"Mouse","description":"d","category":"Electronics","price":19.99}]`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}
	c := Load(path)
	if c.Len() != 1 {
		t.Fatalf("expected 1 product, got %d", c.Len())
	}
}
