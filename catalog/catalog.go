package catalog

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Product is one catalog record. The catalog is loaded once at startup and
// read-only afterwards.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

// Heuristic widens a query to specific product-name substrings within a set
// of categories. Heuristics are data, not code: new special cases are added
// to DefaultHeuristics, not to Search.
type Heuristic struct {
	QueryKeywords []string
	Categories    []string
	NameKeywords  []string
}

// DefaultHeuristics carries the "computer accessories" special case: such
// queries match mouse/keyboard/speaker/headphone products in the
// electronics and home & office categories.
var DefaultHeuristics = []Heuristic{
	{
		QueryKeywords: []string{"computer", "accessories"},
		Categories:    []string{"electronics", "home & office"},
		NameKeywords:  []string{"mouse", "keyboard", "speaker", "headphone"},
	},
}

type Catalog struct {
	products   []Product
	byID       map[string]Product
	heuristics []Heuristic
}

// Load parses a JSON array of products. A read or parse failure yields an
// empty catalog rather than an error: dependent handlers treat "empty
// catalog" as a soft error, and the process must still come up.
func Load(path string) *Catalog {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("catalog file unreadable, serving empty catalog")
		return New(nil)
	}

	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("catalog file malformed, serving empty catalog")
		return New(nil)
	}

	log.Info().Int("products", len(products)).Str("path", path).Msg("catalog loaded")
	return New(products)
}

func New(products []Product) *Catalog {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{
		products:   products,
		byID:       byID,
		heuristics: DefaultHeuristics,
	}
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func (c *Catalog) Lookup(id string) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Categories returns the distinct category names in stable (sorted) order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{}, len(c.products))
	var categories []string
	for _, p := range c.products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories
}

// Search matches products whose concatenated name+description+category
// contains any query keyword, case-insensitively. The query has already been
// paraphrased by the language capability, so matching is deliberately
// permissive. Declarative heuristics take precedence over plain keyword
// matching when all their query keywords are present.
func (c *Catalog) Search(query string) []Product {
	queryLower := strings.ToLower(query)
	keywords := strings.Fields(queryLower)
	if len(keywords) == 0 {
		return nil
	}

	if h, ok := c.matchHeuristic(queryLower); ok {
		return c.searchByHeuristic(h)
	}

	var found []Product
	for _, p := range c.products {
		text := strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				found = append(found, p)
				break
			}
		}
	}
	return found
}

func (c *Catalog) matchHeuristic(queryLower string) (Heuristic, bool) {
	for _, h := range c.heuristics {
		all := true
		for _, kw := range h.QueryKeywords {
			if !strings.Contains(queryLower, kw) {
				all = false
				break
			}
		}
		if all {
			return h, true
		}
	}
	return Heuristic{}, false
}

func (c *Catalog) searchByHeuristic(h Heuristic) []Product {
	var found []Product
	for _, p := range c.products {
		category := strings.ToLower(p.Category)
		inCategory := false
		for _, want := range h.Categories {
			if strings.Contains(category, want) {
				inCategory = true
				break
			}
		}
		if !inCategory {
			continue
		}
		name := strings.ToLower(p.Name)
		for _, kw := range h.NameKeywords {
			if strings.Contains(name, kw) {
				found = append(found, p)
				break
			}
		}
	}
	return found
}
